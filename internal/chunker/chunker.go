package chunker

import (
	"strings"
	"unicode"
)

// DefaultTerminators is the punctuation set that closes a sentence unit.
// Comma and colon are included so translation segments stay short.
const DefaultTerminators = ".!?;:,"

// minWideSpace is the shortest whitespace run treated as a unit boundary.
const minWideSpace = 2

// Config controls sentence segmentation.
type Config struct {
	Terminators string // Characters that end a unit; empty means DefaultTerminators.
}

// DefaultConfig returns the default segmentation config.
func DefaultConfig() Config {
	return Config{Terminators: DefaultTerminators}
}

// SplitLines splits raw page text on line breaks, trims each line and drops
// the ones left empty.
func SplitLines(text string) []string {
	var lines []string
	for _, line := range strings.FieldsFunc(text, isLineBreak) {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func isLineBreak(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f', '\u0085', '\u2028', '\u2029':
		return true
	}
	return false
}

// SplitSentences splits text with the default terminator set.
func SplitSentences(text string) []string {
	return DefaultConfig().SplitSentences(text)
}

// SplitSentences splits text into sentence-like units in a single pass.
//
// A unit ends right after a terminator, which stays on the unit, or at a run
// of two or more whitespace characters, which belongs to no unit. Units are
// trimmed and empty ones are dropped.
func (c Config) SplitSentences(text string) []string {
	terms := c.Terminators
	if terms == "" {
		terms = DefaultTerminators
	}

	runes := []rune(text)
	var units []string
	var current strings.Builder

	flush := func() {
		if u := strings.TrimSpace(current.String()); u != "" {
			units = append(units, u)
		}
		current.Reset()
	}

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if strings.ContainsRune(terms, r) {
			current.WriteRune(r)
			flush()
			continue
		}
		if unicode.IsSpace(r) {
			end := i
			for end < len(runes) && unicode.IsSpace(runes[end]) {
				end++
			}
			if end-i >= minWideSpace {
				flush()
				i = end - 1
				continue
			}
		}
		current.WriteRune(r)
	}
	flush()

	return units
}
