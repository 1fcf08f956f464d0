package parser

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/dgallion1/pdfchunk/internal/doctree"
)

// TextLoader handles plain text files. Form feeds separate pages.
type TextLoader struct{}

func (p *TextLoader) Load(data []byte, filename string) (doctree.Document, error) {
	if !utf8.Valid(data) {
		return nil, unreadable("text", errors.New("content is not valid UTF-8"))
	}
	text := strings.TrimSuffix(string(data), "\f")
	return doctree.NewMemDocument(filename, strings.Split(text, "\f")...), nil
}
