// Package export renders assembled records as JSON or CSV.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dgallion1/pdfchunk/internal/assemble"
	"github.com/dgallion1/pdfchunk/internal/doctree"
)

// Format is an export encoding.
type Format string

const (
	JSON Format = "json"
	CSV  Format = "csv"
)

// ParseFormat validates a format selector. The empty string means JSON.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", JSON:
		return JSON, nil
	case CSV:
		return CSV, nil
	}
	return "", &doctree.UnsupportedFormatError{Format: s}
}

// ContentType returns the HTTP media type for f.
func (f Format) ContentType() string {
	if f == CSV {
		return "text/csv; charset=utf-8"
	}
	return "application/json"
}

// Ext returns the file extension for f, without the dot.
func (f Format) Ext() string { return string(f) }

// Filename derives the download name for an export of source at g.
func Filename(source string, g doctree.Granularity, f Format) string {
	stem := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	if stem == "" || stem == "." {
		stem = "document"
	}
	var suffix string
	switch g.Kind {
	case doctree.KindPage:
		suffix = fmt.Sprintf("page_%d", g.Page)
	case doctree.KindWhole:
		suffix = "whole_document"
	case doctree.KindLines:
		suffix = "lines"
	case doctree.KindSentences:
		suffix = "sentences"
	default:
		suffix = "extracted"
	}
	return stem + "_" + suffix + "." + f.Ext()
}

// envelope wraps multi-record exports. Exactly one of the unit totals is set
// for line and sentence exports; page exports carry neither.
type envelope struct {
	Filename       string           `json:"filename"`
	TotalPages     int              `json:"total_pages"`
	TotalLines     *int             `json:"total_lines,omitempty"`
	TotalSentences *int             `json:"total_sentences,omitempty"`
	Data           []doctree.Record `json:"data"`
}

// Write encodes res to w in format f.
func Write(w io.Writer, res *assemble.Result, f Format) error {
	switch f {
	case JSON:
		return writeJSON(w, res)
	case CSV:
		return writeCSV(w, res)
	}
	return &doctree.UnsupportedFormatError{Format: string(f)}
}

// Bytes encodes res in format f.
func Bytes(res *assemble.Result, f Format) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, res, f); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeJSON(w io.Writer, res *assemble.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)

	if res.Granularity.Single() {
		if len(res.Records) != 1 {
			return fmt.Errorf("export %s: expected 1 record, got %d", res.Granularity, len(res.Records))
		}
		return enc.Encode(res.Records[0])
	}

	env := envelope{
		Filename:   res.Filename,
		TotalPages: res.TotalPages,
		Data:       res.Records,
	}
	if env.Data == nil {
		env.Data = []doctree.Record{}
	}
	n := len(env.Data)
	switch res.Granularity.Kind {
	case doctree.KindLines:
		env.TotalLines = &n
	case doctree.KindSentences:
		env.TotalSentences = &n
	}
	return enc.Encode(env)
}

func writeCSV(w io.Writer, res *assemble.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(doctree.Columns(res.Granularity.Kind)); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for i, rec := range res.Records {
		if err := cw.Write(rec.Values()); err != nil {
			return fmt.Errorf("write csv row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}
