package parser

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/dgallion1/pdfchunk/internal/doctree"
	pdflib "github.com/ledongthuc/pdf"
)

// TextMode selects how page text is read from a PDF.
type TextMode string

const (
	// TextModeRows groups text runs by baseline and emits one line per row.
	TextModeRows TextMode = "rows"
	// TextModePlain concatenates text runs in content-stream order.
	TextModePlain TextMode = "plain"
)

// ParseTextMode validates a text mode name. The empty string means rows.
func ParseTextMode(s string) (TextMode, error) {
	switch TextMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", TextModeRows:
		return TextModeRows, nil
	case TextModePlain:
		return TextModePlain, nil
	}
	return "", fmt.Errorf("unknown pdf text mode %q", s)
}

// PDFLoader handles PDF files. It tries the Go library first,
// then falls back to pdftotext if enabled and available.
type PDFLoader struct {
	FallbackPdftotext bool
	Mode              TextMode
}

func (p *PDFLoader) Load(data []byte, filename string) (doctree.Document, error) {
	doc, err := newPDFDocument(bytes.NewReader(data), int64(len(data)), filename, p.Mode, nil)
	if err == nil {
		return doc, nil
	}
	if !p.FallbackPdftotext {
		return nil, err
	}
	pages, ferr := pdftotextBytes(data)
	if ferr != nil {
		return nil, err
	}
	return doctree.NewMemDocument(filename, pages...), nil
}

func openPDFFile(path string, opts Options) (doctree.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	name := filepath.Base(path)
	doc, err := newPDFDocument(f, fi.Size(), name, opts.TextMode, f)
	if err == nil {
		return doc, nil
	}
	f.Close()

	if opts.FallbackPdftotext {
		if pages, ferr := extractPdftotext(path); ferr == nil {
			return doctree.NewMemDocument(name, pages...), nil
		}
	}
	return nil, err
}

// PDFDocument reads page text lazily from a parsed PDF.
type PDFDocument struct {
	name   string
	reader *pdflib.Reader
	pages  int
	mode   TextMode
	closer io.Closer
}

func newPDFDocument(ra io.ReaderAt, size int64, name string, mode TextMode, closer io.Closer) (doc *PDFDocument, err error) {
	// The reader panics on some malformed inputs instead of returning errors.
	defer func() {
		if r := recover(); r != nil {
			doc = nil
			err = unreadable("pdf", fmt.Errorf("%v", r))
		}
	}()

	reader, err := pdflib.NewReader(ra, size)
	if err != nil {
		return nil, unreadable("pdf", err)
	}
	n := reader.NumPage()
	if n <= 0 {
		return nil, unreadable("pdf", errors.New("document has no pages"))
	}
	return &PDFDocument{
		name:   name,
		reader: reader,
		pages:  n,
		mode:   mode,
		closer: closer,
	}, nil
}

func (d *PDFDocument) Filename() string { return d.name }

func (d *PDFDocument) PageCount() int { return d.pages }

// PageText extracts the text of page n. Pages missing from the page tree
// read as empty.
func (d *PDFDocument) PageText(n int) (text string, err error) {
	if n < 1 || n > d.pages {
		return "", &doctree.PageNotFoundError{Page: n, TotalPages: d.pages}
	}
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = unreadable(fmt.Sprintf("pdf page %d", n), fmt.Errorf("%v", r))
		}
	}()

	page := d.reader.Page(n)
	if page.V.IsNull() {
		return "", nil
	}
	if d.mode == TextModePlain {
		text, err = page.GetPlainText(nil)
	} else {
		text, err = rowText(page)
	}
	if err != nil {
		return "", unreadable(fmt.Sprintf("pdf page %d", n), err)
	}
	return text, nil
}

// Close releases the underlying file, if any. It is safe to call twice.
func (d *PDFDocument) Close() error {
	if d.closer == nil {
		return nil
	}
	err := d.closer.Close()
	d.closer = nil
	return err
}

// rowText renders a page top to bottom, one line per text row.
func rowText(page pdflib.Page) (string, error) {
	rows, err := page.GetTextByRow()
	if err != nil {
		return "", err
	}
	var buf strings.Builder
	for i, row := range rows {
		if i > 0 {
			buf.WriteByte('\n')
		}
		for _, t := range row.Content {
			buf.WriteString(t.S)
		}
	}
	return buf.String(), nil
}

func pdftotextBytes(data []byte) ([]string, error) {
	// pdftotext only reads from disk.
	tmp, err := os.CreateTemp("", "pdfchunk-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("close temp file: %w", err)
	}
	return extractPdftotext(tmpPath)
}

func extractPdftotext(path string) ([]string, error) {
	cmd := exec.Command("pdftotext", "-layout", "-enc", "UTF-8", path, "-")
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("pdftotext: %w", err)
	}
	return splitPages(string(out)), nil
}

// splitPages splits pdftotext output on form feeds. Every page ends with
// one, so the empty piece after the last is dropped.
func splitPages(text string) []string {
	pages := strings.Split(text, "\f")
	if len(pages) > 1 && pages[len(pages)-1] == "" {
		pages = pages[:len(pages)-1]
	}
	return pages
}
