package doctree

import (
	"context"
	"fmt"
)

// WholeDocumentSeparator joins page texts when a document is exported as a
// single record.
const WholeDocumentSeparator = "\n\n"

// Document is an opened, page-addressable source document.
// Pages are 1-indexed. Close must be called on every exit path.
type Document interface {
	Filename() string
	PageCount() int
	PageText(n int) (string, error)
	Close() error
}

// Page is the raw text of one page.
type Page struct {
	Number int    // 1-indexed
	Text   string // As extracted; may be empty
}

// EachPage visits the pages of doc in order, stopping at the first read
// error or when ctx is done.
func EachPage(ctx context.Context, doc Document, fn func(Page)) error {
	for n := 1; n <= doc.PageCount(); n++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		text, err := doc.PageText(n)
		if err != nil {
			return fmt.Errorf("read page %d: %w", n, err)
		}
		fn(Page{Number: n, Text: text})
	}
	return nil
}

// MemDocument is a Document whose page texts are already in memory.
type MemDocument struct {
	Name  string
	Texts []string
}

// NewMemDocument builds a MemDocument. A document always has at least one
// page, so an empty texts slice yields a single empty page.
func NewMemDocument(name string, texts ...string) *MemDocument {
	if len(texts) == 0 {
		texts = []string{""}
	}
	return &MemDocument{Name: name, Texts: texts}
}

func (d *MemDocument) Filename() string { return d.Name }

func (d *MemDocument) PageCount() int { return len(d.Texts) }

func (d *MemDocument) PageText(n int) (string, error) {
	if n < 1 || n > len(d.Texts) {
		return "", &PageNotFoundError{Page: n, TotalPages: len(d.Texts)}
	}
	return d.Texts[n-1], nil
}

func (d *MemDocument) Close() error { return nil }
