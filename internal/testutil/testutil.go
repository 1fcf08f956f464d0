// Package testutil builds in-memory fixture documents for tests.
package testutil

import (
	"bytes"
	"testing"

	"github.com/fumiama/go-docx"
	"github.com/go-pdf/fpdf"
)

// PDF renders one page per entry in pages. Each page entry is a list of
// text lines drawn top to bottom. Title, when set, is written to the
// document info dictionary.
func PDF(t testing.TB, title string, pages ...[]string) []byte {
	t.Helper()

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(false)
	pdf.SetMargins(10, 10, 10)
	pdf.SetAutoPageBreak(false, 10)
	if title != "" {
		pdf.SetTitle(title, false)
		pdf.SetAuthor("pdfchunk tests", false)
	}
	for _, lines := range pages {
		pdf.AddPage()
		pdf.SetFont("Helvetica", "", 12)
		y := 20.0
		for _, line := range lines {
			pdf.Text(15, y, line)
			y += 10
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		t.Fatalf("render pdf fixture: %v", err)
	}
	return buf.Bytes()
}

// DOCX renders one paragraph per entry in paragraphs. An entry equal to
// PageBreak inserts a page break instead of text.
func DOCX(t testing.TB, paragraphs ...string) []byte {
	t.Helper()

	doc := docx.New().WithDefaultTheme()
	for _, p := range paragraphs {
		para := doc.AddParagraph()
		if p == PageBreak {
			para.AddPageBreaks()
			continue
		}
		para.AddText(p)
	}

	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		t.Fatalf("render docx fixture: %v", err)
	}
	return buf.Bytes()
}

// PageBreak marks a page break in DOCX paragraph lists.
const PageBreak = "\f"
