package parser

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/dgallion1/pdfchunk/internal/doctree"
	"github.com/fumiama/go-docx"
)

// DOCXLoader handles .docx files. Paragraphs become lines and explicit
// page breaks start a new page.
type DOCXLoader struct{}

func (p *DOCXLoader) Load(data []byte, filename string) (doc doctree.Document, err error) {
	defer func() {
		if r := recover(); r != nil {
			doc, err = nil, unreadable("docx", fmt.Errorf("%v", r))
		}
	}()

	d, err := docx.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, unreadable("docx", err)
	}

	var pages []string
	var cur []string
	for _, item := range d.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		segs := docxParagraphSegments(para)
		for i, seg := range segs {
			if i > 0 {
				pages = append(pages, strings.Join(cur, "\n"))
				cur = nil
			}
			if t := strings.TrimSpace(seg); t != "" {
				cur = append(cur, t)
			}
		}
	}
	pages = append(pages, strings.Join(cur, "\n"))

	return doctree.NewMemDocument(filename, pages...), nil
}

// docxParagraphSegments returns the paragraph text split at page breaks.
// A paragraph without page breaks yields one segment.
func docxParagraphSegments(para *docx.Paragraph) []string {
	var segs []string
	var buf strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			switch t := rc.(type) {
			case *docx.Text:
				buf.WriteString(t.Text)
			case *docx.Tab:
				buf.WriteByte('\t')
			case *docx.BarterRabbet:
				if t.Type == "page" {
					segs = append(segs, buf.String())
					buf.Reset()
				} else {
					buf.WriteByte('\n')
				}
			}
		}
	}
	return append(segs, buf.String())
}
