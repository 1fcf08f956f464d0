package parser

import (
	"bytes"
	"strings"

	"github.com/dgallion1/pdfchunk/internal/doctree"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownLoader handles Markdown files using goldmark. Every top-level
// block becomes text on its own line; a thematic break (---) starts a new
// page.
type MarkdownLoader struct{}

func (p *MarkdownLoader) Load(data []byte, filename string) (doctree.Document, error) {
	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(data))

	var pages []string
	var current strings.Builder

	flushPage := func() {
		pages = append(pages, current.String())
		current.Reset()
	}

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if n.Kind() == ast.KindThematicBreak {
			flushPage()
			continue
		}
		t := extractText(n, data)
		if t == "" {
			continue
		}
		if current.Len() > 0 {
			current.WriteString("\n")
		}
		current.WriteString(t)
	}
	flushPage()

	return doctree.NewMemDocument(filename, pages...), nil
}

// extractText gets the text content of a goldmark AST node. Nested blocks
// (list items, quotes) are separated by newlines.
func extractText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	if n.Type() == ast.TypeBlock && !n.HasChildren() {
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			buf.Write(line.Value(src))
		}
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			buf.Write(t.Value(src))
			if t.HardLineBreak() || t.SoftLineBreak() {
				buf.WriteByte('\n')
			}
		case *ast.String:
			buf.Write(t.Value)
		default:
			s := extractText(c, src)
			if s == "" {
				continue
			}
			if c.Type() == ast.TypeBlock && buf.Len() > 0 {
				buf.WriteByte('\n')
			}
			buf.WriteString(s)
		}
	}
	return strings.TrimSpace(buf.String())
}
