package parser

import (
	"bytes"
	"strings"

	"github.com/dgallion1/pdfchunk/internal/doctree"
	"golang.org/x/net/html"
)

// HTMLLoader handles HTML files. Each block element becomes one line of a
// single page.
type HTMLLoader struct{}

func (p *HTMLLoader) Load(data []byte, filename string) (doctree.Document, error) {
	doc, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, unreadable("html", err)
	}

	var lines []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "nav", "footer", "header", "noscript", "template":
				return
			case "pre":
				if t := strings.Trim(textContent(n), "\n"); strings.TrimSpace(t) != "" {
					lines = append(lines, t)
				}
				return
			case "p", "li", "td", "th", "blockquote", "dt", "dd", "caption", "figcaption",
				"h1", "h2", "h3", "h4", "h5", "h6":
				if t := collapseSpace(textContent(n)); t != "" {
					lines = append(lines, t)
				}
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	if body := findBody(doc); body != nil {
		walk(body)
	} else {
		walk(doc)
	}

	return doctree.NewMemDocument(filename, strings.Join(lines, "\n")), nil
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		if n.Type == html.ElementNode && n.Data == "br" {
			buf.WriteByte('\n')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return buf.String()
}

// collapseSpace folds source formatting whitespace into single spaces.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}
