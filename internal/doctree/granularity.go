package doctree

import (
	"fmt"
	"strings"
)

// Kind names a chunking granularity.
type Kind string

const (
	KindPages     Kind = "pages"
	KindPage      Kind = "page"
	KindWhole     Kind = "whole"
	KindLines     Kind = "lines"
	KindSentences Kind = "sentences"
)

// Granularity selects how a document is chunked into records.
// Page is only meaningful for KindPage.
type Granularity struct {
	Kind Kind
	Page int
}

func AllPages() Granularity        { return Granularity{Kind: KindPages} }
func Whole() Granularity           { return Granularity{Kind: KindWhole} }
func SinglePage(n int) Granularity { return Granularity{Kind: KindPage, Page: n} }
func Lines() Granularity           { return Granularity{Kind: KindLines} }
func Sentences() Granularity       { return Granularity{Kind: KindSentences} }

// ParseGranularity maps a selector string onto a Granularity. The empty
// string and "all" select every page.
func ParseGranularity(s string, page int) (Granularity, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case "", "all", KindPages:
		return AllPages(), nil
	case KindPage:
		return SinglePage(page), nil
	case KindWhole:
		return Whole(), nil
	case KindLines:
		return Lines(), nil
	case KindSentences:
		return Sentences(), nil
	}
	return Granularity{}, &UnsupportedGranularityError{Value: s}
}

// Single reports whether the granularity always yields exactly one record.
func (g Granularity) Single() bool {
	return g.Kind == KindWhole || g.Kind == KindPage
}

func (g Granularity) String() string {
	if g.Kind == KindPage {
		return fmt.Sprintf("page(%d)", g.Page)
	}
	return string(g.Kind)
}
