// Package assemble turns an opened document into numbered export records.
package assemble

import (
	"context"
	"fmt"
	"strings"

	"github.com/dgallion1/pdfchunk/internal/chunker"
	"github.com/dgallion1/pdfchunk/internal/doctree"
)

// Result is the ordered record set for one document at one granularity.
type Result struct {
	Filename    string
	TotalPages  int
	Granularity doctree.Granularity
	Records     []doctree.Record
}

// Assembler builds records. It holds no per-document state, so one value can
// serve concurrent requests.
type Assembler struct {
	sentences chunker.Config
}

// New returns an Assembler using cfg for sentence segmentation.
func New(cfg chunker.Config) *Assembler {
	return &Assembler{sentences: cfg}
}

// Assemble runs with the default sentence configuration.
func Assemble(ctx context.Context, doc doctree.Document, g doctree.Granularity) (*Result, error) {
	return New(chunker.DefaultConfig()).Assemble(ctx, doc, g)
}

// Assemble reads doc page by page and produces records for g. Any page error
// fails the whole call; no partial result is returned.
func (a *Assembler) Assemble(ctx context.Context, doc doctree.Document, g doctree.Granularity) (*Result, error) {
	total := doc.PageCount()
	res := &Result{
		Filename:    doc.Filename(),
		TotalPages:  total,
		Granularity: g,
		Records:     []doctree.Record{},
	}

	switch g.Kind {
	case doctree.KindPage:
		if g.Page < 1 || g.Page > total {
			return nil, &doctree.PageNotFoundError{Page: g.Page, TotalPages: total}
		}
		text, err := doc.PageText(g.Page)
		if err != nil {
			return nil, fmt.Errorf("read page %d: %w", g.Page, err)
		}
		res.Records = append(res.Records, doctree.PageRecord{PageNumber: g.Page, Text: text, TotalPages: total})
		return res, nil

	case doctree.KindPages:
		err := doctree.EachPage(ctx, doc, func(p doctree.Page) {
			n, text := p.Number, p.Text
			res.Records = append(res.Records, doctree.PageRecord{PageNumber: n, Text: text, TotalPages: total})
		})
		if err != nil {
			return nil, err
		}
		return res, nil

	case doctree.KindWhole:
		var b strings.Builder
		err := doctree.EachPage(ctx, doc, func(p doctree.Page) {
			n, text := p.Number, p.Text
			if n > 1 {
				b.WriteString(doctree.WholeDocumentSeparator)
			}
			b.WriteString(text)
		})
		if err != nil {
			return nil, err
		}
		res.Records = append(res.Records, doctree.WholeRecord{Document: doc.Filename(), Text: b.String(), TotalPages: total})
		return res, nil

	case doctree.KindLines:
		seq := 0
		err := doctree.EachPage(ctx, doc, func(p doctree.Page) {
			n, text := p.Number, p.Text
			for _, line := range chunker.SplitLines(text) {
				seq++
				res.Records = append(res.Records, doctree.LineRecord{LineNumber: seq, PageNumber: n, Text: line})
			}
		})
		if err != nil {
			return nil, err
		}
		return res, nil

	case doctree.KindSentences:
		seq := 0
		err := doctree.EachPage(ctx, doc, func(p doctree.Page) {
			n, text := p.Number, p.Text
			for _, s := range a.sentences.SplitSentences(text) {
				seq++
				res.Records = append(res.Records, doctree.SentenceRecord{SentenceNumber: seq, PageNumber: n, Text: s})
			}
		})
		if err != nil {
			return nil, err
		}
		return res, nil
	}

	return nil, &doctree.UnsupportedGranularityError{Value: string(g.Kind)}
}
