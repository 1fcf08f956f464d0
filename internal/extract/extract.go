// Package extract is the single entry point that turns an opened document
// into an encoded export.
package extract

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgallion1/pdfchunk/internal/assemble"
	"github.com/dgallion1/pdfchunk/internal/doctree"
	"github.com/dgallion1/pdfchunk/internal/export"
)

// Request selects what to extract and how to encode it.
type Request struct {
	Granularity doctree.Granularity
	// Format is the raw format selector; empty means JSON.
	Format string
}

// Output is a finished export.
type Output struct {
	Filename    string // derived download name
	ContentType string
	Format      export.Format
	Body        []byte
	Records     int
	TotalPages  int
}

// Extractor runs extractions and records their latency.
type Extractor struct {
	asm   *assemble.Assembler
	stats *Stats
	log   *slog.Logger
}

// New returns an Extractor. stats and log may be nil.
func New(asm *assemble.Assembler, stats *Stats, log *slog.Logger) *Extractor {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Extractor{asm: asm, stats: stats, log: log}
}

// Run assembles doc at req.Granularity and encodes the records. The format
// is validated before the document is read. Run does not close doc.
func (e *Extractor) Run(ctx context.Context, doc doctree.Document, req Request) (*Output, error) {
	f, err := export.ParseFormat(req.Format)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	res, err := e.asm.Assemble(ctx, doc, req.Granularity)
	if err != nil {
		e.record(req.Granularity, start, false)
		return nil, err
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, res, f); err != nil {
		e.record(req.Granularity, start, false)
		return nil, fmt.Errorf("encode %s: %w", f, err)
	}
	e.record(req.Granularity, start, true)

	e.log.Debug("extraction complete",
		"filename", res.Filename,
		"granularity", req.Granularity.String(),
		"format", string(f),
		"records", len(res.Records),
		"bytes", buf.Len(),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return &Output{
		Filename:    export.Filename(res.Filename, req.Granularity, f),
		ContentType: f.ContentType(),
		Format:      f,
		Body:        buf.Bytes(),
		Records:     len(res.Records),
		TotalPages:  res.TotalPages,
	}, nil
}

func (e *Extractor) record(g doctree.Granularity, start time.Time, ok bool) {
	if e.stats == nil {
		return
	}
	e.stats.Record(g.Kind, time.Since(start).Milliseconds(), ok)
}
