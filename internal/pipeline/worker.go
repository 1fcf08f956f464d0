package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgallion1/pdfchunk/internal/doctree"
	"github.com/dgallion1/pdfchunk/internal/extract"
	"github.com/dgallion1/pdfchunk/internal/parser"
)

// Worker processes a single extraction job.
type Worker struct {
	ext  *extract.Extractor
	opts parser.Options
	log  *slog.Logger
	open func(data []byte, filename string, opts parser.Options) (doctree.Document, error)
}

func NewWorker(ext *extract.Extractor, opts parser.Options, log *slog.Logger) *Worker {
	return &Worker{ext: ext, opts: opts, log: log, open: parser.OpenBytes}
}

// Process loads the job's document and runs the extraction. Every exit path
// leaves the job completed or failed.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "filename", job.Filename)
	start := time.Now()

	// Phase 1: Load
	job.SetStatus(StatusLoading, "loading")
	doc, err := w.open(job.FileData(), job.Filename, w.opts)
	if err != nil {
		log.Error("load failed", "error", err)
		job.Fail("loading", err)
		return
	}
	job.SetTotalPages(doc.PageCount())

	// Phase 2: Extract
	job.SetStatus(StatusExtracting, "extracting")
	out, err := w.ext.Run(ctx, doc, job.Request())
	if err != nil {
		doc.Close()
		log.Error("extraction failed", "error", err)
		job.Fail("extracting", err)
		return
	}

	// The export is already built, so a close failure is recorded, not fatal.
	if err := doc.Close(); err != nil {
		log.Warn("close failed", "error", err)
		job.AddError(fmt.Sprintf("close: %v", err))
	}

	job.Complete(out)
	log.Info("job completed",
		"records", out.Records,
		"total_pages", out.TotalPages,
		"duration_ms", time.Since(start).Milliseconds(),
	)
}
