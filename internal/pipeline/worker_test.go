package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/dgallion1/pdfchunk/internal/assemble"
	"github.com/dgallion1/pdfchunk/internal/chunker"
	"github.com/dgallion1/pdfchunk/internal/doctree"
	"github.com/dgallion1/pdfchunk/internal/extract"
	"github.com/dgallion1/pdfchunk/internal/parser"
)

type closeFailDoc struct {
	*doctree.MemDocument
	closed int
}

func (d *closeFailDoc) Close() error {
	d.closed++
	return errors.New("handle already released")
}

func testWorker(doc doctree.Document) *Worker {
	ext := extract.New(assemble.New(chunker.DefaultConfig()), nil, nil)
	w := NewWorker(ext, parser.Options{}, slog.New(slog.DiscardHandler))
	w.open = func([]byte, string, parser.Options) (doctree.Document, error) { return doc, nil }
	return w
}

func TestWorker_CloseErrorRecorded(t *testing.T) {
	doc := &closeFailDoc{MemDocument: doctree.NewMemDocument("a.txt", "One. Two.")}
	job := NewJob("a.txt", []byte("x"), extract.Request{Granularity: doctree.Sentences()})

	testWorker(doc).Process(context.Background(), job)

	snap := job.Snapshot()
	if snap.Status != StatusCompleted {
		t.Fatalf("expected completed, got %s", snap.Status)
	}
	if snap.Progress.Records != 2 {
		t.Errorf("expected 2 records, got %d", snap.Progress.Records)
	}
	if len(snap.Progress.Errors) != 1 || snap.Progress.Errors[0] != "close: handle already released" {
		t.Errorf("unexpected errors: %v", snap.Progress.Errors)
	}
	if doc.closed != 1 {
		t.Errorf("expected one close, got %d", doc.closed)
	}
}

func TestWorker_ClosesOnExtractFailure(t *testing.T) {
	doc := &closeFailDoc{MemDocument: doctree.NewMemDocument("a.txt", "only page")}
	job := NewJob("a.txt", []byte("x"), extract.Request{Granularity: doctree.SinglePage(5)})

	testWorker(doc).Process(context.Background(), job)

	snap := job.Snapshot()
	if snap.Status != StatusFailed || snap.Phase != "extracting" {
		t.Fatalf("expected failed in extracting, got %s/%s", snap.Status, snap.Phase)
	}
	if len(snap.Progress.Errors) != 1 {
		t.Errorf("close error should not be recorded on failure: %v", snap.Progress.Errors)
	}
	if doc.closed != 1 {
		t.Errorf("expected one close, got %d", doc.closed)
	}
}
