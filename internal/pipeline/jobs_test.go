package pipeline

import (
	"errors"
	"testing"
	"time"

	"github.com/dgallion1/pdfchunk/internal/doctree"
	"github.com/dgallion1/pdfchunk/internal/extract"
)

func TestContentHashHex_Consistency(t *testing.T) {
	data := []byte("hello world")
	h1 := ContentHashHex(data)
	h2 := ContentHashHex(data)
	if h1 != h2 {
		t.Errorf("expected identical hashes, got %q and %q", h1, h2)
	}
	// SHA-256 of "hello world" is well-known.
	want := "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"
	if h1 != want {
		t.Errorf("expected hash %q, got %q", want, h1)
	}
}

func TestContentHashHex_EmptyInput(t *testing.T) {
	h := ContentHashHex([]byte{})
	want := "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	if h != want {
		t.Errorf("expected hash %q, got %q", want, h)
	}
}

func TestNewJob(t *testing.T) {
	req := extract.Request{Granularity: doctree.SinglePage(3), Format: "csv"}
	a := NewJob("a.pdf", []byte("x"), req)
	b := NewJob("a.pdf", []byte("x"), req)

	if a.ID == "" || a.ID == b.ID {
		t.Fatalf("expected distinct non-empty IDs, got %q and %q", a.ID, b.ID)
	}
	if a.Status != StatusQueued {
		t.Errorf("expected status %q, got %q", StatusQueued, a.Status)
	}
	if got := a.Request(); got != req {
		t.Errorf("expected request %+v, got %+v", req, got)
	}
	if a.ContentHash != ContentHashHex([]byte("x")) {
		t.Errorf("unexpected content hash %q", a.ContentHash)
	}
	snap := a.Snapshot()
	if snap.Granularity != "page(3)" || snap.Format != "csv" {
		t.Errorf("unexpected snapshot request fields: %+v", snap)
	}
}

func TestJob_StateTransitions(t *testing.T) {
	job := &Job{
		ID:        "test-1",
		Status:    StatusQueued,
		Phase:     "queued",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	transitions := []struct {
		status JobStatus
		phase  string
	}{
		{StatusLoading, "loading document"},
		{StatusExtracting, "extracting records"},
		{StatusCompleted, "done"},
	}

	for _, tr := range transitions {
		before := job.UpdatedAt
		// Small sleep to ensure time difference is detectable.
		time.Sleep(time.Millisecond)
		job.SetStatus(tr.status, tr.phase)

		if job.Status != tr.status {
			t.Errorf("expected status %q, got %q", tr.status, job.Status)
		}
		if job.Phase != tr.phase {
			t.Errorf("expected phase %q, got %q", tr.phase, job.Phase)
		}
		if !job.UpdatedAt.After(before) {
			t.Errorf("expected UpdatedAt to advance after SetStatus(%q)", tr.status)
		}
	}
}

func TestJob_CompleteReleasesData(t *testing.T) {
	job := NewJob("a.txt", []byte("payload"), extract.Request{Granularity: doctree.Lines()})
	out := &extract.Output{Filename: "a_lines.json", Body: []byte("{}"), Records: 4, TotalPages: 2}
	job.Complete(out)

	if job.FileData() != nil {
		t.Error("expected file data to be released")
	}
	if job.Output() != out {
		t.Error("expected output to be stored")
	}
	snap := job.Snapshot()
	if snap.Status != StatusCompleted || snap.Progress.Records != 4 || snap.Progress.TotalPages != 2 {
		t.Errorf("unexpected snapshot: %+v", snap)
	}
}

func TestJob_Fail(t *testing.T) {
	job := NewJob("a.pdf", []byte("payload"), extract.Request{})
	job.Fail("loading", errors.New("boom"))

	snap := job.Snapshot()
	if snap.Status != StatusFailed || snap.Phase != "loading" {
		t.Errorf("expected failed/loading, got %s/%s", snap.Status, snap.Phase)
	}
	if len(snap.Progress.Errors) != 1 || snap.Progress.Errors[0] != "boom" {
		t.Errorf("expected one error, got %v", snap.Progress.Errors)
	}
	if job.Output() != nil {
		t.Error("expected no output for failed job")
	}
	if job.FileData() != nil {
		t.Error("expected file data to be released")
	}
}

func TestJob_SnapshotErrorsNotNil(t *testing.T) {
	job := &Job{ID: "snap-test", UpdatedAt: time.Now()}
	snap := job.Snapshot()
	if snap.Progress.Errors == nil {
		t.Error("expected non-nil errors slice in snapshot")
	}
	if snap.Format != "json" {
		t.Errorf("expected default format json, got %q", snap.Format)
	}
}

func TestJobStore_PutGet(t *testing.T) {
	store := NewJobStore(time.Hour)
	job := &Job{ID: "store-1", UpdatedAt: time.Now()}
	store.Put(job)

	got := store.Get("store-1")
	if got == nil {
		t.Fatal("expected to get job back")
	}
	if store.Len() != 1 {
		t.Errorf("expected 1 job, got %d", store.Len())
	}
	if store.Get("nonexistent") != nil {
		t.Error("expected nil for missing job")
	}
}

func TestJobStore_TTLCleanup(t *testing.T) {
	store := NewJobStore(50 * time.Millisecond)

	expired := &Job{ID: "old", Status: StatusCompleted, UpdatedAt: time.Now()}
	running := &Job{ID: "running", Status: StatusExtracting, UpdatedAt: time.Now()}
	store.Put(expired)
	store.Put(running)

	time.Sleep(100 * time.Millisecond)

	fresh := &Job{ID: "new", Status: StatusFailed, UpdatedAt: time.Now()}
	store.Put(fresh)

	store.Cleanup()

	if store.Get("old") != nil {
		t.Error("expected expired job to be cleaned up")
	}
	if store.Get("running") == nil {
		t.Error("expected running job to survive cleanup")
	}
	if store.Get("new") == nil {
		t.Error("expected fresh job to survive cleanup")
	}
}
