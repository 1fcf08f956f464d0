package api

import (
	"fmt"
	"net/http"

	"github.com/dgallion1/pdfchunk/internal/pipeline"
	"github.com/go-chi/chi/v5"
)

// handleSubmitJob queues an extraction: POST /api/jobs with the same query
// selectors as /api/extract.
func (s *Server) handleSubmitJob(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req, err := parseRequest(q.Get("granularity"), q.Get("page"), q.Get("format"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	filename, data, err := s.readUpload(w, r, false)
	if err != nil {
		s.writeError(w, err)
		return
	}

	job := pipeline.NewJob(filename, data, req)
	if err := s.orchestrator.Submit(job); err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]any{
		"job_id":     job.ID,
		"status":     pipeline.StatusQueued,
		"poll_url":   fmt.Sprintf("/api/jobs/%s", job.ID),
		"result_url": fmt.Sprintf("/api/jobs/%s/result", job.ID),
	})
}

func (s *Server) handleJobStatus(w http.ResponseWriter, r *http.Request) {
	job := s.orchestrator.GetJob(chi.URLParam(r, "jobID"))
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, job.Snapshot())
}

func (s *Server) handleJobResult(w http.ResponseWriter, r *http.Request) {
	job := s.orchestrator.GetJob(chi.URLParam(r, "jobID"))
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	out := job.Output()
	if out == nil {
		snap := job.Snapshot()
		writeJSON(w, http.StatusConflict, map[string]any{
			"error":  fmt.Sprintf("job is %s", snap.Status),
			"status": snap.Status,
			"errors": snap.Progress.Errors,
		})
		return
	}
	writeOutput(w, out)
}
