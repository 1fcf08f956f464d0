package api

import (
	"net/http"

	"github.com/dgallion1/pdfchunk/internal/extract"
)

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{
		"window": s.cfg.StatsWindow.String(),
	}
	if s.stats != nil {
		resp["extractions"] = s.stats.Snapshot()
	} else {
		resp["extractions"] = extract.StatsSnapshot{ByGranularity: map[string]int{}}
	}
	if s.orchestrator != nil {
		resp["jobs"] = map[string]int{
			"queued":   s.orchestrator.QueueDepth(),
			"retained": s.orchestrator.JobCount(),
		}
	}
	writeJSON(w, http.StatusOK, resp)
}
