package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/dgallion1/pdfchunk/internal/config"
	"github.com/dgallion1/pdfchunk/internal/extract"
	"github.com/dgallion1/pdfchunk/internal/pipeline"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Version is reported by the root endpoint and the CLI. Overridden at link
// time.
var Version = "1.0.0"

// Server is the HTTP API server for pdfchunk.
type Server struct {
	router       chi.Router
	extractor    *extract.Extractor
	stats        *extract.Stats
	orchestrator *pipeline.Orchestrator
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server. orch may be nil, which
// disables the job endpoints.
func NewServer(ext *extract.Extractor, stats *extract.Stats, orch *pipeline.Orchestrator, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		extractor:    ext,
		stats:        stats,
		orchestrator: orch,
		log:          log,
		cfg:          cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))
	r.Use(CORS(s.cfg.CORSAllowedOrigin))

	// Public endpoints.
	r.Get("/", s.handleRoot)
	r.Get("/health", s.handleHealth)

	limit := RateLimit(s.cfg.RateLimitRPS, s.cfg.RateLimitBurst)

	// Fan-out routes, one per granularity. PDF uploads only.
	r.Group(func(r chi.Router) {
		r.Use(limit)
		r.Post("/extract/all", s.handleLegacyExtract(legacyAll))
		r.Post("/extract/page", s.handleLegacyExtract(legacyPage))
		r.Post("/extract/whole", s.handleLegacyExtract(legacyWhole))
		r.Post("/extract/lines", s.handleLegacyExtract(legacyLines))
		r.Post("/extract/sentences", s.handleLegacyExtract(legacySentences))
		r.Post("/info", s.handleInfo)
	})

	// API endpoints; bearer auth when an API key is configured.
	r.Route("/api", func(r chi.Router) {
		if s.cfg.APIKey != "" {
			r.Use(AuthMiddleware(s.cfg.APIKey, s.log))
		}
		r.With(limit).Post("/extract", s.handleExtract)
		r.With(limit).Post("/info", s.handleInfo)
		r.Get("/stats", s.handleStats)

		if s.orchestrator != nil {
			r.With(limit).Post("/jobs", s.handleSubmitJob)
			r.Get("/jobs/{jobID}", s.handleJobStatus)
			r.Get("/jobs/{jobID}/result", s.handleJobResult)
		}
	})

	s.router = r
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	endpoints := map[string]string{
		"extract":           "/api/extract",
		"extract_all":       "/extract/all",
		"extract_page":      "/extract/page",
		"extract_whole":     "/extract/whole",
		"extract_lines":     "/extract/lines",
		"extract_sentences": "/extract/sentences",
		"info":              "/info",
		"stats":             "/api/stats",
		"health":            "/health",
	}
	if s.orchestrator != nil {
		endpoints["jobs"] = "/api/jobs"
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":   "PDF Extractor API",
		"version":   Version,
		"endpoints": endpoints,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
