package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/dgallion1/pdfchunk/internal/assemble"
	"github.com/dgallion1/pdfchunk/internal/config"
	"github.com/dgallion1/pdfchunk/internal/extract"
	"github.com/dgallion1/pdfchunk/internal/pipeline"
)

// ListenAndServe wires the extraction stack for cfg and serves HTTP until
// ctx is cancelled, then shuts down gracefully.
func ListenAndServe(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	stats := extract.NewStats(cfg.StatsWindow)
	ext := extract.New(assemble.New(cfg.ChunkerConfig()), stats, log)

	// Initialize pipeline.
	orch := pipeline.NewOrchestrator(cfg, ext, log)
	orch.Start(ctx)

	// Initialize HTTP server.
	srv := NewServer(ext, stats, orch, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting pdfchunk",
			"port", cfg.Port,
			"version", Version,
			"workers", cfg.WorkerCount,
			"auth", cfg.APIKey != "",
			"pdf_text_mode", cfg.PDFTextMode,
		)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		orch.Stop()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	// Graceful shutdown: stop accepting requests before the job queue closes.
	log.Info("shutting down...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	err := httpServer.Shutdown(shutdownCtx)
	orch.Stop()
	if err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
