package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/dgallion1/pdfchunk/internal/chunker"
	"github.com/dgallion1/pdfchunk/internal/parser"
)

type Config struct {
	Port string

	// Auth; empty disables bearer checks.
	APIKey string

	// HTTP surface
	CORSAllowedOrigin string
	RateLimitRPS      float64
	RateLimitBurst    int

	// Worker pool
	WorkerCount  int
	MaxQueueSize int

	// Upload limits
	MaxUploadBytes int64

	// Segmentation
	SentenceTerminators string

	// Job state
	JobTTL time.Duration

	// Stats
	StatsWindow time.Duration

	// PDF
	PDFFallbackPdftotext bool
	PDFTextMode          string
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8000"),

		APIKey: os.Getenv("PDFCHUNK_API_KEY"),

		CORSAllowedOrigin: envOr("CORS_ALLOWED_ORIGIN", "*"),
		RateLimitRPS:      envFloat("RATE_LIMIT_RPS", 0),
		RateLimitBurst:    envInt("RATE_LIMIT_BURST", 10),

		WorkerCount:  envInt("WORKER_COUNT", 4),
		MaxQueueSize: envInt("MAX_QUEUE_SIZE", 100),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB

		SentenceTerminators: envOr("SENTENCE_TERMINATORS", chunker.DefaultTerminators),

		JobTTL:      envDuration("JOB_TTL", 1*time.Hour),
		StatsWindow: envDuration("STATS_WINDOW", 1*time.Hour),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),
		PDFTextMode:          envOr("PDF_TEXT_MODE", string(parser.TextModeRows)),
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.RateLimitBurst <= 0 {
		cfg.RateLimitBurst = 10
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}
	if cfg.StatsWindow <= 0 {
		cfg.StatsWindow = 1 * time.Hour
	}

	return cfg
}

func (c Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if c.RateLimitRPS < 0 {
		return fmt.Errorf("RATE_LIMIT_RPS must not be negative")
	}
	if _, err := parser.ParseTextMode(c.PDFTextMode); err != nil {
		return fmt.Errorf("PDF_TEXT_MODE: %w", err)
	}
	if strings.TrimSpace(c.SentenceTerminators) == "" {
		return fmt.Errorf("SENTENCE_TERMINATORS must not be empty")
	}
	// Whitespace is handled by the wide-space rule; a single space is never a boundary.
	if strings.IndexFunc(c.SentenceTerminators, unicode.IsSpace) >= 0 {
		return fmt.Errorf("SENTENCE_TERMINATORS must not contain whitespace: %q", c.SentenceTerminators)
	}
	return nil
}

// ParserOptions returns the loader options implied by c.
func (c Config) ParserOptions() parser.Options {
	mode, err := parser.ParseTextMode(c.PDFTextMode)
	if err != nil {
		mode = parser.TextModeRows
	}
	return parser.Options{
		FallbackPdftotext: c.PDFFallbackPdftotext,
		TextMode:          mode,
	}
}

// ChunkerConfig returns the sentence segmentation settings implied by c.
func (c Config) ChunkerConfig() chunker.Config {
	return chunker.Config{Terminators: c.SentenceTerminators}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
