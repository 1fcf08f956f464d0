package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/dgallion1/pdfchunk/internal/api"
	"github.com/dgallion1/pdfchunk/internal/config"
)

// globalOptions are shared by every subcommand.
type globalOptions struct {
	verbose bool
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}
	cmd := &cobra.Command{
		Use:   "pdfchunk",
		Short: "Extract PDF text by page, document, line or sentence",
		Long: `pdfchunk reads a PDF (or a text, Markdown, HTML, DOCX or CSV file) and
exports its text as JSON or CSV at one of five granularities:

  - every page (default)
  - a single page (--page N)
  - the whole document as one block (--whole)
  - numbered lines (--lines)
  - numbered sentences (--sentences)

The same engine is available over HTTP with "pdfchunk serve".`,
		Version:       api.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	cmd.AddCommand(
		newExtractCmd(opts),
		newInfoCmd(opts),
		newServeCmd(opts),
		newVersionCmd(),
	)
	return cmd
}

// logger returns a text logger on the command's stderr.
func (o *globalOptions) logger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelInfo
	if o.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

// loadConfig reads the environment configuration and validates it.
func loadConfig() (config.Config, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}
