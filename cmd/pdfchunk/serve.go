package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/dgallion1/pdfchunk/internal/api"
)

func newServeCmd(g *globalOptions) *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP extraction server",
		Long: `Start the pdfchunk HTTP server.

Configuration comes from the environment (PORT, PDFCHUNK_API_KEY,
MAX_UPLOAD_BYTES, WORKER_COUNT, ...). --port overrides PORT.

Examples:
  pdfchunk serve
  pdfchunk serve --port 9000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelInfo
			if g.verbose {
				level = slog.LevelDebug
			}
			log := slog.New(slog.NewJSONHandler(cmd.OutOrStdout(), &slog.HandlerOptions{Level: level}))

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if port != "" {
				cfg.Port = port
			}
			// Blocks until the context is cancelled.
			return api.ListenAndServe(cmd.Context(), cfg, log)
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "port to listen on (default from PORT)")
	return cmd
}
