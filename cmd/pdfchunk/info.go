package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dgallion1/pdfchunk/internal/parser"
)

func newInfoCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "info FILE",
		Short: "Show page count and metadata without extracting text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := g.logger(cmd)
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			path := args[0]
			if !parser.IsSupportedExtension(path) {
				return fmt.Errorf("%w: %q", parser.ErrUnsupportedType, filepath.Ext(path))
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}

			info, err := parser.Inspect(data, filepath.Base(path), cfg.ParserOptions())
			if err != nil {
				return err
			}
			log.Debug("inspected document", "path", path, "validated", info.Validated)

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(info)
		},
	}
}
