package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/dgallion1/pdfchunk/internal/api"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "pdfchunk %s\n", api.Version)
			fmt.Fprintf(cmd.OutOrStdout(), "  Go:     %s\n", runtime.Version())
		},
	}
}
