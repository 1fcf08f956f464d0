package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dgallion1/pdfchunk/internal/assemble"
	"github.com/dgallion1/pdfchunk/internal/doctree"
	"github.com/dgallion1/pdfchunk/internal/export"
	"github.com/dgallion1/pdfchunk/internal/extract"
	"github.com/dgallion1/pdfchunk/internal/parser"
)

type extractOptions struct {
	format    string
	output    string
	page      int
	whole     bool
	lines     bool
	sentences bool
	textMode  string
}

func newExtractCmd(g *globalOptions) *cobra.Command {
	opts := &extractOptions{}
	cmd := &cobra.Command{
		Use:   "extract FILE",
		Short: "Extract text from a document",
		Long: `Extract text from a document and write it as JSON or CSV.

Without --output the result is written to a file named after the input:
<name>_extracted, <name>_page_N, <name>_whole_document, <name>_lines or
<name>_sentences. Use --output - to write to stdout.

Examples:
  pdfchunk extract report.pdf
  pdfchunk extract report.pdf --page 3 --format csv
  pdfchunk extract report.pdf --whole -o full.json
  pdfchunk extract report.pdf --sentences -o -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd, g, opts, args[0])
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.format, "format", "f", "json", "output format: json or csv")
	f.StringVarP(&opts.output, "output", "o", "", "output file path (default: derived from input name; - for stdout)")
	f.IntVarP(&opts.page, "page", "p", 0, "extract a single page (1-indexed)")
	f.BoolVarP(&opts.whole, "whole", "w", false, "extract the entire document as one block")
	f.BoolVar(&opts.lines, "lines", false, "extract numbered lines")
	f.BoolVar(&opts.sentences, "sentences", false, "extract numbered sentences")
	f.StringVar(&opts.textMode, "text-mode", "", "PDF text mode: rows or plain (default from PDF_TEXT_MODE)")
	cmd.MarkFlagsMutuallyExclusive("page", "whole", "lines", "sentences")
	return cmd
}

func (o *extractOptions) granularity(cmd *cobra.Command) doctree.Granularity {
	switch {
	case cmd.Flags().Changed("page"):
		return doctree.SinglePage(o.page)
	case o.whole:
		return doctree.Whole()
	case o.lines:
		return doctree.Lines()
	case o.sentences:
		return doctree.Sentences()
	}
	return doctree.AllPages()
}

func runExtract(cmd *cobra.Command, g *globalOptions, opts *extractOptions, path string) error {
	log := g.logger(cmd)

	format, err := export.ParseFormat(opts.format)
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	popts := cfg.ParserOptions()
	if opts.textMode != "" {
		if popts.TextMode, err = parser.ParseTextMode(opts.textMode); err != nil {
			return err
		}
	}

	gran := opts.granularity(cmd)
	toStdout := opts.output == "-"
	status := cmd.OutOrStdout()
	if toStdout {
		status = cmd.ErrOrStderr()
	}

	doc, err := parser.Open(path, popts)
	if err != nil {
		return err
	}
	defer doc.Close()

	fmt.Fprintf(status, "Processing: %s\n", path)
	fmt.Fprintf(status, "Total pages: %d\n", doc.PageCount())

	ext := extract.New(assemble.New(cfg.ChunkerConfig()), nil, log)
	out, err := ext.Run(cmd.Context(), doc, extract.Request{Granularity: gran, Format: string(format)})
	if err != nil {
		return err
	}

	if toStdout {
		if _, err := cmd.OutOrStdout().Write(out.Body); err != nil {
			return fmt.Errorf("write stdout: %w", err)
		}
	} else {
		dest := opts.output
		if dest == "" {
			dest = out.Filename
		}
		if err := os.WriteFile(dest, out.Body, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", dest, err)
		}
		fmt.Fprintf(status, "Exported to %s: %s\n", strings.ToUpper(string(out.Format)), dest)
	}

	printSummary(status, gran, out)
	return nil
}

func printSummary(w io.Writer, g doctree.Granularity, out *extract.Output) {
	switch g.Kind {
	case doctree.KindPage:
		fmt.Fprintf(w, "Extracted page %d\n", g.Page)
	case doctree.KindWhole:
		fmt.Fprintf(w, "Extracted whole document (%d pages)\n", out.TotalPages)
	case doctree.KindLines:
		fmt.Fprintf(w, "Extracted %d lines\n", out.Records)
	case doctree.KindSentences:
		fmt.Fprintf(w, "Extracted %d sentences\n", out.Records)
	default:
		fmt.Fprintf(w, "Extracted %d page(s)\n", out.Records)
	}
}
