// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/curriculum-engine/internal/assemble"
	"github.com/pdiddy/curriculum-engine/internal/convert"
	"github.com/pdiddy/curriculum-engine/internal/store"
	"github.com/pdiddy/curriculum-engine/pkg/types"
)

var extractCmd = &cobra.Command{
	Use:   "extract [files...]",
	Short: "Extract curriculum records from PDFs into the database",
	Long: `Extract reads each curriculum PDF (or .txt page dump), keeps the pages
that carry curriculum content, pulls out the record fields and upserts one
record per subject and grade. Subject and grade come from the filename,
e.g. Social_Studies_Grade_7.pdf.

A document that cannot be read still gets an empty record (score 0) unless
one already exists, and the batch continues. Records scoring below the
review threshold are listed for manual follow-up.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		batch, _ := cmd.Flags().GetBool("batch")
		if !batch && len(args) == 0 {
			return fmt.Errorf("provide files to extract or use --batch")
		}

		return lockedRun(cmd.Context(), func(ctx context.Context, s *store.Store, cfg types.Config) error {
			ext := cfg.Extraction
			applyExtractionFlags(cmd, &ext)
			if err := (types.Config{LogLevel: cfg.LogLevel, Extraction: ext}).Validate(); err != nil {
				return err
			}

			paths := args
			if batch {
				found, err := assemble.Discover(ext.PDFDir)
				if err != nil {
					return err
				}
				paths = append(paths, found...)
			}
			if len(paths) == 0 {
				fmt.Fprintf(os.Stdout, "no documents found in %s\n", ext.PDFDir)
				return nil
			}

			conv, err := convert.New(ext.Backend)
			if err != nil {
				return err
			}

			summary, err := assemble.Run(ctx, paths, conv, s, assemble.OptionsFrom(ext), os.Stdout)
			if len(summary.Flagged) > 0 {
				fmt.Fprintf(os.Stdout, "\nNeeds manual review (%d):\n", len(summary.Flagged))
				for _, f := range summary.Flagged {
					fmt.Fprintf(os.Stdout, "  %s\n", f)
				}
			}
			if err != nil {
				return err
			}
			if summary.HasFailures() {
				return fmt.Errorf("%d of %d documents failed", summary.Failed, summary.Total())
			}
			return nil
		})
	},
}

// applyExtractionFlags overrides configured extraction settings with the
// flags given on the command line.
func applyExtractionFlags(cmd *cobra.Command, ext *types.ExtractionConfig) {
	flags := cmd.Flags()
	if flags.Changed("backend") {
		b, _ := flags.GetString("backend")
		ext.Backend = types.PDFBackend(b)
	}
	if flags.Changed("pdf-dir") {
		ext.PDFDir, _ = flags.GetString("pdf-dir")
	}
	if flags.Changed("pages-dir") {
		ext.PagesDir, _ = flags.GetString("pages-dir")
	}
	if flags.Changed("threshold") {
		ext.ReviewThreshold, _ = flags.GetFloat64("threshold")
	}
	if flags.Changed("start-page") {
		ext.Pages.StartPage, _ = flags.GetInt("start-page")
	}
	if flags.Changed("preserve-reviewed") {
		ext.PreserveReviewed, _ = flags.GetBool("preserve-reviewed")
	}
	if flags.Changed("snapshot") {
		ext.SnapshotPath, _ = flags.GetString("snapshot")
	}
}

func init() {
	extractCmd.Flags().Bool("batch", false, "process every PDF in pdf-dir")
	extractCmd.Flags().String("pdf-dir", types.DefaultPDFDir, "directory scanned by --batch")
	extractCmd.Flags().String("backend", string(types.BackendNative), "PDF text backend: native, pdfcpu, pdftotext or text")
	extractCmd.Flags().Float64("threshold", types.DefaultReviewThreshold, "completeness score below which a record needs review")
	extractCmd.Flags().Int("start-page", types.DefaultStartPage, "first page of curriculum content for documents matching no family")
	extractCmd.Flags().Bool("preserve-reviewed", false, "leave reviewed and manual records untouched")
	extractCmd.Flags().String("snapshot", "", "also write every record produced to this YAML file")

	rootCmd.AddCommand(extractCmd)
}
