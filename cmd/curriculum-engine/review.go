// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/curriculum-engine/internal/report"
	"github.com/pdiddy/curriculum-engine/pkg/types"
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "List records by completeness, weakest first",
	Long: `Review lists stored records ordered by ascending completeness score so the
records most in need of manual attention come first. By default only
records below the review threshold are shown; --all lists every record.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, cfg, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		threshold := cfg.Extraction.ReviewThreshold
		if cmd.Flags().Changed("threshold") {
			threshold, _ = cmd.Flags().GetFloat64("threshold")
		}
		below := threshold
		if all, _ := cmd.Flags().GetBool("all"); all {
			below = 0
		}

		records, err := s.Review(cmd.Context(), below)
		if err != nil {
			return err
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(records)
		}

		if len(records) == 0 {
			fmt.Printf("No records below %.0f%%.\n", threshold)
			return nil
		}
		fmt.Println(report.ReviewTable(records, threshold, report.Colorize(os.Stdout)))
		return nil
	},
}

func init() {
	reviewCmd.Flags().Bool("all", false, "list every record, not only those below the threshold")
	reviewCmd.Flags().Float64("threshold", types.DefaultReviewThreshold, "completeness score below which a record needs review")
	reviewCmd.Flags().Bool("json", false, "output records as JSON")

	rootCmd.AddCommand(reviewCmd)
}
