// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/curriculum-engine/internal/report"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize the curriculum database",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, cfg, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		st, err := s.Stats(cmd.Context(), cfg.Extraction.ReviewThreshold)
		if err != nil {
			return err
		}
		fmt.Println(report.StatsTable(st))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
