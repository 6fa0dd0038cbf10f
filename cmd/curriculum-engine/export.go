// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export every record to YAML and JSON files",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("dir")
		format, _ := cmd.Flags().GetString("format")
		if format != "yaml" && format != "json" && format != "both" {
			return fmt.Errorf("format must be yaml, json or both, got %q", format)
		}

		s, _, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		if format != "json" {
			path, err := s.ExportYAML(ctx, dir)
			if err != nil {
				return err
			}
			fmt.Println("wrote", path)
		}
		if format != "yaml" {
			path, err := s.ExportJSON(ctx, dir)
			if err != nil {
				return err
			}
			fmt.Println("wrote", path)
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().String("dir", "data", "directory receiving the export files")
	exportCmd.Flags().String("format", "both", "export format: yaml, json or both")

	rootCmd.AddCommand(exportCmd)
}
