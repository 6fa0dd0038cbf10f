// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/curriculum-engine/internal/report"
	"github.com/pdiddy/curriculum-engine/internal/store"
	"github.com/pdiddy/curriculum-engine/pkg/types"
)

var showCmd = &cobra.Command{
	Use:   "show SUBJECT GRADE",
	Short: "Print one stored record",
	Long: `Show prints the record stored under exactly SUBJECT and GRADE. Grade may
be given as "7" or "Grade 7". Use lookup for a forgiving subject match.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, _, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		rec, err := s.Get(cmd.Context(), args[0], store.NormalizeGrade(args[1]))
		if err != nil {
			return err
		}
		return printRecord(cmd, rec)
	},
}

var lookupCmd = &cobra.Command{
	Use:   "lookup SUBJECT GRADE",
	Short: "Find the record a lesson plan request refers to",
	Long: `Lookup resolves a loosely written subject the way lesson-plan generators
ask for it: "math" finds Maths, "integrated science" finds the Intergrated
Science record, and any shared keyword matches as a last resort.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, _, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		rec, err := s.Lookup(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		return printRecord(cmd, rec)
	},
}

// printRecord writes rec as a detail view, or as YAML with --yaml.
func printRecord(cmd *cobra.Command, rec types.CurriculumRecord) error {
	if asYAML, _ := cmd.Flags().GetBool("yaml"); asYAML {
		enc := yaml.NewEncoder(os.Stdout)
		defer enc.Close()
		return enc.Encode(rec)
	}
	fmt.Print(report.Detail(rec))
	return nil
}

func init() {
	showCmd.Flags().Bool("yaml", false, "output the record as YAML")
	lookupCmd.Flags().Bool("yaml", false, "output the record as YAML")

	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(lookupCmd)
}
