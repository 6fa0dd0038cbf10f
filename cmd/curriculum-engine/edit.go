// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/pdiddy/curriculum-engine/internal/report"
	"github.com/pdiddy/curriculum-engine/internal/store"
	"github.com/pdiddy/curriculum-engine/pkg/types"
)

// editListFlags maps repeatable list flags to the patch field they set.
var editListFlags = []struct {
	name  string
	usage string
	field func(p *store.Patch) **[]string
}{
	{"outcome", "specific learning outcome", func(p *store.Patch) **[]string { return &p.LearningOutcomes }},
	{"question", "key inquiry question", func(p *store.Patch) **[]string { return &p.KeyInquiryQuestions }},
	{"experience", "suggested learning experience", func(p *store.Patch) **[]string { return &p.SuggestedLearningExperiences }},
	{"competency", "core competency", func(p *store.Patch) **[]string { return &p.CoreCompetencies }},
	{"value", "value", func(p *store.Patch) **[]string { return &p.Values }},
	{"link", "link to another subject", func(p *store.Patch) **[]string { return &p.LinksToOtherSubjects }},
	{"pci", "pertinent and contemporary issue", func(p *store.Patch) **[]string { return &p.PCIs }},
}

var editCmd = &cobra.Command{
	Use:   "edit SUBJECT GRADE",
	Short: "Correct fields of a stored record",
	Long: `Edit overwrites the given fields of an existing record. List flags are
repeatable and replace the whole list; pass the flag once with an empty
value to clear it. The record is marked reviewed unless --status says
otherwise, and its completeness score is recomputed.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := patchFromFlags(cmd.Flags())
		if err != nil {
			return err
		}
		if p.IsEmpty() {
			return fmt.Errorf("nothing to change: give at least one field flag")
		}

		return lockedRun(cmd.Context(), func(ctx context.Context, s *store.Store, _ types.Config) error {
			rec, err := s.Update(ctx, args[0], store.NormalizeGrade(args[1]), p)
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "updated %s %s: %s, score %.1f%%\n",
				rec.Subject, rec.Grade, rec.Status, rec.CompletenessScore)
			if verbose, _ := cmd.Flags().GetBool("show"); verbose {
				fmt.Print(report.Detail(rec))
			}
			return nil
		})
	},
}

// patchFromFlags builds a patch from the flags the user set.
func patchFromFlags(flags *pflag.FlagSet) (store.Patch, error) {
	var p store.Patch
	if flags.Changed("strand") {
		v, _ := flags.GetString("strand")
		p.Strand = &v
	}
	if flags.Changed("substrand") {
		v, _ := flags.GetString("substrand")
		p.Substrand = &v
	}
	if flags.Changed("notes") {
		v, _ := flags.GetString("notes")
		p.Notes = &v
	}
	if flags.Changed("status") {
		v, _ := flags.GetString("status")
		status := types.RecordStatus(v)
		p.Status = &status
	}
	for _, lf := range editListFlags {
		if !flags.Changed(lf.name) {
			continue
		}
		raw, _ := flags.GetStringArray(lf.name)
		items := make([]string, 0, len(raw))
		for _, item := range raw {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
		*lf.field(&p) = &items
	}
	return p, p.Validate()
}

func init() {
	editCmd.Flags().String("strand", "", "strand")
	editCmd.Flags().String("substrand", "", "sub-strand")
	editCmd.Flags().String("notes", "", "reviewer notes")
	editCmd.Flags().String("status", "", "record status: auto_extracted, reviewed or manual (default reviewed)")
	editCmd.Flags().Bool("show", false, "print the updated record")
	for _, lf := range editListFlags {
		editCmd.Flags().StringArray(lf.name, nil, lf.usage+" (repeatable)")
	}

	rootCmd.AddCommand(editCmd)
}
