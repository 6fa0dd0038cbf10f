// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/curriculum-engine/internal/store"
	"github.com/pdiddy/curriculum-engine/pkg/types"
)

var overlayCmd = &cobra.Command{
	Use:   "overlay FILE",
	Short: "Merge curated YAML corrections over stored records",
	Long: `Overlay applies a YAML file of hand-curated corrections, one entry per
subject and grade, over the stored records. Fields an entry names replace
the stored ones; records that do not exist yet are created. Entries without
a status mark the record manual.

Example:

  entries:
    - subject: Maths
      grade: Grade 7
      strand: Numbers
      values: [Respect, Unity]`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ov, err := store.LoadOverlay(args[0])
		if err != nil {
			return err
		}
		if len(ov.Entries) == 0 {
			fmt.Fprintf(os.Stdout, "%s has no entries\n", args[0])
			return nil
		}

		return lockedRun(cmd.Context(), func(ctx context.Context, s *store.Store, _ types.Config) error {
			_, err := s.ApplyOverlay(ctx, ov, os.Stdout)
			return err
		})
	},
}

func init() {
	rootCmd.AddCommand(overlayCmd)
}
