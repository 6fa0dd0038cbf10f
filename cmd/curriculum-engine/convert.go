// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/curriculum-engine/internal/assemble"
	"github.com/pdiddy/curriculum-engine/internal/convert"
	"github.com/pdiddy/curriculum-engine/pkg/types"
)

var convertCmd = &cobra.Command{
	Use:   "convert [pdfs...]",
	Short: "Dump PDF pages to form-feed separated text files",
	Long: `Convert writes the text of each PDF to <pages-dir>/<stem>.txt, one page per
form-feed separated block. The dumps can be inspected, hand-corrected and fed
back to extract, which reads .txt inputs with the text backend. Existing
dumps are skipped.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		batch, _ := cmd.Flags().GetBool("batch")
		if !batch && len(args) == 0 {
			return fmt.Errorf("provide PDF files to convert or use --batch")
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		ext := cfg.Extraction
		applyExtractionFlags(cmd, &ext)
		if !ext.Backend.Valid() || ext.Backend == types.BackendText {
			return fmt.Errorf("convert needs a PDF backend: native, pdfcpu or pdftotext")
		}

		paths := args
		if batch {
			found, err := assemble.Discover(ext.PDFDir)
			if err != nil {
				return err
			}
			for _, p := range found {
				if strings.EqualFold(filepath.Ext(p), ".pdf") {
					paths = append(paths, p)
				}
			}
		}

		conv, err := convert.New(ext.Backend)
		if err != nil {
			return err
		}

		result := convert.DumpPages(conv, paths, ext.PagesDir, os.Stdout)
		if result.HasFailures() {
			return fmt.Errorf("%d of %d files failed", result.Failed, result.Total())
		}
		return nil
	},
}

func init() {
	convertCmd.Flags().Bool("batch", false, "convert every PDF in pdf-dir")
	convertCmd.Flags().String("pdf-dir", types.DefaultPDFDir, "directory scanned by --batch")
	convertCmd.Flags().String("pages-dir", types.DefaultPagesDir, "directory receiving page dumps")
	convertCmd.Flags().String("backend", string(types.BackendNative), "PDF text backend: native, pdfcpu or pdftotext")

	rootCmd.AddCommand(convertCmd)
}
