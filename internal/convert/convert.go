// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert turns curriculum PDFs into per-page plain text with
// pluggable backends, and dumps page text to disk for inspection.
package convert

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/curriculum-engine/internal/container"
	"github.com/pdiddy/curriculum-engine/pkg/types"
)

// PageSeparator divides pages in text dumps, matching pdftotext output.
const PageSeparator = "\f"

// Converter reads a document and returns one plain-text string per page,
// in page order. Pages without a text layer are returned as "" so that
// page numbers stay aligned.
type Converter interface {
	Pages(path string) ([]string, error)
}

// New returns the converter for backend. The pdftotext backend needs a
// container runtime and detects docker or podman on first use.
func New(backend types.PDFBackend) (Converter, error) {
	switch backend {
	case "", types.BackendNative:
		return NativeConverter{}, nil
	case types.BackendPdfcpu:
		return PdfcpuConverter{}, nil
	case types.BackendText:
		return TextConverter{}, nil
	case types.BackendPdftotext:
		rt, err := container.DetectRuntime()
		if err != nil {
			return nil, err
		}
		return NewPdftotextConverter(rt)
	}
	return nil, fmt.Errorf("unknown pdf backend %q", backend)
}

// ForPath returns c, or a TextConverter when path is a text dump.
func ForPath(c Converter, path string) Converter {
	if strings.EqualFold(filepath.Ext(path), ".txt") {
		return TextConverter{}
	}
	return c
}

// Stem returns the filename without directory and extension.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// BatchResult holds the outcome of a page dump run.
type BatchResult struct {
	Converted int
	Skipped   int
	Failed    int
}

// Total returns the total number of documents processed.
func (r BatchResult) Total() int {
	return r.Converted + r.Skipped + r.Failed
}

// HasFailures reports whether any document failed conversion.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// DumpPages converts each path and writes its pages to outDir/<stem>.txt,
// separated by form feeds. Existing dumps are skipped.
func DumpPages(c Converter, paths []string, outDir string, w io.Writer) BatchResult {
	var result BatchResult

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		fmt.Fprintf(w, "failed:  %s (%v)\n", outDir, err)
		result.Failed = len(paths)
		return result
	}

	for _, p := range paths {
		stem := Stem(p)
		outPath := filepath.Join(outDir, stem+".txt")

		if _, err := os.Stat(outPath); err == nil {
			fmt.Fprintf(w, "skipped: %s (already exists)\n", stem)
			result.Skipped++
			continue
		}

		pages, err := ForPath(c, p).Pages(p)
		if err != nil {
			fmt.Fprintf(w, "failed:  %s (%v)\n", stem, err)
			result.Failed++
			continue
		}

		if err := os.WriteFile(outPath, []byte(strings.Join(pages, PageSeparator)), 0o644); err != nil {
			fmt.Fprintf(w, "failed:  %s (%v)\n", stem, err)
			result.Failed++
			continue
		}

		fmt.Fprintf(w, "converted: %s (%d pages)\n", stem, len(pages))
		result.Converted++
	}

	fmt.Fprintf(w, "\nBatch summary: %d converted, %d skipped, %d failed (total: %d)\n",
		result.Converted, result.Skipped, result.Failed, result.Total())
	return result
}

// splitPages splits form-feed separated text. A trailing separator, as
// pdftotext writes after the last page, does not start a new page.
func splitPages(text string) []string {
	pages := strings.Split(text, PageSeparator)
	if n := len(pages); n > 1 && strings.TrimSpace(pages[n-1]) == "" {
		pages = pages[:n-1]
	}
	return pages
}
