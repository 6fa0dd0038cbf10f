// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"fmt"
	"log/slog"

	"github.com/ledongthuc/pdf"
)

// NativeConverter reads the PDF text layer in-process with ledongthuc/pdf.
// Scanned, image-only pages come back empty.
type NativeConverter struct{}

// Pages returns the plain text of every page.
func (NativeConverter) Pages(path string) (pages []string, err error) {
	// ledongthuc/pdf panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			pages, err = nil, fmt.Errorf("parsing pdf %s: %v", path, r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening pdf %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	n := r.NumPage()
	if n == 0 {
		return nil, fmt.Errorf("pdf %s has no pages", path)
	}

	pages = make([]string, n)
	for i := 1; i <= n; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		text, pageErr := p.GetPlainText(nil)
		if pageErr != nil {
			slog.Debug("skipping unreadable page", "path", path, "page", i, "error", pageErr)
			continue
		}
		pages[i-1] = text
	}
	return pages, nil
}
