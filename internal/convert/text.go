// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"fmt"
	"os"
)

// TextConverter reads page dumps produced by DumpPages or pdftotext.
type TextConverter struct{}

// Pages reads path and splits it on form feeds.
func (TextConverter) Pages(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading page dump %s: %w", path, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("page dump %s is empty", path)
	}
	return splitPages(string(data)), nil
}
