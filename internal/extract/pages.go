// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"regexp"
	"strings"

	"github.com/pdiddy/curriculum-engine/pkg/types"
)

// curriculumKeywords mark a page as carrying curriculum content.
var curriculumKeywords = []string{
	"strand",
	"sub strand",
	"learning outcome",
	"key inquiry",
	"core competency",
	"value",
	"suggested learning",
	"assessment",
	"competencies",
}

// boilerplatePageRe matches front-matter pages: contents listings,
// acknowledgements, forewords and disclaimers.
var boilerplatePageRe = regexp.MustCompile(`(?im)table of contents|^\s*contents\s*$|acknowledge?ments?|^\s*foreword\s*$|^\s*preface\s*$|disclaimer`)

// PageFilter decides which pages of a document carry curriculum content.
type PageFilter struct {
	// StartPage is the 1-based first page considered.
	StartPage int
	// MinChars is the minimum stripped page length.
	MinChars int
	// MinNewlines is the minimum number of newlines on a page.
	MinNewlines int
}

// DefaultPageFilter returns the filter tuned for the KICD design series.
func DefaultPageFilter() PageFilter {
	return PageFilter{
		StartPage:   types.DefaultStartPage,
		MinChars:    types.DefaultMinChars,
		MinNewlines: types.DefaultMinNewlines,
	}
}

// FilterFor builds the filter for a document stem from page settings,
// applying the matching document family's start page.
func FilterFor(cfg types.PagesConfig, stem string) (PageFilter, types.DocumentFamily) {
	cfg = cfg.WithDefaults()
	family := cfg.ResolveFamily(stem)
	return PageFilter{
		StartPage:   family.StartPage,
		MinChars:    cfg.MinChars,
		MinNewlines: cfg.MinNewlines,
	}, family
}

// IsRelevant reports whether a single page looks like curriculum content.
func (f PageFilter) IsRelevant(page string) bool {
	if len(strings.TrimSpace(page)) < f.MinChars {
		return false
	}
	if strings.Count(page, "\n") < f.MinNewlines {
		return false
	}
	if boilerplatePageRe.MatchString(page) {
		return false
	}
	lower := strings.ToLower(page)
	for _, kw := range curriculumKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// Relevant returns, in original order, the pages from StartPage onwards
// that pass IsRelevant.
func (f PageFilter) Relevant(pages []string) []string {
	start := f.StartPage - 1
	if start < 0 {
		start = 0
	}
	var out []string
	for i := start; i < len(pages); i++ {
		if f.IsRelevant(pages[i]) {
			out = append(out, pages[i])
		}
	}
	return out
}

// SelectPages applies the filter and falls back to every page when none
// pass, so a too-strict filter never yields an empty document. fellBack
// reports whether the fallback was used.
func SelectPages(pages []string, f PageFilter) (selected []string, fellBack bool) {
	if rel := f.Relevant(pages); len(rel) > 0 {
		return rel, false
	}
	return pages, len(pages) > 0
}
