// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract turns curriculum-design PDF text into structured fields.
// Each field has its own extractor built from an ordered list of heuristic
// tiers; extractors are pure and never fail, returning empty results when
// the text does not contain the field.
package extract

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// mojibake maps UTF-8 punctuation that was decoded as Windows-1252 back to
// the intended ASCII characters.
var mojibake = strings.NewReplacer(
	"â€™", "'",
	"â€˜", "'",
	"â€œ", `"`,
	"â€\u009d", `"`,
	"â€“", "-",
	"â€”", "-",
	"Â", "",
)

var (
	blankRunRe   = regexp.MustCompile(`\n{3,}`)
	spaceRunRe   = regexp.MustCompile(`\s+`)
	romanOnlyRe  = regexp.MustCompile(`^[ivxlcdm]+$`)
	digitsOnlyRe = regexp.MustCompile(`^\d+$`)
)

// Normalize repairs encoding artifacts in raw page text, folds carriage
// returns into newlines and collapses runs of blank lines to one.
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	text = mojibake.Replace(text)
	text = norm.NFC.String(text)
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return blankRunRe.ReplaceAllString(text, "\n\n")
}

// CleanLines splits text into trimmed, whitespace-collapsed lines and drops
// lines that carry no content: blanks, single characters, page numbers and
// roman-numeral folios.
func CleanLines(text string) []string {
	var lines []string
	for _, raw := range strings.Split(text, "\n") {
		line := collapseSpace(raw)
		if !meaningful(line) {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

func meaningful(line string) bool {
	if len(line) < 2 {
		return false
	}
	if digitsOnlyRe.MatchString(line) {
		return false
	}
	return !romanOnlyRe.MatchString(strings.ToLower(line))
}

func collapseSpace(s string) string {
	return strings.TrimSpace(spaceRunRe.ReplaceAllString(s, " "))
}
