// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"regexp"
	"strings"

	"github.com/pdiddy/curriculum-engine/pkg/types"
)

var (
	competencyLabelRe   = regexp.MustCompile(`(?i)core\s+competenc(?:y|ies)\s*:`)
	competencyKeywordRe = regexp.MustCompile(`(?i)critical thinking|communication and collaboration|digital literacy|self-efficacy|learning to learn|citizenship|creativity`)

	valueLabelRe   = regexp.MustCompile(`(?i)\bvalues?\s*:`)
	valueKeywordRe = regexp.MustCompile(`(?i)respect|integrity|unity|responsibility|honesty|perseverance|patriotism`)
)

// Competencies collects core-competency statements: the remainder of
// "Core Competencies:" lines and lines naming a known competency.
func Competencies(lines []string) []string {
	return facetLines(lines, competencyLabelRe, competencyKeywordRe, types.MaxCompetencies)
}

// Values collects national-value statements: the remainder of "Values:"
// lines and lines naming a known value.
func Values(lines []string) []string {
	return facetLines(lines, valueLabelRe, valueKeywordRe, types.MaxValues)
}

func facetLines(lines []string, label, keyword *regexp.Regexp, max int) []string {
	var found []string
	for _, line := range lines {
		if loc := label.FindStringIndex(line); loc != nil {
			if _, rest, ok := strings.Cut(line[loc[0]:], ":"); ok {
				if rest = strings.TrimSpace(rest); rest != "" {
					found = append(found, rest)
				}
			}
			continue
		}
		if keyword.MatchString(line) {
			found = append(found, line)
		}
	}
	return dedupFold(found, max)
}
