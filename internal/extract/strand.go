// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"regexp"
	"strings"
)

var (
	strandLabelRe    = regexp.MustCompile(`(?i)^strand\b\s*[:\-]?\s*(.+)$`)
	substrandLabelRe = regexp.MustCompile(`(?i)^sub[\s\-]?strand\b\s*[:\-]?\s*(.+)$`)

	// labelRejectRe matches captured values that are table headers or
	// neighbouring section titles rather than a strand name.
	labelRejectRe = regexp.MustCompile(`(?i)summary of|sub[\s\-]?strands|grade\s*\d|\.\.\.|learning outcomes?|inquiry questions?|learning experiences?|core competenc|assessment`)

	headingRe       = regexp.MustCompile(`^\d+\.\d+(?:\.\d+)?\s+`)
	strandHeadingRe = regexp.MustCompile(`^(\d+\.\d+)\s+`)
	headingRejectRe = regexp.MustCompile(`(?i)learner|suggested|assessment|question|experience|outcome`)
)

// boilerplateLabels are values that appear after a Strand label in table
// headers and are never strand names.
var boilerplateLabels = map[string]bool{
	"the":         true,
	"the learner": true,
	"learner":     true,
	"sub strand":  true,
	"sub-strand":  true,
	"strand":      true,
}

// StrandSubstrand finds the strand and sub-strand names. Labeled lines
// ("Strand: Numbers") are preferred; numbered headings ("1.2 Fractions",
// "1.2.1 Proper fractions") are the fallback.
func StrandSubstrand(lines []string) (strand, substrand string) {
	strand = labeledField(lines, strandLabelRe)
	substrand = labeledField(lines, substrandLabelRe)
	if strand != "" && substrand != "" {
		return strand, substrand
	}

	headings := numberedHeadings(lines)
	if strand == "" {
		for _, h := range headings {
			if strandHeadingRe.MatchString(h) {
				strand = h
				break
			}
		}
	}
	if substrand == "" && strand != "" {
		substrand = childHeading(headings, strand)
	}
	return strand, substrand
}

// labeledField returns the first acceptable value captured by re.
func labeledField(lines []string, re *regexp.Regexp) string {
	for _, line := range lines {
		m := re.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		value := strings.Trim(m[1], " .:-")
		if acceptLabelValue(value) {
			return value
		}
	}
	return ""
}

func acceptLabelValue(value string) bool {
	if runeLen(value) < 3 {
		return false
	}
	lower := strings.ToLower(strings.Trim(value, " ,:-"))
	if boilerplateLabels[lower] || strings.HasPrefix(lower, "the learner") {
		return false
	}
	return !labelRejectRe.MatchString(value)
}

// numberedHeadings returns lines shaped like "N.N text" or "N.N.N text".
func numberedHeadings(lines []string) []string {
	var out []string
	for _, line := range lines {
		if !between(line, 6, 120) || headingRejectRe.MatchString(line) {
			continue
		}
		if headingRe.MatchString(line) {
			out = append(out, line)
		}
	}
	return out
}

// childHeading returns the first heading numbered under the strand's
// "N.N" prefix.
func childHeading(headings []string, strand string) string {
	m := strandHeadingRe.FindStringSubmatch(strand)
	if m == nil {
		return ""
	}
	prefix := m[1] + "."
	for _, h := range headings {
		if strings.HasPrefix(h, prefix) {
			return h
		}
	}
	return ""
}
