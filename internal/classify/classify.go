// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package classify separates the mixed competency and value items read from
// curriculum tables into competencies, values, links to other subjects and
// pertinent and contemporary issues (PCIs). Source tables do not reliably
// keep these four facets apart, so each item is routed by an ordered rule
// cascade.
package classify

import (
	"regexp"
	"strings"
)

// Result holds the four disjoint classification outputs.
type Result struct {
	Competencies []string `json:"core_competencies" yaml:"core_competencies"`
	Values       []string `json:"values" yaml:"values"`
	Links        []string `json:"links_to_other_subjects" yaml:"links_to_other_subjects"`
	PCIs         []string `json:"pcis" yaml:"pcis"`
}

// minItemLen is the shortest trimmed item worth classifying.
const minItemLen = 4

var (
	linkPrefixRe  = regexp.MustCompile(`(?i)^links?\s+to\s+(?:other\s+)?(?:subject|learning)`)
	linkStripRe   = regexp.MustCompile(`(?i)^links?\s+to\s+(?:other\s+)?(?:subjects?|learning\s+areas?)\s*:?\s*`)
	pciPrefixRe   = regexp.MustCompile(`(?i)^(?:pertinent\s+(?:and\s+)?contemporary\s+issues|pci)`)
	pciStripRe    = regexp.MustCompile(`(?i)^(?:pertinent\s+(?:and\s+)?contemporary\s+issues\s*(?:\(?pcis?\)?)?|pcis?\b)\s*:?\s*`)
	valuePrefixRe = regexp.MustCompile(`(?i)^values?\s*:?\s+`)
	valueStripRe  = regexp.MustCompile(`(?i)^values?\s*:?\s*`)

	// valueKeywordRe matches national values at a word start so that
	// "community" is not read as "unity".
	valueKeywordRe = regexp.MustCompile(`(?i)\b(?:respect|responsibility|unity|love|patriotism|integrity|peace|social justice|humility|cooperation|self-esteem|self-confidence|sharing|caring)`)

	// subjectNameRe matches learning-area names as whole words so that
	// "creativity" is not read as CRE.
	subjectNameRe = regexp.MustCompile(`(?i)\b(?:kiswahili|french|german|arabic|indigenous languages|english|mathematics|integrated science|social studies|pre-technical|pre technical|creative arts|agriculture|nutrition|cre|ire|hre)\b`)
)

// teachWords mark a subject mention as a cross-subject link.
var teachWords = []string{"teach", "learnt", "learn", "relate", "use ", "used in", "apply", "language", "skills"}

// Classify partitions items. Rules are tried in order and the first match
// decides the category:
//
//  1. "Link(s) to (other) subjects/learning areas" prefix: stripped, link.
//  2. "link(s) to other" anywhere: link, verbatim.
//  3. "Pertinent (and) contemporary issues" or "PCI" prefix: stripped, PCI.
//  4. "Value(s):" prefix: stripped, value.
//  5. Names a national value and is under 200 chars: value.
//  6. Under 80 chars, names a subject and either mentions teaching or is
//     under 30 chars: link.
//  7. Otherwise: competency.
//
// Items under four characters are dropped. Output order follows input
// order, and a string (compared case-insensitively) appears at most once
// across all four lists.
func Classify(items []string) Result {
	var r Result
	seen := make(map[string]bool)
	add := func(list *[]string, s string) {
		key := strings.ToLower(s)
		if s == "" || seen[key] {
			return
		}
		seen[key] = true
		*list = append(*list, s)
	}

	for _, item := range items {
		text := strings.TrimSpace(item)
		if len(text) < minItemLen {
			continue
		}
		lower := strings.ToLower(text)

		switch {
		case linkPrefixRe.MatchString(text):
			add(&r.Links, strip(linkStripRe, text))
		case strings.Contains(lower, "link to other") || strings.Contains(lower, "links to other"):
			add(&r.Links, text)
		case pciPrefixRe.MatchString(text):
			add(&r.PCIs, strip(pciStripRe, text))
		case valuePrefixRe.MatchString(text):
			add(&r.Values, strip(valueStripRe, text))
		case len(text) < 200 && valueKeywordRe.MatchString(text):
			add(&r.Values, text)
		case isSubjectLink(text, lower):
			add(&r.Links, text)
		default:
			add(&r.Competencies, text)
		}
	}
	return r
}

func isSubjectLink(text, lower string) bool {
	if len(text) >= 80 || !subjectNameRe.MatchString(text) {
		return false
	}
	if len(text) < 30 {
		return true
	}
	for _, w := range teachWords {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

func strip(re *regexp.Regexp, s string) string {
	return strings.TrimSpace(re.ReplaceAllString(s, ""))
}
