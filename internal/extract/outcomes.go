// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"regexp"
	"strings"

	"github.com/pdiddy/curriculum-engine/pkg/types"
)

var (
	sloHeadingRe = regexp.MustCompile(`(?i)specific\s+learning\s+outcomes?\s*[:\-]?`)
	sloStopRe    = regexp.MustCompile(`(?i)key\s+inquiry\s+questions?|suggested\s+learning\s+experiences|core\s+competencies|\bvalues\b`)

	byTheEndRe   = regexp.MustCompile(`(?i)by\s+the\s+end[^\n:]{0,120}:`)
	byTheEndStop = regexp.MustCompile(`(?im)^\s*(?:core competencies|values|key inquiry|suggested learning|strand|sub[\s\-]?strand|the\s+learner\s+is\s+guided\s+to)`)
	// pieceSplitRe splits a preamble block on lines, "1." numbers, bullets
	// and "a)" or "(a)" letter markers.
	pieceSplitRe = regexp.MustCompile(`(?m)\n|\d+\.\s+|[•\-]\s+|(?:^|\s)\(?[a-z]\)\s+`)
	sectionWords = regexp.MustCompile(`(?i)suggested learning|core competencies|key inquiry`)

	// bloomVerbRe matches outcome statements in lists, any case.
	bloomVerbRe = regexp.MustCompile(`(?i)^(?:identify|explain|describe|demonstrate|apply|discuss|use|analyse|analyze|construct|create|differentiate|outline|state|classify|compare)\b`)
	// bloomSentenceRe matches free-standing outcome sentences, which start
	// with a capitalized verb.
	bloomSentenceRe = regexp.MustCompile(`^(?:Identify|Explain|Describe|Demonstrate|Apply|Discuss|Use|Analyse|Analyze|Construct|Create|Differentiate)\b`)

	outcomeBoilerplateRe = regexp.MustCompile(`(?i)table of contents|summary of strands|lesson allocation|general learning outcomes`)
	leadingNumberRe      = regexp.MustCompile(`^\d+\.\s*`)
	blockSkipRe          = regexp.MustCompile(`(?i)^strand$|^sub[\s\-]?strand$|^by the end of`)
)

// LearningOutcomes extracts specific learning outcomes. The first tier that
// yields anything wins: a "Specific Learning Outcomes" block, then
// "By the end of the sub strand ...:" lists, then free-standing sentences
// opening with a Bloom's-taxonomy verb.
func LearningOutcomes(text string, lines []string) []string {
	tiers := []func() []string{
		func() []string { return outcomesFromHeading(text) },
		func() []string { return outcomesFromPreamble(text) },
		func() []string { return outcomesFromLines(lines) },
	}
	for _, tier := range tiers {
		if found := tier(); len(found) > 0 {
			return found
		}
	}
	return nil
}

// outcomesFromHeading returns the lines between a Specific Learning
// Outcomes heading and the next section heading.
func outcomesFromHeading(text string) []string {
	loc := sloHeadingRe.FindStringIndex(text)
	if loc == nil {
		return nil
	}
	block := text[loc[1]:]
	if stop := sloStopRe.FindStringIndex(block); stop != nil {
		block = block[:stop[0]]
	}

	var candidates []string
	for _, raw := range strings.Split(block, "\n") {
		line := strings.Trim(collapseSpace(raw), " -•\t")
		if runeLen(line) < 6 || digitsOnlyRe.MatchString(line) || blockSkipRe.MatchString(line) {
			continue
		}
		candidates = append(candidates, line)
	}
	return dedupFold(candidates, types.MaxLearningOutcomes)
}

// outcomesFromPreamble collects verb-led pieces following every
// "By the end of ...:" preamble up to the next section heading.
func outcomesFromPreamble(text string) []string {
	var captured []string
	for _, loc := range byTheEndRe.FindAllStringIndex(text, -1) {
		block := text[loc[1]:]
		if stop := byTheEndStop.FindStringIndex(block); stop != nil {
			block = block[:stop[0]]
		}
		for _, piece := range pieceSplitRe.Split(block, -1) {
			line := strings.Trim(collapseSpace(piece), " .:-")
			if !between(line, 10, 220) || sectionWords.MatchString(line) {
				continue
			}
			if bloomVerbRe.MatchString(line) {
				captured = append(captured, line)
			}
		}
	}
	return dedupFold(captured, types.MaxLearningOutcomes)
}

// outcomesFromLines picks free-standing outcome sentences.
func outcomesFromLines(lines []string) []string {
	var candidates []string
	for _, line := range lines {
		line = strings.TrimSpace(leadingNumberRe.ReplaceAllString(line, ""))
		if !between(line, 20, 220) || outcomeBoilerplateRe.MatchString(line) {
			continue
		}
		if bloomSentenceRe.MatchString(line) {
			candidates = append(candidates, line)
		}
	}
	return dedupFold(candidates, types.MaxLearningOutcomes)
}
