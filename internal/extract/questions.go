// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"regexp"
	"strings"

	"github.com/pdiddy/curriculum-engine/pkg/types"
)

var (
	kiqLabelRe = regexp.MustCompile(`(?i)(?:key\s+)?inquiry\s+questions?\s*[:\-]?`)

	// sectionStopRe finds the next section heading after a labeled block.
	sectionStopRe = regexp.MustCompile(`(?im)^\s*(?:key\s+inquiry|suggested\s+learning|core\s+competenc|values?\b|assessment|specific\s+learning|(?:sub[\s\-]?)?strand\b|links?\s+to\s+other|pertinent)`)

	kiqItemSplitRe   = regexp.MustCompile(`\n|;`)
	interrogativeRe  = regexp.MustCompile(`(?i)^(?:what|how|why|when|where|which|who|whose|whom|in what|to what|can|could|should|would|is|are|do|does|did|will)\b`)
	questionLineSkip = regexp.MustCompile(`(?i)table|contents|page \d|grade|subject|strand`)
	questionSpanRe   = regexp.MustCompile(`[A-Z][^?]*\?`)
	questionSpanSkip = regexp.MustCompile(`(?i)table|page|grade|subject`)
	questionLabelRe  = regexp.MustCompile(`(?i)^(?:key\s+)?inquiry\s+questions?\s*[:\-]?\s*`)
	questionNumberRe = regexp.MustCompile(`^(?:\d+[.)]|\(?[a-z]\))\s+`)
)

// InquiryQuestions gathers key inquiry questions from a labeled block,
// from lines containing '?', and from question-shaped spans of the full
// text. Every result ends with exactly one '?'.
func InquiryQuestions(text string, lines []string) []string {
	var candidates []string
	candidates = append(candidates, questionsFromLabel(text)...)
	candidates = append(candidates, questionsFromLines(lines)...)
	candidates = append(candidates, questionsFromSpans(text)...)

	var cleaned []string
	for _, q := range candidates {
		if q = cleanQuestion(q); runeLen(q) >= 8 {
			cleaned = append(cleaned, q)
		}
	}
	return dedupFold(cleaned, types.MaxInquiryQuestions)
}

// questionsFromLabel reads each "Key Inquiry Question(s)" block up to the
// next section heading. Items without a '?' are kept only when they open
// like a question, since the label guarantees intent but PDFs often drop
// the punctuation.
func questionsFromLabel(text string) []string {
	var out []string
	for _, block := range labeledBlocks(text, kiqLabelRe) {
		for _, item := range kiqItemSplitRe.Split(block, -1) {
			item = strings.TrimSpace(strings.Trim(item, " -•\t"))
			if !between(item, 8, 300) {
				continue
			}
			if strings.Contains(item, "?") || interrogativeRe.MatchString(item) {
				out = append(out, item)
			}
		}
	}
	return out
}

func questionsFromLines(lines []string) []string {
	var out []string
	for _, line := range lines {
		if !strings.Contains(line, "?") || questionLineSkip.MatchString(line) {
			continue
		}
		if between(line, 8, 300) {
			out = append(out, line)
		}
	}
	return out
}

func questionsFromSpans(text string) []string {
	var out []string
	for _, span := range questionSpanRe.FindAllString(text, -1) {
		span = strings.TrimSpace(span)
		if between(span, 8, 300) && !questionSpanSkip.MatchString(span) {
			out = append(out, span)
		}
	}
	return out
}

// cleanQuestion collapses whitespace, strips a leading label, bullet or
// list number and normalizes the trailing question mark.
func cleanQuestion(q string) string {
	q = collapseSpace(q)
	q = questionLabelRe.ReplaceAllString(q, "")
	q = strings.TrimLeft(q, "-•* ")
	q = questionNumberRe.ReplaceAllString(q, "")
	return types.QuestionForm(q)
}

// labeledBlocks returns the text following each match of label, cut at
// the next section heading line.
func labeledBlocks(text string, label *regexp.Regexp) []string {
	var blocks []string
	for _, loc := range label.FindAllStringIndex(text, -1) {
		block := text[loc[1]:]
		if stop := sectionStopRe.FindStringIndex(block); stop != nil {
			block = block[:stop[0]]
		}
		blocks = append(blocks, block)
	}
	return blocks
}
