// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/pdiddy/curriculum-engine/pkg/types"
)

// experienceDedupRunes is how much of an experience is compared when
// deduplicating. Repeated activities often differ only in trailing
// punctuation or a closing clause.
const experienceDedupRunes = 80

var (
	sleLabelRe = regexp.MustCompile(`(?i)(?:suggested\s+)?learning\s+experiences?\s*[:\-]?`)

	itemStartRe     = regexp.MustCompile(`^(?:[•\-\*]\s+|\d+[\).]\s*|\(?[a-z]\)\s+)`)
	subNumberingRe  = regexp.MustCompile(`^\d+\.\d+\.?\d*\s*`)
	lessonAllocRe   = regexp.MustCompile(`(?i)^\(\d+\s+lessons?\)\s*`)
	bulletPrefixRe  = regexp.MustCompile(`^(?:[•\-\*]\s*|\d+[\).]\s*|\(?[a-z]\)\s+)`)
	bulletedSpanRe  = regexp.MustCompile(`(?m)^\s*[•\-\*]\s+([A-Z][^?\n]{15,300})`)
	experienceSkip  = regexp.MustCompile(`(?i)strand|page|assessment|rubric|grade|subject|table`)
	activityPhrases = []string{"the learner", "learners", "listen to", "group activity", "pair work", "role play", "reflect"}
)

// activityVerbs mark a candidate as a learning activity.
var activityVerbs = []string{
	"listen", "read", "write", "discuss", "present", "create", "practice",
	"observe", "identify", "demonstrate", "group", "pair", "engage",
}

// LearningExperiences extracts suggested learning experiences. Labeled
// "Suggested Learning Experiences" blocks take priority; free-standing
// activity lines and bullets are used only when no block yields anything.
func LearningExperiences(text string) []string {
	found := experiencesFromLabel(text)
	if len(found) == 0 {
		found = experiencesFromLines(text)
	}

	var cleaned []string
	for _, e := range found {
		if e = collapseSpace(e); runeLen(e) >= 15 {
			cleaned = append(cleaned, e)
		}
	}
	return dedupBy(cleaned, types.MaxLearningExperiences, prefixKey(experienceDedupRunes))
}

func experiencesFromLabel(text string) []string {
	var out []string
	for _, block := range labeledBlocks(text, sleLabelRe) {
		for _, item := range splitItems(block) {
			item = cleanExperience(item)
			if isActivity(item) {
				out = append(out, item)
			}
		}
	}
	return out
}

func experiencesFromLines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if !between(line, 15, 300) {
			continue
		}
		lower := strings.ToLower(line)
		if experienceSkip.MatchString(lower) {
			continue
		}
		if containsAny(lower, activityPhrases) || containsAny(lower, activityVerbs) {
			out = append(out, cleanExperience(line))
		}
	}
	for _, m := range bulletedSpanRe.FindAllStringSubmatch(text, -1) {
		if isActivity(m[1]) {
			out = append(out, strings.TrimSpace(m[1]))
		}
	}
	return out
}

// splitItems breaks a block into list items. An item starts at a bullet,
// a "1)" or "a)" marker, or a line opening with a capital letter; any
// other line continues the previous item.
func splitItems(block string) []string {
	var items []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			items = append(items, cur.String())
			cur.Reset()
		}
	}
	for _, raw := range strings.Split(block, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if itemStartRe.MatchString(line) || startsUpper(line) {
			flush()
		} else if cur.Len() > 0 {
			cur.WriteByte(' ')
		}
		cur.WriteString(line)
	}
	flush()
	return items
}

func cleanExperience(item string) string {
	item = collapseSpace(item)
	item = subNumberingRe.ReplaceAllString(item, "")
	item = lessonAllocRe.ReplaceAllString(item, "")
	item = bulletPrefixRe.ReplaceAllString(item, "")
	return strings.TrimSpace(item)
}

func isActivity(item string) bool {
	return between(item, 15, 300) && containsAny(strings.ToLower(item), activityVerbs)
}

func startsUpper(s string) bool {
	for _, r := range s {
		return unicode.IsUpper(r)
	}
	return false
}
