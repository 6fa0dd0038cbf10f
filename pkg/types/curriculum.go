// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// RecordStatus marks where a CurriculumRecord is in its review lifecycle.
type RecordStatus string

const (
	StatusAutoExtracted RecordStatus = "auto_extracted"
	StatusReviewed      RecordStatus = "reviewed"
	StatusManual        RecordStatus = "manual"
)

// Valid reports whether s is one of the known statuses.
func (s RecordStatus) Valid() bool {
	switch s {
	case StatusAutoExtracted, StatusReviewed, StatusManual:
		return true
	}
	return false
}

// List caps. No list field of a stored record exceeds these.
const (
	MaxLearningOutcomes     = 30
	MaxInquiryQuestions     = 15
	MaxLearningExperiences  = 15
	MaxCompetencies         = 20
	MaxValues               = 20
	MaxLinksToOtherSubjects = 20
	MaxPCIs                 = 20
)

// CurriculumRecord is the normalized curriculum content for one
// (subject, grade) pair.
type CurriculumRecord struct {
	// ID is the store row id. Zero for records that were never persisted.
	ID int64 `json:"id,omitempty" yaml:"id,omitempty"`

	// Subject and Grade are the natural key, unique together case-insensitively.
	Subject string `json:"subject" yaml:"subject"`
	Grade   string `json:"grade" yaml:"grade"`

	Strand    string `json:"strand" yaml:"strand"`
	Substrand string `json:"substrand" yaml:"substrand"`

	LearningOutcomes             []string `json:"learning_outcomes" yaml:"learning_outcomes"`
	KeyInquiryQuestions          []string `json:"key_inquiry_questions" yaml:"key_inquiry_questions"`
	SuggestedLearningExperiences []string `json:"suggested_learning_experiences" yaml:"suggested_learning_experiences"`
	CoreCompetencies             []string `json:"core_competencies" yaml:"core_competencies"`
	Values                       []string `json:"values" yaml:"values"`
	LinksToOtherSubjects         []string `json:"links_to_other_subjects" yaml:"links_to_other_subjects"`
	PCIs                         []string `json:"pcis" yaml:"pcis"`

	Status RecordStatus `json:"status" yaml:"status"`

	// CompletenessScore is derived from the fields above. Writers call
	// Sanitize before persisting so the stored value is never stale.
	CompletenessScore float64 `json:"completeness_score" yaml:"completeness_score"`

	// SourceIdentifier is the filename stem the record was extracted from.
	SourceIdentifier string `json:"source_identifier" yaml:"source_identifier"`

	Notes       string    `json:"notes,omitempty" yaml:"notes,omitempty"`
	LastUpdated time.Time `json:"last_updated,omitempty" yaml:"last_updated,omitempty"`
}

// completenessChecks are the field-presence checks behind the score.
var completenessChecks = []func(r *CurriculumRecord) bool{
	func(r *CurriculumRecord) bool { return strings.TrimSpace(r.Strand) != "" },
	func(r *CurriculumRecord) bool { return strings.TrimSpace(r.Substrand) != "" },
	func(r *CurriculumRecord) bool { return len(r.LearningOutcomes) >= 2 },
	func(r *CurriculumRecord) bool { return len(r.KeyInquiryQuestions) >= 3 },
	func(r *CurriculumRecord) bool { return len(r.SuggestedLearningExperiences) >= 5 },
	func(r *CurriculumRecord) bool { return len(r.CoreCompetencies) >= 2 },
	func(r *CurriculumRecord) bool { return len(r.Values) >= 2 },
}

// Completeness returns the percentage (0-100) of field-presence checks
// the record currently passes.
func (r *CurriculumRecord) Completeness() float64 {
	passed := 0
	for _, check := range completenessChecks {
		if check(r) {
			passed++
		}
	}
	return float64(passed) / float64(len(completenessChecks)) * 100
}

// Sanitize enforces the record invariants in place: lists are clamped to
// their caps, inquiry questions end with exactly one '?', an empty status
// becomes auto_extracted and the completeness score is recomputed.
func (r *CurriculumRecord) Sanitize() {
	r.Subject = strings.TrimSpace(r.Subject)
	r.Grade = strings.TrimSpace(r.Grade)
	r.Strand = strings.TrimSpace(r.Strand)
	r.Substrand = strings.TrimSpace(r.Substrand)

	questions := make([]string, 0, len(r.KeyInquiryQuestions))
	for _, q := range r.KeyInquiryQuestions {
		if q = QuestionForm(q); q != "" {
			questions = append(questions, q)
		}
	}
	r.KeyInquiryQuestions = questions

	r.LearningOutcomes = clamp(r.LearningOutcomes, MaxLearningOutcomes)
	r.KeyInquiryQuestions = clamp(r.KeyInquiryQuestions, MaxInquiryQuestions)
	r.SuggestedLearningExperiences = clamp(r.SuggestedLearningExperiences, MaxLearningExperiences)
	r.CoreCompetencies = clamp(r.CoreCompetencies, MaxCompetencies)
	r.Values = clamp(r.Values, MaxValues)
	r.LinksToOtherSubjects = clamp(r.LinksToOtherSubjects, MaxLinksToOtherSubjects)
	r.PCIs = clamp(r.PCIs, MaxPCIs)

	if r.Status == "" {
		r.Status = StatusAutoExtracted
	}
	r.CompletenessScore = r.Completeness()
}

// QuestionForm trims s and makes it end with exactly one question mark.
// Blank input yields "".
func QuestionForm(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimRight(s, "? \t")
	if s == "" {
		return ""
	}
	return s + "?"
}

func clamp(items []string, max int) []string {
	if len(items) > max {
		return items[:max]
	}
	return items
}

var (
	lessonCountRe  = regexp.MustCompile(`(?i)\(\s*(\d+)\s*lessons?\s*\)`)
	numberPrefixRe = regexp.MustCompile(`^\d+(?:\.\d+)*\s*`)
)

// LessonCount returns the lesson allocation embedded in the strand, as in
// "1.3 Fractions (9 lessons)". It returns 0 when the strand names none.
func (r *CurriculumRecord) LessonCount() int {
	m := lessonCountRe.FindStringSubmatch(r.Strand)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// Topic returns the strand without its numbering and lesson allocation:
// "1.3 Fractions (9 lessons)" becomes "Fractions".
func (r *CurriculumRecord) Topic() string {
	t := lessonCountRe.ReplaceAllString(r.Strand, "")
	t = numberPrefixRe.ReplaceAllString(strings.TrimSpace(t), "")
	return strings.TrimSpace(t)
}
