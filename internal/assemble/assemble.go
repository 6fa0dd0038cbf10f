// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package assemble builds one CurriculumRecord per curriculum document and
// runs the extraction batch that hands records to the store.
package assemble

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/pdiddy/curriculum-engine/internal/classify"
	"github.com/pdiddy/curriculum-engine/internal/extract"
	"github.com/pdiddy/curriculum-engine/pkg/types"
)

// UnknownGrade is the grade given to documents whose name carries none.
const UnknownGrade = "Unknown"

var stemGradeRe = regexp.MustCompile(`(?i)_grade_(\d+)`)

// ParseStem reads subject and grade from a "<Subject>_Grade_<N>" filename
// stem. "pre-technical_studies_grade_9" yields ("Pre Technical Studies",
// "Grade 9").
func ParseStem(stem string) (subject, grade string) {
	name := strings.ReplaceAll(stem, "-", "_")

	grade = UnknownGrade
	if m := stemGradeRe.FindStringSubmatch(name); m != nil {
		n, _ := strconv.Atoi(m[1])
		grade = "Grade " + strconv.Itoa(n)
	}

	name = stemGradeRe.ReplaceAllString(name, "")
	name = strings.Join(strings.Fields(strings.ReplaceAll(name, "_", " ")), " ")
	return cases.Title(language.Und).String(name), grade
}

// Assemble builds the record for one document: relevant pages are joined,
// every extractor runs over them and the mixed competency and value items
// are reclassified. The result is sanitized and scored.
func Assemble(doc types.Document, filter extract.PageFilter) types.CurriculumRecord {
	rec, _ := assemble(doc, filter)
	return rec
}

// assemble also reports whether the page filter fell back to all pages.
func assemble(doc types.Document, filter extract.PageFilter) (types.CurriculumRecord, bool) {
	pages, fellBack := extract.SelectPages(doc.Pages, filter)
	fields := extract.Extract(strings.Join(pages, "\n"))
	facets := classify.Classify(fields.FacetItems())

	subject, grade := ParseStem(doc.Stem)
	rec := types.CurriculumRecord{
		Subject:                      subject,
		Grade:                        grade,
		Strand:                       fields.Strand,
		Substrand:                    fields.Substrand,
		LearningOutcomes:             fields.LearningOutcomes,
		KeyInquiryQuestions:          fields.InquiryQuestions,
		SuggestedLearningExperiences: fields.LearningExperiences,
		CoreCompetencies:             facets.Competencies,
		Values:                       facets.Values,
		LinksToOtherSubjects:         facets.Links,
		PCIs:                         facets.PCIs,
		Status:                       types.StatusAutoExtracted,
		SourceIdentifier:             doc.Stem,
	}
	rec.Sanitize()
	return rec, fellBack
}

// emptyRecord is stored for a document that could not be read, so the
// failure is visible in review with a zero score.
func emptyRecord(stem string, cause error) types.CurriculumRecord {
	subject, grade := ParseStem(stem)
	rec := types.CurriculumRecord{
		Subject:          subject,
		Grade:            grade,
		Status:           types.StatusAutoExtracted,
		SourceIdentifier: stem,
		Notes:            "extraction failed: " + cause.Error(),
	}
	rec.Sanitize()
	return rec
}
