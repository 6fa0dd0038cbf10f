// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

// Fields holds the raw output of every extractor for one document, before
// competencies and values are reclassified.
type Fields struct {
	Strand              string
	Substrand           string
	LearningOutcomes    []string
	InquiryQuestions    []string
	LearningExperiences []string
	Competencies        []string
	Values              []string
}

// Extract normalizes text and runs every field extractor over it.
func Extract(text string) Fields {
	text = Normalize(text)
	lines := CleanLines(text)

	var f Fields
	f.Strand, f.Substrand = StrandSubstrand(lines)
	f.LearningOutcomes = LearningOutcomes(text, lines)
	f.InquiryQuestions = InquiryQuestions(text, lines)
	f.LearningExperiences = LearningExperiences(text)
	f.Competencies = Competencies(lines)
	f.Values = Values(lines)
	return f
}

// FacetItems returns competencies followed by values, the mixed input the
// classifier separates.
func (f Fields) FacetItems() []string {
	items := make([]string, 0, len(f.Competencies)+len(f.Values))
	items = append(items, f.Competencies...)
	return append(items, f.Values...)
}
