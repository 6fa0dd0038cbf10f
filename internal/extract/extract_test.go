// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/curriculum-engine/pkg/types"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"apostrophe mojibake", "Learnerâ€™s book", "Learner's book"},
		{"quote mojibake", "â€œShareâ€\u009d", `"Share"`},
		{"dash mojibake", "1â€“2", "1-2"},
		{"stray A circumflex", "Â Numbers", " Numbers"},
		{"carriage returns", "a\r\nb\rc", "a\nb\nc"},
		{"blank runs", "a\n\n\n\nb", "a\n\nb"},
		{"NFC composition", "cafe\u0301", "caf\u00e9"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestCleanLines(t *testing.T) {
	got := CleanLines("  Strand:   Numbers \n\n7\niv\nx\n  Sub strand\tFractions  ")
	assert.Equal(t, []string{"Strand: Numbers", "Sub strand Fractions"}, got)
}

// filler is page text that carries none of the curriculum keywords.
var filler = strings.Repeat("Lorem ipsum dolor sit amet consectetur adipiscing elit\n", 4)

func TestPageFilterRelevant(t *testing.T) {
	pages := make([]string, 20)
	for i := range pages {
		pages[i] = filler
	}
	for i := 11; i <= 14; i++ {
		pages[i] = fmt.Sprintf("Strand 1.0 Numbers, page %d\n%s", i+1, filler)
	}
	// Before the start page, so never relevant.
	pages[2] = "Strand overview\n" + filler

	got := DefaultPageFilter().Relevant(pages)
	assert.Equal(t, pages[11:15], got)
}

func TestPageFilterIsRelevant(t *testing.T) {
	f := DefaultPageFilter()
	tests := []struct {
		name string
		page string
		want bool
	}{
		{"curriculum page", "Key Inquiry Questions\n" + filler, true},
		{"too short", "Strand\nNumbers\nFractions\n", false},
		{"too few lines", "Strand: " + strings.Repeat("numbers ", 20), false},
		{"table of contents", "Table of Contents\nStrand 1.0 Numbers\n" + filler, false},
		{"acknowledgements", "Acknowledgements\nCore competency writers\n" + filler, false},
		{"no keyword", filler, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.IsRelevant(tt.page))
		})
	}
}

func TestSelectPagesFallsBack(t *testing.T) {
	pages := []string{filler, filler}

	got, fellBack := SelectPages(pages, DefaultPageFilter())
	assert.True(t, fellBack)
	assert.Equal(t, pages, got)

	got, fellBack = SelectPages(nil, DefaultPageFilter())
	assert.False(t, fellBack)
	assert.Empty(t, got)
}

func TestFilterFor(t *testing.T) {
	cfg := types.PagesConfig{
		Families: []types.DocumentFamily{
			{Name: "upper primary", Match: "*_Grade_1?", StartPage: 9},
		},
	}

	f, family := FilterFor(cfg, "Maths_Grade_10")
	assert.Equal(t, "upper primary", family.Name)
	assert.Equal(t, 9, f.StartPage)
	assert.Equal(t, types.DefaultMinChars, f.MinChars)

	f, family = FilterFor(cfg, "Maths_Grade_7")
	assert.Equal(t, "default", family.Name)
	assert.Equal(t, types.DefaultStartPage, f.StartPage)
}

func TestExtractLabeledDocument(t *testing.T) {
	text := "Strand: Numbers\nSub-strand: Fractions\nKey Inquiry Questions: What is a fraction\n" +
		"Suggested Learning Experiences: Learners are guided to discuss fractions in groups"

	got := Extract(text)
	assert.Equal(t, "Numbers", got.Strand)
	assert.Equal(t, "Fractions", got.Substrand)
	assert.Equal(t, []string{"What is a fraction?"}, got.InquiryQuestions)
	assert.Equal(t, []string{"Learners are guided to discuss fractions in groups"}, got.LearningExperiences)
	assert.Empty(t, got.LearningOutcomes)
	assert.Empty(t, got.FacetItems())
}

func TestExtractEmpty(t *testing.T) {
	got := Extract("")
	assert.Equal(t, Fields{}, got)
}

func TestStrandSubstrand(t *testing.T) {
	tests := []struct {
		name          string
		lines         []string
		wantStrand    string
		wantSubstrand string
	}{
		{
			name:          "labels",
			lines:         []string{"Strand: Numbers", "Sub-strand: Fractions"},
			wantStrand:    "Numbers",
			wantSubstrand: "Fractions",
		},
		{
			name:          "numbered headings",
			lines:         []string{"1.1 Whole Numbers", "1.1.1 Place value of digits"},
			wantStrand:    "1.1 Whole Numbers",
			wantSubstrand: "1.1.1 Place value of digits",
		},
		{
			name:       "boilerplate label skipped",
			lines:      []string{"Strand: The learner should be able to", "Strand: Measurement"},
			wantStrand: "Measurement",
		},
		{
			name:  "table header rejected",
			lines: []string{"Strand Sub strands Lessons"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			strand, substrand := StrandSubstrand(tt.lines)
			assert.Equal(t, tt.wantStrand, strand)
			assert.Equal(t, tt.wantSubstrand, substrand)
		})
	}
}

func TestLearningOutcomes(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "heading block",
			text: "Specific Learning Outcomes:\n- Identify proper fractions\n- Compare fractions using models\n" +
				"Key Inquiry Questions:\nWhat is a fraction?",
			want: []string{"Identify proper fractions", "Compare fractions using models"},
		},
		{
			name: "by the end preamble",
			text: "By the end of the sub strand, the learner should be able to:\n" +
				"1. identify proper fractions in real life\n2. compare fractions using models.\n" +
				"Core Competencies: communication",
			want: []string{"identify proper fractions in real life", "compare fractions using models"},
		},
		{
			name: "verb-led sentences",
			text: "Identify the place value of digits up to millions\n1. Explain the use of fractions in daily life\nUse",
			want: []string{"Identify the place value of digits up to millions", "Explain the use of fractions in daily life"},
		},
		{
			name: "letter markers stop at guided activities",
			text: "By the end of the sub strand, the learner should be able to:\n" +
				"a) identify place value of digits up to millions\nb) compare numbers using the symbols\n" +
				"The learner is guided to:\ndiscuss the use of numbers in pairs",
			want: []string{"identify place value of digits up to millions", "compare numbers using the symbols"},
		},
		{
			name: "none",
			text: "Acknowledgements\nWe thank the writers",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := Normalize(tt.text)
			assert.Equal(t, tt.want, LearningOutcomes(text, CleanLines(text)))
		})
	}
}

func TestLearningOutcomesCap(t *testing.T) {
	var b strings.Builder
	b.WriteString("Specific Learning Outcomes:\n")
	for i := 0; i < 40; i++ {
		fmt.Fprintf(&b, "Identify fraction number %d\n", i)
	}
	text := b.String()
	assert.Len(t, LearningOutcomes(text, CleanLines(text)), types.MaxLearningOutcomes)
}

func TestExtractorCaps(t *testing.T) {
	tests := []struct {
		name    string
		heading string
		line    string
		extract func(text string) []string
		max     int
	}{
		{
			name:    "inquiry questions",
			line:    "What is fraction number %d?",
			extract: func(text string) []string { return InquiryQuestions(text, CleanLines(text)) },
			max:     types.MaxInquiryQuestions,
		},
		{
			name:    "learning experiences",
			heading: "Suggested Learning Experiences:\n",
			line:    "Learners discuss activity %d in groups",
			extract: LearningExperiences,
			max:     types.MaxLearningExperiences,
		},
		{
			name:    "competencies",
			line:    "Learners use critical thinking in task %d",
			extract: func(text string) []string { return Competencies(CleanLines(text)) },
			max:     types.MaxCompetencies,
		},
		{
			name:    "values",
			line:    "Learners show respect in activity %d",
			extract: func(text string) []string { return Values(CleanLines(text)) },
			max:     types.MaxValues,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b strings.Builder
			b.WriteString(tt.heading)
			for i := 0; i < tt.max+10; i++ {
				fmt.Fprintf(&b, tt.line+"\n", i)
			}
			assert.Len(t, tt.extract(b.String()), tt.max)
		})
	}
}

func TestInquiryQuestions(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "labeled block split on semicolons",
			text: "Key Inquiry Questions: How do we use money; Why do we save\nValues: respect",
			want: []string{"How do we use money?", "Why do we save?"},
		},
		{
			name: "duplicates and repeated marks",
			text: "What is a fraction??\nwhat is a fraction?",
			want: []string{"What is a fraction?"},
		},
		{
			name: "list numbers stripped",
			text: "Key Inquiry Questions:\n1. How do we read large numbers?\n2. Why is place value important?",
			want: []string{"How do we read large numbers?", "Why is place value important?"},
		},
		{
			name: "letter markers stripped",
			text: "Key Inquiry Questions:\na) What is a fraction?\n(b) Where do we use fractions?",
			want: []string{"What is a fraction?", "Where do we use fractions?"},
		},
		{
			name: "table captions skipped",
			text: "Table 3: What is shown?",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := Normalize(tt.text)
			assert.Equal(t, tt.want, InquiryQuestions(text, CleanLines(text)))
		})
	}
}

func TestInquiryQuestionsEndWithOneMark(t *testing.T) {
	text := "Key Inquiry Question(s)\nHow can we conserve water\nWhy is soil important ??\n" +
		"Suggested Learning Experiences\nLearners discuss why trees matter?\nWhich plants grow best?"

	got := InquiryQuestions(text, CleanLines(text))
	require.NotEmpty(t, got)
	for _, q := range got {
		assert.True(t, strings.HasSuffix(q, "?"), q)
		assert.False(t, strings.HasSuffix(q, "??"), q)
	}
}

func TestLearningExperiences(t *testing.T) {
	long := "Learners discuss " + strings.Repeat("fractions ", 8)

	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "labeled block with continuation lines",
			text: "Suggested Learning Experiences:\n• Learners discuss the meaning of fractions\nusing real objects.\n" +
				"• Learners in pairs identify fractions in charts\nKey Inquiry Questions: What is a fraction?",
			want: []string{
				"Learners discuss the meaning of fractions using real objects.",
				"Learners in pairs identify fractions in charts",
			},
		},
		{
			name: "near duplicates share a prefix",
			text: "Suggested Learning Experiences:\n- " + long + "today.\n- " + long + "tomorrow.",
			want: []string{long + "today."},
		},
		{
			name: "activity lines without a label",
			text: "Learners listen to a story about sharing\nPage 12\nGrade 7 Mathematics design",
			want: []string{"Learners listen to a story about sharing"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LearningExperiences(Normalize(tt.text)))
		})
	}
}

func TestCompetenciesAndValues(t *testing.T) {
	lines := []string{
		"Core Competencies: Communication and collaboration",
		"Learners develop critical thinking skills",
		"Values: Respect, unity",
		"Core competencies: communication and collaboration",
	}

	assert.Equal(t, []string{"Communication and collaboration", "Learners develop critical thinking skills"}, Competencies(lines))
	assert.Equal(t, []string{"Respect, unity"}, Values(lines))
}
