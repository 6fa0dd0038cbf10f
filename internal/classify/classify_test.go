// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package classify

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		items []string
		want  Result
	}{
		{
			name: "value link and competency",
			items: []string{
				"Respect for others",
				"Link to other subjects: Kiswahili",
				"Critical thinking and problem solving",
			},
			want: Result{
				Competencies: []string{"Critical thinking and problem solving"},
				Values:       []string{"Respect for others"},
				Links:        []string{"Kiswahili"},
			},
		},
		{
			name: "embedded link phrase kept verbatim",
			items: []string{"Learners apply links to other learning areas such as Agriculture"},
			want: Result{
				Links: []string{"Learners apply links to other learning areas such as Agriculture"},
			},
		},
		{
			name: "pci long and short prefixes",
			items: []string{
				"Pertinent and Contemporary Issues (PCIs): Environmental conservation",
				"PCI: Financial literacy",
			},
			want: Result{
				PCIs: []string{"Environmental conservation", "Financial literacy"},
			},
		},
		{
			name:  "value prefix stripped",
			items: []string{"Values: Honesty in reporting results"},
			want: Result{
				Values: []string{"Honesty in reporting results"},
			},
		},
		{
			name: "short subject fragment is a link",
			items: []string{"English", "Mathematics is used in measuring land in Agriculture"},
			want: Result{
				Links: []string{"English", "Mathematics is used in measuring land in Agriculture"},
			},
		},
		{
			name:  "subject name without teaching context stays a competency",
			items: []string{"Mathematics appears in the school timetable every week"},
			want: Result{
				Competencies: []string{"Mathematics appears in the school timetable every week"},
			},
		},
		{
			name:  "creativity is not CRE and community is not unity",
			items: []string{"Creativity and imagination", "Citizenship in the community"},
			want: Result{
				Competencies: []string{"Creativity and imagination", "Citizenship in the community"},
			},
		},
		{
			name:  "short and blank items dropped",
			items: []string{"", "  ", "ab", "   xyz  "},
			want:  Result{},
		},
		{
			name:  "case-insensitive dedup across lists",
			items: []string{"Digital literacy", "DIGITAL LITERACY", "Unity", "unity"},
			want: Result{
				Competencies: []string{"Digital literacy"},
				Values:       []string{"Unity"},
			},
		},
		{
			name:  "prefix with nothing after it yields nothing",
			items: []string{"Links to other subjects:"},
			want:  Result{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.items))
		})
	}
}

func TestClassifyDisjoint(t *testing.T) {
	items := []string{
		"Values: Respect",
		"Respect",
		"Link to other subjects: Respect",
		"PCI: respect",
		"Communication and collaboration",
		"communication and collaboration",
		"Kiswahili",
		"Links to other subjects: Kiswahili",
	}
	r := Classify(items)

	seen := make(map[string]string)
	lists := map[string][]string{
		"competencies": r.Competencies,
		"values":       r.Values,
		"links":        r.Links,
		"pcis":         r.PCIs,
	}
	for name, list := range lists {
		for _, s := range list {
			key := strings.ToLower(s)
			if other, ok := seen[key]; ok {
				t.Errorf("%q appears in both %s and %s", s, other, name)
			}
			seen[key] = name
		}
	}
}

func TestClassifyIdempotent(t *testing.T) {
	items := []string{
		"Respect for others",
		"Self-efficacy",
		"Link to other subjects: French",
		"Pertinent and contemporary issues: Health education",
		"Learning to learn",
	}
	first := Classify(items)
	second := Classify(items)
	assert.Equal(t, first, second)
}
