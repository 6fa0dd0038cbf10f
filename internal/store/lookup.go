// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"fmt"
	"regexp"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/pdiddy/curriculum-engine/pkg/types"
)

// subjectAliases maps the names teachers use to the subject names the
// KICD files are published under, spelling included.
var subjectAliases = map[string]string{
	"mathematics":               "maths",
	"math":                      "maths",
	"science":                   "intergrated science",
	"integrated science":        "intergrated science",
	"social studies":            "social studies",
	"creative arts":             "creative arts",
	"agriculture":               "agriculture and nutrition",
	"agriculture and nutrition": "agriculture and nutrition",
	"creative arts and sports":  "creative arts and sports",
	"pre-technical studies":     "pre technical studies",
	"pre technical studies":     "pre technical studies",
	"indigenous languages":      "indigenious languages",
	"indigenous language":       "indigenious languages",
}

var bareGradeRe = regexp.MustCompile(`^\d+$`)

// NormalizeGrade turns "7" into "Grade 7" and leaves other forms trimmed.
func NormalizeGrade(grade string) string {
	grade = strings.TrimSpace(grade)
	if bareGradeRe.MatchString(grade) {
		n, _ := strconv.Atoi(grade)
		return "Grade " + strconv.Itoa(n)
	}
	return grade
}

// subjectKey lowercases a subject and treats underscores and hyphens as
// spaces.
func subjectKey(s string) string {
	s = strings.ToLower(s)
	s = strings.NewReplacer("_", " ", "-", " ").Replace(s)
	return strings.Join(strings.Fields(s), " ")
}

// subjectNames returns the names a requested subject may be stored
// under: the request itself, its alias target and every other alias of
// that target.
func subjectNames(subject string) []string {
	raw := strings.ToLower(strings.TrimSpace(subject))
	canonical := raw
	if alias, ok := subjectAliases[raw]; ok {
		canonical = alias
	}

	var siblings []string
	for name, target := range subjectAliases {
		if target == canonical {
			siblings = append(siblings, name)
		}
	}
	sort.Strings(siblings)

	names := []string{raw}
	for _, name := range append([]string{canonical}, siblings...) {
		if !slices.Contains(names, name) {
			names = append(names, name)
		}
	}
	return names
}

// Lookup finds the record a lesson-plan request means. The subject as
// given and each of its aliases are matched exactly, then ignoring
// underscores and hyphens, then by any shared keyword. Grade may be given
// as "7" or "Grade 7".
func (s *Store) Lookup(ctx context.Context, subject, grade string) (types.CurriculumRecord, error) {
	grade = NormalizeGrade(grade)
	candidates, err := s.query(ctx,
		`SELECT `+recordColumns+` FROM curriculum WHERE grade = ? ORDER BY subject`, grade)
	if err != nil {
		return types.CurriculumRecord{}, err
	}

	names := subjectNames(subject)
	for _, want := range names {
		for _, rec := range candidates {
			if strings.ToLower(rec.Subject) == want {
				return rec, nil
			}
		}
	}
	for _, want := range names {
		wantKey := subjectKey(want)
		for _, rec := range candidates {
			if subjectKey(rec.Subject) == wantKey {
				return rec, nil
			}
		}
	}
	for _, want := range names {
		words := strings.Fields(subjectKey(want))
		for _, rec := range candidates {
			have := subjectKey(rec.Subject)
			for _, word := range words {
				if len(word) > 3 && strings.Contains(have, word) {
					return rec, nil
				}
			}
		}
	}
	return types.CurriculumRecord{}, fmt.Errorf("%s %s: %w", subject, grade, ErrNotFound)
}
