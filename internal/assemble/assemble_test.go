// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package assemble

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/curriculum-engine/internal/extract"
	"github.com/pdiddy/curriculum-engine/internal/store"
	"github.com/pdiddy/curriculum-engine/pkg/types"
)

// contentPage is a curriculum page that passes the default filter.
const contentPage = "Strand: Numbers\nSub-strand: Fractions\nKey Inquiry Questions: What is a fraction\n" +
	"Suggested Learning Experiences: Learners are guided to discuss fractions in groups\n" +
	"Core Competencies: Critical thinking and problem solving\nValues: Respect for others\n"

var fillerPage = strings.Repeat("Lorem ipsum dolor sit amet consectetur adipiscing elit\n", 4)

// designPages returns a document whose curriculum content starts on
// page 12.
func designPages() []string {
	pages := make([]string, 0, 13)
	for i := 0; i < 11; i++ {
		pages = append(pages, fillerPage)
	}
	return append(pages, contentPage, fillerPage)
}

// --- fakes ---

type fakeConverter struct {
	pages map[string][]string
	errs  map[string]error
	calls []string
}

func (f *fakeConverter) Pages(path string) ([]string, error) {
	f.calls = append(f.calls, path)
	if err, ok := f.errs[path]; ok {
		return nil, err
	}
	return f.pages[path], nil
}

type fakeSink struct {
	records   map[string]types.CurriculumRecord
	nextID    int64
	upsertErr error
}

func newFakeSink() *fakeSink {
	return &fakeSink{records: make(map[string]types.CurriculumRecord)}
}

func key(subject, grade string) string { return subject + "|" + grade }

func (s *fakeSink) Upsert(_ context.Context, subject, grade string, rec types.CurriculumRecord) (int64, error) {
	if s.upsertErr != nil {
		return 0, s.upsertErr
	}
	if old, ok := s.records[key(subject, grade)]; ok {
		rec.ID = old.ID
	} else {
		s.nextID++
		rec.ID = s.nextID
	}
	s.records[key(subject, grade)] = rec
	return rec.ID, nil
}

func (s *fakeSink) InsertIfAbsent(_ context.Context, subject, grade string, rec types.CurriculumRecord) (bool, error) {
	if _, ok := s.records[key(subject, grade)]; ok {
		return false, nil
	}
	s.nextID++
	rec.ID = s.nextID
	s.records[key(subject, grade)] = rec
	return true, nil
}

func (s *fakeSink) Get(_ context.Context, subject, grade string) (types.CurriculumRecord, error) {
	rec, ok := s.records[key(subject, grade)]
	if !ok {
		return types.CurriculumRecord{}, fmt.Errorf("%s %s: %w", subject, grade, store.ErrNotFound)
	}
	return rec, nil
}

// --- tests ---

func TestParseStem(t *testing.T) {
	tests := []struct {
		stem, subject, grade string
	}{
		{"Social_Studies_Grade_7", "Social Studies", "Grade 7"},
		{"pre-technical_studies_grade_9", "Pre Technical Studies", "Grade 9"},
		{"Maths_Grade_07", "Maths", "Grade 7"},
		{"English_Grade_10_Revised", "English Revised", "Grade 10"},
		{"Kiswahili", "Kiswahili", UnknownGrade},
	}
	for _, tt := range tests {
		t.Run(tt.stem, func(t *testing.T) {
			subject, grade := ParseStem(tt.stem)
			assert.Equal(t, tt.subject, subject)
			assert.Equal(t, tt.grade, grade)
		})
	}
}

func TestAssemble(t *testing.T) {
	doc := types.Document{Stem: "Maths_Grade_7", Pages: designPages()}

	rec := Assemble(doc, extract.DefaultPageFilter())

	assert.Equal(t, "Maths", rec.Subject)
	assert.Equal(t, "Grade 7", rec.Grade)
	assert.Equal(t, "Numbers", rec.Strand)
	assert.Equal(t, "Fractions", rec.Substrand)
	assert.Equal(t, []string{"What is a fraction?"}, rec.KeyInquiryQuestions)
	assert.Equal(t, []string{"Learners are guided to discuss fractions in groups"}, rec.SuggestedLearningExperiences)
	assert.Equal(t, []string{"Critical thinking and problem solving"}, rec.CoreCompetencies)
	assert.Equal(t, []string{"Respect for others"}, rec.Values)
	assert.Equal(t, types.StatusAutoExtracted, rec.Status)
	assert.Equal(t, "Maths_Grade_7", rec.SourceIdentifier)
	assert.InDelta(t, 200.0/7, rec.CompletenessScore, 1e-9)
}

func TestAssembleFallsBackToAllPages(t *testing.T) {
	// Content before the start page only: the filter finds nothing.
	doc := types.Document{Stem: "Maths_Grade_7", Pages: []string{contentPage, fillerPage}}

	rec, fellBack := assemble(doc, extract.DefaultPageFilter())
	assert.True(t, fellBack)
	assert.Equal(t, "Numbers", rec.Strand)
}

func TestRun(t *testing.T) {
	conv := &fakeConverter{
		pages: map[string][]string{
			"cbc/Maths_Grade_7.pdf":     designPages(),
			"cbc/Kiswahili_Grade_8.pdf": {fillerPage},
		},
		errs: map[string]error{
			"cbc/English_Grade_7.pdf": errors.New("malformed PDF"),
		},
	}
	sink := newFakeSink()
	var out bytes.Buffer

	summary, err := Run(context.Background(),
		[]string{"cbc/Maths_Grade_7.pdf", "cbc/English_Grade_7.pdf", "cbc/Kiswahili_Grade_8.pdf"},
		conv, sink, Options{ReviewThreshold: 20}, &out)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.OK)
	assert.Equal(t, 1, summary.Warned)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 3, summary.Total())
	assert.True(t, summary.HasFailures())
	assert.Equal(t, []string{"English Grade 7", "Kiswahili Grade 8"}, summary.Flagged)

	failed := sink.records[key("English", "Grade 7")]
	assert.Zero(t, failed.CompletenessScore)
	assert.Contains(t, failed.Notes, "malformed PDF")
	assert.Equal(t, "Numbers", sink.records[key("Maths", "Grade 7")].Strand)

	got := out.String()
	assert.Contains(t, got, "ok      Maths_Grade_7: Maths Grade 7 #1 score 28.6%")
	assert.Contains(t, got, "failed  English_Grade_7: malformed PDF")
	assert.Contains(t, got, "warn    Kiswahili_Grade_8")
	assert.Contains(t, got, "Batch summary: 1 ok, 1 warn, 1 failed, 0 skipped (total: 3)")
}

func TestRunFailureKeepsExistingRecord(t *testing.T) {
	conv := &fakeConverter{errs: map[string]error{"English_Grade_7.pdf": errors.New("unreadable")}}
	sink := newFakeSink()
	sink.records[key("English", "Grade 7")] = types.CurriculumRecord{ID: 9, Subject: "English", Grade: "Grade 7", Strand: "Listening"}

	summary, err := Run(context.Background(), []string{"English_Grade_7.pdf"}, conv, sink, Options{}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, "Listening", sink.records[key("English", "Grade 7")].Strand)
}

func TestRunWarnsOnFallback(t *testing.T) {
	conv := &fakeConverter{pages: map[string][]string{"Maths_Grade_7.pdf": {contentPage}}}
	var out bytes.Buffer

	summary, err := Run(context.Background(), []string{"Maths_Grade_7.pdf"}, conv, newFakeSink(), Options{}, &out)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Warned)
	assert.Empty(t, summary.Flagged)
	assert.Contains(t, out.String(), "no page passed the filter")
}

func TestRunSurfacesPersistenceErrors(t *testing.T) {
	conv := &fakeConverter{pages: map[string][]string{
		"Maths_Grade_7.pdf":   designPages(),
		"English_Grade_7.pdf": designPages(),
	}}
	sink := newFakeSink()
	sink.upsertErr = errors.New("disk full")
	var out bytes.Buffer

	summary, err := Run(context.Background(), []string{"Maths_Grade_7.pdf", "English_Grade_7.pdf"}, conv, sink, Options{}, &out)
	require.Error(t, err)
	assert.ErrorContains(t, err, "disk full")
	assert.Equal(t, 2, summary.Failed)
	assert.Len(t, conv.calls, 2, "a persistence error does not stop the batch")
	assert.Contains(t, out.String(), "failed  Maths_Grade_7: saving record: disk full")
}

func TestRunPreservesReviewed(t *testing.T) {
	conv := &fakeConverter{pages: map[string][]string{
		"Maths_Grade_7.pdf":   designPages(),
		"English_Grade_7.pdf": designPages(),
	}}
	sink := newFakeSink()
	sink.records[key("Maths", "Grade 7")] = types.CurriculumRecord{ID: 1, Subject: "Maths", Grade: "Grade 7", Status: types.StatusReviewed}
	var out bytes.Buffer

	summary, err := Run(context.Background(), []string{"Maths_Grade_7.pdf", "English_Grade_7.pdf"},
		conv, sink, Options{PreserveReviewed: true}, &out)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, []string{"English_Grade_7.pdf"}, conv.calls)
	assert.Equal(t, types.StatusReviewed, sink.records[key("Maths", "Grade 7")].Status)
	assert.Contains(t, out.String(), "skipped Maths_Grade_7 (reviewed)")
}

func TestRunWritesSnapshot(t *testing.T) {
	conv := &fakeConverter{
		pages: map[string][]string{"Maths_Grade_7.pdf": designPages()},
		errs:  map[string]error{"English_Grade_7.pdf": errors.New("unreadable")},
	}
	snapshot := filepath.Join(t.TempDir(), "backup", "records.yaml")

	_, err := Run(context.Background(), []string{"Maths_Grade_7.pdf", "English_Grade_7.pdf"},
		conv, newFakeSink(), Options{SnapshotPath: snapshot}, &bytes.Buffer{})
	require.NoError(t, err)

	data, err := os.ReadFile(snapshot)
	require.NoError(t, err)
	var records []types.CurriculumRecord
	require.NoError(t, yaml.Unmarshal(data, &records))
	require.Len(t, records, 2)
	assert.Equal(t, "Maths", records[0].Subject)
	assert.Equal(t, "English", records[1].Subject)
}

func TestRunStopsOnCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	conv := &fakeConverter{}

	summary, err := Run(ctx, []string{"Maths_Grade_7.pdf"}, conv, newFakeSink(), Options{}, &bytes.Buffer{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, summary.Total())
	assert.Empty(t, conv.calls)
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.pdf", "B.PDF", "c.txt", "d.doc"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.pdf"), 0o755))

	got, err := Discover(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "B.PDF"),
		filepath.Join(dir, "a.pdf"),
		filepath.Join(dir, "c.txt"),
	}, got)

	_, err = Discover(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}
