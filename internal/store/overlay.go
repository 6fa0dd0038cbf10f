// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/curriculum-engine/pkg/types"
)

// OverlayEntry is one curated correction keyed by subject and grade.
type OverlayEntry struct {
	Subject string `json:"subject" yaml:"subject"`
	Grade   string `json:"grade" yaml:"grade"`
	Patch   `yaml:",inline"`
}

// Overlay is a file of curated corrections merged over extracted records.
type Overlay struct {
	Entries []OverlayEntry `json:"entries" yaml:"entries"`
}

// LoadOverlay reads and validates an overlay YAML file.
func LoadOverlay(path string) (Overlay, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Overlay{}, fmt.Errorf("reading overlay %s: %w", path, err)
	}
	var ov Overlay
	if err := yaml.Unmarshal(data, &ov); err != nil {
		return Overlay{}, fmt.Errorf("parsing overlay %s: %w", path, err)
	}
	for i, e := range ov.Entries {
		if strings.TrimSpace(e.Subject) == "" || strings.TrimSpace(e.Grade) == "" {
			return Overlay{}, fmt.Errorf("overlay %s entry %d: subject and grade are required", path, i)
		}
		if err := e.Validate(); err != nil {
			return Overlay{}, fmt.Errorf("overlay %s entry %d: %w", path, i, err)
		}
	}
	return ov, nil
}

// OverlaySummary counts the outcome of applying an overlay.
type OverlaySummary struct {
	Updated int
	Created int
	Failed  int
}

// ApplyOverlay merges every entry over the stored record, creating the
// record when none exists. Entries without a status mark the record
// manual. Each entry commits on its own.
func (s *Store) ApplyOverlay(ctx context.Context, ov Overlay, w io.Writer) (OverlaySummary, error) {
	var (
		summary OverlaySummary
		errs    []error
	)
	for _, e := range ov.Entries {
		grade := NormalizeGrade(e.Grade)
		created, err := s.applyEntry(ctx, e.Subject, grade, e.Patch)
		switch {
		case err != nil:
			fmt.Fprintf(w, "failed  %s %s: %v\n", e.Subject, grade, err)
			summary.Failed++
			errs = append(errs, err)
		case created:
			fmt.Fprintf(w, "created %s %s\n", e.Subject, grade)
			summary.Created++
		default:
			fmt.Fprintf(w, "updated %s %s\n", e.Subject, grade)
			summary.Updated++
		}
	}
	fmt.Fprintf(w, "\noverlay: %d updated, %d created, %d failed\n",
		summary.Updated, summary.Created, summary.Failed)
	return summary, errors.Join(errs...)
}

func (s *Store) applyEntry(ctx context.Context, subject, grade string, p Patch) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	old, err := getRecord(ctx, tx, subject, grade)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return false, err
	}

	created := old == nil
	var rec types.CurriculumRecord
	if created {
		rec = types.CurriculumRecord{Subject: strings.TrimSpace(subject), Grade: grade, SourceIdentifier: "overlay"}
		p.Apply(&rec, types.StatusManual)
		rec.Sanitize()
		rec.LastUpdated = s.nowFn()
		args, err := recordArgs(&rec)
		if err != nil {
			return false, err
		}
		res, err := tx.ExecContext(ctx, insertRecord, args...)
		if err != nil {
			return false, fmt.Errorf("inserting %s %s: %w", subject, grade, err)
		}
		if rec.ID, err = res.LastInsertId(); err != nil {
			return false, fmt.Errorf("reading insert id: %w", err)
		}
	} else {
		rec = *old
		p.Apply(&rec, types.StatusManual)
		if err := s.rewrite(ctx, tx, &rec); err != nil {
			return false, err
		}
	}

	if err := s.audit(ctx, tx, rec.ID, changeOverlay, old, &rec); err != nil {
		return false, err
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("committing overlay entry: %w", err)
	}
	return created, nil
}
