// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pdiddy/curriculum-engine/pkg/types"
)

// Patch is a manual correction to one record. Nil fields are left as
// they are; a non-nil empty list clears the field.
type Patch struct {
	Strand                       *string             `json:"strand,omitempty" yaml:"strand,omitempty"`
	Substrand                    *string             `json:"substrand,omitempty" yaml:"substrand,omitempty"`
	LearningOutcomes             *[]string           `json:"learning_outcomes,omitempty" yaml:"learning_outcomes,omitempty"`
	KeyInquiryQuestions          *[]string           `json:"key_inquiry_questions,omitempty" yaml:"key_inquiry_questions,omitempty"`
	SuggestedLearningExperiences *[]string           `json:"suggested_learning_experiences,omitempty" yaml:"suggested_learning_experiences,omitempty"`
	CoreCompetencies             *[]string           `json:"core_competencies,omitempty" yaml:"core_competencies,omitempty"`
	Values                       *[]string           `json:"values,omitempty" yaml:"values,omitempty"`
	LinksToOtherSubjects         *[]string           `json:"links_to_other_subjects,omitempty" yaml:"links_to_other_subjects,omitempty"`
	PCIs                         *[]string           `json:"pcis,omitempty" yaml:"pcis,omitempty"`
	Status                       *types.RecordStatus `json:"status,omitempty" yaml:"status,omitempty"`
	Notes                        *string             `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p == Patch{}
}

// Validate rejects unknown statuses.
func (p Patch) Validate() error {
	if p.Status != nil && !p.Status.Valid() {
		return fmt.Errorf("invalid status %q (want auto_extracted, reviewed or manual)", *p.Status)
	}
	return nil
}

// Apply copies the set fields onto rec. When the patch names no status,
// the record becomes fallback.
func (p Patch) Apply(rec *types.CurriculumRecord, fallback types.RecordStatus) {
	setString(&rec.Strand, p.Strand)
	setString(&rec.Substrand, p.Substrand)
	setList(&rec.LearningOutcomes, p.LearningOutcomes)
	setList(&rec.KeyInquiryQuestions, p.KeyInquiryQuestions)
	setList(&rec.SuggestedLearningExperiences, p.SuggestedLearningExperiences)
	setList(&rec.CoreCompetencies, p.CoreCompetencies)
	setList(&rec.Values, p.Values)
	setList(&rec.LinksToOtherSubjects, p.LinksToOtherSubjects)
	setList(&rec.PCIs, p.PCIs)
	setString(&rec.Notes, p.Notes)

	rec.Status = fallback
	if p.Status != nil {
		rec.Status = *p.Status
	}
}

func setString(dst, src *string) {
	if src != nil {
		*dst = *src
	}
}

func setList(dst, src *[]string) {
	if src != nil {
		*dst = append([]string(nil), *src...)
	}
}

// Update applies a manual edit to an existing record. Unless the patch
// sets a status, the record is marked reviewed. The score is recomputed
// and the change audited.
func (s *Store) Update(ctx context.Context, subject, grade string, p Patch) (types.CurriculumRecord, error) {
	if err := p.Validate(); err != nil {
		return types.CurriculumRecord{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return types.CurriculumRecord{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	old, err := getRecord(ctx, tx, subject, grade)
	if err != nil {
		return types.CurriculumRecord{}, err
	}

	rec := *old
	p.Apply(&rec, types.StatusReviewed)
	if err := s.rewrite(ctx, tx, &rec); err != nil {
		return types.CurriculumRecord{}, err
	}
	if err := s.audit(ctx, tx, rec.ID, changeEdit, old, &rec); err != nil {
		return types.CurriculumRecord{}, err
	}
	if err := tx.Commit(); err != nil {
		return types.CurriculumRecord{}, fmt.Errorf("committing edit: %w", err)
	}
	return rec, nil
}

// rewrite sanitizes rec and overwrites its row by id.
func (s *Store) rewrite(ctx context.Context, tx *sql.Tx, rec *types.CurriculumRecord) error {
	rec.Sanitize()
	rec.LastUpdated = s.nowFn()

	args, err := recordArgs(rec)
	if err != nil {
		return err
	}
	// Subject and grade are the key and stay as stored.
	res, err := tx.ExecContext(ctx,
		`UPDATE curriculum SET strand=?, substrand=?,
			learning_outcomes=?, key_inquiry_questions=?, suggested_learning_experiences=?,
			core_competencies=?, curriculum_values=?, links_to_other_subjects=?, pcis=?,
			status=?, completeness_score=?, source_identifier=?, notes=?, last_updated=?
		 WHERE id = ?`,
		append(args[2:], rec.ID)...,
	)
	if err != nil {
		return fmt.Errorf("updating %s %s: %w", rec.Subject, rec.Grade, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("updating %s %s: %w", rec.Subject, rec.Grade, ErrNotFound)
	}
	return nil
}
