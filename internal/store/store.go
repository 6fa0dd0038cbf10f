// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists CurriculumRecords in SQLite, one row per
// (subject, grade), with an audit trail of every change.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/curriculum-engine/pkg/types"
)

const (
	// DefaultDBPath is used when the configuration names no database.
	DefaultDBPath = "data/curriculum.db"
	defaultActor  = "system"
)

// ErrNotFound is returned when no record exists for a (subject, grade).
var ErrNotFound = errors.New("curriculum record not found")

// IsNotFound reports whether err wraps ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// Audit change types.
const (
	changeUpsert  = "upsert"
	changeInsert  = "insert"
	changeEdit    = "edit"
	changeOverlay = "overlay"
)

// Store manages the curriculum SQLite database.
type Store struct {
	db    *sql.DB
	path  string
	actor string
	runID string
	nowFn func() time.Time
}

// Open opens or creates the database at cfg.DBPath and creates the schema
// if it does not exist.
func Open(cfg types.StoreConfig) (*Store, error) {
	path := cfg.DBPath
	if path == "" {
		path = DefaultDBPath
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	actor := cfg.Actor
	if actor == "" {
		actor = defaultActor
	}

	s := &Store{
		db:    db,
		path:  path,
		actor: actor,
		nowFn: func() time.Time { return time.Now().UTC() },
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

// BeginRun tags audit rows written from now on with a fresh run id and
// the given actor, and returns the run id. An empty actor keeps the
// configured one.
func (s *Store) BeginRun(actor string) string {
	if actor != "" {
		s.actor = actor
	}
	s.runID = uuid.NewString()
	return s.runID
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS curriculum (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			subject TEXT NOT NULL COLLATE NOCASE,
			grade TEXT NOT NULL COLLATE NOCASE,
			strand TEXT NOT NULL DEFAULT '',
			substrand TEXT NOT NULL DEFAULT '',
			learning_outcomes TEXT NOT NULL DEFAULT '[]',
			key_inquiry_questions TEXT NOT NULL DEFAULT '[]',
			suggested_learning_experiences TEXT NOT NULL DEFAULT '[]',
			core_competencies TEXT NOT NULL DEFAULT '[]',
			curriculum_values TEXT NOT NULL DEFAULT '[]',
			links_to_other_subjects TEXT NOT NULL DEFAULT '[]',
			pcis TEXT NOT NULL DEFAULT '[]',
			status TEXT NOT NULL DEFAULT 'auto_extracted',
			completeness_score REAL NOT NULL DEFAULT 0.0,
			source_identifier TEXT NOT NULL DEFAULT '',
			notes TEXT NOT NULL DEFAULT '',
			last_updated TEXT NOT NULL,
			UNIQUE(subject, grade)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_curriculum_score ON curriculum(completeness_score)`,
		`CREATE TABLE IF NOT EXISTS curriculum_audit (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			curriculum_id INTEGER NOT NULL REFERENCES curriculum(id),
			change_type TEXT NOT NULL,
			old_value TEXT,
			new_value TEXT,
			changed_by TEXT NOT NULL DEFAULT 'system',
			run_id TEXT,
			changed_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_audit_curriculum_id ON curriculum_audit(curriculum_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// recordColumns is the column list shared by every SELECT.
const recordColumns = `id, subject, grade, strand, substrand,
	learning_outcomes, key_inquiry_questions, suggested_learning_experiences,
	core_competencies, curriculum_values, links_to_other_subjects, pcis,
	status, completeness_score, source_identifier, notes, last_updated`

// insertRecord inserts one row; arguments come from recordArgs.
const insertRecord = `INSERT INTO curriculum (subject, grade, strand, substrand,
	learning_outcomes, key_inquiry_questions, suggested_learning_experiences,
	core_competencies, curriculum_values, links_to_other_subjects, pcis,
	status, completeness_score, source_identifier, notes, last_updated)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// Upsert stores rec under (subject, grade), replacing every field of an
// existing record. The record is sanitized first, so caps hold and the
// stored score matches its fields. It returns the row id.
func (s *Store) Upsert(ctx context.Context, subject, grade string, rec types.CurriculumRecord) (int64, error) {
	rec.Subject, rec.Grade = subject, grade
	rec.Sanitize()
	rec.LastUpdated = s.nowFn()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	old, err := getRecord(ctx, tx, subject, grade)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return 0, err
	}

	args, err := recordArgs(&rec)
	if err != nil {
		return 0, err
	}

	var id int64
	err = tx.QueryRowContext(ctx,
		insertRecord+`
		 ON CONFLICT(subject, grade) DO UPDATE SET
			subject=excluded.subject, grade=excluded.grade,
			strand=excluded.strand, substrand=excluded.substrand,
			learning_outcomes=excluded.learning_outcomes,
			key_inquiry_questions=excluded.key_inquiry_questions,
			suggested_learning_experiences=excluded.suggested_learning_experiences,
			core_competencies=excluded.core_competencies,
			curriculum_values=excluded.curriculum_values,
			links_to_other_subjects=excluded.links_to_other_subjects,
			pcis=excluded.pcis, status=excluded.status,
			completeness_score=excluded.completeness_score,
			source_identifier=excluded.source_identifier,
			notes=excluded.notes, last_updated=excluded.last_updated
		 RETURNING id`,
		args...,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("upserting %s %s: %w", subject, grade, err)
	}

	rec.ID = id
	if err := s.audit(ctx, tx, id, changeUpsert, old, &rec); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing upsert: %w", err)
	}
	return id, nil
}

// InsertIfAbsent stores rec only when no record exists for the key, and
// reports whether it did. Failed extractions use it so an empty record
// never overwrites good data.
func (s *Store) InsertIfAbsent(ctx context.Context, subject, grade string, rec types.CurriculumRecord) (bool, error) {
	rec.Subject, rec.Grade = subject, grade
	rec.Sanitize()
	rec.LastUpdated = s.nowFn()

	args, err := recordArgs(&rec)
	if err != nil {
		return false, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		insertRecord+` ON CONFLICT(subject, grade) DO NOTHING`,
		args...,
	)
	if err != nil {
		return false, fmt.Errorf("inserting %s %s: %w", subject, grade, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("checking insert: %w", err)
	}
	if n == 0 {
		return false, nil
	}

	id, err := res.LastInsertId()
	if err != nil {
		return false, fmt.Errorf("reading insert id: %w", err)
	}
	rec.ID = id
	if err := s.audit(ctx, tx, id, changeInsert, nil, &rec); err != nil {
		return false, err
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("committing insert: %w", err)
	}
	return true, nil
}

// Get returns the record for (subject, grade), matched case-insensitively,
// or ErrNotFound.
func (s *Store) Get(ctx context.Context, subject, grade string) (types.CurriculumRecord, error) {
	rec, err := getRecord(ctx, s.db, subject, grade)
	if err != nil {
		return types.CurriculumRecord{}, err
	}
	return *rec, nil
}

// FetchAll returns every record ordered by subject and grade.
func (s *Store) FetchAll(ctx context.Context) ([]types.CurriculumRecord, error) {
	return s.query(ctx, `SELECT `+recordColumns+` FROM curriculum ORDER BY subject, grade`)
}

// Review returns records in review order, lowest completeness first. A
// positive below keeps only records scoring under it.
func (s *Store) Review(ctx context.Context, below float64) ([]types.CurriculumRecord, error) {
	q := `SELECT ` + recordColumns + ` FROM curriculum`
	var args []any
	if below > 0 {
		q += ` WHERE completeness_score < ?`
		args = append(args, below)
	}
	q += ` ORDER BY completeness_score ASC, subject, grade`
	return s.query(ctx, q, args...)
}

// Stats summarizes the store for the review dashboard.
type Stats struct {
	Total               int                        `json:"total" yaml:"total"`
	ByStatus            map[types.RecordStatus]int `json:"by_status" yaml:"by_status"`
	AverageCompleteness float64                    `json:"average_completeness" yaml:"average_completeness"`
	Threshold           float64                    `json:"threshold" yaml:"threshold"`
	BelowThreshold      int                        `json:"below_threshold" yaml:"below_threshold"`
}

// Stats counts records by status and averages their completeness.
func (s *Store) Stats(ctx context.Context, threshold float64) (Stats, error) {
	st := Stats{ByStatus: make(map[types.RecordStatus]int), Threshold: threshold}

	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(AVG(completeness_score), 0),
			COALESCE(SUM(CASE WHEN completeness_score < ? THEN 1 ELSE 0 END), 0)
		 FROM curriculum`, threshold,
	).Scan(&st.Total, &st.AverageCompleteness, &st.BelowThreshold)
	if err != nil {
		return Stats{}, fmt.Errorf("querying totals: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM curriculum GROUP BY status`)
	if err != nil {
		return Stats{}, fmt.Errorf("querying status counts: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return Stats{}, fmt.Errorf("scanning status count: %w", err)
		}
		st.ByStatus[types.RecordStatus(status)] = n
	}
	return st, rows.Err()
}

// queryer is satisfied by *sql.DB and *sql.Tx.
type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func getRecord(ctx context.Context, q queryer, subject, grade string) (*types.CurriculumRecord, error) {
	row := q.QueryRowContext(ctx,
		`SELECT `+recordColumns+` FROM curriculum WHERE subject = ? AND grade = ?`,
		strings.TrimSpace(subject), strings.TrimSpace(grade))
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s %s: %w", subject, grade, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s %s: %w", subject, grade, err)
	}
	return rec, nil
}

func (s *Store) query(ctx context.Context, q string, args ...any) ([]types.CurriculumRecord, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	var out []types.CurriculumRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(sc scanner) (*types.CurriculumRecord, error) {
	var (
		rec     types.CurriculumRecord
		lists   [7]string
		status  string
		updated string
	)
	err := sc.Scan(&rec.ID, &rec.Subject, &rec.Grade, &rec.Strand, &rec.Substrand,
		&lists[0], &lists[1], &lists[2], &lists[3], &lists[4], &lists[5], &lists[6],
		&status, &rec.CompletenessScore, &rec.SourceIdentifier, &rec.Notes, &updated)
	if err != nil {
		return nil, err
	}

	targets := listFields(&rec)
	for i, raw := range lists {
		if err := json.Unmarshal([]byte(raw), targets[i]); err != nil {
			return nil, fmt.Errorf("decoding list column for %s %s: %w", rec.Subject, rec.Grade, err)
		}
	}
	rec.Status = types.RecordStatus(status)
	if t, err := time.Parse(time.RFC3339Nano, updated); err == nil {
		rec.LastUpdated = t
	}
	return &rec, nil
}

// recordArgs returns INSERT arguments in column order.
func recordArgs(rec *types.CurriculumRecord) ([]any, error) {
	args := []any{rec.Subject, rec.Grade, rec.Strand, rec.Substrand}
	for _, list := range listFields(rec) {
		data, err := json.Marshal(nonNil(*list))
		if err != nil {
			return nil, fmt.Errorf("encoding list column: %w", err)
		}
		args = append(args, string(data))
	}
	return append(args,
		string(rec.Status), rec.CompletenessScore, rec.SourceIdentifier, rec.Notes,
		rec.LastUpdated.Format(time.RFC3339Nano),
	), nil
}

// listFields returns the list columns in storage order.
func listFields(rec *types.CurriculumRecord) []*[]string {
	return []*[]string{
		&rec.LearningOutcomes,
		&rec.KeyInquiryQuestions,
		&rec.SuggestedLearningExperiences,
		&rec.CoreCompetencies,
		&rec.Values,
		&rec.LinksToOtherSubjects,
		&rec.PCIs,
	}
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}

func (s *Store) audit(ctx context.Context, tx *sql.Tx, id int64, change string, old, updated *types.CurriculumRecord) error {
	var oldJSON, newJSON sql.NullString
	if old != nil {
		data, _ := json.Marshal(old)
		oldJSON = sql.NullString{String: string(data), Valid: true}
	}
	if updated != nil {
		data, _ := json.Marshal(updated)
		newJSON = sql.NullString{String: string(data), Valid: true}
	}
	var runID sql.NullString
	if s.runID != "" {
		runID = sql.NullString{String: s.runID, Valid: true}
	}

	_, err := tx.ExecContext(ctx,
		`INSERT INTO curriculum_audit (curriculum_id, change_type, old_value, new_value, changed_by, run_id, changed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, change, oldJSON, newJSON, s.actor, runID, s.nowFn().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("writing audit row: %w", err)
	}
	return nil
}
