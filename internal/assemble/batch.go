// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package assemble

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/curriculum-engine/internal/convert"
	"github.com/pdiddy/curriculum-engine/internal/extract"
	"github.com/pdiddy/curriculum-engine/internal/store"
	"github.com/pdiddy/curriculum-engine/pkg/types"
)

// Sink persists assembled records. *store.Store implements it.
type Sink interface {
	Upsert(ctx context.Context, subject, grade string, rec types.CurriculumRecord) (int64, error)
	InsertIfAbsent(ctx context.Context, subject, grade string, rec types.CurriculumRecord) (bool, error)
	Get(ctx context.Context, subject, grade string) (types.CurriculumRecord, error)
}

// Options tune a batch run.
type Options struct {
	Pages types.PagesConfig

	// ReviewThreshold marks records scoring below it as warnings.
	ReviewThreshold float64

	// PreserveReviewed leaves reviewed and manual records untouched.
	PreserveReviewed bool

	// SnapshotPath, when set, receives every record produced as YAML.
	SnapshotPath string
}

// OptionsFrom maps extraction settings to batch options.
func OptionsFrom(cfg types.ExtractionConfig) Options {
	return Options{
		Pages:            cfg.Pages,
		ReviewThreshold:  cfg.ReviewThreshold,
		PreserveReviewed: cfg.PreserveReviewed,
		SnapshotPath:     cfg.SnapshotPath,
	}
}

// BatchSummary holds counts from an extraction run.
type BatchSummary struct {
	OK      int
	Warned  int
	Failed  int
	Skipped int

	// Flagged lists "Subject Grade" for records needing manual follow-up.
	Flagged []string
}

// Total returns the number of documents processed.
func (s BatchSummary) Total() int {
	return s.OK + s.Warned + s.Failed + s.Skipped
}

// HasFailures reports whether any document failed.
func (s BatchSummary) HasFailures() bool {
	return s.Failed > 0
}

// Run extracts every document in paths and hands the records to sink.
// A document that cannot be read is stored as an empty record, unless one
// already exists, and the batch continues. Persistence errors are counted
// as failures and returned joined once the batch is done.
func Run(ctx context.Context, paths []string, conv convert.Converter, sink Sink, opts Options, w io.Writer) (BatchSummary, error) {
	var (
		summary  BatchSummary
		errs     []error
		snapshot []types.CurriculumRecord
	)

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		stem := convert.Stem(path)
		subject, grade := ParseStem(stem)

		if opts.PreserveReviewed {
			existing, err := sink.Get(ctx, subject, grade)
			switch {
			case err == nil && existing.Status != types.StatusAutoExtracted:
				fmt.Fprintf(w, "skipped %s (%s)\n", stem, existing.Status)
				summary.Skipped++
				continue
			case err != nil && !errors.Is(err, store.ErrNotFound):
				fmt.Fprintf(w, "failed  %s: %v\n", stem, err)
				summary.Failed++
				errs = append(errs, fmt.Errorf("%s: %w", stem, err))
				continue
			}
		}

		pages, err := convert.ForPath(conv, path).Pages(path)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", stem, err)
			summary.Failed++
			summary.Flagged = append(summary.Flagged, subject+" "+grade)

			rec := emptyRecord(stem, err)
			snapshot = append(snapshot, rec)
			if _, err := sink.InsertIfAbsent(ctx, subject, grade, rec); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", stem, err))
			}
			continue
		}

		filter, family := extract.FilterFor(opts.Pages, stem)
		rec, fellBack := assemble(types.Document{Stem: stem, Path: path, Pages: pages}, filter)
		snapshot = append(snapshot, rec)

		slog.Debug("assembled record",
			"stem", stem, "family", family.Name, "start_page", filter.StartPage,
			"pages", len(pages), "fallback", fellBack,
			"outcomes", len(rec.LearningOutcomes),
			"questions", len(rec.KeyInquiryQuestions),
			"experiences", len(rec.SuggestedLearningExperiences),
			"score", rec.CompletenessScore)

		id, err := sink.Upsert(ctx, subject, grade, rec)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: saving record: %v\n", stem, err)
			summary.Failed++
			errs = append(errs, fmt.Errorf("%s: %w", stem, err))
			continue
		}

		switch {
		case rec.CompletenessScore < opts.ReviewThreshold:
			fmt.Fprintf(w, "warn    %s: %s %s #%d score %.1f%% below %.0f%%, needs review\n",
				stem, subject, grade, id, rec.CompletenessScore, opts.ReviewThreshold)
			summary.Warned++
			summary.Flagged = append(summary.Flagged, subject+" "+grade)
		case fellBack:
			fmt.Fprintf(w, "warn    %s: %s %s #%d score %.1f%%, no page passed the filter\n",
				stem, subject, grade, id, rec.CompletenessScore)
			summary.Warned++
		default:
			fmt.Fprintf(w, "ok      %s: %s %s #%d score %.1f%%\n",
				stem, subject, grade, id, rec.CompletenessScore)
			summary.OK++
		}
	}

	if opts.SnapshotPath != "" && len(snapshot) > 0 {
		if err := writeSnapshot(opts.SnapshotPath, snapshot); err != nil {
			errs = append(errs, err)
		}
	}

	fmt.Fprintf(w, "\nBatch summary: %d ok, %d warn, %d failed, %d skipped (total: %d)\n",
		summary.OK, summary.Warned, summary.Failed, summary.Skipped, summary.Total())

	return summary, errors.Join(errs...)
}

// Discover lists the curriculum documents in dir: PDFs, or pre-extracted
// .txt page dumps, sorted by name.
func Discover(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".pdf", ".txt":
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

func writeSnapshot(path string, records []types.CurriculumRecord) error {
	data, err := yaml.Marshal(records)
	if err != nil {
		return fmt.Errorf("marshaling snapshot: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating snapshot directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing snapshot %s: %w", path, err)
	}
	return nil
}
