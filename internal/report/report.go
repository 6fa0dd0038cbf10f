// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report renders curriculum records as terminal tables for
// review, statistics and single-record detail views.
package report

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"

	"github.com/pdiddy/curriculum-engine/internal/store"
	"github.com/pdiddy/curriculum-engine/pkg/types"
)

const strandWidth = 40

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

// Colorize reports whether w is a terminal that can show colour.
func Colorize(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// ReviewTable lists records in the order given, one row each. With colour
// on, rows scoring below threshold are highlighted.
func ReviewTable(records []types.CurriculumRecord, threshold float64, colorize bool) string {
	headers := []string{"#", "Subject", "Grade", "Status", "Score", "Strand", "LO", "KIQ", "SLE", "CC", "Val"}
	aligns := []columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignRight, alignLeft,
		alignRight, alignRight, alignRight, alignRight, alignRight}

	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			strconv.FormatInt(r.ID, 10),
			r.Subject,
			r.Grade,
			string(r.Status),
			formatScore(r.CompletenessScore),
			r.Strand,
			strconv.Itoa(len(r.LearningOutcomes)),
			strconv.Itoa(len(r.KeyInquiryQuestions)),
			strconv.Itoa(len(r.SuggestedLearningExperiences)),
			strconv.Itoa(len(r.CoreCompetencies)),
			strconv.Itoa(len(r.Values)),
		})
	}

	tw := newTable(headers, rows, aligns)
	configs := columnConfigs(aligns)
	configs[5].WidthMax = strandWidth
	configs[5].WidthMaxEnforcer = text.Trim
	tw.SetColumnConfigs(configs)
	if colorize {
		tw.SetRowPainter(table.RowPainterWithAttributes(func(_ table.Row, attr table.RowAttributes) text.Colors {
			i := attr.Number - 1
			if i >= 0 && i < len(records) && records[i].CompletenessScore < threshold {
				return text.Colors{text.FgYellow}
			}
			return nil
		}))
	}
	tw.AppendFooter(table.Row{"", fmt.Sprintf("%d records", len(records))})
	return tw.Render()
}

// StatsTable summarizes store statistics.
func StatsTable(st store.Stats) string {
	rows := [][]string{
		{"Total records", strconv.Itoa(st.Total)},
		{"Average completeness", formatScore(st.AverageCompleteness) + "%"},
		{fmt.Sprintf("Below %s%%", formatScore(st.Threshold)), strconv.Itoa(st.BelowThreshold)},
	}

	statuses := make([]string, 0, len(st.ByStatus))
	for s := range st.ByStatus {
		statuses = append(statuses, string(s))
	}
	sort.Strings(statuses)
	for _, s := range statuses {
		rows = append(rows, []string{"Status " + s, strconv.Itoa(st.ByStatus[types.RecordStatus(s)])})
	}

	return renderTable([]string{"Metric", "Value"}, rows, []columnAlignment{alignLeft, alignRight})
}

// Detail renders one record: a field table followed by each list.
func Detail(r types.CurriculumRecord) string {
	var b strings.Builder
	b.WriteString(renderTable([]string{"Field", "Value"}, [][]string{
		{"Subject", r.Subject},
		{"Grade", r.Grade},
		{"Strand", r.Strand},
		{"Sub-strand", r.Substrand},
		{"Status", string(r.Status)},
		{"Completeness", formatScore(r.CompletenessScore) + "%"},
		{"Source", r.SourceIdentifier},
		{"Lessons", lessonText(r)},
		{"Notes", r.Notes},
	}, nil))
	b.WriteString("\n")

	sections := []struct {
		title string
		items []string
	}{
		{"Specific Learning Outcomes", r.LearningOutcomes},
		{"Key Inquiry Questions", r.KeyInquiryQuestions},
		{"Suggested Learning Experiences", r.SuggestedLearningExperiences},
		{"Core Competencies", r.CoreCompetencies},
		{"Values", r.Values},
		{"Links to Other Subjects", r.LinksToOtherSubjects},
		{"Pertinent and Contemporary Issues", r.PCIs},
	}
	for _, s := range sections {
		fmt.Fprintf(&b, "\n%s (%d)\n", s.title, len(s.items))
		if len(s.items) == 0 {
			b.WriteString("  (none)\n")
			continue
		}
		for i, item := range s.items {
			fmt.Fprintf(&b, "  %2d. %s\n", i+1, item)
		}
	}
	return b.String()
}

func lessonText(r types.CurriculumRecord) string {
	if n := r.LessonCount(); n > 0 {
		return fmt.Sprintf("%d (%s)", n, r.Topic())
	}
	return "not stated"
}

func formatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', 1, 64)
}

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	if len(headers) == 0 {
		return ""
	}
	tw := newTable(headers, rows, aligns)
	tw.SetColumnConfigs(columnConfigs(aligns))
	return tw.Render()
}

func newTable(headers []string, rows [][]string, aligns []columnAlignment) table.Writer {
	columns := len(headers)
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := range headers {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}
	return tw
}

func columnConfigs(aligns []columnAlignment) []table.ColumnConfig {
	configs := make([]table.ColumnConfig, 0, len(aligns))
	for i, a := range aligns {
		align := text.AlignLeft
		if a == alignRight {
			align = text.AlignRight
		}
		configs = append(configs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	return configs
}
