// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"path/filepath"
)

// PDFBackend identifies the tool that turns a PDF into per-page text.
type PDFBackend string

const (
	BackendNative    PDFBackend = "native"
	BackendPdfcpu    PDFBackend = "pdfcpu"
	BackendPdftotext PDFBackend = "pdftotext"
	BackendText      PDFBackend = "text"
)

// Valid reports whether b names a known backend.
func (b PDFBackend) Valid() bool {
	switch b {
	case BackendNative, BackendPdfcpu, BackendPdftotext, BackendText:
		return true
	}
	return false
}

// Page filter defaults. Curriculum content in the KICD design series
// starts on page 12, after the cover, contents and acknowledgements.
const (
	DefaultStartPage   = 12
	DefaultMinChars    = 100
	DefaultMinNewlines = 3
)

// DocumentFamily groups curriculum documents that share a layout, so the
// page where curriculum content begins can differ per series.
type DocumentFamily struct {
	// Name labels the family in reports.
	Name string `json:"name" yaml:"name" mapstructure:"name"`

	// Match is a filepath.Match glob tested against the filename stem,
	// e.g. "*_Grade_1?" or "Pre_Technical*".
	Match string `json:"match" yaml:"match" mapstructure:"match"`

	// StartPage is the 1-based page where curriculum content begins.
	StartPage int `json:"start_page" yaml:"start_page" mapstructure:"start_page"`
}

// PagesConfig holds the page relevance filter settings.
type PagesConfig struct {
	// StartPage is the default 1-based first content page (default 12).
	StartPage int `json:"start_page" yaml:"start_page" mapstructure:"start_page"`

	// MinChars is the minimum stripped length of a relevant page (default 100).
	MinChars int `json:"min_chars" yaml:"min_chars" mapstructure:"min_chars"`

	// MinNewlines is the minimum newline count of a relevant page (default 3).
	MinNewlines int `json:"min_newlines" yaml:"min_newlines" mapstructure:"min_newlines"`

	// Families override StartPage for matching documents. First match wins.
	Families []DocumentFamily `json:"families" yaml:"families" mapstructure:"families"`
}

// WithDefaults returns a copy with zero values replaced by defaults.
func (c PagesConfig) WithDefaults() PagesConfig {
	if c.StartPage == 0 {
		c.StartPage = DefaultStartPage
	}
	if c.MinChars == 0 {
		c.MinChars = DefaultMinChars
	}
	if c.MinNewlines == 0 {
		c.MinNewlines = DefaultMinNewlines
	}
	return c
}

// Validate checks page numbers and family definitions.
func (c PagesConfig) Validate() error {
	if c.StartPage < 1 {
		return fmt.Errorf("pages.start_page must be >= 1, got %d", c.StartPage)
	}
	if c.MinChars < 0 || c.MinNewlines < 0 {
		return fmt.Errorf("pages.min_chars and pages.min_newlines must not be negative")
	}
	seen := make(map[string]bool, len(c.Families))
	for i, f := range c.Families {
		if f.Name == "" {
			return fmt.Errorf("pages.families[%d]: name is required", i)
		}
		if seen[f.Name] {
			return fmt.Errorf("pages.families[%d]: duplicate family %q", i, f.Name)
		}
		seen[f.Name] = true
		if _, err := filepath.Match(f.Match, ""); err != nil {
			return fmt.Errorf("pages.families[%d] %s: bad match pattern %q: %w", i, f.Name, f.Match, err)
		}
		if f.StartPage < 1 {
			return fmt.Errorf("pages.families[%d] %s: start_page must be >= 1, got %d", i, f.Name, f.StartPage)
		}
	}
	return nil
}

// ResolveFamily returns the first family whose glob matches stem, or a
// family named "default" carrying the configured StartPage.
func (c PagesConfig) ResolveFamily(stem string) DocumentFamily {
	for _, f := range c.Families {
		if ok, _ := filepath.Match(f.Match, stem); ok {
			return f
		}
	}
	return DocumentFamily{Name: "default", Match: "*", StartPage: c.StartPage}
}

// StoreConfig holds settings for the curriculum database.
type StoreConfig struct {
	// DBPath is the SQLite database file (default "data/curriculum.db").
	DBPath string `json:"db_path" yaml:"db_path" mapstructure:"db_path"`

	// Actor is recorded as changed_by on audit rows (default "system").
	Actor string `json:"actor" yaml:"actor" mapstructure:"actor"`
}

// ExtractionConfig holds settings for the extraction batch.
type ExtractionConfig struct {
	// PDFDir is the directory scanned in batch mode (default "cbc pdfs").
	PDFDir string `json:"pdf_dir" yaml:"pdf_dir" mapstructure:"pdf_dir"`

	// PagesDir receives page dumps from the convert stage (default "pages").
	PagesDir string `json:"pages_dir" yaml:"pages_dir" mapstructure:"pages_dir"`

	// Backend selects the PDF text backend.
	Backend PDFBackend `json:"backend" yaml:"backend" mapstructure:"backend"`

	// ReviewThreshold flags records scoring below it for manual follow-up
	// (default 60).
	ReviewThreshold float64 `json:"review_threshold" yaml:"review_threshold" mapstructure:"review_threshold"`

	// PreserveReviewed skips documents whose stored record was reviewed or
	// entered manually.
	PreserveReviewed bool `json:"preserve_reviewed" yaml:"preserve_reviewed" mapstructure:"preserve_reviewed"`

	// SnapshotPath, when set, receives a YAML dump of every record produced.
	SnapshotPath string `json:"snapshot_path,omitempty" yaml:"snapshot_path,omitempty" mapstructure:"snapshot_path"`

	Pages PagesConfig `json:"pages" yaml:"pages" mapstructure:"pages"`
}

// Config groups all settings read from curriculum-engine.yaml.
type Config struct {
	LogLevel   string           `json:"log_level" yaml:"log_level" mapstructure:"log_level"`
	Store      StoreConfig      `json:"store" yaml:"store" mapstructure:",squash"`
	Extraction ExtractionConfig `json:"extraction" yaml:"extraction" mapstructure:",squash"`
}

// Extraction defaults.
const (
	DefaultPDFDir          = "cbc pdfs"
	DefaultPagesDir        = "pages"
	DefaultReviewThreshold = 60.0
)

// WithDefaults returns a copy with unset fields filled in.
func (c Config) WithDefaults() Config {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Extraction.PDFDir == "" {
		c.Extraction.PDFDir = DefaultPDFDir
	}
	if c.Extraction.PagesDir == "" {
		c.Extraction.PagesDir = DefaultPagesDir
	}
	if c.Extraction.Backend == "" {
		c.Extraction.Backend = BackendNative
	}
	if c.Extraction.ReviewThreshold == 0 {
		c.Extraction.ReviewThreshold = DefaultReviewThreshold
	}
	c.Extraction.Pages = c.Extraction.Pages.WithDefaults()
	return c
}

// Validate checks the settings a command is about to use.
func (c Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be debug, info, warn or error, got %q", c.LogLevel)
	}
	if !c.Extraction.Backend.Valid() {
		return fmt.Errorf("backend must be native, pdfcpu, pdftotext or text, got %q", c.Extraction.Backend)
	}
	if t := c.Extraction.ReviewThreshold; t < 0 || t > 100 {
		return fmt.Errorf("review_threshold must be between 0 and 100, got %g", t)
	}
	return c.Extraction.Pages.Validate()
}
