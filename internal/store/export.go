// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"
)

// Export file names written under the export directory.
const (
	exportYAML = "curriculum.yaml"
	exportJSON = "curriculum.json"
)

// ExportYAML writes every record to dir/curriculum.yaml and returns the path.
func (s *Store) ExportYAML(ctx context.Context, dir string) (string, error) {
	records, err := s.FetchAll(ctx)
	if err != nil {
		return "", fmt.Errorf("querying for export: %w", err)
	}
	data, err := yaml.Marshal(records)
	if err != nil {
		return "", fmt.Errorf("marshaling YAML: %w", err)
	}
	return writeExport(dir, exportYAML, data)
}

// ExportJSON writes every record to dir/curriculum.json and returns the path.
func (s *Store) ExportJSON(ctx context.Context, dir string) (string, error) {
	records, err := s.FetchAll(ctx)
	if err != nil {
		return "", fmt.Errorf("querying for export: %w", err)
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling JSON: %w", err)
	}
	return writeExport(dir, exportJSON, data)
}

func writeExport(dir, name string, data []byte) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating export directory: %w", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}
