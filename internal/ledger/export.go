// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/rubric-report/pkg/types"
)

const exportLimit = 100000

// ExportYAML writes every record matching opts to path as YAML. opts.Limit
// is ignored.
func (s *Store) ExportYAML(ctx context.Context, path string, opts QueryOptions) error {
	records, err := s.exportRecords(ctx, opts)
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(records)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return writeExport(path, data)
}

// ExportJSON writes every record matching opts to path as indented JSON.
// opts.Limit is ignored.
func (s *Store) ExportJSON(ctx context.Context, path string, opts QueryOptions) error {
	records, err := s.exportRecords(ctx, opts)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return writeExport(path, append(data, '\n'))
}

// Export picks JSON for a .json path and YAML otherwise.
func (s *Store) Export(ctx context.Context, path string, opts QueryOptions) error {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return s.ExportJSON(ctx, path, opts)
	}
	return s.ExportYAML(ctx, path, opts)
}

func (s *Store) exportRecords(ctx context.Context, opts QueryOptions) ([]types.ReportRecord, error) {
	opts.Limit = exportLimit
	records, err := s.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}
	if records == nil {
		records = []types.ReportRecord{}
	}
	return records, nil
}

func writeExport(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating export directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing export %s: %w", path, err)
	}
	return nil
}
