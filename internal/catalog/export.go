// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/trialstream/pkg/types"
)

const exportLimit = 1000000

// ExportYAML writes the catalog (or a filtered subset) as full trial
// records to catalogDir/export.yaml (C4.1).
func (s *Store) ExportYAML(ctx context.Context, opts QueryOptions) error {
	records, err := s.exportRecords(ctx, opts)
	if err != nil {
		return err
	}

	path := filepath.Join(s.catalogDir, "export.yaml")
	data, err := yaml.Marshal(records)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ExportJSON writes the catalog (or a filtered subset) as full trial
// records to catalogDir/export.json (C4.2).
func (s *Store) ExportJSON(ctx context.Context, opts QueryOptions) error {
	records, err := s.exportRecords(ctx, opts)
	if err != nil {
		return err
	}

	path := filepath.Join(s.catalogDir, "export.json")
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// exportRecords fetches full records under the same filters as Query (C4.3).
// Rows are rehydrated from the stored NDJSON line, so exports carry every
// record field, not just the indexed columns.
func (s *Store) exportRecords(ctx context.Context, opts QueryOptions) ([]types.TrialRecord, error) {
	limit := opts.MaxResults
	if limit <= 0 {
		limit = exportLimit
	}

	query, args := querySQL(`t.record`, opts, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}
	defer rows.Close()

	records := []types.TrialRecord{}
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		var rec types.TrialRecord
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			return nil, fmt.Errorf("decoding stored record: %w", err)
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}
