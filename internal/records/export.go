// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package records

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/cpemon/internal/report"
)

// ExportEntry holds a stored activity with transcript context for export (R6.3).
type ExportEntry struct {
	ActivityID     string  `json:"activity_id" yaml:"activity_id"`
	TranscriptID   string  `json:"transcript_id" yaml:"transcript_id"`
	Participant    string  `json:"participant" yaml:"participant"`
	ActivityDate   string  `json:"activity_date" yaml:"activity_date"`
	ActivityNumber string  `json:"activity_number" yaml:"activity_number"`
	CreditType     string  `json:"credit_type" yaml:"credit_type"`
	Source         string  `json:"source" yaml:"source"`
	Title          string  `json:"title" yaml:"title"`
	Topic          string  `json:"topic" yaml:"topic"`
	Provider       string  `json:"provider" yaml:"provider"`
	LiveHours      float64 `json:"live_hours" yaml:"live_hours"`
	HomeHours      float64 `json:"home_hours" yaml:"home_hours"`
}

// exportLimit caps an export when no explicit limit is set.
const exportLimit = 100000

// exportOpts applies the export cap to a query, keeping a caller-supplied
// limit intact (R6.4).
func exportOpts(opts QueryOptions) QueryOptions {
	if opts.MaxResults <= 0 {
		opts.MaxResults = exportLimit
	}
	return opts
}

// ExportYAML writes the activity index to indexDir/export.yaml (R6.1).
// It supports the same filters as Retrieve (R6.4).
func (s *Store) ExportYAML(ctx context.Context, opts QueryOptions) error {
	entries, err := s.exportEntries(ctx, opts)
	if err != nil {
		return err
	}

	path := filepath.Join(s.indexDir, "export.yaml")
	data, err := yaml.Marshal(entries)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ExportJSON writes the activity index to indexDir/export.json (R6.2).
// It supports the same filters as Retrieve (R6.4).
func (s *Store) ExportJSON(ctx context.Context, opts QueryOptions) error {
	entries, err := s.exportEntries(ctx, opts)
	if err != nil {
		return err
	}

	path := filepath.Join(s.indexDir, "export.json")
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ExportXLSX writes the activity index to indexDir/export.xlsx as a
// workbook with one Activities sheet (R6.6). It supports the same filters
// as Retrieve (R6.4).
func (s *Store) ExportXLSX(ctx context.Context, opts QueryOptions) error {
	results, err := s.Retrieve(ctx, exportOpts(opts))
	if err != nil {
		return fmt.Errorf("querying for export: %w", err)
	}

	rows := make([]report.ActivityRow, len(results))
	for i, r := range results {
		rows[i] = report.ActivityRow{
			ActivityDate:   r.ActivityDate,
			ActivityNumber: r.ActivityNumber,
			CreditType:     string(r.CreditType),
			Source:         string(r.Source),
			Title:          r.Title,
			Topic:          r.Topic,
			Provider:       r.Provider,
			LiveHours:      r.LiveHours,
			HomeHours:      r.HomeHours,
			Participant:    r.Participant,
			TranscriptID:   r.TranscriptID,
		}
	}

	return report.WriteXLSX(filepath.Join(s.indexDir, "export.xlsx"), rows)
}

func (s *Store) exportEntries(ctx context.Context, opts QueryOptions) ([]ExportEntry, error) {
	results, err := s.Retrieve(ctx, exportOpts(opts))
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}

	entries := make([]ExportEntry, len(results))
	for i, r := range results {
		entries[i] = ExportEntry{
			ActivityID:     r.ActivityID,
			TranscriptID:   r.TranscriptID,
			Participant:    r.Participant,
			ActivityDate:   r.ActivityDate,
			ActivityNumber: r.ActivityNumber,
			CreditType:     string(r.CreditType),
			Source:         string(r.Source),
			Title:          r.Title,
			Topic:          r.Topic,
			Provider:       r.Provider,
			LiveHours:      r.LiveHours,
			HomeHours:      r.HomeHours,
		}
	}

	return entries, nil
}
