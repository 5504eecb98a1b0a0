// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report serializes transcript records and builds tabular exports.
// Implements: prd003-reporting (R1-R4);
//
//	docs/ARCHITECTURE § Reporting.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/cpemon/pkg/types"
)

// MarshalRecord renders a record in the named format. JSON output is
// two-space indented; unrecognized header fields serialize as explicit
// nulls, never as absent keys (R1.1, R1.2).
func MarshalRecord(record *types.TranscriptRecord, format types.RecordFormat) ([]byte, error) {
	switch format {
	case types.FormatJSON, "":
		return json.MarshalIndent(record, "", "  ")
	case types.FormatYAML:
		return yaml.Marshal(record)
	default:
		return nil, fmt.Errorf("unknown record format %q", format)
	}
}

// WriteRecord writes a serialized record to w with a trailing newline.
func WriteRecord(w io.Writer, record *types.TranscriptRecord, format types.RecordFormat) error {
	data, err := MarshalRecord(record, format)
	if err != nil {
		return err
	}
	if len(data) == 0 || data[len(data)-1] != '\n' {
		data = append(data, '\n')
	}
	_, err = w.Write(data)
	return err
}

// FileName returns the record file name for an input stem.
func FileName(stem string, format types.RecordFormat) string {
	if format == types.FormatYAML {
		return stem + ".yaml"
	}
	return stem + ".json"
}

// ReadRecord loads a serialized record, picking the codec from the file
// extension (R1.3).
func ReadRecord(path string) (*types.TranscriptRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading record %s: %w", path, err)
	}

	var record types.TranscriptRecord
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &record); err != nil {
			return nil, fmt.Errorf("parsing yaml record %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(data, &record); err != nil {
			return nil, fmt.Errorf("parsing json record %s: %w", path, err)
		}
	}
	return &record, nil
}
