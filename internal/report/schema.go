package report

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/pdiddy/cpemon/pkg/types"
)

// RecordSchema returns the JSON Schema for serialized transcript records as
// a plain map (R2.1). Header fields are nullable so a degraded source never
// fails the contract; activity fields are strict.
func RecordSchema() map[string]any {
	activity := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"required": []string{
			"activity_date", "activity_number", "credit_type", "source",
			"title", "topic", "provider", "live_hours", "home_hours",
		},
		"properties": map[string]any{
			"activity_date":   map[string]any{"type": "string", "pattern": `^\d{1,2}/\d{1,2}/\d{4}$`},
			"activity_number": map[string]any{"type": "string", "minLength": 1},
			"credit_type":     map[string]any{"type": "string", "enum": []string{"ACPE", "IPCE"}},
			"source":          map[string]any{"type": "string", "enum": []string{"ACPE", "IPCE"}},
			"title":           map[string]any{"type": "string"},
			"topic":           map[string]any{"type": "string"},
			"provider":        map[string]any{"type": "string"},
			"live_hours":      map[string]any{"type": "number", "minimum": 0},
			"home_hours":      map[string]any{"type": "number", "minimum": 0},
		},
	}

	header := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"required": []string{
			"participant_name", "nabp_eprofile_id", "cpe_activity_date_range",
			"total_cpe_hours_earned", "report_generated_at",
		},
		"properties": map[string]any{
			"participant_name":        map[string]any{"type": []string{"string", "null"}},
			"nabp_eprofile_id":        map[string]any{"type": []string{"string", "null"}, "pattern": `^\d{6}$`},
			"cpe_activity_date_range": map[string]any{"type": []string{"string", "null"}},
			"total_cpe_hours_earned":  map[string]any{"type": []string{"number", "null"}, "minimum": 0},
			"report_generated_at":     map[string]any{"type": []string{"string", "null"}},
		},
	}

	return map[string]any{
		"$schema":              "https://json-schema.org/draft/2020-12/schema",
		"type":                 "object",
		"additionalProperties": false,
		"required":             []string{"header", "activities", "disclaimer"},
		"properties": map[string]any{
			"header":     header,
			"activities": map[string]any{"type": "array", "items": activity},
			"disclaimer": map[string]any{"type": []string{"string", "null"}},
		},
	}
}

// Validate checks serialized record bytes against RecordSchema (R2.2).
func Validate(data []byte) error {
	b, err := json.Marshal(RecordSchema())
	if err != nil {
		return fmt.Errorf("marshaling schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("transcript-record.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("adding schema resource: %w", err)
	}
	schema, err := compiler.Compile("transcript-record.json")
	if err != nil {
		return fmt.Errorf("compiling schema: %w", err)
	}

	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("parsing record json: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("record does not match schema: %w", err)
	}
	return nil
}

// ValidateRecord schema-checks a record through its JSON rendering, so YAML
// output is held to the same contract (R2.3).
func ValidateRecord(record *types.TranscriptRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshaling record: %w", err)
	}
	return Validate(data)
}
