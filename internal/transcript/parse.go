// Package transcript converts degraded PDF-extracted transcript text into
// structured records: participant header fields, the activity table, and the
// trailing disclaimer. Parsing never fails on malformed rows; they are
// dropped and surfaced through Stats.
// Implements: prd002-parsing (R1-R6);
//
//	docs/ARCHITECTURE § Parsing.
package transcript

import "github.com/pdiddy/cpemon/pkg/types"

// Parse converts raw transcript text into a structured record. The input is
// normalized once up front; header, activities, and disclaimer are then
// recovered independently, so a defect in one region cannot empty another
// (R6.1-R6.3).
func Parse(text string) (*types.TranscriptRecord, Stats) {
	normalized := Normalize(text)

	record := &types.TranscriptRecord{
		Header: ParseHeader(normalized),
	}

	activities, stats := ParseActivities(normalized)
	record.Activities = activities

	if d, ok := ParseDisclaimer(normalized); ok {
		record.Disclaimer = &d
	}

	return record, stats
}
