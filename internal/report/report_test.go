// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/pdiddy/cpemon/pkg/types"
)

func fullRecord() *types.TranscriptRecord {
	name := "John Pharmacist"
	id := "123456"
	dateRange := "7/1/2023 to 6/30/2024"
	hours := 24.5
	generated := "8/1/2024 10:15:00 AM"
	disclaimer := "This transcript reflects activities reported to date."
	return &types.TranscriptRecord{
		Header: types.HeaderFields{
			ParticipantName:      &name,
			NABPEProfileID:       &id,
			CPEActivityDateRange: &dateRange,
			TotalCPEHoursEarned:  &hours,
			ReportGeneratedAt:    &generated,
		},
		Activities: []types.ActivityRecord{{
			ActivityDate:   "1/5/2024",
			ActivityNumber: "JA0002895-0000-24-072-H01-P",
			CreditType:     types.CreditACPE,
			Source:         types.CreditACPE,
			Title:          "Managing Diabetes",
			Topic:          "Drug Information",
			Provider:       "ABC Pharmacy Inc",
			LiveHours:      1,
			HomeHours:      0.5,
		}},
		Disclaimer: &disclaimer,
	}
}

// --- serialization ---

func TestMarshalRecordJSON(t *testing.T) {
	data, err := MarshalRecord(fullRecord(), types.FormatJSON)
	require.NoError(t, err)

	text := string(data)
	assert.Contains(t, text, `"participant_name": "John Pharmacist"`)
	assert.Contains(t, text, `"nabp_eprofile_id": "123456"`)
	assert.Contains(t, text, `"total_cpe_hours_earned": 24.5`)
	assert.Contains(t, text, `"credit_type": "ACPE"`)
	assert.Contains(t, text, `"live_hours": 1`)
	assert.Contains(t, text, `"home_hours": 0.5`)
}

func TestMarshalRecordJSONNullHeader(t *testing.T) {
	record := &types.TranscriptRecord{Activities: []types.ActivityRecord{}}
	data, err := MarshalRecord(record, types.FormatJSON)
	require.NoError(t, err)

	text := string(data)
	for _, key := range []string{
		"participant_name", "nabp_eprofile_id", "cpe_activity_date_range",
		"total_cpe_hours_earned", "report_generated_at", "disclaimer",
	} {
		assert.Contains(t, text, `"`+key+`": null`)
	}
	assert.Contains(t, text, `"activities": []`)
}

func TestMarshalRecordDefaultFormat(t *testing.T) {
	data, err := MarshalRecord(fullRecord(), "")
	require.NoError(t, err)
	assert.True(t, json.Valid(data))
}

func TestMarshalRecordYAML(t *testing.T) {
	data, err := MarshalRecord(fullRecord(), types.FormatYAML)
	require.NoError(t, err)

	text := string(data)
	assert.Contains(t, text, "participant_name: John Pharmacist")
	assert.Contains(t, text, `nabp_eprofile_id: "123456"`)
	assert.Contains(t, text, "title: Managing Diabetes")
	assert.Contains(t, text, "credit_type: ACPE")
}

func TestMarshalRecordYAMLNullHeader(t *testing.T) {
	record := &types.TranscriptRecord{Activities: []types.ActivityRecord{}}
	data, err := MarshalRecord(record, types.FormatYAML)
	require.NoError(t, err)

	text := string(data)
	assert.Contains(t, text, "participant_name: null")
	assert.Contains(t, text, "activities: []")
}

func TestMarshalRecordUnknownFormat(t *testing.T) {
	_, err := MarshalRecord(fullRecord(), types.RecordFormat("toml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "toml")
}

func TestWriteRecordTrailingNewline(t *testing.T) {
	var buf strings.Builder
	require.NoError(t, WriteRecord(&buf, fullRecord(), types.FormatJSON))
	assert.True(t, strings.HasSuffix(buf.String(), "}\n"))

	buf.Reset()
	require.NoError(t, WriteRecord(&buf, fullRecord(), types.FormatYAML))
	assert.True(t, strings.HasSuffix(buf.String(), "\n"))
	assert.False(t, strings.HasSuffix(buf.String(), "\n\n"))
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "sample.json", FileName("sample", types.FormatJSON))
	assert.Equal(t, "sample.yaml", FileName("sample", types.FormatYAML))
	assert.Equal(t, "sample.json", FileName("sample", types.RecordFormat("")))
}

func TestReadRecordRoundTrip(t *testing.T) {
	dir := t.TempDir()
	for _, format := range []types.RecordFormat{types.FormatJSON, types.FormatYAML} {
		want := fullRecord()
		data, err := MarshalRecord(want, format)
		require.NoError(t, err)

		path := filepath.Join(dir, FileName("sample", format))
		require.NoError(t, os.WriteFile(path, data, 0o644))

		got, err := ReadRecord(path)
		require.NoError(t, err, "format %s", format)
		assert.Equal(t, want, got, "format %s", format)
	}
}

func TestReadRecordMissing(t *testing.T) {
	_, err := ReadRecord(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
}

func TestReadRecordMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := ReadRecord(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.json")
}

// --- schema ---

func TestValidateAcceptsFullRecord(t *testing.T) {
	data, err := json.Marshal(fullRecord())
	require.NoError(t, err)
	require.NoError(t, Validate(data))
}

func TestValidateAcceptsNullHeader(t *testing.T) {
	record := &types.TranscriptRecord{Activities: []types.ActivityRecord{}}
	data, err := json.Marshal(record)
	require.NoError(t, err)
	require.NoError(t, Validate(data))
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(record *types.TranscriptRecord)
	}{
		{
			name: "bad credit code",
			mutate: func(r *types.TranscriptRecord) {
				r.Activities[0].CreditType = types.CreditCode("CPE")
			},
		},
		{
			name: "bad source code",
			mutate: func(r *types.TranscriptRecord) {
				r.Activities[0].Source = types.CreditCode("X")
			},
		},
		{
			name: "short eprofile id",
			mutate: func(r *types.TranscriptRecord) {
				id := "12"
				r.Header.NABPEProfileID = &id
			},
		},
		{
			name: "negative live hours",
			mutate: func(r *types.TranscriptRecord) {
				r.Activities[0].LiveHours = -1
			},
		},
		{
			name: "negative total hours",
			mutate: func(r *types.TranscriptRecord) {
				hours := -0.5
				r.Header.TotalCPEHoursEarned = &hours
			},
		},
		{
			name: "empty activity number",
			mutate: func(r *types.TranscriptRecord) {
				r.Activities[0].ActivityNumber = ""
			},
		},
		{
			name: "malformed activity date",
			mutate: func(r *types.TranscriptRecord) {
				r.Activities[0].ActivityDate = "2024-01-05"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := fullRecord()
			tt.mutate(record)

			data, err := json.Marshal(record)
			require.NoError(t, err)
			assert.Error(t, Validate(data))
		})
	}
}

func TestValidateRejectsMissingKey(t *testing.T) {
	data, err := json.Marshal(fullRecord())
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	delete(m["header"].(map[string]any), "participant_name")
	data, err = json.Marshal(m)
	require.NoError(t, err)

	assert.Error(t, Validate(data))
}

func TestValidateRejectsUnknownKey(t *testing.T) {
	data, err := json.Marshal(fullRecord())
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	m["pharmacist_rank"] = "senior"
	data, err = json.Marshal(m)
	require.NoError(t, err)

	assert.Error(t, Validate(data))
}

func TestValidateRejectsMalformedJSON(t *testing.T) {
	err := Validate([]byte("not json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing record json")
}

func TestValidateRecord(t *testing.T) {
	require.NoError(t, ValidateRecord(fullRecord()))

	record := fullRecord()
	record.Activities[0].CreditType = "IPEC"
	assert.Error(t, ValidateRecord(record))
}

// --- xlsx ---

func TestBuildWorkbook(t *testing.T) {
	rows := []ActivityRow{{
		ActivityDate:   "1/5/2024",
		ActivityNumber: "JA0002895-0000-24-072-H01-P",
		CreditType:     "ACPE",
		Source:         "ACPE",
		Title:          "Managing Diabetes",
		Topic:          "Drug Information",
		Provider:       "ABC Pharmacy Inc",
		LiveHours:      1.5,
		HomeHours:      0.5,
		Participant:    "John Pharmacist",
		TranscriptID:   "ab12cd34ef56",
	}}

	f, err := BuildWorkbook(rows)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	index, err := f.GetSheetIndex("Sheet1")
	require.NoError(t, err)
	assert.Equal(t, -1, index, "default sheet should be dropped")

	a1, err := f.GetCellValue(activitiesSheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Activity Date", a1)

	k1, err := f.GetCellValue(activitiesSheet, "K1")
	require.NoError(t, err)
	assert.Equal(t, "Transcript", k1)

	e2, err := f.GetCellValue(activitiesSheet, "E2")
	require.NoError(t, err)
	assert.Equal(t, "Managing Diabetes", e2)

	h2, err := f.GetCellValue(activitiesSheet, "H2")
	require.NoError(t, err)
	assert.Equal(t, "1.5", h2)

	k2, err := f.GetCellValue(activitiesSheet, "K2")
	require.NoError(t, err)
	assert.Equal(t, "ab12cd34ef56", k2)
}

func TestWriteXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "activities.xlsx")
	rows := []ActivityRow{
		{
			ActivityDate: "1/5/2024", ActivityNumber: "N1",
			CreditType: "ACPE", Source: "ACPE",
			Title: "Managing Diabetes", Topic: "Drug Information",
			Provider: "ABC Pharmacy Inc", LiveHours: 1, HomeHours: 0.5,
			Participant: "John Pharmacist", TranscriptID: "ab12cd34ef56",
		},
		{
			ActivityDate: "2/6/2024", ActivityNumber: "N2",
			CreditType: "IPCE", Source: "IPCE",
			Title: "Safety First", Topic: "Patient Safety",
			Provider: "MedEd LLC", LiveHours: 0, HomeHours: 2,
			Participant: "John Pharmacist", TranscriptID: "ab12cd34ef56",
		},
	}
	require.NoError(t, WriteXLSX(path, rows))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	got, err := f.GetRows(activitiesSheet)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, xlsxHeaders, got[0])
	assert.Equal(t, "N1", got[1][1])
	assert.Equal(t, "Safety First", got[2][4])
}

func TestWriteXLSXNoRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.xlsx")
	require.NoError(t, WriteXLSX(path, nil))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	got, err := f.GetRows(activitiesSheet)
	require.NoError(t, err)
	require.Len(t, got, 1)
}
