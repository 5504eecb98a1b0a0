// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const activitiesSheet = "Activities"

// xlsxHeaders are the workbook column titles, in column order.
var xlsxHeaders = []string{
	"Activity Date", "Activity Number", "Credit Type", "Source",
	"Title", "Topic", "Provider", "Live Hours", "Home Hours",
	"Participant", "Transcript",
}

// ActivityRow is one flattened activity line for tabular export. It joins
// the activity with the identifying fields of its transcript.
type ActivityRow struct {
	ActivityDate   string
	ActivityNumber string
	CreditType     string
	Source         string
	Title          string
	Topic          string
	Provider       string
	LiveHours      float64
	HomeHours      float64
	Participant    string
	TranscriptID   string
}

// BuildWorkbook renders activity rows into a workbook with a single
// Activities sheet (R4.1, R4.2). The caller owns closing the file.
func BuildWorkbook(rows []ActivityRow) (*excelize.File, error) {
	f := excelize.NewFile()
	index, err := f.NewSheet(activitiesSheet)
	if err != nil {
		return nil, fmt.Errorf("creating sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("removing default sheet: %w", err)
	}

	for i, header := range xlsxHeaders {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, fmt.Errorf("naming header cell: %w", err)
		}
		if err := f.SetCellValue(activitiesSheet, cell, header); err != nil {
			return nil, fmt.Errorf("writing header cell: %w", err)
		}
	}

	for r, row := range rows {
		values := []any{
			row.ActivityDate, row.ActivityNumber, row.CreditType, row.Source,
			row.Title, row.Topic, row.Provider, row.LiveHours, row.HomeHours,
			row.Participant, row.TranscriptID,
		}
		for c, value := range values {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return nil, fmt.Errorf("naming cell: %w", err)
			}
			if err := f.SetCellValue(activitiesSheet, cell, value); err != nil {
				return nil, fmt.Errorf("writing cell %s: %w", cell, err)
			}
		}
	}

	_ = f.SetColWidth(activitiesSheet, "A", "A", 12)
	_ = f.SetColWidth(activitiesSheet, "B", "B", 30)
	_ = f.SetColWidth(activitiesSheet, "E", "G", 32)
	_ = f.SetColWidth(activitiesSheet, "J", "K", 22)

	return f, nil
}

// WriteXLSX renders rows and saves the workbook to path (R4.3).
func WriteXLSX(path string, rows []ActivityRow) error {
	f, err := BuildWorkbook(rows)
	if err != nil {
		return err
	}
	if err := f.SaveAs(path); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing workbook %s: %w", path, err)
	}
	return f.Close()
}
