// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/cpemon/internal/batch"
	"github.com/pdiddy/cpemon/internal/report"
	"github.com/pdiddy/cpemon/pkg/types"
)

var parseCmd = &cobra.Command{
	Use:   "parse [inputs...]",
	Short: "Parse transcript PDFs into structured records",
	Long: `Parse extracts the text layer of CPE Monitor transcript PDFs and
recognizes the participant header, the activity table, and the disclaimer,
writing one record file per input to the records directory.

Inputs are PDF or pre-extracted .txt files; directory arguments expand to
their PDF and text members. With no arguments the raw transcripts directory
is scanned. Unrecognized activity rows are dropped from the record and
reported in the batch summary.`,
	RunE: runParse,
}

func runParse(cmd *cobra.Command, args []string) error {
	rawDir, _ := cmd.Flags().GetString("raw-dir")
	out, _ := cmd.Flags().GetString("out")
	format, _ := cmd.Flags().GetString("format")
	jobs, _ := cmd.Flags().GetInt("jobs")
	validate, _ := cmd.Flags().GetBool("validate")
	toStdout, _ := cmd.Flags().GetBool("stdout")

	switch types.RecordFormat(format) {
	case types.FormatJSON, types.FormatYAML, "":
	default:
		return fmt.Errorf("unsupported format %q: use json or yaml", format)
	}

	if len(args) == 0 {
		args = []string{rawDir}
	}
	inputs, err := batch.ExpandInputs(args)
	if err != nil {
		return err
	}
	if len(inputs) == 0 {
		return fmt.Errorf("no .pdf or .txt inputs found")
	}

	// Single-document mode: record to stdout, diagnostics to stderr.
	if toStdout {
		if len(inputs) != 1 {
			return fmt.Errorf("--stdout requires exactly one input, got %d", len(inputs))
		}
		record, stats, err := batch.ParseFile(inputs[0])
		if err != nil {
			return err
		}
		if validate {
			if err := report.ValidateRecord(record); err != nil {
				return err
			}
		}
		if stats.Dropped() > 0 {
			fmt.Fprintf(os.Stderr, "warning: %d row chunk(s) not recognized\n", stats.Dropped())
			for _, r := range stats.Rejected {
				fmt.Fprintf(os.Stderr, "  %s: %s\n", r.Reason, r.Excerpt)
			}
		}
		return report.WriteRecord(os.Stdout, record, types.RecordFormat(format))
	}

	cfg := types.ParseConfig{
		RecordsDir: out,
		Format:     types.RecordFormat(format),
		Jobs:       jobs,
		Validate:   validate,
	}

	summary, err := batch.ParseAll(context.Background(), inputs, cfg, os.Stdout)
	if err != nil {
		return err
	}
	if summary.HasFailures() {
		return fmt.Errorf("%d input(s) failed parsing", summary.Failed)
	}
	return nil
}

func init() {
	parseCmd.Flags().String("raw-dir", "transcripts/raw", "directory scanned when no inputs are given")
	parseCmd.Flags().String("out", "transcripts/records", "output directory for record files")
	parseCmd.Flags().String("format", "json", "record format: json or yaml")
	parseCmd.Flags().Int("jobs", 4, "maximum number of inputs parsed concurrently")
	parseCmd.Flags().Bool("validate", false, "schema-check each record before writing")
	parseCmd.Flags().Bool("stdout", false, "write a single record to stdout instead of a file")

	rootCmd.AddCommand(parseCmd)
}
