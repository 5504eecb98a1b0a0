// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package batch runs the parse pipeline over many transcript inputs.
// Documents are independent, so files run through intake and parsing
// concurrently under a bounded worker count.
// Implements: prd005-batch (R1-R3);
//
//	docs/ARCHITECTURE § Batch.
package batch

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/cpemon/internal/pdftext"
	"github.com/pdiddy/cpemon/internal/report"
	"github.com/pdiddy/cpemon/internal/transcript"
	"github.com/pdiddy/cpemon/pkg/types"
)

// defaultJobs bounds parse concurrency when the config does not (R2.2).
const defaultJobs = 4

// Summary aggregates the outcome of one batch run. Row counts come from the
// per-document parse diagnostics, so dropped chunks stay visible at the
// batch level (R3.1-R3.3).
type Summary struct {
	// Parsed is the number of inputs that produced a record file.
	Parsed int

	// Failed is the number of inputs that could not be read, validated,
	// or written.
	Failed int

	// Rows is the total number of recognized activity rows.
	Rows int

	// Dropped is the total number of row chunks rejected during parsing.
	Dropped int

	// TopicFallbacks is the total number of rows whose topic came from the
	// low-confidence word-count split.
	TopicFallbacks int
}

// Total returns the number of inputs processed.
func (s Summary) Total() int {
	return s.Parsed + s.Failed
}

// HasFailures reports whether any input failed.
func (s Summary) HasFailures() bool {
	return s.Failed > 0
}

// ExpandInputs resolves input arguments to parseable files. Directory
// arguments expand to their .pdf and .txt members, sorted by name; file
// arguments pass through as given (R1.2).
func ExpandInputs(args []string) ([]string, error) {
	var inputs []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("reading input %s: %w", arg, err)
		}
		if !info.IsDir() {
			inputs = append(inputs, arg)
			continue
		}

		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, fmt.Errorf("reading input directory %s: %w", arg, err)
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			switch strings.ToLower(filepath.Ext(entry.Name())) {
			case ".pdf", ".txt":
				inputs = append(inputs, filepath.Join(arg, entry.Name()))
			}
		}
	}
	sort.Strings(inputs)
	return inputs, nil
}

// ParseAll parses each input into a record file under cfg.RecordsDir,
// reporting per-file status to w. Inputs run concurrently up to cfg.Jobs
// workers; a failed input is counted, not fatal (R2.1-R2.3, R3.1).
func ParseAll(ctx context.Context, inputs []string, cfg types.ParseConfig, w io.Writer) (Summary, error) {
	jobs := cfg.Jobs
	if jobs <= 0 {
		jobs = defaultJobs
	}

	if err := os.MkdirAll(cfg.RecordsDir, 0o755); err != nil {
		return Summary{}, fmt.Errorf("creating records directory: %w", err)
	}

	var (
		mu      sync.Mutex
		summary Summary
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)

	for _, input := range inputs {
		input := input
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			stem := inputStem(input)
			stats, err := parseOne(input, stem, cfg)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				fmt.Fprintf(w, "failed:  %s (%v)\n", stem, err)
				summary.Failed++
				return nil
			}
			fmt.Fprintf(w, "parsed:  %s (%d rows, %d dropped)\n", stem, stats.Rows, stats.Dropped())
			summary.Parsed++
			summary.Rows += stats.Rows
			summary.Dropped += stats.Dropped()
			summary.TopicFallbacks += stats.TopicFallbacks
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return summary, err
	}

	fmt.Fprintf(w, "\nBatch summary: %d parsed, %d failed, %d rows, %d dropped (total: %d)\n",
		summary.Parsed, summary.Failed, summary.Rows, summary.Dropped, summary.Total())
	return summary, nil
}

// ParseFile runs one input through intake and parsing without writing a
// record file. Used by the single-document stdout path (R1.3).
func ParseFile(path string) (*types.TranscriptRecord, transcript.Stats, error) {
	text, err := pdftext.ExtractFile(path)
	if err != nil {
		return nil, transcript.Stats{}, err
	}
	record, stats := transcript.Parse(text)
	return record, stats, nil
}

// parseOne extracts, parses, optionally validates, and writes one record.
func parseOne(input, stem string, cfg types.ParseConfig) (transcript.Stats, error) {
	record, stats, err := ParseFile(input)
	if err != nil {
		return stats, err
	}

	if cfg.Validate {
		if err := report.ValidateRecord(record); err != nil {
			return stats, err
		}
	}

	path := filepath.Join(cfg.RecordsDir, report.FileName(stem, cfg.Format))
	f, err := os.Create(path)
	if err != nil {
		return stats, fmt.Errorf("creating record file: %w", err)
	}
	if err := report.WriteRecord(f, record, cfg.Format); err != nil {
		f.Close()
		return stats, fmt.Errorf("writing record file %s: %w", path, err)
	}
	return stats, f.Close()
}

// inputStem returns the record base name for an input path.
func inputStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
