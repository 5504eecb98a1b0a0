// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/cpemon/internal/records"
	"github.com/pdiddy/cpemon/pkg/types"
)

var recordsCmd = &cobra.Command{
	Use:   "records",
	Short: "Manage the records store (store, retrieve, export, transcripts)",
	Long: `Records manages a local SQLite index built from parsed transcript
records. Use subcommands to ingest record files, query activities, list
indexed transcripts, or export the index.`,
}

// --- store subcommand ---

var recordsStoreCmd = &cobra.Command{
	Use:   "store",
	Short: "Ingest parsed transcript records into the store",
	Long: `Store reads record files from the records directory, ingests them
into a SQLite database with FTS5 indexing over title, topic, and provider,
and writes an export file. Unchanged record files are skipped on subsequent
runs.`,
	RunE: runRecordsStore,
}

func runRecordsStore(cmd *cobra.Command, args []string) error {
	store, err := records.NewStore(storeConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	summary, err := store.Ingest(context.Background(), os.Stdout)
	if err != nil {
		return err
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d record(s) failed indexing", summary.Failed)
	}
	return nil
}

// --- retrieve subcommand ---

var recordsRetrieveCmd = &cobra.Command{
	Use:   "retrieve [query]",
	Short: "Query stored activities with full-text search and filters",
	Long: `Retrieve searches stored activities using FTS5 full-text search over
title, topic, and provider, structured filters, or a combination of both.

Use --activity with an activity ID to view one activity with its source file.`,
	RunE: runRecordsRetrieve,
}

func runRecordsRetrieve(cmd *cobra.Command, args []string) error {
	activityID, _ := cmd.Flags().GetString("activity")

	store, err := records.NewStore(storeConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	jsonOutput, _ := cmd.Flags().GetBool("json")

	// Detail mode: one activity with provenance.
	if activityID != "" {
		detail, err := store.Activity(context.Background(), activityID)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(detail)
	}

	opts := queryOptsFromFlags(cmd, args)
	if opts.IsEmpty() {
		return fmt.Errorf("query or filter required: provide a search query, --credit-type, --topic, --participant, or --transcript")
	}

	results, err := store.Retrieve(context.Background(), opts)
	if err != nil {
		return err
	}
	return formatRetrieveOutput(results, jsonOutput)
}

func formatRetrieveOutput(results []records.QueryResult, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-10s  %-40s  %-30s  %-5s  %-20s  %5s  %5s\n",
		"Date", "Title", "Topic", "Type", "Participant", "Live", "Home")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 128))

	for _, r := range results {
		title := r.Title
		if len(title) > 40 {
			title = title[:37] + "..."
		}
		topic := r.Topic
		if len(topic) > 30 {
			topic = topic[:27] + "..."
		}
		participant := r.Participant
		if len(participant) > 20 {
			participant = participant[:17] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-10s  %-40s  %-30s  %-5s  %-20s  %5.2f  %5.2f\n",
			r.ActivityDate, title, topic, r.CreditType, participant,
			r.LiveHours, r.HomeHours)
	}

	fmt.Fprintf(os.Stdout, "\n%d results\n", len(results))
	return nil
}

// --- transcripts subcommand ---

var recordsTranscriptsCmd = &cobra.Command{
	Use:   "transcripts",
	Short: "List indexed transcripts with activity counts and hour totals",
	RunE:  runRecordsTranscripts,
}

func runRecordsTranscripts(cmd *cobra.Command, args []string) error {
	store, err := records.NewStore(storeConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	summaries, err := store.Transcripts(context.Background())
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(summaries)
	}

	if len(summaries) == 0 {
		fmt.Println("No transcripts indexed.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-20s  %-24s  %10s  %6s  %6s\n",
		"Transcript", "Participant", "Activities", "Live", "Home")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 74))
	for _, ts := range summaries {
		fmt.Fprintf(os.Stdout, "%-20s  %-24s  %10d  %6.2f  %6.2f\n",
			ts.ID, ts.Participant, ts.Activities, ts.LiveHours, ts.HomeHours)
	}
	return nil
}

// --- export subcommand ---

var recordsExportCmd = &cobra.Command{
	Use:   "export [query]",
	Short: "Export the activity index to YAML, JSON, or XLSX",
	Long: `Export writes the full activity index (or a filtered subset) to
export.yaml, export.json, or export.xlsx in the index directory. A
positional query argument or the filter flags narrow the export the same
way they narrow retrieve.`,
	RunE: runRecordsExport,
}

func runRecordsExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	cfg := storeConfig(cmd)
	store, err := records.NewStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	opts := queryOptsFromFlags(cmd, args)

	switch format {
	case "yaml", "":
		if err := store.ExportYAML(context.Background(), opts); err != nil {
			return err
		}
		fmt.Println("Exported to", filepath.Join(cfg.IndexDir, "export.yaml"))
	case "json":
		if err := store.ExportJSON(context.Background(), opts); err != nil {
			return err
		}
		fmt.Println("Exported to", filepath.Join(cfg.IndexDir, "export.json"))
	case "xlsx":
		if err := store.ExportXLSX(context.Background(), opts); err != nil {
			return err
		}
		fmt.Println("Exported to", filepath.Join(cfg.IndexDir, "export.xlsx"))
	default:
		return fmt.Errorf("unsupported format %q: use yaml, json, or xlsx", format)
	}

	return nil
}

// --- shared helpers ---

func storeConfig(cmd *cobra.Command) types.StoreConfig {
	indexDir, _ := cmd.Flags().GetString("index-dir")
	if indexDir == "" {
		indexDir = "transcripts/index"
	}
	recordsDir, _ := cmd.Flags().GetString("records-dir")
	if recordsDir == "" {
		recordsDir = "transcripts/records"
	}
	maxResults, _ := cmd.Flags().GetInt("max-results")

	return types.StoreConfig{
		IndexDir:   indexDir,
		RecordsDir: recordsDir,
		MaxResults: maxResults,
	}
}

func queryOptsFromFlags(cmd *cobra.Command, args []string) records.QueryOptions {
	queryText, _ := cmd.Flags().GetString("query")
	if queryText == "" && len(args) > 0 {
		queryText = strings.Join(args, " ")
	}

	creditType, _ := cmd.Flags().GetString("credit-type")
	topic, _ := cmd.Flags().GetString("topic")
	participant, _ := cmd.Flags().GetString("participant")
	transcriptID, _ := cmd.Flags().GetString("transcript")
	limit, _ := cmd.Flags().GetInt("limit")

	return records.QueryOptions{
		Query:        queryText,
		CreditType:   types.CreditCode(creditType),
		Topic:        topic,
		Participant:  participant,
		TranscriptID: transcriptID,
		MaxResults:   limit,
	}
}

func init() {
	// Shared flags on the parent command, inherited by subcommands.
	recordsCmd.PersistentFlags().String("index-dir", "transcripts/index", "directory for the SQLite index and exports")
	recordsCmd.PersistentFlags().String("records-dir", "transcripts/records", "directory scanned for parsed record files")
	recordsCmd.PersistentFlags().Int("max-results", 20, "default maximum number of query results")

	// Retrieve flags.
	recordsRetrieveCmd.Flags().String("query", "", "full-text search query")
	recordsRetrieveCmd.Flags().String("credit-type", "", "filter by accreditation code: ACPE or IPCE")
	recordsRetrieveCmd.Flags().String("topic", "", "filter by canonical topic")
	recordsRetrieveCmd.Flags().String("participant", "", "filter by participant name substring")
	recordsRetrieveCmd.Flags().String("transcript", "", "filter by transcript ID")
	recordsRetrieveCmd.Flags().Int("limit", 0, "maximum results (0 = use default)")
	recordsRetrieveCmd.Flags().String("activity", "", "show one activity by ID with its source file")
	recordsRetrieveCmd.Flags().Bool("json", false, "output results as JSON")

	// Transcripts flags.
	recordsTranscriptsCmd.Flags().Bool("json", false, "output as JSON")

	// Export flags.
	recordsExportCmd.Flags().String("format", "yaml", "export format: yaml, json, or xlsx")
	recordsExportCmd.Flags().String("query", "", "full-text search filter for partial export")
	recordsExportCmd.Flags().String("credit-type", "", "filter by accreditation code for partial export")
	recordsExportCmd.Flags().String("topic", "", "filter by canonical topic for partial export")
	recordsExportCmd.Flags().String("participant", "", "filter by participant for partial export")
	recordsExportCmd.Flags().String("transcript", "", "filter by transcript ID for partial export")
	recordsExportCmd.Flags().Int("limit", 0, "maximum activities to export (0 = all)")

	// Wire subcommands.
	recordsCmd.AddCommand(recordsStoreCmd)
	recordsCmd.AddCommand(recordsRetrieveCmd)
	recordsCmd.AddCommand(recordsTranscriptsCmd)
	recordsCmd.AddCommand(recordsExportCmd)

	rootCmd.AddCommand(recordsCmd)
}
