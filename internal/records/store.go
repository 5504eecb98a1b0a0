// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package records persists parsed transcripts and builds a retrieval index.
// Implements: prd004-store (R1-R6);
//
//	docs/ARCHITECTURE § Records Store.
package records

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/cpemon/internal/report"
	"github.com/pdiddy/cpemon/pkg/types"
)

const dbFile = "cpemon.db"

// Store manages the transcript records SQLite database.
type Store struct {
	db         *sql.DB
	indexDir   string
	recordsDir string
	maxResults int
}

// NewStore opens or creates the records database at indexDir/cpemon.db.
// It creates the schema if it does not exist (R1.2, R1.3).
func NewStore(cfg types.StoreConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.IndexDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(cfg.IndexDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{
		db:         db,
		indexDir:   cfg.IndexDir,
		recordsDir: cfg.RecordsDir,
		maxResults: maxResults,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS transcripts (
			id TEXT PRIMARY KEY,
			source_file TEXT,
			participant_name TEXT,
			nabp_eprofile_id TEXT,
			cpe_activity_date_range TEXT,
			total_cpe_hours_earned REAL,
			report_generated_at TEXT,
			disclaimer TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS activities (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			transcript_id TEXT NOT NULL REFERENCES transcripts(id),
			activity_date TEXT,
			activity_number TEXT,
			credit_type TEXT,
			source TEXT,
			title TEXT,
			topic TEXT,
			provider TEXT,
			live_hours REAL,
			home_hours REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_activities_transcript_id ON activities(transcript_id)`,
		`CREATE INDEX IF NOT EXISTS idx_activities_topic ON activities(topic)`,
		`CREATE INDEX IF NOT EXISTS idx_activities_credit_type ON activities(credit_type)`,
		`CREATE TABLE IF NOT EXISTS ingest_status (
			transcript_id TEXT PRIMARY KEY,
			file_mod_time TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS imports (
			id TEXT PRIMARY KEY,
			started_at TEXT,
			indexed INTEGER,
			updated INTEGER,
			skipped INTEGER,
			failed INTEGER
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table with triggers for sync.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='activities_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE activities_fts USING fts5(title, topic, provider, content=activities, content_rowid=rowid)`,
			`CREATE TRIGGER activities_ai AFTER INSERT ON activities BEGIN
				INSERT INTO activities_fts(rowid, title, topic, provider) VALUES (new.rowid, new.title, new.topic, new.provider);
			END`,
			`CREATE TRIGGER activities_ad AFTER DELETE ON activities BEGIN
				INSERT INTO activities_fts(activities_fts, rowid, title, topic, provider) VALUES('delete', old.rowid, old.title, old.topic, old.provider);
			END`,
			`CREATE TRIGGER activities_au AFTER UPDATE ON activities BEGIN
				INSERT INTO activities_fts(activities_fts, rowid, title, topic, provider) VALUES('delete', old.rowid, old.title, old.topic, old.provider);
				INSERT INTO activities_fts(rowid, title, topic, provider) VALUES (new.rowid, new.title, new.topic, new.provider);
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}

	return nil
}

// IngestSummary holds counts from a records indexing run (R5.5).
type IngestSummary struct {
	Indexed int
	Updated int
	Skipped int
	Failed  int
}

// Total returns the number of record files processed.
func (s IngestSummary) Total() int {
	return s.Indexed + s.Updated + s.Skipped + s.Failed
}

// recordFileStem returns the transcript ID for a record file name, or ""
// when the file is not a serialized record.
func recordFileStem(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	switch ext {
	case ".json", ".yaml", ".yml":
		return strings.TrimSuffix(name, filepath.Ext(name))
	}
	return ""
}

// Ingest reads serialized records from the records directory and populates
// the database. It detects new, changed, and unchanged files for
// incremental updates (R1.1, R5.1-R5.5). On success it writes export.yaml
// (R1.6) and records an import audit row (R5.6).
func (s *Store) Ingest(ctx context.Context, w io.Writer) (IngestSummary, error) {
	startedAt := time.Now().UTC().Format(time.RFC3339)

	entries, err := os.ReadDir(s.recordsDir)
	if err != nil {
		return IngestSummary{}, fmt.Errorf("reading records directory %s: %w", s.recordsDir, err)
	}

	var summary IngestSummary

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		transcriptID := recordFileStem(entry.Name())
		if transcriptID == "" {
			continue
		}

		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		filePath := filepath.Join(s.recordsDir, entry.Name())

		info, err := entry.Info()
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", transcriptID, err)
			summary.Failed++
			continue
		}
		modTime := info.ModTime().UTC().Format(time.RFC3339Nano)

		// Check whether the file has changed since last indexing (R5.1, R5.3).
		var storedModTime string
		err = s.db.QueryRowContext(ctx,
			`SELECT file_mod_time FROM ingest_status WHERE transcript_id = ?`, transcriptID,
		).Scan(&storedModTime)

		if err == nil && storedModTime == modTime {
			fmt.Fprintf(w, "skipped %s\n", transcriptID)
			summary.Skipped++
			continue
		}

		isUpdate := err == nil

		record, err := report.ReadRecord(filePath)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", transcriptID, err)
			summary.Failed++
			continue
		}

		if err := s.ingestTranscript(ctx, transcriptID, entry.Name(), record, modTime, isUpdate); err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", transcriptID, err)
			summary.Failed++
			continue
		}

		if isUpdate {
			fmt.Fprintf(w, "updated %s (%d activities)\n", transcriptID, len(record.Activities))
			summary.Updated++
		} else {
			fmt.Fprintf(w, "indexing %s (%d activities)\n", transcriptID, len(record.Activities))
			summary.Indexed++
		}
	}

	fmt.Fprintf(w, "\nindexed: %d, updated: %d, skipped: %d, failed: %d\n",
		summary.Indexed, summary.Updated, summary.Skipped, summary.Failed)

	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO imports (id, started_at, indexed, updated, skipped, failed)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), startedAt,
		summary.Indexed, summary.Updated, summary.Skipped, summary.Failed,
	); err != nil {
		return summary, fmt.Errorf("recording import run: %w", err)
	}

	// Write export.yaml after successful ingestion (R1.6).
	if summary.Indexed > 0 || summary.Updated > 0 {
		if err := s.ExportYAML(ctx, QueryOptions{}); err != nil {
			fmt.Fprintf(w, "warning: export.yaml write failed: %v\n", err)
		}
	}

	return summary, nil
}

func (s *Store) ingestTranscript(ctx context.Context, transcriptID, sourceFile string, record *types.TranscriptRecord, modTime string, isUpdate bool) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	// Remove old activities if updating (R5.2).
	if isUpdate {
		if _, err := tx.ExecContext(ctx, `DELETE FROM activities WHERE transcript_id = ?`, transcriptID); err != nil {
			return fmt.Errorf("deleting old activities: %w", err)
		}
	}

	// Upsert transcript header (R1.5). Nil header fields store as NULL.
	_, err = tx.ExecContext(ctx,
		`INSERT INTO transcripts (id, source_file, participant_name, nabp_eprofile_id,
			cpe_activity_date_range, total_cpe_hours_earned, report_generated_at, disclaimer)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			source_file=excluded.source_file, participant_name=excluded.participant_name,
			nabp_eprofile_id=excluded.nabp_eprofile_id,
			cpe_activity_date_range=excluded.cpe_activity_date_range,
			total_cpe_hours_earned=excluded.total_cpe_hours_earned,
			report_generated_at=excluded.report_generated_at, disclaimer=excluded.disclaimer`,
		transcriptID, sourceFile,
		record.Header.ParticipantName, record.Header.NABPEProfileID, record.Header.CPEActivityDateRange,
		record.Header.TotalCPEHoursEarned, record.Header.ReportGeneratedAt, record.Disclaimer,
	)
	if err != nil {
		return fmt.Errorf("upserting transcript: %w", err)
	}

	// Insert activities (R1.4).
	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO activities (id, transcript_id, activity_date, activity_number,
			credit_type, source, title, topic, provider, live_hours, home_hours)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, a := range record.Activities {
		_, err := stmt.ExecContext(ctx,
			activityID(transcriptID, i, a), transcriptID,
			a.ActivityDate, a.ActivityNumber,
			string(a.CreditType), string(a.Source),
			a.Title, a.Topic, a.Provider,
			a.LiveHours, a.HomeHours,
		)
		if err != nil {
			return fmt.Errorf("inserting activity %d: %w", i, err)
		}
	}

	// Update ingest status (R5.1).
	_, err = tx.ExecContext(ctx,
		`INSERT INTO ingest_status (transcript_id, file_mod_time) VALUES (?, ?)
		 ON CONFLICT(transcript_id) DO UPDATE SET file_mod_time=excluded.file_mod_time`,
		transcriptID, modTime,
	)
	if err != nil {
		return fmt.Errorf("updating ingest status: %w", err)
	}

	return tx.Commit()
}

// activityID generates a deterministic ID for a stored activity. The ID is
// the first 12 hex characters of SHA-256 over the transcript ID, the row
// ordinal, and the row's identifying fields; the ordinal keeps repeated
// identical rows distinct (R1.4).
func activityID(transcriptID string, ordinal int, a types.ActivityRecord) string {
	h := sha256.New()
	h.Write([]byte(transcriptID))
	fmt.Fprintf(h, "|%d|", ordinal)
	h.Write([]byte(a.ActivityDate))
	h.Write([]byte(a.ActivityNumber))
	h.Write([]byte(a.Title))
	return fmt.Sprintf("%x", h.Sum(nil))[:12]
}
