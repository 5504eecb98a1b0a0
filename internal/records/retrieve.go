// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package records

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/pdiddy/cpemon/pkg/types"
)

// QueryOptions holds parameters for record store queries (R2, R3).
type QueryOptions struct {
	// Query is the FTS5 full-text search string over title, topic, and
	// provider (R2.1).
	Query string

	// CreditType filters by accreditation code (R3.1).
	CreditType types.CreditCode

	// Topic filters by canonical topic (R3.2).
	Topic string

	// Participant filters by participant name substring (R3.3).
	Participant string

	// TranscriptID filters by source transcript (R3.4).
	TranscriptID string

	// MaxResults limits result count. Zero uses the store default (R2.3).
	MaxResults int
}

// IsEmpty reports whether the query has no search terms or filters.
func (q QueryOptions) IsEmpty() bool {
	return q.Query == "" && q.CreditType == "" && q.Topic == "" &&
		q.Participant == "" && q.TranscriptID == ""
}

// QueryResult is a stored activity with its transcript context (R2.4).
type QueryResult struct {
	types.ActivityRecord
	ActivityID   string `json:"activity_id" yaml:"activity_id"`
	TranscriptID string `json:"transcript_id" yaml:"transcript_id"`
	Participant  string `json:"participant" yaml:"participant"`
}

// Retrieve queries the records store with optional full-text search and
// structured filters (R2, R3). Results are ranked by relevance for
// full-text queries or sorted by transcript and row order for
// structured-only queries (R2.2, R3.6).
func (s *Store) Retrieve(ctx context.Context, opts QueryOptions) ([]QueryResult, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb     strings.Builder
		args   []any
		useFTS = opts.Query != ""
	)

	if useFTS {
		qb.WriteString(
			`SELECT a.id, a.transcript_id, a.activity_date, a.activity_number,
				a.credit_type, a.source, a.title, a.topic, a.provider,
				a.live_hours, a.home_hours, t.participant_name, activities_fts.rank
			FROM activities_fts
			JOIN activities a ON a.rowid = activities_fts.rowid
			LEFT JOIN transcripts t ON a.transcript_id = t.id
			WHERE activities_fts MATCH ?`)
		args = append(args, opts.Query)
	} else {
		qb.WriteString(
			`SELECT a.id, a.transcript_id, a.activity_date, a.activity_number,
				a.credit_type, a.source, a.title, a.topic, a.provider,
				a.live_hours, a.home_hours, t.participant_name, 0 AS rank
			FROM activities a
			LEFT JOIN transcripts t ON a.transcript_id = t.id
			WHERE 1=1`)
	}

	if opts.CreditType != "" {
		qb.WriteString(` AND a.credit_type = ?`)
		args = append(args, string(opts.CreditType))
	}

	if opts.Topic != "" {
		qb.WriteString(` AND a.topic = ?`)
		args = append(args, opts.Topic)
	}

	if opts.Participant != "" {
		qb.WriteString(` AND t.participant_name LIKE ?`)
		args = append(args, "%"+opts.Participant+"%")
	}

	if opts.TranscriptID != "" {
		qb.WriteString(` AND a.transcript_id = ?`)
		args = append(args, opts.TranscriptID)
	}

	if useFTS {
		qb.WriteString(` ORDER BY activities_fts.rank`)
	} else {
		qb.WriteString(` ORDER BY a.transcript_id, a.rowid`)
	}

	qb.WriteString(` LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying records store: %w", err)
	}
	defer rows.Close()

	var results []QueryResult
	for rows.Next() {
		var (
			qr          QueryResult
			creditType  string
			source      string
			participant sql.NullString
			rank        float64
		)

		if err := rows.Scan(
			&qr.ActivityID, &qr.TranscriptID, &qr.ActivityDate, &qr.ActivityNumber,
			&creditType, &source, &qr.Title, &qr.Topic, &qr.Provider,
			&qr.LiveHours, &qr.HomeHours, &participant, &rank,
		); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}

		qr.CreditType = types.CreditCode(creditType)
		qr.Source = types.CreditCode(source)
		if participant.Valid {
			qr.Participant = participant.String
		}

		results = append(results, qr)
	}

	return results, rows.Err()
}

// ActivityDetail is a stored activity joined with its provenance (R4.2).
type ActivityDetail struct {
	QueryResult
	SourceFile string `json:"source_file" yaml:"source_file"`
}

// Activity looks up a single stored activity by ID (R4.1-R4.3).
func (s *Store) Activity(ctx context.Context, activityID string) (*ActivityDetail, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT a.id, a.transcript_id, a.activity_date, a.activity_number,
			a.credit_type, a.source, a.title, a.topic, a.provider,
			a.live_hours, a.home_hours, t.participant_name, 0 AS rank,
			t.source_file
		FROM activities a
		LEFT JOIN transcripts t ON a.transcript_id = t.id
		WHERE a.id = ?`, activityID)

	var (
		detail      ActivityDetail
		creditType  string
		source      string
		participant sql.NullString
		sourceFile  sql.NullString
		rank        float64
	)

	err := row.Scan(
		&detail.ActivityID, &detail.TranscriptID,
		&detail.ActivityDate, &detail.ActivityNumber,
		&creditType, &source, &detail.Title, &detail.Topic, &detail.Provider,
		&detail.LiveHours, &detail.HomeHours, &participant, &rank,
		&sourceFile,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("activity %s not found", activityID)
		}
		return nil, fmt.Errorf("looking up activity: %w", err)
	}

	detail.CreditType = types.CreditCode(creditType)
	detail.Source = types.CreditCode(source)
	if participant.Valid {
		detail.Participant = participant.String
	}
	if sourceFile.Valid {
		detail.SourceFile = sourceFile.String
	}
	return &detail, nil
}

// TranscriptSummary describes one indexed transcript (R6.5).
type TranscriptSummary struct {
	ID          string
	SourceFile  string
	Participant string
	Activities  int
	LiveHours   float64
	HomeHours   float64
}

// Transcripts lists indexed transcripts with activity counts and hour
// totals, ordered by ID.
func (s *Store) Transcripts(ctx context.Context) ([]TranscriptSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT t.id, t.source_file, t.participant_name,
			COUNT(a.rowid), COALESCE(SUM(a.live_hours), 0), COALESCE(SUM(a.home_hours), 0)
		FROM transcripts t
		LEFT JOIN activities a ON a.transcript_id = t.id
		GROUP BY t.id
		ORDER BY t.id`)
	if err != nil {
		return nil, fmt.Errorf("listing transcripts: %w", err)
	}
	defer rows.Close()

	var summaries []TranscriptSummary
	for rows.Next() {
		var (
			ts          TranscriptSummary
			sourceFile  sql.NullString
			participant sql.NullString
		)
		if err := rows.Scan(
			&ts.ID, &sourceFile, &participant,
			&ts.Activities, &ts.LiveHours, &ts.HomeHours,
		); err != nil {
			return nil, fmt.Errorf("scanning transcript row: %w", err)
		}
		if sourceFile.Valid {
			ts.SourceFile = sourceFile.String
		}
		if participant.Valid {
			ts.Participant = participant.String
		}
		summaries = append(summaries, ts)
	}

	return summaries, rows.Err()
}
