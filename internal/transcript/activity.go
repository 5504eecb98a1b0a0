// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package transcript converts degraded transcript text into structured records.
// activity.go selects the table body, segments it into row chunks, and
// recognizes the nine fields of each activity row.
// Implements: prd002-parsing (R3);
//
//	docs/ARCHITECTURE § Parsing.
package transcript

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/pdiddy/cpemon/pkg/types"
)

// Body selection and row recognition patterns (R3.1-R3.6).
var (
	// footerRe matches a page footer from its marker through the page
	// counter on the same line.
	footerRe = regexp.MustCompile(`(?i)Report\s+Generated\s+@[^\n]*?Page\s+\d+\s+Of\s+\d+`)

	// disclaimerCutRe locates the start of the trailing disclaimer.
	disclaimerCutRe = regexp.MustCompile(`(?i)Disclaimer\s*:`)

	// tableHeadRe locates the column-header phrase that opens the
	// activity table.
	tableHeadRe = regexp.MustCompile(`(?i)Live\s+Hours\s+Home\s+Hours`)

	// rowStartRe marks the start of an activity row: a line beginning
	// with a date followed by whitespace.
	rowStartRe = regexp.MustCompile(`(?m)^\d{1,2}/\d{1,2}/\d{4}\s`)

	// rowDateRe splits a flattened row chunk into date and remainder.
	rowDateRe = regexp.MustCompile(`^(\d{1,2}/\d{1,2}/\d{4})(?:\s+(.*))?$`)

	// rowCodesRe finds the earliest adjacent pair of accreditation codes.
	// Everything before the pair is the activity number, everything after
	// carries the middle region and the hour figures.
	rowCodesRe = regexp.MustCompile(`^(.+?)\s+(ACPE|IPCE)\s+(ACPE|IPCE)\s+(.+)$`)

	// rowHoursRe peels the final two numeric tokens off the remainder.
	// The tokens split on whitespace only, so a decimal figure such as
	// 30.75 is never divided (R3.6).
	rowHoursRe = regexp.MustCompile(`^(?:(.*\S)\s+)?(\d+(?:\.\d+)?)\s+(\d+(?:\.\d+)?)$`)
)

// Rejection records one dropped row chunk and the recognition step that
// failed (R3.8).
type Rejection struct {
	Excerpt string
	Reason  string
}

// Stats carries parse diagnostics so dropped rows are never silent (R3.8).
type Stats struct {
	// Rows is the number of successfully parsed activity rows.
	Rows int

	// Rejected lists chunks that opened like rows but failed recognition.
	Rejected []Rejection

	// TopicFallbacks counts rows whose middle region matched no dictionary
	// entry and was split by word count instead.
	TopicFallbacks int
}

// Dropped returns the number of rejected row chunks.
func (s Stats) Dropped() int {
	return len(s.Rejected)
}

// ParseActivities recognizes activity rows in normalized text. Footers and
// the disclaimer are stripped first; rows are then read from the table body
// following the column-header phrase. If that body yields no rows the whole
// cleaned text is retried, so documents with displaced furniture still parse
// (R3.1-R3.3).
func ParseActivities(text string) ([]types.ActivityRecord, Stats) {
	cleaned := footerRe.ReplaceAllString(text, "")
	cleaned = cutAtDisclaimer(cleaned)

	body, scoped := tableBody(cleaned)
	records, stats := parseRows(body)
	if scoped && len(records) == 0 {
		records, stats = parseRows(cleaned)
	}
	return records, stats
}

// cutAtDisclaimer truncates text at the first disclaimer marker.
func cutAtDisclaimer(text string) string {
	if loc := disclaimerCutRe.FindStringIndex(text); loc != nil {
		return text[:loc[0]]
	}
	return text
}

// tableBody returns the text after the column-header phrase. scoped reports
// whether the phrase was found; if not, the input is returned whole.
func tableBody(text string) (string, bool) {
	loc := tableHeadRe.FindStringIndex(text)
	if loc == nil {
		return text, false
	}
	return text[loc[1]:], true
}

// splitRowChunks slices the body into one chunk per row-start line. Each
// chunk runs from its date to the next row start or end of body, so wrapped
// continuation lines stay attached to their row (R3.4).
func splitRowChunks(body string) []string {
	starts := rowStartRe.FindAllStringIndex(body, -1)
	chunks := make([]string, 0, len(starts))
	for i, loc := range starts {
		end := len(body)
		if i+1 < len(starts) {
			end = starts[i+1][0]
		}
		chunks = append(chunks, body[loc[0]:end])
	}
	return chunks
}

func parseRows(body string) ([]types.ActivityRecord, Stats) {
	records := []types.ActivityRecord{}
	var stats Stats
	for _, chunk := range splitRowChunks(body) {
		res := parseRow(chunk)
		if res.rejected != nil {
			stats.Rejected = append(stats.Rejected, *res.rejected)
			continue
		}
		if res.topicGuessed {
			stats.TopicFallbacks++
		}
		records = append(records, res.record)
		stats.Rows++
	}
	return records, stats
}

// rowResult is the tagged outcome of recognizing one chunk.
type rowResult struct {
	record       types.ActivityRecord
	topicGuessed bool
	rejected     *Rejection
}

func reject(excerpt, reason string) rowResult {
	return rowResult{rejected: &Rejection{Excerpt: excerpt, Reason: reason}}
}

// parseRow flattens a chunk to single-spaced text and recognizes the nine
// row fields: date, activity number, credit and source codes, the middle
// region, and the two trailing hour figures (R3.5-R3.7).
func parseRow(chunk string) rowResult {
	flat := strings.Join(strings.Fields(chunk), " ")
	excerpt := truncate(flat, 60)

	dm := rowDateRe.FindStringSubmatch(flat)
	if dm == nil {
		return reject(excerpt, "no leading activity date")
	}

	cm := rowCodesRe.FindStringSubmatch(dm[2])
	if cm == nil {
		return reject(excerpt, "credit and source codes not found")
	}

	hm := rowHoursRe.FindStringSubmatch(cm[4])
	if hm == nil {
		return reject(excerpt, "trailing hour figures not found")
	}

	live, err := strconv.ParseFloat(hm[2], 64)
	if err != nil {
		return reject(excerpt, "live hours not numeric")
	}
	home, err := strconv.ParseFloat(hm[3], 64)
	if err != nil {
		return reject(excerpt, "home hours not numeric")
	}

	title, topic, provider, guessed := splitMiddle(hm[1])

	return rowResult{
		record: types.ActivityRecord{
			ActivityDate:   dm[1],
			ActivityNumber: cm[1],
			CreditType:     types.CreditCode(cm[2]),
			Source:         types.CreditCode(cm[3]),
			Title:          title,
			Topic:          topic,
			Provider:       provider,
			LiveHours:      live,
			HomeHours:      home,
		},
		topicGuessed: guessed,
	}
}

// truncate shortens s to max runes for display in diagnostics, never
// cutting inside a multi-byte character.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
