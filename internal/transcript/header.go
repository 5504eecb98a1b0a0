// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package transcript converts degraded transcript text into structured records.
// header.go recovers the participant-level summary fields. Each field is
// probed by a priority-ordered chain of named strategies; the first hit wins.
// Implements: prd002-parsing (R2);
//
//	docs/ARCHITECTURE § Parsing.
package transcript

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/pdiddy/cpemon/pkg/types"
)

// Header anchor and value patterns (R2.1-R2.6).
var (
	// titleRe matches the transcript title phrase, tolerant of the case
	// and spacing damage typical of extracted text.
	titleRe = regexp.MustCompile(`(?i)CPE\s+Activity\s+Transcript`)

	// generatedRe matches the footer marker that also closes the header
	// block.
	generatedRe = regexp.MustCompile(`(?i)Report\s+Generated\s+@`)

	// generatedLineRe captures the remainder of the line after the marker.
	generatedLineRe = regexp.MustCompile(`(?i)Report\s+Generated\s+@\s*([^\n]*)`)

	// pageCounterRe matches a trailing page counter on a footer line.
	pageCounterRe = regexp.MustCompile(`(?i)\s*Page\s+\d+\s+Of\s+\d+\s*$`)

	// dateRangeRe matches a reporting window like "1/1/2024 to 12/31/2024".
	dateRangeRe = regexp.MustCompile(`(?i)\d{1,2}/\d{1,2}/\d{4}\s+to\s+\d{1,2}/\d{1,2}/\d{4}`)

	// hoursValueRe matches a two-decimal hours figure.
	hoursValueRe = regexp.MustCompile(`\b\d+\.\d{2}\b`)

	// profileIDRe matches a six-digit NABP e-Profile identifier. The word
	// boundaries keep it from matching inside longer digit runs.
	profileIDRe = regexp.MustCompile(`\b\d{6}\b`)

	// recordedHoursRe anchors the whole-document hours fallback to the
	// "Recorded CPE activity" sentence; the bound keeps the search
	// sentence-scoped (R2.3).
	recordedHoursRe = regexp.MustCompile(`(?is)Recorded\s+CPE\s+activity.{0,200}?(\d+\.\d{2})\b`)

	// nameLineRe matches a line of two to four capitalized words.
	nameLineRe = regexp.MustCompile(`^[A-Z][A-Za-z'.\-]*(?:\s+[A-Z][A-Za-z'.\-]*){1,3}$`)

	// participantLabelRe locates the "Participant Name" label for the
	// whole-document name fallback (R2.5).
	participantLabelRe = regexp.MustCompile(`(?i)Participant\s+Name`)

	// numericishRe matches lines made only of digits, date and time
	// separators, and whitespace; such lines are never names.
	numericishRe = regexp.MustCompile(`^[\d\s/.:\-]+$`)

	// dateTokenRe matches a single M/D/YYYY date token.
	dateTokenRe = regexp.MustCompile(`\d{1,2}/\d{1,2}/\d{4}`)
)

// labelPrefixes are line openings that mark field labels or boilerplate,
// never participant names (R2.5).
var labelPrefixes = []string{
	"Participant",
	"NABP",
	"CPE",
	"Total",
	"Recorded",
	"If it",
}

// headerDoc carries the two search scopes for header strategies: the header
// block between the title phrase and the first footer marker, and the whole
// normalized document (R2.1).
type headerDoc struct {
	full  string
	block string
}

// splitHeaderDoc isolates the header block. When the title phrase is absent
// the block stays empty, block-scoped strategies yield nothing, and the
// document-scoped fallbacks take over.
func splitHeaderDoc(text string) headerDoc {
	d := headerDoc{full: text}
	loc := titleRe.FindStringIndex(text)
	if loc == nil {
		return d
	}
	rest := text[loc[0]:]
	if end := generatedRe.FindStringIndex(rest); end != nil {
		d.block = rest[:end[0]]
	} else {
		d.block = rest
	}
	return d
}

// fieldStrategy is one named probe in a field's priority-ordered chain.
type fieldStrategy struct {
	name string
	find func(d headerDoc) (string, bool)
}

// Strategy chains, evaluated first to last (R2.2-R2.5).
var (
	dateRangeStrategies = []fieldStrategy{
		{"header-block", func(d headerDoc) (string, bool) { return firstPattern(dateRangeRe, d.block) }},
		{"document", func(d headerDoc) (string, bool) { return firstPattern(dateRangeRe, d.full) }},
	}

	totalHoursStrategies = []fieldStrategy{
		{"header-block", func(d headerDoc) (string, bool) { return firstPattern(hoursValueRe, d.block) }},
		{"recorded-sentence", findRecordedHours},
	}

	profileIDStrategies = []fieldStrategy{
		{"header-block", func(d headerDoc) (string, bool) { return firstPattern(profileIDRe, d.block) }},
		{"document", func(d headerDoc) (string, bool) { return firstPattern(profileIDRe, d.full) }},
	}

	nameStrategies = []fieldStrategy{
		{"header-block", findBlockName},
		{"participant-label", findLabelName},
	}
)

// firstHit evaluates a strategy chain in order and returns the first value found.
func firstHit(chain []fieldStrategy, d headerDoc) (string, bool) {
	for _, s := range chain {
		if v, ok := s.find(d); ok {
			return v, true
		}
	}
	return "", false
}

// firstPattern returns the first match of re within scope.
func firstPattern(re *regexp.Regexp, scope string) (string, bool) {
	if scope == "" {
		return "", false
	}
	m := re.FindString(scope)
	if m == "" {
		return "", false
	}
	return m, true
}

// findRecordedHours pulls the first two-decimal figure following the
// "Recorded CPE activity" sentence opener.
func findRecordedHours(d headerDoc) (string, bool) {
	m := recordedHoursRe.FindStringSubmatch(d.full)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// findBlockName scans header block lines top to bottom and returns the first
// line shaped like a personal name, skipping blank lines, label lines, and
// numeric or date-like lines (R2.5).
func findBlockName(d headerDoc) (string, bool) {
	if d.block == "" {
		return "", false
	}
	return nameFromLines(strings.Split(d.block, "\n"), nil)
}

// findLabelName scans the lines after a "Participant Name" label anywhere in
// the document. The scan stops at a line combining a date with further
// digits, which marks the start of tabular data (R2.5).
func findLabelName(d headerDoc) (string, bool) {
	lines := strings.Split(d.full, "\n")
	start := -1
	for i, ln := range lines {
		if participantLabelRe.MatchString(ln) {
			start = i + 1
			break
		}
	}
	if start < 0 {
		return "", false
	}
	return nameFromLines(lines[start:], isTabularLine)
}

// nameFromLines returns the first line matching the name shape. A non-nil
// stop function ends the scan early.
func nameFromLines(lines []string, stop func(string) bool) (string, bool) {
	for _, ln := range lines {
		t := strings.TrimSpace(ln)
		if t == "" {
			continue
		}
		if stop != nil && stop(t) {
			return "", false
		}
		if hasLabelPrefix(t) || numericishRe.MatchString(t) {
			continue
		}
		if nameLineRe.MatchString(t) {
			return t, true
		}
	}
	return "", false
}

func hasLabelPrefix(line string) bool {
	for _, p := range labelPrefixes {
		if strings.HasPrefix(line, p) {
			return true
		}
	}
	return false
}

// isTabularLine reports whether a line holds a date plus further digits,
// the shape of an activity row rather than header prose.
func isTabularLine(line string) bool {
	loc := dateTokenRe.FindStringIndex(line)
	if loc == nil {
		return false
	}
	rest := line[:loc[0]] + line[loc[1]:]
	return strings.ContainsAny(rest, "0123456789")
}

// ParseHeader recovers the five header fields from normalized text. Fields
// no strategy can locate stay nil (R2.6).
func ParseHeader(text string) types.HeaderFields {
	d := splitHeaderDoc(text)

	var h types.HeaderFields
	if v, ok := firstHit(nameStrategies, d); ok {
		h.ParticipantName = &v
	}
	if v, ok := firstHit(profileIDStrategies, d); ok {
		h.NABPEProfileID = &v
	}
	if v, ok := firstHit(dateRangeStrategies, d); ok {
		h.CPEActivityDateRange = &v
	}
	if v, ok := firstHit(totalHoursStrategies, d); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			h.TotalCPEHoursEarned = &f
		}
	}
	if v, ok := findReportGeneratedAt(text); ok {
		h.ReportGeneratedAt = &v
	}
	return h
}

// findReportGeneratedAt returns the text after the last "Report Generated @"
// marker, minus any trailing page counter. Later markers overwrite earlier
// ones, so the value reflects the final page footer (R2.6).
func findReportGeneratedAt(text string) (string, bool) {
	ms := generatedLineRe.FindAllStringSubmatch(text, -1)
	if len(ms) == 0 {
		return "", false
	}
	v := ms[len(ms)-1][1]
	v = pageCounterRe.ReplaceAllString(v, "")
	v = strings.TrimSpace(v)
	if v == "" {
		return "", false
	}
	return v, true
}
