package transcript

import (
	"testing"
)

// --- Normalize ---

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"crlf", "a\r\nb", "a\nb"},
		{"bare cr", "a\rb", "a\nb"},
		{"form feed removed", "a\n\fb", "a\nb"},
		{"mixed endings", "a\r\n\fb\rc", "a\nb\nc"},
		{"empty", "", ""},
		{"already clean", "plain\ntext", "plain\ntext"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"a\r\nb\fc",
		"\r\r\n\f\f",
		"clean already\n",
		"",
	}
	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: %q vs %q", in, once, twice)
		}
	}
}

// --- Topics ---

func TestTopicsOrder(t *testing.T) {
	want := []string{
		"Disease State Management/Drug Therapy",
		"HIV/AIDS Therapy",
		"Law Related to Pharmacy Practice",
		"General Pharmacy",
		"Patient Safety",
		"Medication Safety",
		"Immunizations",
		"Compounding",
		"Pain Management",
		"Substance Abuse",
		"Drug Information",
		"Pharmacy Administration",
	}

	got := Topics()
	if len(got) != len(want) {
		t.Fatalf("got %d topics, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("topic[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	// Callers must not be able to mutate the dictionary.
	got[0] = "mutated"
	if Topics()[0] != want[0] {
		t.Error("Topics() returned a shared slice")
	}
}

// --- ParseDisclaimer ---

func TestParseDisclaimer(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		want   string
		wantOK bool
	}{
		{
			name:   "basic",
			text:   "Disclaimer: This is a note.",
			want:   "This is a note.",
			wantOK: true,
		},
		{
			name:   "whitespace collapsed",
			text:   "Disclaimer:  This   is\n\na note.",
			want:   "This is a note.",
			wantOK: true,
		},
		{
			name:   "stops at footer marker",
			text:   "Disclaimer: Note body. Report Generated @ 1/1/2024",
			want:   "Note body.",
			wantOK: true,
		},
		{
			name:   "case insensitive label",
			text:   "DISCLAIMER: Caps.",
			want:   "Caps.",
			wantOK: true,
		},
		{
			name:   "label with spaced colon",
			text:   "Disclaimer : Spaced.",
			want:   "Spaced.",
			wantOK: true,
		},
		{
			name:   "empty body",
			text:   "Disclaimer:",
			want:   "",
			wantOK: true,
		},
		{
			name:   "absent",
			text:   "No marker anywhere in this text.",
			want:   "",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDisclaimer(tt.text)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("ParseDisclaimer(%q) = (%q, %v), want (%q, %v)", tt.text, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

// --- Parse (assembly) ---

const sampleTranscript = `CPE Activity Transcript
Participant Name:
John Pharmacist
NABP e-Profile ID: 123456
CPE Activity Date Range: 1/1/2024 to 12/31/2024
Total CPE Hours Earned: 24.50
Report Generated @ 1/16/2024 10:42:11 AM Page 1 Of 2
Activity Date Activity Number Credit Type Source Activity Title Topic Provider Live Hours Home Hours
1/5/2024 JA0002895-0000-24-072-H01-P ACPE ACPE Managing Diabetes
Drug Information ABC Pharmacy Inc 1.00 0.50
2/10/2024 0202-0000-24-115-L04-P ACPE ACPE Pharmacy Law Update Law
Related to Pharmacy Practice State Board CE 2.00 0.00
Disclaimer: Hours shown reflect   activities reported to
CPE Monitor.
Report Generated @ 1/16/2024 10:42:11 AM Page 2 Of 2`

func TestParse(t *testing.T) {
	record, stats := Parse(sampleTranscript)

	if record.Header.ParticipantName == nil || *record.Header.ParticipantName != "John Pharmacist" {
		t.Errorf("ParticipantName = %v, want John Pharmacist", record.Header.ParticipantName)
	}
	if record.Header.NABPEProfileID == nil || *record.Header.NABPEProfileID != "123456" {
		t.Errorf("NABPEProfileID = %v, want 123456", record.Header.NABPEProfileID)
	}
	if record.Header.CPEActivityDateRange == nil || *record.Header.CPEActivityDateRange != "1/1/2024 to 12/31/2024" {
		t.Errorf("CPEActivityDateRange = %v, want 1/1/2024 to 12/31/2024", record.Header.CPEActivityDateRange)
	}
	if record.Header.TotalCPEHoursEarned == nil || *record.Header.TotalCPEHoursEarned != 24.50 {
		t.Errorf("TotalCPEHoursEarned = %v, want 24.50", record.Header.TotalCPEHoursEarned)
	}
	if record.Header.ReportGeneratedAt == nil || *record.Header.ReportGeneratedAt != "1/16/2024 10:42:11 AM" {
		t.Errorf("ReportGeneratedAt = %v, want 1/16/2024 10:42:11 AM", record.Header.ReportGeneratedAt)
	}

	if len(record.Activities) != 2 {
		t.Fatalf("got %d activities, want 2", len(record.Activities))
	}

	first := record.Activities[0]
	if first.ActivityDate != "1/5/2024" {
		t.Errorf("ActivityDate = %q, want 1/5/2024", first.ActivityDate)
	}
	if first.ActivityNumber != "JA0002895-0000-24-072-H01-P" {
		t.Errorf("ActivityNumber = %q", first.ActivityNumber)
	}
	if first.Title != "Managing Diabetes" || first.Topic != "Drug Information" || first.Provider != "ABC Pharmacy Inc" {
		t.Errorf("middle split = (%q, %q, %q)", first.Title, first.Topic, first.Provider)
	}
	if first.LiveHours != 1.00 || first.HomeHours != 0.50 {
		t.Errorf("hours = (%v, %v), want (1.00, 0.50)", first.LiveHours, first.HomeHours)
	}

	second := record.Activities[1]
	if second.Title != "Pharmacy Law Update" || second.Topic != "Law Related to Pharmacy Practice" || second.Provider != "State Board CE" {
		t.Errorf("middle split = (%q, %q, %q)", second.Title, second.Topic, second.Provider)
	}

	if record.Disclaimer == nil || *record.Disclaimer != "Hours shown reflect activities reported to CPE Monitor." {
		t.Errorf("Disclaimer = %v", record.Disclaimer)
	}

	if stats.Rows != 2 || stats.Dropped() != 0 || stats.TopicFallbacks != 0 {
		t.Errorf("stats = %+v, want 2 rows, 0 dropped, 0 fallbacks", stats)
	}
}

func TestParseEmptyInput(t *testing.T) {
	record, stats := Parse("")

	if record.Header.ParticipantName != nil || record.Header.NABPEProfileID != nil ||
		record.Header.CPEActivityDateRange != nil || record.Header.TotalCPEHoursEarned != nil ||
		record.Header.ReportGeneratedAt != nil {
		t.Error("empty input should leave all header fields nil")
	}
	if record.Activities == nil {
		t.Error("Activities should be empty, not nil")
	}
	if len(record.Activities) != 0 {
		t.Errorf("got %d activities, want 0", len(record.Activities))
	}
	if record.Disclaimer != nil {
		t.Errorf("Disclaimer = %q, want nil", *record.Disclaimer)
	}
	if stats.Rows != 0 || stats.Dropped() != 0 {
		t.Errorf("stats = %+v, want zero", stats)
	}
}

func TestParseCarriageReturnInput(t *testing.T) {
	text := "CPE Activity Transcript\r\nParticipant Name:\r\nJane Doe\r\nNABP e-Profile ID: 222333\r\n"
	record, _ := Parse(text)
	if record.Header.ParticipantName == nil || *record.Header.ParticipantName != "Jane Doe" {
		t.Errorf("ParticipantName = %v, want Jane Doe", record.Header.ParticipantName)
	}
	if record.Header.NABPEProfileID == nil || *record.Header.NABPEProfileID != "222333" {
		t.Errorf("NABPEProfileID = %v, want 222333", record.Header.NABPEProfileID)
	}
}
