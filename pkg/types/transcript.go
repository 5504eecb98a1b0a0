// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// CreditCode identifies an accreditation system appearing in the credit-type
// and source columns of an activity row.
// Per prd002-parsing R3.4.
type CreditCode string

const (
	CreditACPE CreditCode = "ACPE"
	CreditIPCE CreditCode = "IPCE"
)

// Valid reports whether c is a recognized accreditation code.
func (c CreditCode) Valid() bool {
	return c == CreditACPE || c == CreditIPCE
}

// HeaderFields holds the participant-level summary recovered from the top of
// a transcript. Every field is optional: a nil pointer means the value was
// not recognized anywhere in the document and serializes as an explicit null.
// Per prd002-parsing R2.1-R2.6.
type HeaderFields struct {
	// ParticipantName is the participant's full name as printed.
	ParticipantName *string `json:"participant_name" yaml:"participant_name"`

	// NABPEProfileID is the six-digit NABP e-Profile identifier.
	NABPEProfileID *string `json:"nabp_eprofile_id" yaml:"nabp_eprofile_id"`

	// CPEActivityDateRange is the reporting window, e.g. "1/1/2024 to 12/31/2024".
	CPEActivityDateRange *string `json:"cpe_activity_date_range" yaml:"cpe_activity_date_range"`

	// TotalCPEHoursEarned is the two-decimal hours total printed on the transcript.
	TotalCPEHoursEarned *float64 `json:"total_cpe_hours_earned" yaml:"total_cpe_hours_earned"`

	// ReportGeneratedAt is the timestamp text following the last
	// "Report Generated @" marker, with any trailing page counter removed.
	ReportGeneratedAt *string `json:"report_generated_at" yaml:"report_generated_at"`
}

// ActivityRecord is one completed continuing-education activity row.
// All nine fields are required; rows that cannot supply them are dropped
// during parsing and surfaced through diagnostics instead.
// Per prd002-parsing R3.1-R3.8.
type ActivityRecord struct {
	// ActivityDate is the completion date as printed (M/D/YYYY).
	ActivityDate string `json:"activity_date" yaml:"activity_date"`

	// ActivityNumber is the accreditation activity number, e.g.
	// "JA0002895-0000-24-072-H01-P". May contain interior spaces left by
	// line-wrap artifacts in the source text.
	ActivityNumber string `json:"activity_number" yaml:"activity_number"`

	// CreditType is the accreditation system the credit was issued under.
	CreditType CreditCode `json:"credit_type" yaml:"credit_type"`

	// Source is the accreditation system that reported the activity.
	Source CreditCode `json:"source" yaml:"source"`

	// Title is the activity title.
	Title string `json:"title" yaml:"title"`

	// Topic is the subject area, normally one of the canonical topic names.
	Topic string `json:"topic" yaml:"topic"`

	// Provider is the organization that delivered the activity.
	Provider string `json:"provider" yaml:"provider"`

	// LiveHours is the live contact-hour credit (never negative).
	LiveHours float64 `json:"live_hours" yaml:"live_hours"`

	// HomeHours is the home-study contact-hour credit (never negative).
	HomeHours float64 `json:"home_hours" yaml:"home_hours"`
}

// TranscriptRecord is the structured form of one CPE Monitor transcript.
type TranscriptRecord struct {
	// Header carries the participant-level summary fields.
	Header HeaderFields `json:"header" yaml:"header"`

	// Activities lists activity rows in document order. May be empty,
	// never null.
	Activities []ActivityRecord `json:"activities" yaml:"activities"`

	// Disclaimer is the disclaimer paragraph with interior whitespace
	// collapsed, or nil when the document has none.
	Disclaimer *string `json:"disclaimer" yaml:"disclaimer"`
}
