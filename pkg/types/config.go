package types

// RecordFormat selects the serialization format for parsed records.
// Per prd003-reporting R1.1.
type RecordFormat string

const (
	FormatJSON RecordFormat = "json"
	FormatYAML RecordFormat = "yaml"
)

// ParseConfig holds settings for the parse stage.
// Per prd002-parsing R6.1-R6.3, prd005-batch R2.1.
type ParseConfig struct {
	// RecordsDir is the directory parsed records are written to
	// (default "transcripts/records").
	RecordsDir string `json:"records_dir" yaml:"records_dir"`

	// Format selects the record serialization format: json or yaml.
	Format RecordFormat `json:"format" yaml:"format"`

	// Jobs is the maximum number of documents parsed concurrently (default 4).
	Jobs int `json:"jobs" yaml:"jobs"`

	// Validate schema-checks each record before it is written.
	Validate bool `json:"validate" yaml:"validate"`
}

// StoreConfig holds settings for the records store.
// Per prd004-store R1.2, R3.4.
type StoreConfig struct {
	// IndexDir is the directory holding the SQLite index and exports
	// (default "transcripts/index").
	IndexDir string `json:"index_dir" yaml:"index_dir"`

	// RecordsDir is the directory scanned for parsed records.
	RecordsDir string `json:"records_dir" yaml:"records_dir"`

	// MaxResults is the default maximum number of query results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}
