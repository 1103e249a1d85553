package ingest

import (
	"time"
)

// IngestRequest pulls rows from a table in the legacy relational
// catalogue into the record store.
type IngestRequest struct {
	// Source is the data source key the rows are stored under.
	Source string `json:"source"`
	// Table is the legacy table to read.
	Table string `json:"table"`
	// Mapping maps legacy column names onto record data keys. Empty
	// means columns map onto themselves.
	Mapping map[string]string `json:"mapping,omitempty"`
	// Limit of zero reads the whole table.
	Limit int `json:"limit,omitempty"`
}

type IngestResult struct {
	Source       string        `json:"source"`
	Table        string        `json:"table"`
	RowsRead     int64         `json:"rows_read"`
	RowsInserted int64         `json:"rows_inserted"`
	Duration     time.Duration `json:"duration_ms"`
	StartedAt    time.Time     `json:"started_at"`
}
