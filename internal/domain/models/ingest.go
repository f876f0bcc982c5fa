package models

// IngestSummary reports the outcome of one pipeline run.
//
// Persisted counts the records handed to storage; Skipped counts lines the
// validator rejected.
type IngestSummary struct {
	Lines     int
	Persisted int
	Skipped   int
}
