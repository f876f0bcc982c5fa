package dto

// IngestResponse represents the JSON structure returned by POST /api/v1/trades.
type IngestResponse struct {
	Lines     int `json:"lines" example:"4"`     // Lines received in the request body
	Persisted int `json:"persisted" example:"2"` // Trades handed to storage
	Skipped   int `json:"skipped" example:"2"`   // Lines rejected by validation
}
