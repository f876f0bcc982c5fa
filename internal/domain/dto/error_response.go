package dto

import "time"

// ErrorResponse is the JSON body returned by every failing endpoint.
type ErrorResponse struct {
	Message      string    `json:"message" example:"failed to persist trades"`
	ErrorDetails string    `json:"error_details,omitempty" example:"insert trade 3: constraint failed"`
	Timestamp    time.Time `json:"timestamp" example:"2025-09-18T10:00:00Z"`
}

// Error implements the error interface so an ErrorResponse can travel through gin's c.Error.
func (e ErrorResponse) Error() string {
	if e.ErrorDetails == "" {
		return e.Message
	}
	return e.Message + ": " + e.ErrorDetails
}

// NewErrorResponse builds an ErrorResponse stamped with the current UTC time.
// A nil err leaves ErrorDetails empty.
func NewErrorResponse(message string, err error) ErrorResponse {
	resp := ErrorResponse{
		Message:   message,
		Timestamp: time.Now().UTC(),
	}
	if err != nil {
		resp.ErrorDetails = err.Error()
	}
	return resp
}
