package dto

import "time"

// ErrorResponse is the standard JSON error body returned by the API.
//
// Fields:
//   - Message: short human-readable summary.
//   - ErrorDetails: the underlying error text, omitted when empty.
//   - Timestamp: when the error was produced (UTC).
type ErrorResponse struct {
	Message      string    `json:"message" example:"invalid start date"`
	ErrorDetails string    `json:"error,omitempty" example:"malformed date, expected YYYY-MM-DD"`
	Timestamp    time.Time `json:"timestamp" example:"2024-03-15T12:00:00Z"`
}

// Error implements the error interface so an ErrorResponse can be pushed into gin's error list.
func (e ErrorResponse) Error() string {
	if e.ErrorDetails == "" {
		return e.Message
	}
	return e.Message + ": " + e.ErrorDetails
}

// NewErrorResponse builds an ErrorResponse stamped with the current time.
// err may be nil.
func NewErrorResponse(message string, err error) ErrorResponse {
	resp := ErrorResponse{Message: message, Timestamp: time.Now().UTC()}
	if err != nil {
		resp.ErrorDetails = err.Error()
	}
	return resp
}
