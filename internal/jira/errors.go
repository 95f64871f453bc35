package jira

// APIError is returned when Jira answers with an unexpected status or when a
// response is requested before one was received.
type APIError struct {
	StatusCode int // Zero when no request produced the error
	Message    string
}

// Error returns the message, which for status errors is the pretty-printed response body.
func (e *APIError) Error() string {
	return e.Message
}

// ErrNoResponse is returned by Response accessors before a response has been stored.
var ErrNoResponse = &APIError{Message: "response object is null"}
