package gateway

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// RequestError is returned when the backend answers with a non-2xx status.
// Its Error() is the human-readable message only.
type RequestError struct {
	StatusCode int
	Message    string
}

func (e *RequestError) Error() string {
	return e.Message
}

// newRequestError extracts the backend's own message from a JSON error body,
// preferring "message" over "error", and otherwise describes the status line.
func newRequestError(statusCode int, status string, body []byte) *RequestError {
	return &RequestError{
		StatusCode: statusCode,
		Message:    errorMessage(statusCode, status, body),
	}
}

func errorMessage(statusCode int, status string, body []byte) string {
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err == nil {
		for _, field := range []string{"message", "error"} {
			if msg, ok := payload[field].(string); ok && msg != "" {
				return msg
			}
		}
	}

	if status == "" {
		status = fmt.Sprintf("%d %s", statusCode, http.StatusText(statusCode))
	}
	return fmt.Sprintf("request failed with status %s", status)
}
