package backend

import (
	"fmt"
	"io"
	"net/http"
	"strings"
)

// RequestError is a non-2xx backend response. Message carries the
// response body text when the backend sent one.
type RequestError struct {
	Operation  string
	StatusCode int
	Message    string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s: %s (status %d)", e.Operation, e.Message, e.StatusCode)
}

// NetworkError is a transport-level failure: the request never produced
// an HTTP response.
type NetworkError struct {
	Operation string
	Err       error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %v", e.Operation, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ProcessingError is a backend-reported job failure surfaced during
// status polling.
type ProcessingError struct {
	PatientID string
	Message   string
}

func (e *ProcessingError) Error() string {
	return e.Message
}

func convertError(operation string, resp *http.Response) error {
	data, _ := io.ReadAll(resp.Body)

	message := strings.TrimSpace(string(data))

	if message == "" {
		message = http.StatusText(resp.StatusCode)
	}

	return &RequestError{
		Operation:  operation,
		StatusCode: resp.StatusCode,
		Message:    message,
	}
}
