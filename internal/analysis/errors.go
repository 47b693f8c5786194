package analysis

import (
	"errors"
	"fmt"
)

var (
	// ErrTransport covers network failures, timeouts and 5xx answers.
	ErrTransport = errors.New("analysis service unreachable")
	// ErrRejected is returned for 4xx answers.
	ErrRejected = errors.New("analysis request rejected")
	// ErrMalformedResponse is returned when a 2xx body is not the expected shape.
	ErrMalformedResponse = errors.New("malformed analysis response")
)

// StatusError carries a non-2xx answer from the service.
type StatusError struct {
	Endpoint string
	Code     int
	Body     string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: status %d", e.Endpoint, e.Code)
	}
	return fmt.Sprintf("%s: status %d: %s", e.Endpoint, e.Code, e.Body)
}

func (e *StatusError) Unwrap() error {
	if e.Code >= 500 {
		return ErrTransport
	}
	return ErrRejected
}

// Retryable reports whether another attempt may succeed.
func Retryable(err error) bool {
	return errors.Is(err, ErrTransport)
}
