package client

import (
	"errors"
	"fmt"
)

// Notification texts for failures that carry no server message.
const (
	MsgServiceError  = "service error"
	MsgLoginRequired = "please log in first"
)

// ErrUnauthorized is returned when the API answers 401. By the time a caller
// sees it the session has already been cleared.
var ErrUnauthorized = errors.New("unauthorized")

// APIError is a response whose envelope code is not the success sentinel.
type APIError struct {
	Code    int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error (code %d)", e.Code)
	}
	return fmt.Sprintf("api error (code %d): %s", e.Code, e.Message)
}

// TransportError covers network failures, unexpected HTTP statuses and
// bodies that are not a response envelope. Status is 0 when no response
// was received.
type TransportError struct {
	Status int
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("transport error: %v", e.Err)
	}
	return fmt.Sprintf("transport error (status %d): %v", e.Status, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// IsAuthError reports whether err means the session is no longer valid.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}
