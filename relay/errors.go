package relay

import (
	"errors"
	"fmt"
)

// FallbackMessage is returned to clients when the upstream failure carries no
// usable message.
const FallbackMessage = "Failed to generate response"

var (
	// ErrUpstreamStatus marks a non-2xx upstream response.
	ErrUpstreamStatus = errors.New("upstream returned non-success status")

	// ErrMalformedResponse marks a 2xx upstream response whose body is not JSON.
	ErrMalformedResponse = errors.New("upstream returned malformed response")
)

// ErrorResponse is the body of every error the relay returns.
type ErrorResponse struct {
	Error string `json:"error"`
}

// UpstreamError describes a failed upstream call.
type UpstreamError struct {
	// StatusCode is the upstream HTTP status, or 0 when no response arrived.
	StatusCode int

	// Message is the upstream's own error.message, empty when absent.
	Message string

	Err error
}

func (e *UpstreamError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Message != "":
		return fmt.Sprintf("upstream status %d: %s: %v", e.StatusCode, e.Message, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("upstream status %d: %v", e.StatusCode, e.Err)
	default:
		return fmt.Sprintf("upstream request failed: %v", e.Err)
	}
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// ClientMessage is the message relayed to the caller.
func (e *UpstreamError) ClientMessage() string {
	if e.Message != "" {
		return e.Message
	}
	return FallbackMessage
}
