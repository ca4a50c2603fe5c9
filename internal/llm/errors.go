package llm

import (
	"fmt"
	"net/http"
	"time"
)

// ErrRateLimit reports an HTTP 429 from the completion service.
type ErrRateLimit struct {
	Provider string

	// RetryAfter is the wait the service asked for, zero when it gave none.
	RetryAfter time.Duration
	Err        error
}

func (e *ErrRateLimit) Error() string {
	msg := label(e.Provider) + " rate limited the call"
	if e.RetryAfter > 0 {
		msg += fmt.Sprintf(" (retry after %s)", e.RetryAfter)
	}
	return withCause(msg, e.Err)
}

func (e *ErrRateLimit) Unwrap() error { return e.Err }

// ErrUpstreamUnavailable reports that the completion service could not be
// reached or refused the call.
type ErrUpstreamUnavailable struct {
	Provider string

	// StatusCode is the HTTP status of the failed call, zero when no
	// response arrived.
	StatusCode int
	Err        error
}

func (e *ErrUpstreamUnavailable) Error() string {
	msg := label(e.Provider) + " unavailable"
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (HTTP %d)", e.StatusCode)
	}
	return withCause(msg, e.Err)
}

func (e *ErrUpstreamUnavailable) Unwrap() error { return e.Err }

// Permanent reports whether repeating the call cannot help: the service
// rejected the key, the model or the request itself.
func (e *ErrUpstreamUnavailable) Permanent() bool {
	switch e.StatusCode {
	case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden,
		http.StatusNotFound, http.StatusUnprocessableEntity:
		return true
	}
	return false
}

// ErrInvalidResponse reports a structured reply that does not match the
// requested schema, or a reply with nothing to read.
type ErrInvalidResponse struct {
	Provider string
	Content  string
	Err      error
}

func (e *ErrInvalidResponse) Error() string {
	return withCause(label(e.Provider)+" returned an unusable completion", e.Err)
}

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }

// ErrMaxTokensExceeded reports a structured reply cut off at MaxTokens.
type ErrMaxTokensExceeded struct {
	Provider string
	Partial  string
}

func (e *ErrMaxTokensExceeded) Error() string {
	return label(e.Provider) + " stopped at the token limit before the task set was complete"
}

func label(provider string) string {
	if provider == "" {
		return "completion service"
	}
	return provider
}

func withCause(msg string, err error) string {
	if err == nil {
		return msg
	}
	return msg + ": " + err.Error()
}
