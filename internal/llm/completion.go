package llm

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

// completion is what a provider read out of its service's reply.
type completion struct {
	text      string
	model     string
	usage     Usage
	truncated bool
}

// finish turns a completion into a Response. Structured requests are
// checked here so every service reports a bad reply the same way.
func finish(provider string, req Request, c completion) (*Response, error) {
	if req.Schema != nil {
		if c.truncated {
			return nil, &ErrMaxTokensExceeded{Provider: provider, Partial: c.text}
		}
		if err := req.Schema.Validate(strings.TrimSpace(c.text)); err != nil {
			return nil, &ErrInvalidResponse{Provider: provider, Content: c.text, Err: err}
		}
	}
	return &Response{
		Text:      c.text,
		Usage:     c.usage,
		Model:     c.model,
		Truncated: c.truncated,
	}, nil
}

// statusError classifies a call the service answered with a non-2xx status.
func statusError(provider string, status int, retryAfter time.Duration, err error) error {
	if status == http.StatusTooManyRequests {
		return &ErrRateLimit{Provider: provider, RetryAfter: retryAfter, Err: err}
	}
	return &ErrUpstreamUnavailable{Provider: provider, StatusCode: status, Err: err}
}

// retryAfter reads a Retry-After header given in whole seconds.
func retryAfter(h http.Header) time.Duration {
	secs, err := strconv.Atoi(strings.TrimSpace(h.Get("Retry-After")))
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
