package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/clil/internal/export"
	"github.com/abhisek/clil/internal/taskgen"
)

// Error codes carried in the error envelope.
const (
	CodeInvalidRequest      = "invalid_request"
	CodeUpstreamUnavailable = "upstream_unavailable"
	CodeRenderFailure       = "render_failure"
	CodeInternal            = "internal"
)

// APIError is the body of a failed request. Code is one of the Code*
// constants; Message is the underlying error text.
type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// ErrorEnvelope wraps an APIError as {"error": {...}} on every non-2xx
// response.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func respondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.AbortWithStatusJSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// respondFor maps a domain error to its HTTP status and code. Anything
// unrecognized came from the completion service.
func respondFor(c *gin.Context, err error) {
	var invalid *taskgen.ErrInvalidRequest
	switch {
	case errors.As(err, &invalid):
		respondError(c, http.StatusBadRequest, CodeInvalidRequest, err)
	case errors.Is(err, export.ErrRender):
		respondError(c, http.StatusInternalServerError, CodeRenderFailure, err)
	default:
		respondError(c, http.StatusBadGateway, CodeUpstreamUnavailable, err)
	}
}
