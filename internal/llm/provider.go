package llm

import "context"

// Provider is one completion service. Implementations must be safe for
// concurrent use; a single Provider serves every HTTP request.
type Provider interface {
	// Generate sends req and returns its single completion. When
	// req.Schema is set the service is asked for structured output and
	// the reply is checked against the schema before it is returned.
	Generate(ctx context.Context, req Request) (*Response, error)

	// Name reports the completion service, e.g. "openai".
	Name() string

	// ModelID returns the configured model identifier.
	ModelID() string
}

// Request is one task-generation call: a fixed system role and the
// prompt built from the requested topic.
type Request struct {
	System string
	Prompt string

	// Schema, when set, asks for a JSON reply conforming to it.
	Schema *Schema

	MaxTokens   int
	Temperature float64
}

// Response is a finished completion.
type Response struct {
	// Text is the completion as the service returned it. It is only
	// known to be JSON when the request carried a Schema.
	Text string

	Usage Usage

	// Model is the model that served the call. It can differ from the
	// configured alias.
	Model string

	// Truncated is set when the service stopped at MaxTokens.
	Truncated bool
}

// Usage is the token count of one call.
type Usage struct {
	InputTokens  int
	OutputTokens int
}

// Total returns input plus output tokens.
func (u Usage) Total() int { return u.InputTokens + u.OutputTokens }
