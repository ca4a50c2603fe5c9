package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit   int       // max results (0 = unlimited)
	Purpose string    // exact purpose match, empty = any
	After   int64     // id > After
	From    time.Time // timestamp >= From
	To      time.Time // timestamp <= To
}

// LLMRequestEventData captures the data for a single completion call.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMEvent is a recorded completion call.
type LLMEvent struct {
	ID        int
	Timestamp time.Time
	LLMRequestEventData
}

// PurposeUsage aggregates completion calls by purpose.
type PurposeUsage struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// ModelUsage aggregates token usage by model for cost estimation.
type ModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// Generation outcomes.
const (
	OutcomeParsed   = "parsed"
	OutcomeFallback = "fallback"
	OutcomeFailed   = "failed"
)

// GenerationEventData captures the outcome of one task-generation call.
// The generated tasks themselves are not stored.
type GenerationEventData struct {
	Topic   string
	Subject string
	Level   string
	Variant string // "task-set" or "task-list"
	Outcome string
	Reason  string
}

// GenerationEvent is a recorded generation outcome.
type GenerationEvent struct {
	ID        int
	Timestamp time.Time
	GenerationEventData
}

// OutcomeCount is the number of generations per variant and outcome.
type OutcomeCount struct {
	Variant string
	Outcome string
	Count   int
}

// EventRepo provides append and query access to recorded events.
type EventRepo interface {
	// AppendLLMRequest records a completion call.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns completion calls, newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEvent, error)

	// GetLLMEvent returns one completion call, or nil if it doesn't exist.
	GetLLMEvent(ctx context.Context, id int) (*LLMEvent, error)

	LLMUsageByPurpose(ctx context.Context) ([]PurposeUsage, error)
	LLMUsageByModel(ctx context.Context) ([]ModelUsage, error)

	// AppendGeneration records the outcome of a generation call.
	AppendGeneration(ctx context.Context, data GenerationEventData) error

	// QueryGenerations returns generation outcomes, newest first.
	QueryGenerations(ctx context.Context, opts QueryOpts) ([]GenerationEvent, error)

	// GenerationCounts groups generation outcomes by variant and outcome.
	GenerationCounts(ctx context.Context) ([]OutcomeCount, error)
}
