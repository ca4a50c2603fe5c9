package taskgen

import "context"

// Purposes label completion calls in the recorded request events.
const (
	PurposeTaskSet  = "task-set"
	PurposeTaskList = "task-list"
)

// Generator produces CLIL tasks using a completion provider.
type Generator interface {
	// Generate produces one reading, writing and speaking task. The only
	// error it returns is *ErrInvalidRequest; upstream failures and
	// unusable completions yield a Fallback result instead.
	Generate(ctx context.Context, req Request) (Result, error)

	// GenerateList produces req.Count tasks with placeholder answers.
	// Upstream failures are returned to the caller.
	GenerateList(ctx context.Context, req Request) (TaskList, error)
}
