package taskgen

import "github.com/abhisek/clil/internal/llm"

// TaskSetSchema is sent with structured requests. It is closed, as
// OpenAI's strict json_schema mode and Anthropic's output format demand.
var TaskSetSchema = &llm.Schema{
	Name:        "clil-task-set",
	Description: "One reading, one writing and one speaking CLIL task",
	Definition:  taskSetDefinition(false),
}

// TaskSetReplySchema is what ParseTaskSet accepts. Extra keys are
// tolerated; the three task keys are not optional.
var TaskSetReplySchema = &llm.Schema{
	Name:        "clil-task-set-reply",
	Description: "A completion carrying at least the three CLIL tasks",
	Definition:  taskSetDefinition(true),
}

func taskSetDefinition(extraKeys bool) map[string]any {
	task := func(desc string) map[string]any {
		return map[string]any{"type": "string", "description": desc}
	}
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"reading":  task("A task requiring reading and comprehension, 1-2 sentences"),
			"writing":  task("A task requiring written expression, 1-2 sentences"),
			"speaking": task("A task requiring verbal explanation, 1-2 sentences"),
		},
		"required":             []any{"reading", "writing", "speaking"},
		"additionalProperties": extraKeys,
	}
}
