package llm

const (
	clilSystem = "You are a CLIL expert and task designer. Follow instructions strictly."
	clilPrompt = "Create CLIL-based tasks for the topic 'Photosynthesis' in Biology.\n" +
		"English level: B1\n" +
		"Return JSON format:\n" +
		`{"reading": "...", "writing": "...", "speaking": "..."}`

	taskSetReply = `{"reading":"Read the text about leaves and underline every gas.","writing":"Write three sentences on why plants need light.","speaking":"Explain photosynthesis to a partner in one minute."}`
)

// clilRequest is the structured task-set call the generator makes.
func clilRequest() Request {
	return Request{
		System:      clilSystem,
		Prompt:      clilPrompt,
		Schema:      taskSetSchema(),
		MaxTokens:   512,
		Temperature: 0.7,
	}
}

// clilFreeForm is the same call without a schema, the service default.
func clilFreeForm() Request {
	req := clilRequest()
	req.Schema = nil
	return req
}

func taskSetSchema() *Schema {
	task := func(desc string) map[string]any {
		return map[string]any{"type": "string", "description": desc}
	}
	return &Schema{
		Name:        "clil-task-set",
		Description: "One reading, one writing and one speaking CLIL task",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"reading":  task("A task requiring reading and comprehension"),
				"writing":  task("A task requiring written expression"),
				"speaking": task("A task requiring verbal explanation"),
			},
			"required":             []any{"reading", "writing", "speaking"},
			"additionalProperties": false,
		},
	}
}
