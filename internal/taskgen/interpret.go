package taskgen

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var errEmptyCompletion = errors.New("empty completion")

// ParseTaskSet decodes a completion into a TaskSet. A surrounding Markdown
// code fence is removed first; after that the text must be exactly one
// JSON object with string reading, writing and speaking keys.
func ParseTaskSet(text string) (TaskSet, error) {
	body := stripFence(text)
	if body == "" {
		return TaskSet{}, errEmptyCompletion
	}

	if err := TaskSetReplySchema.Validate(body); err != nil {
		return TaskSet{}, err
	}

	var set TaskSet
	if err := json.Unmarshal([]byte(body), &set); err != nil {
		return TaskSet{}, fmt.Errorf("decode task set: %w", err)
	}
	return set, nil
}

// Interpret turns a completion into a Result. It never fails: anything
// that does not parse yields the fallback set for topic.
func Interpret(topic, text string) Result {
	set, err := ParseTaskSet(text)
	if err != nil {
		return Result{
			Tasks:   FallbackTaskSet(topic),
			Outcome: Fallback,
			Reason:  err.Error(),
		}
	}
	return Result{Tasks: set, Outcome: Parsed}
}

// SplitTasks splits a list completion into trimmed, non-blank lines.
// Lines are not checked against the "Task N:" shape.
func SplitTasks(text string) []string {
	tasks := []string{}
	for line := range strings.Lines(text) {
		if line = strings.TrimSpace(line); line != "" {
			tasks = append(tasks, line)
		}
	}
	return tasks
}

// NewTaskList pairs tasks with one placeholder answer each.
func NewTaskList(tasks []string, placeholder string) TaskList {
	answers := make([]string, len(tasks))
	for i := range answers {
		answers[i] = placeholder
	}
	return TaskList{Tasks: tasks, Answers: answers}
}

// stripFence removes a ``` or ```json fence wrapping the whole text.
func stripFence(text string) string {
	s := strings.TrimSpace(text)
	if !strings.HasPrefix(s, "```") || !strings.HasSuffix(s, "```") || len(s) < 6 {
		return s
	}
	s = strings.TrimSuffix(s[3:], "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 && !strings.ContainsAny(s[:i], "{[\"") {
		s = s[i+1:]
	}
	return strings.TrimSpace(s)
}
