package taskgen

import (
	"fmt"
	"strings"
)

// Request defaults, matching what the first release of the service used.
const (
	DefaultSubject    = "General"
	DefaultLevel      = "A2"
	DefaultBloomLevel = "Understand"
	DefaultFormat     = "question"
	DefaultCount      = 3

	MaxCount = 20
)

// Request holds everything the prompt needs. Fields are embedded verbatim.
type Request struct {
	Topic      string
	Subject    string
	Level      string // CEFR English level, e.g. "A2"
	BloomLevel string // Bloom's taxonomy level, e.g. "Understand"
	Format     string // task type, e.g. "question"
	Count      int    // number of tasks, list variant only
}

// Normalize trims every field, fills in defaults and checks the request.
// It returns *ErrInvalidRequest when topic is blank or count is out of range.
func (r Request) Normalize() (Request, error) {
	out := Request{
		Topic:      strings.TrimSpace(r.Topic),
		Subject:    orDefault(r.Subject, DefaultSubject),
		Level:      orDefault(r.Level, DefaultLevel),
		BloomLevel: orDefault(r.BloomLevel, DefaultBloomLevel),
		Format:     orDefault(r.Format, DefaultFormat),
		Count:      r.Count,
	}
	if out.Topic == "" {
		return Request{}, &ErrInvalidRequest{Field: "topic", Reason: "is required"}
	}
	if out.Count == 0 {
		out.Count = DefaultCount
	}
	if out.Count < 1 || out.Count > MaxCount {
		return Request{}, &ErrInvalidRequest{
			Field:  "count",
			Reason: fmt.Sprintf("must be between 1 and %d, got %d", MaxCount, out.Count),
		}
	}
	return out, nil
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return def
}

// Payload is the JSON body accepted by the generation endpoints. Every
// field spelling seen across client revisions is accepted.
type Payload struct {
	Topic        string `json:"topic"`
	Subject      string `json:"subject"`
	Level        string `json:"level"`
	EnglishLevel string `json:"english_level"`
	Format       string `json:"format"`
	TaskType     string `json:"task_type"`
	BloomLevel   string `json:"bloom_level"`
	BloomCamel   string `json:"bloomLevel"`
	Count        *int   `json:"count"`
}

// Request merges the alternate spellings, first non-blank wins, and
// normalizes the result.
func (p Payload) Request() (Request, error) {
	if p.Count != nil && *p.Count == 0 {
		return Request{}, &ErrInvalidRequest{
			Field:  "count",
			Reason: fmt.Sprintf("must be between 1 and %d, got 0", MaxCount),
		}
	}
	r := Request{
		Topic:      p.Topic,
		Subject:    p.Subject,
		Level:      firstNonBlank(p.Level, p.EnglishLevel),
		Format:     firstNonBlank(p.Format, p.TaskType),
		BloomLevel: firstNonBlank(p.BloomLevel, p.BloomCamel),
	}
	if p.Count != nil {
		r.Count = *p.Count
	}
	return r.Normalize()
}

func firstNonBlank(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// TaskSet is the canonical generation result: one task per CLIL component.
type TaskSet struct {
	Reading  string `json:"reading"`
	Writing  string `json:"writing"`
	Speaking string `json:"speaking"`
}

// Lines renders the set in display form, one labeled line per component.
func (t TaskSet) Lines() []string {
	return []string{
		"📖 Reading: " + t.Reading,
		"✍️ Writing: " + t.Writing,
		"🗣️ Speaking: " + t.Speaking,
	}
}

// TaskList is the list-variant result. Answers holds one placeholder per
// task.
type TaskList struct {
	Tasks   []string `json:"tasks"`
	Answers []string `json:"answers"`
}

// Outcome tells which path produced a Result.
type Outcome int

const (
	// Parsed means the completion decoded into a TaskSet.
	Parsed Outcome = iota
	// Fallback means the fixed fallback set was substituted.
	Fallback
)

func (o Outcome) String() string {
	switch o {
	case Parsed:
		return "parsed"
	case Fallback:
		return "fallback"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Result is the outcome of a structured generation. Tasks is always
// well-formed; Reason says why the fallback was used and is empty when
// Outcome is Parsed.
type Result struct {
	Tasks   TaskSet
	Outcome Outcome
	Reason  string
}

// ErrInvalidRequest reports a request that cannot be turned into a prompt.
type ErrInvalidRequest struct {
	Field  string
	Reason string
}

func (e *ErrInvalidRequest) Error() string {
	return fmt.Sprintf("invalid request: %s %s", e.Field, e.Reason)
}
