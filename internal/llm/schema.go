package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Schema is a JSON Schema a structured completion must satisfy. It is
// compiled on first use; share one *Schema rather than copying it.
type Schema struct {
	// Name is sent to services that label structured output, so it must
	// be kebab-case, e.g. "clil-task-set".
	Name        string
	Description string
	Definition  map[string]any

	once     sync.Once
	compiled *jsonschema.Schema
	err      error
}

// Closed reports whether the schema sets additionalProperties to false.
// OpenAI's strict mode refuses schemas that are not closed.
func (s *Schema) Closed() bool {
	open, ok := s.Definition["additionalProperties"].(bool)
	return ok && !open
}

// Validate checks that text holds exactly one JSON value conforming to s.
func (s *Schema) Validate(text string) error {
	s.once.Do(s.compile)
	if s.err != nil {
		return fmt.Errorf("compile schema %q: %w", s.Name, s.err)
	}

	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(text))
	if err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if err := s.compiled.Validate(doc); err != nil {
		return fmt.Errorf("does not match %s: %w", s.Name, err)
	}
	return nil
}

func (s *Schema) compile() {
	raw, err := json.Marshal(s.Definition)
	if err != nil {
		s.err = err
		return
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		s.err = err
		return
	}

	url := "https://clil.local/schemas/" + s.Name + ".json"
	c := jsonschema.NewCompiler()
	if err := c.AddResource(url, doc); err != nil {
		s.err = err
		return
	}
	s.compiled, s.err = c.Compile(url)
}
