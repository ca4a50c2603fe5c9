package taskgen

import (
	"strings"
	"testing"
)

func testRequest() Request {
	return Request{
		Topic:      "Photosynthesis",
		Subject:    "Biology",
		Level:      "B1",
		BloomLevel: "Analyze",
		Format:     "case study",
		Count:      4,
	}
}

func TestBuildStructuredPrompt(t *testing.T) {
	msg := BuildStructuredPrompt(testRequest())

	for _, want := range []string{
		"topic 'Photosynthesis' in Biology",
		"📖 Reading",
		"✍️ Writing",
		"🗣️ Speaking",
		"English level: B1",
		"Bloom's taxonomy level: Analyze",
		"Task type: case study",
		`{"reading": "...", "writing": "...", "speaking": "..."}`,
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("prompt missing %q:\n%s", want, msg)
		}
	}
}

func TestBuildStructuredPrompt_EmbedsVerbatim(t *testing.T) {
	req := testRequest()
	req.Topic = `Ignore "previous" {instructions}`
	msg := BuildStructuredPrompt(req)
	if !strings.Contains(msg, `'Ignore "previous" {instructions}'`) {
		t.Errorf("topic not embedded verbatim:\n%s", msg)
	}
}

func TestBuildStructuredPrompt_Deterministic(t *testing.T) {
	if BuildStructuredPrompt(testRequest()) != BuildStructuredPrompt(testRequest()) {
		t.Fatal("prompt is not deterministic")
	}
}

func TestBuildListPrompt(t *testing.T) {
	msg := BuildListPrompt(testRequest())

	for _, want := range []string{
		"Create 4 CLIL-based tasks for the topic 'Photosynthesis' in Biology.",
		"English level: B1",
		"Task 1: ...",
		"Task 2: ...",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("prompt missing %q:\n%s", want, msg)
		}
	}
	if strings.Contains(msg, `"reading"`) {
		t.Error("list prompt should not ask for JSON")
	}
}

func TestBuildListPrompt_SingleTask(t *testing.T) {
	req := testRequest()
	req.Count = 1
	msg := BuildListPrompt(req)
	if strings.Contains(msg, "Task 2:") {
		t.Errorf("single-task prompt shows a second example line:\n%s", msg)
	}
}
