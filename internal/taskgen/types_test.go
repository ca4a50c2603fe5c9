package taskgen

import (
	"encoding/json"
	"errors"
	"testing"
)

func decodePayload(t *testing.T, body string) Payload {
	t.Helper()
	var p Payload
	if err := json.Unmarshal([]byte(body), &p); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	return p
}

func TestPayload_Defaults(t *testing.T) {
	req, err := decodePayload(t, `{"topic":"Photosynthesis"}`).Request()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Request{
		Topic:      "Photosynthesis",
		Subject:    "General",
		Level:      "A2",
		BloomLevel: "Understand",
		Format:     "question",
		Count:      3,
	}
	if req != want {
		t.Fatalf("got %+v, want %+v", req, want)
	}
}

func TestPayload_AlternateSpellings(t *testing.T) {
	tests := []struct {
		name string
		body string
		want Request
	}{
		{
			name: "legacy names",
			body: `{"topic":"T","english_level":"B1","task_type":"essay","bloomLevel":"Apply"}`,
			want: Request{Topic: "T", Subject: "General", Level: "B1", Format: "essay", BloomLevel: "Apply", Count: 3},
		},
		{
			name: "current names win",
			body: `{"topic":"T","level":"C1","english_level":"B1","format":"quiz","task_type":"essay","bloom_level":"Create","bloomLevel":"Apply"}`,
			want: Request{Topic: "T", Subject: "General", Level: "C1", Format: "quiz", BloomLevel: "Create", Count: 3},
		},
		{
			name: "blank current name falls through",
			body: `{"topic":"T","level":"  ","english_level":"B2"}`,
			want: Request{Topic: "T", Subject: "General", Level: "B2", Format: "question", BloomLevel: "Understand", Count: 3},
		},
		{
			name: "subject and count",
			body: `{"topic":" Volcanoes ","subject":"Geography","count":5}`,
			want: Request{Topic: "Volcanoes", Subject: "Geography", Level: "A2", Format: "question", BloomLevel: "Understand", Count: 5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodePayload(t, tt.body).Request()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestPayload_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"missing topic", `{}`, "topic"},
		{"blank topic", `{"topic":"   "}`, "topic"},
		{"zero count", `{"topic":"T","count":0}`, "count"},
		{"negative count", `{"topic":"T","count":-2}`, "count"},
		{"count too large", `{"topic":"T","count":21}`, "count"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodePayload(t, tt.body).Request()
			var invalid *ErrInvalidRequest
			if !errors.As(err, &invalid) {
				t.Fatalf("expected ErrInvalidRequest, got %v", err)
			}
			if invalid.Field != tt.field {
				t.Errorf("field = %q, want %q", invalid.Field, tt.field)
			}
		})
	}
}

func TestRequest_NormalizeIsIdempotent(t *testing.T) {
	first, err := Request{Topic: "T", Count: 7}.Normalize()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := first.Normalize()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != second {
		t.Fatalf("normalize changed a normalized request: %+v vs %+v", first, second)
	}
}

func TestTaskSet_Lines(t *testing.T) {
	lines := TaskSet{Reading: "R", Writing: "W", Speaking: "S"}.Lines()
	want := []string{"📖 Reading: R", "✍️ Writing: W", "🗣️ Speaking: S"}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d", len(lines), len(want))
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestOutcome_String(t *testing.T) {
	if Parsed.String() != "parsed" || Fallback.String() != "fallback" {
		t.Fatalf("unexpected outcome names: %s, %s", Parsed, Fallback)
	}
}
