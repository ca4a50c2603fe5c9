package llm

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// generateServer answers generateContent calls and keeps the decoded body.
type generateServer struct {
	status int
	reply  map[string]any
	got    map[string]any
	path   string
	apiKey string
}

func (s *generateServer) provider(t *testing.T) *GeminiProvider {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.path = r.URL.Path
		s.apiKey = r.Header.Get("x-goog-api-key")
		if err := json.NewDecoder(r.Body).Decode(&s.got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		if s.status != 0 {
			w.WriteHeader(s.status)
		}
		_ = json.NewEncoder(w).Encode(s.reply)
	}))
	t.Cleanup(srv.Close)

	p, err := NewGeminiProvider(t.Context(), GeminiConfig{APIKey: "gm-test", BaseURL: srv.URL})
	require.NoError(t, err)
	return p
}

func candidateReply(text, finish string) map[string]any {
	return map[string]any{
		"candidates": []map[string]any{{
			"content": map[string]any{
				"role":  "model",
				"parts": []map[string]any{{"text": text}},
			},
			"finishReason": finish,
		}},
		"usageMetadata": map[string]any{
			"promptTokenCount":     118,
			"candidatesTokenCount": 52,
			"totalTokenCount":      170,
		},
		"modelVersion": "gemini-2.0-flash-001",
	}
}

func TestGemini_StructuredTaskSet(t *testing.T) {
	s := &generateServer{reply: candidateReply(taskSetReply, "STOP")}
	p := s.provider(t)

	resp, err := p.Generate(t.Context(), clilRequest())
	require.NoError(t, err)
	assert.Equal(t, taskSetReply, resp.Text)
	assert.Equal(t, "gemini-2.0-flash-001", resp.Model)
	assert.Equal(t, Usage{InputTokens: 118, OutputTokens: 52}, resp.Usage)

	assert.True(t, strings.HasSuffix(s.path, "models/gemini-2.0-flash:generateContent"), s.path)
	assert.Equal(t, "gm-test", s.apiKey)

	sys := s.got["systemInstruction"].(map[string]any)
	assert.Equal(t, []any{map[string]any{"text": clilSystem}}, sys["parts"])

	contents := s.got["contents"].([]any)
	require.Len(t, contents, 1)
	user := contents[0].(map[string]any)
	assert.Equal(t, "user", user["role"])
	assert.Equal(t, []any{map[string]any{"text": clilPrompt}}, user["parts"])

	gen := s.got["generationConfig"].(map[string]any)
	assert.InDelta(t, 0.7, gen["temperature"], 1e-6)
	assert.EqualValues(t, 512, gen["maxOutputTokens"])
	assert.Equal(t, "application/json", gen["responseMimeType"])
	schema := gen["responseJsonSchema"].(map[string]any)
	assert.Equal(t, false, schema["additionalProperties"])
	assert.ElementsMatch(t, []any{"reading", "writing", "speaking"}, schema["required"])
}

func TestGemini_FreeFormSendsNoSchema(t *testing.T) {
	s := &generateServer{reply: candidateReply("Task 1: Draw the water cycle.", "STOP")}

	resp, err := s.provider(t).Generate(t.Context(), clilFreeForm())
	require.NoError(t, err)
	assert.Equal(t, "Task 1: Draw the water cycle.", resp.Text)

	gen := s.got["generationConfig"].(map[string]any)
	assert.NotContains(t, gen, "responseJsonSchema")
	assert.NotContains(t, gen, "responseMimeType")
}

func TestGemini_ReplyWithExtraTask(t *testing.T) {
	s := &generateServer{reply: candidateReply(`{"reading":"R","writing":"W","speaking":"S","listening":"L"}`, "STOP")}

	_, err := s.provider(t).Generate(t.Context(), clilRequest())
	var invalid *ErrInvalidResponse
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "gemini", invalid.Provider)
}

func TestGemini_TruncatedTaskSet(t *testing.T) {
	s := &generateServer{reply: candidateReply(`{"reading":"Read`, "MAX_TOKENS")}

	_, err := s.provider(t).Generate(t.Context(), clilRequest())
	var maxTok *ErrMaxTokensExceeded
	require.ErrorAs(t, err, &maxTok)
}

func TestGemini_HTTPFailures(t *testing.T) {
	apiError := func(code int, status string) map[string]any {
		return map[string]any{"error": map[string]any{"code": code, "message": "no tasks today", "status": status}}
	}

	t.Run("quota", func(t *testing.T) {
		s := &generateServer{status: http.StatusTooManyRequests, reply: apiError(429, "RESOURCE_EXHAUSTED")}
		_, err := s.provider(t).Generate(t.Context(), clilRequest())
		var limited *ErrRateLimit
		require.ErrorAs(t, err, &limited)
		assert.Equal(t, "gemini", limited.Provider)
	})

	t.Run("bad key", func(t *testing.T) {
		s := &generateServer{status: http.StatusBadRequest, reply: apiError(400, "INVALID_ARGUMENT")}
		_, err := s.provider(t).Generate(t.Context(), clilRequest())
		var unavail *ErrUpstreamUnavailable
		require.ErrorAs(t, err, &unavail)
		assert.True(t, unavail.Permanent())
	})

	t.Run("outage", func(t *testing.T) {
		s := &generateServer{status: http.StatusServiceUnavailable, reply: apiError(503, "UNAVAILABLE")}
		_, err := s.provider(t).Generate(t.Context(), clilRequest())
		var unavail *ErrUpstreamUnavailable
		require.ErrorAs(t, err, &unavail)
		assert.Equal(t, http.StatusServiceUnavailable, unavail.StatusCode)
	})
}

func TestGemini_Construction(t *testing.T) {
	_, err := NewGeminiProvider(t.Context(), GeminiConfig{})
	assert.Error(t, err)

	tests := []struct {
		model string
		want  string
	}{
		{"", "gemini-2.0-flash"},
		{"gemini-pro", "gemini-2.5-pro"},
		{"gemini-2.5-flash", "gemini-2.5-flash"},
	}
	for _, tt := range tests {
		p, err := NewGeminiProvider(t.Context(), GeminiConfig{APIKey: "gm-test", Model: tt.model})
		require.NoError(t, err)
		assert.Equal(t, "gemini", p.Name())
		assert.Equal(t, tt.want, p.ModelID())
	}
}
