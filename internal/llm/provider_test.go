package llm

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/abhisek/clil/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockProvider_ReplaysInOrder(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Text: taskSetReply, Usage: Usage{InputTokens: 120, OutputTokens: 60}},
		MockText("Task 1: Label the parts of a leaf."),
	)

	first, err := mock.Generate(context.Background(), clilRequest())
	require.NoError(t, err)
	assert.Equal(t, taskSetReply, first.Text)
	assert.Equal(t, 180, first.Usage.Total())
	assert.Equal(t, "mock", first.Model)

	second, err := mock.Generate(context.Background(), clilFreeForm())
	require.NoError(t, err)
	assert.Equal(t, "Task 1: Label the parts of a leaf.", second.Text)

	require.Equal(t, 2, mock.CallCount())
	assert.Equal(t, clilSystem, mock.Calls[0].System)
	assert.Equal(t, clilPrompt, mock.Calls[0].Prompt)
	assert.InDelta(t, 0.7, mock.Calls[0].Temperature, 1e-9)
	assert.Nil(t, mock.Calls[1].Schema)
}

func TestMockProvider_EmptyQueueIsUnavailable(t *testing.T) {
	_, err := NewMockProvider().Generate(context.Background(), clilRequest())

	var unavail *ErrUpstreamUnavailable
	require.ErrorAs(t, err, &unavail)
	assert.Equal(t, "mock", unavail.Provider)
}

func TestMockProvider_StructuredReplyIsValidated(t *testing.T) {
	mock := NewMockProvider(MockText(`{"reading":"Read the text."}`))

	_, err := mock.Generate(context.Background(), clilRequest())

	var invalid *ErrInvalidResponse
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, `{"reading":"Read the text."}`, invalid.Content)
}

func TestMockProvider_ConfiguredError(t *testing.T) {
	mock := NewMockProvider(MockResponse{Err: &ErrRateLimit{Provider: "openai", RetryAfter: 2 * time.Second}})

	_, err := mock.Generate(context.Background(), clilRequest())

	var limited *ErrRateLimit
	require.ErrorAs(t, err, &limited)
	assert.Equal(t, 2*time.Second, limited.RetryAfter)
}

func TestFinish(t *testing.T) {
	t.Run("free form passes text through", func(t *testing.T) {
		resp, err := finish("openai", clilFreeForm(), completion{text: "Here are tasks.", model: "gpt-3.5-turbo-0125"})
		require.NoError(t, err)
		assert.Equal(t, "Here are tasks.", resp.Text)
		assert.Equal(t, "gpt-3.5-turbo-0125", resp.Model)
	})

	t.Run("free form truncation is reported, not failed", func(t *testing.T) {
		resp, err := finish("openai", clilFreeForm(), completion{text: "Task 1: Read", truncated: true})
		require.NoError(t, err)
		assert.True(t, resp.Truncated)
	})

	t.Run("structured reply with surrounding whitespace", func(t *testing.T) {
		resp, err := finish("gemini", clilRequest(), completion{text: "\n" + taskSetReply + "\n"})
		require.NoError(t, err)
		assert.Equal(t, "\n"+taskSetReply+"\n", resp.Text)
	})

	t.Run("structured truncation", func(t *testing.T) {
		_, err := finish("anthropic", clilRequest(), completion{text: `{"reading":"R","wri`, truncated: true})
		var maxTok *ErrMaxTokensExceeded
		require.ErrorAs(t, err, &maxTok)
		assert.Equal(t, "anthropic", maxTok.Provider)
		assert.Equal(t, `{"reading":"R","wri`, maxTok.Partial)
	})

	t.Run("structured empty reply", func(t *testing.T) {
		_, err := finish("openai", clilRequest(), completion{text: "  "})
		var invalid *ErrInvalidResponse
		require.ErrorAs(t, err, &invalid)
	})
}

func TestStatusError(t *testing.T) {
	cause := errors.New("upstream said no")

	var limited *ErrRateLimit
	require.ErrorAs(t, statusError("openai", http.StatusTooManyRequests, time.Second, cause), &limited)
	assert.Equal(t, time.Second, limited.RetryAfter)
	assert.ErrorIs(t, limited, cause)

	var unavail *ErrUpstreamUnavailable
	require.ErrorAs(t, statusError("gemini", http.StatusServiceUnavailable, 0, cause), &unavail)
	assert.Equal(t, http.StatusServiceUnavailable, unavail.StatusCode)
	assert.False(t, unavail.Permanent())
	assert.Equal(t, "gemini unavailable (HTTP 503): upstream said no", unavail.Error())

	require.ErrorAs(t, statusError("anthropic", http.StatusUnauthorized, 0, cause), &unavail)
	assert.True(t, unavail.Permanent())
}

func TestRetryAfterHeader(t *testing.T) {
	h := http.Header{}
	assert.Zero(t, retryAfter(h))

	h.Set("Retry-After", "7")
	assert.Equal(t, 7*time.Second, retryAfter(h))

	h.Set("Retry-After", "Wed, 21 Oct 2026 07:28:00 GMT")
	assert.Zero(t, retryAfter(h))
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "completion service unavailable", (&ErrUpstreamUnavailable{}).Error())
	assert.Equal(t, "openai rate limited the call (retry after 3s)",
		(&ErrRateLimit{Provider: "openai", RetryAfter: 3 * time.Second}).Error())
	assert.Equal(t, "gemini stopped at the token limit before the task set was complete",
		(&ErrMaxTokensExceeded{Provider: "gemini"}).Error())
}

func TestPurposeContext(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, Unlabeled, PurposeFrom(ctx))
	assert.Equal(t, Unlabeled, PurposeFrom(WithPurpose(ctx, "")))
	assert.Equal(t, "task-set", PurposeFrom(WithPurpose(ctx, "task-set")))
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"openai without key", Config{Provider: "openai"}, "OPENAI_API_KEY"},
		{"openai with key", Config{Provider: "openai", OpenAI: OpenAIConfig{APIKey: "sk-test"}}, ""},
		{"anthropic without key", Config{Provider: "anthropic"}, "ANTHROPIC_API_KEY"},
		{"gemini without key", Config{Provider: "gemini"}, "GEMINI_API_KEY"},
		{"openrouter without key", Config{Provider: "openrouter"}, "OPENROUTER_API_KEY"},
		{"mock needs no key", Config{Provider: "mock"}, ""},
		{"unknown provider", Config{Provider: "llama"}, "unknown LLM provider"},
		{"negative timeout", Config{Provider: "mock", Timeout: -time.Second}, "must not be negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNewProvider_MockChain(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider = "mock"

	p, err := NewProvider(context.Background(), cfg, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "mock", p.Name())
	assert.Equal(t, "mock", p.ModelID())

	_, err = p.Generate(context.Background(), clilRequest())
	var unavail *ErrUpstreamUnavailable
	assert.ErrorAs(t, err, &unavail, "the mock setting serves no completions")
}

func TestLogging_RecordsTaskSetCall(t *testing.T) {
	s, err := store.Open(filepath.Join(t.TempDir(), "clil.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	mock := NewMockProvider(
		MockResponse{Text: taskSetReply, Usage: Usage{InputTokens: 120, OutputTokens: 60}},
		MockResponse{Err: &ErrUpstreamUnavailable{Provider: "mock", StatusCode: 503}},
	)
	p := WithLogging(mock, s.EventRepo(), nil)
	ctx := WithPurpose(context.Background(), "task-set")

	_, err = p.Generate(ctx, clilRequest())
	require.NoError(t, err)
	_, err = p.Generate(ctx, clilRequest())
	require.Error(t, err)

	events, err := s.EventRepo().QueryLLMEvents(context.Background(), store.QueryOpts{})
	require.NoError(t, err)
	require.Len(t, events, 2)

	var ok, failed store.LLMEvent
	for _, e := range events {
		if e.Success {
			ok = e
		} else {
			failed = e
		}
	}
	assert.Equal(t, "mock", ok.Provider)
	assert.Equal(t, "task-set", ok.Purpose)
	assert.Equal(t, 120, ok.InputTokens)
	assert.Equal(t, taskSetReply, ok.ResponseBody)
	assert.Contains(t, ok.RequestBody, "[system]\n"+clilSystem)
	assert.Contains(t, ok.RequestBody, "[user]\n"+clilPrompt)
	assert.Contains(t, ok.RequestBody, "[schema: clil-task-set]")
	assert.Contains(t, failed.ErrorMessage, "HTTP 503")
}
