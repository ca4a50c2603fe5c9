package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "clil.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
		{"busy_timeout", "5000"},
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestOpen_IsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clil.db")
	s1, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s1.EventRepo().AppendGeneration(context.Background(), GenerationEventData{
		Topic: "Volcanoes", Variant: "task-set", Outcome: OutcomeParsed,
	}))
	require.NoError(t, s1.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	defer s2.Close()
	events, err := s2.EventRepo().QueryGenerations(context.Background(), QueryOpts{})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Volcanoes", events[0].Topic)
}

func TestLLMEvents_AppendQueryGet(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	before := time.Now().Add(-time.Second)
	require.NoError(t, repo.AppendLLMRequest(ctx, LLMRequestEventData{
		Provider: "openai", Model: "gpt-3.5-turbo", Purpose: "task-set",
		InputTokens: 100, OutputTokens: 40, LatencyMs: 800, Success: true,
		RequestBody: "[user]\nCreate CLIL tasks", ResponseBody: `{"reading":"R"}`,
	}))
	require.NoError(t, repo.AppendLLMRequest(ctx, LLMRequestEventData{
		Provider: "openai", Model: "gpt-3.5-turbo", Purpose: "task-list",
		LatencyMs: 30000, Success: false, ErrorMessage: "upstream unavailable",
	}))

	events, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "task-list", events[0].Purpose, "newest first")
	assert.False(t, events[0].Success)
	assert.Equal(t, "upstream unavailable", events[0].ErrorMessage)
	assert.True(t, events[1].Success)
	assert.True(t, events[1].Timestamp.After(before))

	limited, err := repo.QueryLLMEvents(ctx, QueryOpts{Limit: 1})
	require.NoError(t, err)
	require.Len(t, limited, 1)

	byPurpose, err := repo.QueryLLMEvents(ctx, QueryOpts{Purpose: "task-set"})
	require.NoError(t, err)
	require.Len(t, byPurpose, 1)

	got, err := repo.GetLLMEvent(ctx, byPurpose[0].ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "[user]\nCreate CLIL tasks", got.RequestBody)
	assert.Equal(t, `{"reading":"R"}`, got.ResponseBody)
	assert.Equal(t, 100, got.InputTokens)
	assert.Equal(t, int64(800), got.LatencyMs)

	missing, err := repo.GetLLMEvent(ctx, 999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestLLMEvents_TimeRange(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	require.NoError(t, repo.AppendLLMRequest(ctx, LLMRequestEventData{Provider: "mock", Model: "mock", Purpose: "task-set", Success: true}))

	future, err := repo.QueryLLMEvents(ctx, QueryOpts{From: time.Now().Add(time.Hour)})
	require.NoError(t, err)
	assert.Empty(t, future)

	past, err := repo.QueryLLMEvents(ctx, QueryOpts{To: time.Now().Add(time.Hour)})
	require.NoError(t, err)
	assert.Len(t, past, 1)
}

func TestLLMUsage(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	for _, d := range []LLMRequestEventData{
		{Provider: "openai", Model: "gpt-3.5-turbo", Purpose: "task-set", InputTokens: 100, OutputTokens: 50, LatencyMs: 100, Success: true},
		{Provider: "openai", Model: "gpt-3.5-turbo", Purpose: "task-set", InputTokens: 200, OutputTokens: 70, LatencyMs: 300, Success: true},
		{Provider: "anthropic", Model: "claude-3-5-haiku-latest", Purpose: "task-list", InputTokens: 10, OutputTokens: 5, LatencyMs: 50, Success: true},
	} {
		require.NoError(t, repo.AppendLLMRequest(ctx, d))
	}

	byPurpose, err := repo.LLMUsageByPurpose(ctx)
	require.NoError(t, err)
	require.Len(t, byPurpose, 2)
	assert.Equal(t, PurposeUsage{Purpose: "task-list", Calls: 1, InputTokens: 10, OutputTokens: 5, AvgLatencyMs: 50}, byPurpose[0])
	assert.Equal(t, PurposeUsage{Purpose: "task-set", Calls: 2, InputTokens: 300, OutputTokens: 120, AvgLatencyMs: 200}, byPurpose[1])

	byModel, err := repo.LLMUsageByModel(ctx)
	require.NoError(t, err)
	require.Len(t, byModel, 2)
	assert.Equal(t, ModelUsage{Model: "claude-3-5-haiku-latest", Calls: 1, InputTokens: 10, OutputTokens: 5}, byModel[0])
	assert.Equal(t, ModelUsage{Model: "gpt-3.5-turbo", Calls: 2, InputTokens: 300, OutputTokens: 120}, byModel[1])
}

func TestLLMUsage_Empty(t *testing.T) {
	s := openTestStore(t)
	usage, err := s.EventRepo().LLMUsageByPurpose(context.Background())
	require.NoError(t, err)
	assert.Empty(t, usage)
}

func TestGenerationCounts(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	for _, d := range []GenerationEventData{
		{Topic: "Photosynthesis", Subject: "Biology", Level: "A2", Variant: "task-set", Outcome: OutcomeParsed},
		{Topic: "Photosynthesis", Subject: "Biology", Level: "A2", Variant: "task-set", Outcome: OutcomeFallback, Reason: "not json"},
		{Topic: "Rivers", Subject: "Geography", Level: "B1", Variant: "task-set", Outcome: OutcomeParsed},
		{Topic: "Rivers", Subject: "Geography", Level: "B1", Variant: "task-list", Outcome: OutcomeFailed, Reason: "timeout"},
	} {
		require.NoError(t, repo.AppendGeneration(ctx, d))
	}

	counts, err := repo.GenerationCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, []OutcomeCount{
		{Variant: "task-list", Outcome: OutcomeFailed, Count: 1},
		{Variant: "task-set", Outcome: OutcomeFallback, Count: 1},
		{Variant: "task-set", Outcome: OutcomeParsed, Count: 2},
	}, counts)

	recent, err := repo.QueryGenerations(ctx, QueryOpts{Limit: 2})
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "task-list", recent[0].Variant)
	assert.Equal(t, "timeout", recent[0].Reason)

	sets, err := repo.QueryGenerations(ctx, QueryOpts{Purpose: "task-set"})
	require.NoError(t, err)
	assert.Len(t, sets, 3)
}

func TestDefaultDBPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dir)

	p, err := DefaultDBPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "clil", "clil.db"), p)

	require.NoError(t, EnsureDir(p))
	assert.DirExists(t, filepath.Join(dir, "clil"))
}
