package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mealprep-planner/internal/database"
	"mealprep-planner/internal/shared"
)

func newTestStore(t *testing.T, now time.Time) *Store {
	t.Helper()
	db, err := database.NewDB(filepath.Join(t.TempDir(), "metrics.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	s := NewStore(db.SQL)
	s.now = func() time.Time { return now }
	return s
}

func TestStore_DailyUsage(t *testing.T) {
	now := time.Date(2026, 1, 19, 12, 0, 0, 0, time.UTC)
	s := newTestStore(t, now)

	require.NoError(t, s.Record(ExecutionMetric{AgentName: "Suggestion", Model: "m", PromptTokens: 10, CompletionTokens: 2, LatencyMS: 100, Timestamp: now.Add(-time.Hour)}))
	require.NoError(t, s.Record(ExecutionMetric{AgentName: "Suggestion", Model: "m", PromptTokens: 20, CompletionTokens: 4, LatencyMS: 300, Timestamp: now.Add(-2 * time.Hour)}))
	require.NoError(t, s.Record(ExecutionMetric{AgentName: "Suggestion", Model: "m", PromptTokens: 5, CompletionTokens: 1, Timestamp: now.AddDate(0, 0, -1)}))
	require.NoError(t, s.Record(ExecutionMetric{AgentName: "Suggestion", Model: "m", PromptTokens: 99, Timestamp: now.AddDate(0, 0, -30)}))

	usage, err := s.GetDailyUsage(7)
	require.NoError(t, err)
	require.Len(t, usage, 2)

	assert.Equal(t, "2026-01-19", usage[0].Date)
	assert.Equal(t, 2, usage[0].TotalExecution)
	assert.Equal(t, 30, usage[0].TotalPrompt)
	assert.Equal(t, 6, usage[0].TotalCompletion)
	assert.Equal(t, int64(200), usage[0].AvgLatencyMS)
	assert.Equal(t, "2026-01-18", usage[1].Date)
}

func TestStore_RecordMetaSkipsFreeCalls(t *testing.T) {
	now := time.Date(2026, 1, 19, 12, 0, 0, 0, time.UTC)
	s := newTestStore(t, now)

	require.NoError(t, s.RecordMeta(shared.AgentMeta{AgentName: "Suggestion", Latency: time.Second}))
	require.NoError(t, s.RecordMeta(shared.AgentMeta{
		AgentName: "Suggestion",
		Usage:     shared.TokenUsage{PromptTokens: 7, CompletionTokens: 3, Model: "llama"},
		Latency:   250 * time.Millisecond,
	}))

	usage, err := s.GetDailyUsage(1)
	require.NoError(t, err)
	require.Len(t, usage, 1)
	assert.Equal(t, 1, usage[0].TotalExecution)
	assert.Equal(t, int64(250), usage[0].AvgLatencyMS)
}

func TestStore_Cleanup(t *testing.T) {
	now := time.Date(2026, 1, 19, 12, 0, 0, 0, time.UTC)
	s := newTestStore(t, now)

	require.NoError(t, s.Record(ExecutionMetric{AgentName: "a", Model: "m", PromptTokens: 1, Timestamp: now.AddDate(0, 0, -40)}))
	require.NoError(t, s.Record(ExecutionMetric{AgentName: "a", Model: "m", PromptTokens: 1, Timestamp: now.AddDate(0, 0, -31)}))
	require.NoError(t, s.Record(ExecutionMetric{AgentName: "a", Model: "m", PromptTokens: 1, Timestamp: now.AddDate(0, 0, -2)}))

	deleted, err := s.Cleanup(30)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)
}

func TestGetSysHealth(t *testing.T) {
	historyDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(historyDir, "history_2026-01-19_x.json"), make([]byte, 2048), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(historyDir, "notes.txt"), []byte("hi"), 0644))

	h := GetSysHealth(filepath.Join(t.TempDir(), "missing"), historyDir)
	assert.Greater(t, h.Goroutines, 0)
	assert.Equal(t, "0 B", h.DataDiskSize)
	assert.Equal(t, 1, h.HistoryFiles)
	assert.Equal(t, "2.0 KB", h.HistorySize)
}
