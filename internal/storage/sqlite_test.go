package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"worktick/internal/core/model"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "stats.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestGetAbsentReturnsZeroRecord(t *testing.T) {
	store := openTestDB(t)

	stats, err := store.Get("/home/dev/never-saved")
	require.NoError(t, err)
	assert.Equal(t, model.WorkspaceStats{}, stats)
}

func TestPutGetRoundtrip(t *testing.T) {
	store := openTestDB(t)
	savedAt := time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)

	in := model.WorkspaceStats{
		Key:        "/home/dev/alpha",
		Label:      "alpha",
		TotalTime:  90*time.Minute + 12*time.Second,
		LastSaveAt: savedAt,
	}
	require.NoError(t, store.Put(in))

	out, err := store.Get(in.Key)
	require.NoError(t, err)
	assert.Equal(t, in.Key, out.Key)
	assert.Equal(t, in.Label, out.Label)
	assert.Equal(t, in.TotalTime, out.TotalTime)
	assert.True(t, out.LastSaveAt.Equal(savedAt), "expected %v, got %v", savedAt, out.LastSaveAt)
}

func TestPutReplacesRecord(t *testing.T) {
	store := openTestDB(t)
	key := "/home/dev/alpha"

	require.NoError(t, store.Put(model.WorkspaceStats{Key: key, Label: "alpha", TotalTime: time.Hour}))
	require.NoError(t, store.Put(model.WorkspaceStats{Key: key, Label: "alpha", TotalTime: 2 * time.Hour}))

	out, err := store.Get(key)
	require.NoError(t, err)
	assert.Equal(t, 2*time.Hour, out.TotalTime)
}

func TestListOrdersByTotal(t *testing.T) {
	store := openTestDB(t)

	require.NoError(t, store.Put(model.WorkspaceStats{Key: "/a", Label: "a", TotalTime: time.Minute}))
	require.NoError(t, store.Put(model.WorkspaceStats{Key: "/b", Label: "b", TotalTime: time.Hour}))
	require.NoError(t, store.Put(model.WorkspaceStats{Key: "/c", Label: "c", TotalTime: time.Second}))

	records, err := store.List()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "/b", records[0].Key)
	assert.Equal(t, "/a", records[1].Key)
	assert.Equal(t, "/c", records[2].Key)
}

func TestRunHistoryFilters(t *testing.T) {
	store := openTestDB(t)
	base := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)

	runs := []model.RunRecord{
		{Key: "/a", StartedAt: base, EndedAt: base.Add(10 * time.Minute), Duration: 10 * time.Minute, Reason: "idle"},
		{Key: "/a", StartedAt: base.Add(time.Hour), EndedAt: base.Add(time.Hour + 5*time.Minute), Duration: 5 * time.Minute, Reason: "manual"},
		{Key: "/b", StartedAt: base, EndedAt: base.Add(time.Minute), Duration: time.Minute, Reason: "shutdown"},
	}
	for _, run := range runs {
		require.NoError(t, store.RecordRun(run))
	}

	// Key filter keeps workspaces apart.
	history, err := store.History("/a", base)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, 10*time.Minute, history[0].Duration)
	assert.Equal(t, "idle", history[0].Reason)
	assert.NotEmpty(t, history[0].ID)
	assert.Equal(t, "manual", history[1].Reason)

	// Since filter drops older runs.
	history, err = store.History("/a", base.Add(30*time.Minute))
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "manual", history[0].Reason)
}

func TestPruneHistoryRemovesOnlyOldRuns(t *testing.T) {
	store := openTestDB(t)
	base := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)

	old := model.RunRecord{Key: "/a", StartedAt: base, EndedAt: base.Add(time.Minute), Duration: time.Minute, Reason: "idle"}
	recent := model.RunRecord{Key: "/a", StartedAt: base.Add(48 * time.Hour), EndedAt: base.Add(48*time.Hour + time.Minute), Duration: time.Minute, Reason: "idle"}
	require.NoError(t, store.RecordRun(old))
	require.NoError(t, store.RecordRun(recent))

	pruned, err := store.PruneHistory(base.Add(24 * time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), pruned)

	history, err := store.History("/a", base)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.True(t, history[0].EndedAt.After(base.Add(24*time.Hour)))
}

func TestReopenKeepsData(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stats.db")

	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Put(model.WorkspaceStats{Key: "/a", Label: "a", TotalTime: time.Hour}))
	require.NoError(t, store.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	out, err := reopened.Get("/a")
	require.NoError(t, err)
	assert.Equal(t, time.Hour, out.TotalTime)
}
