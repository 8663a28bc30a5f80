package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/chenshien/Enterprise-Classification-Batch-Calculation/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createHistoryStorage opens a migrated database in a temp dir.
func createHistoryStorage(t *testing.T) *SQLiteStorage {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "nested", "history.db")

	store, err := NewSQLiteStorage(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Migrate(context.Background()))
	return store
}

func testRun(startedAt time.Time) *model.Run {
	return &model.Run{
		StartedAt:   startedAt,
		Duration:    1500 * time.Millisecond,
		InputPath:   "/data/企业名单.xlsx",
		OutputPath:  "/data/排查结果.xlsx",
		RulesPath:   "/opt/entclass/industries_config.ini",
		Unit:        model.UnitYuan,
		RecordCount: 10,
		RuleCount:   4,
		Skipped:     1,
		EvalErrors:  2,
		Counts: map[model.ScaleLevel]int{
			model.LargeEnterprise: 1,
			model.SmallEnterprise: 6,
			model.Unmatched:       3,
		},
	}
}

func TestSQLiteStorage_Migrate(t *testing.T) {
	store := createHistoryStorage(t)
	ctx := context.Background()

	// Running again is a no-op.
	require.NoError(t, store.Migrate(ctx))

	var version int
	require.NoError(t, store.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version))
	assert.Equal(t, ExpectedSchemaVersion, version)
	assert.Equal(t, "history.db", filepath.Base(store.Path()))
	assert.FileExists(t, store.Path())
}

func TestSQLiteStorage_SaveAndGetRun(t *testing.T) {
	store := createHistoryStorage(t)
	ctx := context.Background()

	started := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	run := testRun(started)
	require.NoError(t, store.SaveRun(ctx, run))
	require.NotZero(t, run.ID)

	got, err := store.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.True(t, started.Equal(got.StartedAt))
	assert.Equal(t, run.Duration, got.Duration)
	assert.Equal(t, run.InputPath, got.InputPath)
	assert.Equal(t, run.OutputPath, got.OutputPath)
	assert.Equal(t, run.RulesPath, got.RulesPath)
	assert.Equal(t, model.UnitYuan, got.Unit)
	assert.Equal(t, 10, got.RecordCount)
	assert.Equal(t, 4, got.RuleCount)
	assert.Equal(t, 1, got.Skipped)
	assert.Equal(t, 2, got.EvalErrors)
	assert.Equal(t, run.Counts, got.Counts)

	_, err = store.GetRun(ctx, run.ID+100)
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestSQLiteStorage_ListRuns(t *testing.T) {
	store := createHistoryStorage(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		require.NoError(t, store.SaveRun(ctx, testRun(base.Add(time.Duration(i)*time.Hour))))
	}

	runs, err := store.ListRuns(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.True(t, runs[0].StartedAt.After(runs[1].StartedAt))
	assert.Equal(t, 6, runs[0].Counts[model.SmallEnterprise])

	all, err := store.ListRuns(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestSQLiteStorage_SaveRunValidation(t *testing.T) {
	store := createHistoryStorage(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		mutate  func(*model.Run)
		wantErr error
	}{
		{name: "missing start", mutate: func(r *model.Run) { r.StartedAt = time.Time{} }, wantErr: ErrInvalidRun},
		{name: "missing input", mutate: func(r *model.Run) { r.InputPath = "" }, wantErr: ErrInvalidRun},
		{name: "missing rules", mutate: func(r *model.Run) { r.RulesPath = "" }, wantErr: ErrInvalidRun},
		{name: "negative count", mutate: func(r *model.Run) { r.RecordCount = -1 }, wantErr: ErrInvalidRun},
		{name: "unknown level", mutate: func(r *model.Run) { r.Counts[model.ScaleLevel(42)] = 1 }, wantErr: ErrInvalidRun},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			run := testRun(time.Now())
			tt.mutate(run)
			assert.ErrorIs(t, store.SaveRun(ctx, run), tt.wantErr)
		})
	}

	assert.ErrorIs(t, store.SaveRun(ctx, nil), ErrNilParameter)

	runs, err := store.ListRuns(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestNewSQLiteStorage_EmptyPath(t *testing.T) {
	_, err := NewSQLiteStorage("  ")
	assert.ErrorIs(t, err, ErrEmptyString)
}
