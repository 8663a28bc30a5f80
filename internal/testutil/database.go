// Package testutil provides shared fixtures for tests: history databases,
// rule files and input workbooks.
package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/chenshien/Enterprise-Classification-Batch-Calculation/internal/storage"
)

// SetupHistoryDB creates a migrated history database in a temp directory.
// It is closed automatically when the test ends.
//
// Example:
//
//	store := testutil.SetupHistoryDB(t)
//	runs, err := store.ListRuns(ctx, 10)
func SetupHistoryDB(t *testing.T) *storage.SQLiteStorage {
	t.Helper()
	return OpenHistoryDB(t, filepath.Join(t.TempDir(), "history.db"))
}

// OpenHistoryDB opens and migrates the history database at path.
func OpenHistoryDB(t *testing.T, path string) *storage.SQLiteStorage {
	t.Helper()

	store, err := storage.NewSQLiteStorage(path)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := store.Migrate(context.Background()); err != nil {
		_ = store.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	return store
}
