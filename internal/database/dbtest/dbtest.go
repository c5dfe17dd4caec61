// Package dbtest opens throwaway SQLite-backed stores for tests.
package dbtest

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/protomem/resource-tracker/internal/database"
	"github.com/stretchr/testify/require"
)

func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// New returns a migrated SQLite database in the test's temp dir.
func New(t testing.TB) *database.DB {
	t.Helper()

	db, err := database.New(context.Background(), Logger(), database.Config{
		Driver:      database.DriverSQLite,
		DSN:         filepath.Join(t.TempDir(), "tracker.db"),
		Automigrate: true,
	})
	require.NoError(t, err)

	t.Cleanup(func() { _ = db.Close() })

	return db
}

func NewStore(t testing.TB) *database.EntityStore {
	t.Helper()
	return database.NewEntityStore(Logger(), New(t))
}
