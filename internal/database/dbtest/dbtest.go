// Package dbtest opens throwaway migrated SQLite databases for package tests.
package dbtest

import (
	"context"
	"path/filepath"
	"testing"

	"quiz-learn/internal/config"
	"quiz-learn/internal/database"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

// NewSQLite returns a migrated database stored in t.TempDir. It is closed on cleanup.
func NewSQLite(t *testing.T) *sqlx.DB {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "test.db") + "?_pragma=foreign_keys(1)"
	db, err := database.Open(context.Background(), config.DBConfig{Driver: database.DriverSQLite, DSN: dsn})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.Migrate(db, database.DriverSQLite, database.Up))
	return db
}
