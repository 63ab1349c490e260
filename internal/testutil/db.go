// Package testutil holds helpers shared by tests that need a real database.
package testutil

import (
	"testing"

	"github.com/AdamBeresnev/gymit/internal/db"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

// NewTestDB opens a private in-memory SQLite database and applies the migrations found at
// migrationsURL, e.g. "file://../../migrations" from a package under internal/.
func NewTestDB(t *testing.T, migrationsURL string) *sqlx.DB {
	t.Helper()

	database, err := db.Open(db.DriverSQLite, "file::memory:?_foreign_keys=on")
	require.NoError(t, err, "Failed to connect to in-memory DB")
	t.Cleanup(func() { database.Close() })

	err = db.RunMigrations(database.DB, db.DriverSQLite, migrationsURL)
	require.NoError(t, err, "Failed to apply migrations")

	return database
}
