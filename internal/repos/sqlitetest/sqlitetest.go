// Package sqlitetest prepares migrated in-memory SQLite databases for repository and service tests
package sqlitetest

import (
	"io"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // Just needed for the sqlite driver
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/derWhity/fyyur/internal/migrate"
)

// Logger returns a logger that discards everything written to it
func Logger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

// Open opens a fresh in-memory database and runs all migrations on it. The database is closed when the test ends.
func Open(t testing.TB) *sqlx.DB {
	db, err := sqlx.Open("sqlite3", ":memory:?_foreign_keys=1")
	require.NoError(t, err)
	// Every connection to ":memory:" would get its own, empty database
	db.SetMaxOpenConns(1)
	_, err = db.Exec("PRAGMA foreign_keys = ON")
	require.NoError(t, err)
	require.NoError(t, migrate.ExecuteMigrationsOnDb(db, Logger()))
	t.Cleanup(func() { db.Close() })
	return db
}
