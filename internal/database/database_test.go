package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitDB_CreatesTables(t *testing.T) {
	db, err := InitDB(filepath.Join(t.TempDir(), "league.db"), "", "")
	require.NoError(t, err, "InitDB should not return an error")
	defer db.Close()

	for _, table := range []string{"players", "waitlist", "settings", "history", "metrics"} {
		var name string
		err = db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		require.NoError(t, err, "querying for the %s table should not fail", table)
		assert.Equal(t, table, name)
	}
}

func TestInitDB_IsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "league.db")
	db, err := InitDB(path, "", "")
	require.NoError(t, err)
	_, err = db.Exec("INSERT INTO settings (key, value) VALUES ('playerSpots', '20')")
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = InitDB(path, "", "")
	require.NoError(t, err, "re-running migrations on an existing database should succeed")
	defer db.Close()

	var value string
	require.NoError(t, db.Get(&value, "SELECT value FROM settings WHERE key = 'playerSpots'"))
	assert.Equal(t, "20", value)
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name        string
		url, token  string
		wantDriver  string
		wantDialect string
		wantDSN     string
	}{
		{"local file", "", "", "sqlite3", "sqlite3", "league.db"},
		{"postgres", "postgres://u:p@host/db", "", "postgres", "postgres", "postgres://u:p@host/db"},
		{"postgresql scheme", "postgresql://host/db", "", "postgres", "postgres", "postgresql://host/db"},
		{"turso with token", "libsql://league.turso.io", "tok", "libsql", "sqlite3", "libsql://league.turso.io?authToken=tok"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			driver, dialect, dsn := resolve("league.db", tt.url, tt.token)
			assert.Equal(t, tt.wantDriver, driver)
			assert.Equal(t, tt.wantDialect, dialect)
			assert.Equal(t, tt.wantDSN, dsn)
		})
	}
}
