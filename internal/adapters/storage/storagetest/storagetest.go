// Package storagetest opens migrated throwaway databases for store tests.
package storagetest

import (
	"database/sql"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"

	"churchsite/internal/adapters/storage"
)

// Open returns a fully migrated database in a temp directory, closed on cleanup.
func Open(t testing.TB) *sql.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := storage.Open(path)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := storage.MigrateDB(db, path); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}
