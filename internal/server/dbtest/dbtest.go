// Package dbtest opens migrated SQLite databases for tests.
package dbtest

import (
	"context"
	"database/sql"
	"path/filepath"
	"sync"
	"testing"

	"github.com/dmitrijs2005/anniv/internal/server/dialect"
	"github.com/pressly/goose/v3"
)

// goose keeps its base FS and dialect in package globals.
var gooseMu sync.Mutex

// Migrate applies the SQLite migrations to db.
func Migrate(ctx context.Context, db *sql.DB) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	d := dialect.SQLite{}
	goose.SetBaseFS(d.Migrations())
	if err := goose.SetDialect(d.GooseDialect()); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}

// OpenSQLite returns a migrated, file-backed SQLite database that lives for
// the duration of the test.
func OpenSQLite(t testing.TB) *sql.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "anniv.db")
	db, err := dialect.Open(context.Background(), dialect.SQLite{}, path, 4)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := Migrate(context.Background(), db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}
