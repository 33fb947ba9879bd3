package dialect

import (
	"io/fs"
	"strings"

	_ "modernc.org/sqlite"
)

// SQLite is the embedded backend, served by modernc.org/sqlite.
type SQLite struct{}

func (SQLite) Name() string               { return "sqlite" }
func (SQLite) DriverName() string         { return "sqlite" }
func (SQLite) GooseDialect() string       { return "sqlite3" }
func (SQLite) Rebind(query string) string { return RebindToQuestion(query) }
func (SQLite) Migrations() fs.FS          { return migrationsDir("sqlite") }

// PrepareDSN turns on foreign keys, waits on a locked database instead of
// failing, and opens transactions with BEGIN IMMEDIATE.
func (SQLite) PrepareDSN(dsn string) string {
	if strings.Contains(dsn, "_pragma=") || strings.Contains(dsn, "_txlock=") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_txlock=immediate"
}
