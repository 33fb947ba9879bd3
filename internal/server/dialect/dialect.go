// Package dialect hides the SQL differences between the supported database
// backends. Repositories write their queries with PostgreSQL style
// placeholders ($1, $2, ...) and pass them through Rebind before executing.
package dialect

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"regexp"

	"github.com/dmitrijs2005/anniv/internal/common"
	"github.com/dmitrijs2005/anniv/internal/server/migrations"
)

// Dialect describes one database backend.
type Dialect interface {
	// Name is the configuration name of the backend.
	Name() string
	// DriverName is the database/sql driver registered for the backend.
	DriverName() string
	// GooseDialect is the dialect name understood by goose.SetDialect.
	GooseDialect() string
	// Rebind converts $N placeholders to the backend's placeholder style.
	Rebind(query string) string
	// Migrations returns the backend's migration directory.
	Migrations() fs.FS
	// PrepareDSN adds backend specific connection options to dsn.
	PrepareDSN(dsn string) string
}

var placeholderRe = regexp.MustCompile(`\$(\d+)`)

// RebindToQuestion rewrites $N placeholders as ?. Arguments must be passed
// in placeholder order and every placeholder used once.
func RebindToQuestion(query string) string {
	return placeholderRe.ReplaceAllString(query, "?")
}

func migrationsDir(name string) fs.FS {
	sub, err := fs.Sub(migrations.Migrations, name)
	if err != nil {
		// the directory names are compiled in
		panic(err)
	}
	return sub
}

// ForDriver returns the dialect for a configured driver name.
func ForDriver(name string) (Dialect, error) {
	switch name {
	case "postgres", "pgx":
		return Postgres{}, nil
	case "mysql":
		return MySQL{}, nil
	case "sqlite", "sqlite3":
		return SQLite{}, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", name)
	}
}

// Open opens a connection pool for d and verifies it with a ping.
func Open(ctx context.Context, d Dialect, dsn string, maxConns int) (*sql.DB, error) {
	db, err := sql.Open(d.DriverName(), d.PrepareDSN(dsn))
	if err != nil {
		return nil, common.Wrap(common.ErrDatabaseConnection, err)
	}
	if maxConns > 0 {
		db.SetMaxOpenConns(maxConns)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, common.Wrap(common.ErrDatabaseConnection, err)
	}
	return db, nil
}
