package dialect

import (
	"io/fs"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Postgres is the PostgreSQL backend, served by pgx.
type Postgres struct{}

func (Postgres) Name() string                 { return "postgres" }
func (Postgres) DriverName() string           { return "pgx" }
func (Postgres) GooseDialect() string         { return "pgx" }
func (Postgres) Rebind(query string) string   { return query }
func (Postgres) Migrations() fs.FS            { return migrationsDir("postgres") }
func (Postgres) PrepareDSN(dsn string) string { return dsn }
