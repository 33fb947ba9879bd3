// Package repomanager provides a RepositoryManager for the SQL backends,
// wiring together repository constructors and database migrations (via goose).
package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/anniv/internal/dbx"
	"github.com/dmitrijs2005/anniv/internal/server/dialect"
	"github.com/dmitrijs2005/anniv/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/anniv/internal/server/repositories/invites"
	"github.com/dmitrijs2005/anniv/internal/server/repositories/secondfactors"
	"github.com/pressly/goose/v3"
)

// SQLRepositoryManager vends repositories for one dialect and exposes a
// schema migration hook.
type SQLRepositoryManager struct {
	d dialect.Dialect
}

// Dialect returns the backend the manager was built for.
func (m *SQLRepositoryManager) Dialect() dialect.Dialect {
	return m.d
}

// Accounts returns an accounts.Repository bound to the provided DBTX.
func (m *SQLRepositoryManager) Accounts(db dbx.DBTX) accounts.Repository {
	return accounts.NewSQLRepository(db, m.d)
}

// SecondFactors returns a secondfactors.Repository bound to the provided DBTX.
func (m *SQLRepositoryManager) SecondFactors(db dbx.DBTX) secondfactors.Repository {
	return secondfactors.NewSQLRepository(db, m.d)
}

// Invites returns an invites.Repository bound to the provided DBTX.
func (m *SQLRepositoryManager) Invites(db dbx.DBTX) invites.Repository {
	return invites.NewSQLRepository(db, m.d)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the dialect's embedded migrations and
// runs them against the provided database connection.
func (m *SQLRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(m.d.Migrations())
	if err := goose.SetDialect(m.d.GooseDialect()); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := gooseUpContext(ctx, db, "."); err != nil {
		return err
	}
	return nil
}

// NewRepositoryManager constructs a RepositoryManager for d.
func NewRepositoryManager(d dialect.Dialect) RepositoryManager {
	return &SQLRepositoryManager{d: d}
}
