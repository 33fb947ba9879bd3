package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/anniv/internal/dbx"
	"github.com/dmitrijs2005/anniv/internal/server/dialect"
	"github.com/dmitrijs2005/anniv/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/anniv/internal/server/repositories/invites"
	"github.com/dmitrijs2005/anniv/internal/server/repositories/secondfactors"
)

type RepositoryManager interface {
	Dialect() dialect.Dialect
	RunMigrations(context.Context, *sql.DB) error
	Accounts(db dbx.DBTX) accounts.Repository
	SecondFactors(db dbx.DBTX) secondfactors.Repository
	Invites(db dbx.DBTX) invites.Repository
}
