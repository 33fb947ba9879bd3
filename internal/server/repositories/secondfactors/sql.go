package secondfactors

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/anniv/internal/common"
	"github.com/dmitrijs2005/anniv/internal/dbx"
	"github.com/dmitrijs2005/anniv/internal/server/dialect"
	"github.com/dmitrijs2005/anniv/internal/server/models"
)

type SQLRepository struct {
	db dbx.DBTX
	d  dialect.Dialect
}

func NewSQLRepository(db dbx.DBTX, d dialect.Dialect) *SQLRepository {
	return &SQLRepository{db: db, d: d}
}

func (r *SQLRepository) Create(ctx context.Context, f *models.SecondFactor) error {
	query := `INSERT INTO anniv_2fa (user_id, secret) VALUES ($1, $2)`

	if _, err := r.db.ExecContext(ctx, r.d.Rebind(query), f.UserID, f.Secret); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *SQLRepository) SecretFor(ctx context.Context, userID string) (string, error) {
	query := `SELECT secret FROM anniv_2fa WHERE user_id = $1`

	var secret string
	err := r.db.QueryRowContext(ctx, r.d.Rebind(query), userID).Scan(&secret)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", common.ErrorNotFound
		}
		return "", fmt.Errorf("db error: %w", err)
	}
	return secret, nil
}
