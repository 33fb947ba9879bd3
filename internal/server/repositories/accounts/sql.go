package accounts

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

func (r *SQLRepository) count(ctx context.Context, query string, arg string) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, r.d.Rebind(query), arg).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *SQLRepository) CountByEmail(ctx context.Context, email string) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM anniv_user WHERE email = $1`, email)
}

func (r *SQLRepository) CountByUsername(ctx context.Context, username string) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM anniv_user WHERE username = $1`, username)
}

// Create inserts the account. An empty InviterID leaves the column to its
// database default, the system inviter.
func (r *SQLRepository) Create(ctx context.Context, a *models.Account) error {
	var err error
	if a.InviterID == "" {
		query :=
			`INSERT INTO anniv_user (id, username, email, password, nickname, avatar)
			 VALUES ($1, $2, $3, $4, $5, $6)`
		_, err = r.db.ExecContext(ctx, r.d.Rebind(query),
			a.ID, a.Username, a.Email, a.PasswordHash, a.Nickname, a.Avatar)
	} else {
		query :=
			`INSERT INTO anniv_user (id, username, email, password, nickname, avatar, inviter_id)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`
		_, err = r.db.ExecContext(ctx, r.d.Rebind(query),
			a.ID, a.Username, a.Email, a.PasswordHash, a.Nickname, a.Avatar, a.InviterID)
	}
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *SQLRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	query :=
		`SELECT id, username, email, password, nickname, avatar, inviter_id
		 FROM anniv_user
		 WHERE email = $1`

	a := &models.Account{}
	err := r.db.QueryRowContext(ctx, r.d.Rebind(query), email).
		Scan(&a.ID, &a.Username, &a.Email, &a.PasswordHash, &a.Nickname, &a.Avatar, &a.InviterID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return a, nil
}
