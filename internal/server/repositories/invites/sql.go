package invites

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

// Validate returns the grant for code that email may use. When several grants
// share a code, a grant with uses left is preferred over an exhausted one.
func (r *SQLRepository) Validate(ctx context.Context, email, code string) (*models.InviteGrant, error) {
	query :=
		`SELECT id, code, inviter_id, invitee, use_left
		 FROM anniv_invite
		 WHERE code = $1 AND (invitee IS NULL OR invitee = $2)
		 ORDER BY (use_left > 0) DESC, id
		 LIMIT 1`

	g := &models.InviteGrant{}
	var invitee sql.NullString
	err := r.db.QueryRowContext(ctx, r.d.Rebind(query), code, email).
		Scan(&g.ID, &g.Code, &g.InviterID, &invitee, &g.UsesLeft)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrInvalidInviteCode
		}
		return nil, common.Wrap(common.ErrDatabaseRead, fmt.Errorf("db error: %w", err))
	}
	g.Invitee = invitee.String

	if g.UsesLeft <= 0 {
		return nil, common.ErrInviteCodeExhausted
	}
	return g, nil
}

// Redeem decrements use_left in a single conditional statement, so two
// concurrent redemptions of the last use cannot both succeed.
func (r *SQLRepository) Redeem(ctx context.Context, g *models.InviteGrant) error {
	query :=
		`UPDATE anniv_invite
		 SET use_left = use_left - 1
		 WHERE id = $1 AND code = $2 AND use_left > 0`

	res, err := r.db.ExecContext(ctx, r.d.Rebind(query), g.ID, g.Code)
	if err != nil {
		return common.Wrap(common.ErrDatabaseWrite, fmt.Errorf("db error: %w", err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return common.Wrap(common.ErrDatabaseWrite, fmt.Errorf("db error: %w", err))
	}
	if n == 0 {
		return common.ErrInviteCodeExhausted
	}
	g.UsesLeft--
	return nil
}

func (r *SQLRepository) Create(ctx context.Context, g *models.InviteGrant) error {
	query :=
		`INSERT INTO anniv_invite (code, inviter_id, invitee, use_left)
		 VALUES ($1, $2, $3, $4)`

	var invitee sql.NullString
	if g.Invitee != "" {
		invitee = sql.NullString{String: g.Invitee, Valid: true}
	}
	_, err := r.db.ExecContext(ctx, r.d.Rebind(query), g.Code, g.InviterID, invitee, g.UsesLeft)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
