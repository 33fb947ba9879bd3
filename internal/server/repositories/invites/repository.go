package invites

import (
	"context"

	"github.com/dmitrijs2005/anniv/internal/server/models"
)

// Repository is the invite ledger.
type Repository interface {
	// Validate finds the grant a registration with email may use. It does
	// not consume the grant.
	Validate(ctx context.Context, email, code string) (*models.InviteGrant, error)
	// Redeem consumes one use of grant. It is the authoritative exhaustion
	// check.
	Redeem(ctx context.Context, grant *models.InviteGrant) error
	Create(ctx context.Context, grant *models.InviteGrant) error
}
