package secondfactors

import (
	"context"

	"github.com/dmitrijs2005/anniv/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, factor *models.SecondFactor) error
	// SecretFor returns common.ErrorNotFound when the account has no
	// enrollment.
	SecretFor(ctx context.Context, userID string) (string, error)
}
