package accounts

import (
	"context"

	"github.com/dmitrijs2005/anniv/internal/server/models"
)

type Repository interface {
	CountByEmail(ctx context.Context, email string) (int, error)
	CountByUsername(ctx context.Context, username string) (int, error)
	Create(ctx context.Context, account *models.Account) error
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
}
