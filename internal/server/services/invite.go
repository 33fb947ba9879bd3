package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dmitrijs2005/anniv/internal/common"
	"github.com/dmitrijs2005/anniv/internal/logging"
	"github.com/dmitrijs2005/anniv/internal/server/models"
	"github.com/dmitrijs2005/anniv/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

var errUsesLeft = errors.New("an invite needs at least one use")

// InviteService creates invite grants out of band. It is not reachable
// from the HTTP API.
type InviteService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	log         logging.Logger
}

func NewInviteService(db *sql.DB, m repomanager.RepositoryManager, log logging.Logger) *InviteService {
	return &InviteService{db: db, repomanager: m, log: log.With("module", "invite_service")}
}

// Create stores a grant. An empty code is replaced by a random one and an
// empty inviter by the system inviter.
func (s *InviteService) Create(ctx context.Context, grant models.InviteGrant) (*models.InviteGrant, error) {
	if grant.UsesLeft < 1 {
		return nil, common.Wrap(common.ErrInvalidParameters, errUsesLeft)
	}
	if grant.Code == "" {
		grant.Code = uuid.NewString()
	}
	if grant.InviterID == "" {
		grant.InviterID = models.SystemInviterID
	}

	if err := s.repomanager.Invites(s.db).Create(ctx, &grant); err != nil {
		s.log.Error(ctx, "create invite", "error", err)
		return nil, common.Wrap(common.ErrDatabaseWrite, err)
	}
	s.log.Info(ctx, "invite created", "code", grant.Code, "uses", grant.UsesLeft, "restricted", grant.Invitee != "")
	return &grant, nil
}
