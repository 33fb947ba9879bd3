// Package services contains server-side business logic. This file implements
// UserService, which handles registration, availability checks, login and
// logout.
package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dmitrijs2005/anniv/internal/common"
	"github.com/dmitrijs2005/anniv/internal/dbx"
	"github.com/dmitrijs2005/anniv/internal/logging"
	"github.com/dmitrijs2005/anniv/internal/server/credentials"
	"github.com/dmitrijs2005/anniv/internal/server/features"
	"github.com/dmitrijs2005/anniv/internal/server/models"
	"github.com/dmitrijs2005/anniv/internal/server/repositories/repomanager"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/google/uuid"
)

// RegisterRequest carries a registration attempt. Nil optional fields were
// not supplied by the client.
type RegisterRequest struct {
	Username        string
	Password        string
	Email           string
	Nickname        string
	Avatar          string
	TwoFactorSecret *string
	InviteCode      *string
}

// Validate checks the account fields. The password is left to the codec,
// which reports its own error kind.
func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required, validation.Length(1, 32)),
		validation.Field(&r.Email, validation.Required, validation.Length(3, 64), is.Email),
		validation.Field(&r.Nickname, validation.Length(0, 32)),
		validation.Field(&r.Avatar, validation.Length(0, 256)),
	)
}

// LoginRequest carries a login attempt.
type LoginRequest struct {
	Email         string
	Password      string
	TwoFactorCode *string
}

// Session is the caller-owned login state of one client.
type Session interface {
	Set(ctx context.Context, accountID string) error
	Clear(ctx context.Context) error
}

// UserService provides account operations:
// - Register: create an account, consuming an invite and enrolling 2FA
// - CheckAvailability: advisory email/username pre-check
// - Login / Logout: bind and clear a session
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	features    features.Set
	codec       *credentials.Codec
	log         logging.Logger
	newID       func() string
}

// NewUserService constructs a UserService.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, fs features.Set,
	codec *credentials.Codec, log logging.Logger) *UserService {
	return &UserService{
		db:          db,
		repomanager: m,
		features:    fs,
		codec:       codec,
		log:         log.With("module", "user_service"),
		newID:       uuid.NewString,
	}
}

// Features returns the enabled feature set.
func (s *UserService) Features() features.Set {
	return s.features
}

// Register runs the registration checks in a fixed order and then creates
// the account in one transaction: redeem the invite, insert the account,
// enroll the second factor. The stored account is returned. Feature gates
// run before field validation, so a closed site answers ErrRegisterClosed
// even to a malformed request.
func (s *UserService) Register(ctx context.Context, req RegisterRequest) (*models.Account, error) {
	grant, err := s.checkInvite(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := req.Validate(); err != nil {
		return nil, common.Wrap(common.ErrInvalidParameters, err)
	}

	if err := s.CheckAvailability(ctx, &req.Email, &req.Username); err != nil {
		return nil, err
	}

	if err := s.checkSecondFactor(req); err != nil {
		return nil, err
	}

	hash, err := s.codec.HashPassword(req.Password)
	if err != nil {
		if !errors.Is(err, common.ErrInvalidPasswordFormat) {
			s.log.Error(ctx, "password hashing failed", "error", err)
		}
		return nil, err
	}

	account := &models.Account{
		ID:           s.newID(),
		Username:     req.Username,
		Email:        req.Email,
		Nickname:     req.Nickname,
		Avatar:       req.Avatar,
		PasswordHash: hash,
	}
	if grant != nil {
		account.InviterID = grant.InviterID
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if grant != nil {
			if err := s.repomanager.Invites(tx).Redeem(ctx, grant); err != nil {
				return err
			}
		}
		if err := s.repomanager.Accounts(tx).Create(ctx, account); err != nil {
			return common.Wrap(common.ErrDatabaseWrite, err)
		}
		if req.TwoFactorSecret != nil {
			factor := &models.SecondFactor{UserID: account.ID, Secret: *req.TwoFactorSecret}
			if err := s.repomanager.SecondFactors(tx).Create(ctx, factor); err != nil {
				return common.Wrap(common.ErrDatabaseWrite, err)
			}
		}
		return nil
	})
	if err != nil {
		err = txError(err)
		s.logFailure(ctx, "registration rolled back", err)
		return nil, err
	}

	stored, err := s.repomanager.Accounts(s.db).GetByEmail(ctx, req.Email)
	if err != nil {
		s.log.Error(ctx, "reload registered account", "email", req.Email, "error", err)
		return nil, common.Wrap(common.ErrDatabaseRead, err)
	}

	s.log.Info(ctx, "account registered", "user_id", stored.ID, "invited", grant != nil,
		"2fa", req.TwoFactorSecret != nil)
	return stored, nil
}

func (s *UserService) checkInvite(ctx context.Context, req RegisterRequest) (*models.InviteGrant, error) {
	inviteEnabled := s.features.Has(features.Invite)

	if s.features.Has(features.Close) && !inviteEnabled {
		return nil, common.ErrRegisterClosed
	}
	if !inviteEnabled {
		if req.InviteCode != nil {
			return nil, common.ErrInviteSystemNotEnabled
		}
		return nil, nil
	}
	if req.InviteCode == nil {
		return nil, common.ErrInvalidInviteCode
	}

	grant, err := s.repomanager.Invites(s.db).Validate(ctx, req.Email, *req.InviteCode)
	if err != nil {
		s.logFailure(ctx, "invite validation failed", err)
		return nil, err
	}
	return grant, nil
}

func (s *UserService) checkSecondFactor(req RegisterRequest) error {
	if !s.features.Has(features.TwoFactor) {
		if req.TwoFactorSecret != nil {
			return common.ErrNotEnabled2FA
		}
		return nil
	}
	if req.TwoFactorSecret == nil || !credentials.ValidSecret(*req.TwoFactorSecret) {
		return common.ErrInvalid2FASecret
	}
	return nil
}

// CheckAvailability reports whether email and username are still free.
// Email is checked first. The result is advisory: the unique constraints
// checked at insert time are authoritative.
func (s *UserService) CheckAvailability(ctx context.Context, email, username *string) error {
	if email == nil && username == nil {
		return common.ErrInvalidParameters
	}

	repo := s.repomanager.Accounts(s.db)
	if email != nil {
		n, err := repo.CountByEmail(ctx, *email)
		if err != nil {
			s.log.Error(ctx, "count accounts by email", "error", err)
			return common.Wrap(common.ErrDatabaseRead, err)
		}
		if n > 0 {
			return common.ErrEmailUnavailable
		}
	}
	if username != nil {
		n, err := repo.CountByUsername(ctx, *username)
		if err != nil {
			s.log.Error(ctx, "count accounts by username", "error", err)
			return common.Wrap(common.ErrDatabaseRead, err)
		}
		if n > 0 {
			return common.ErrUsernameUnavailable
		}
	}
	return nil
}

// Login authenticates the account and binds it to session. Unknown emails
// and wrong passwords are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, session Session, req LoginRequest) error {
	account, err := s.repomanager.Accounts(s.db).GetByEmail(ctx, req.Email)
	if err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			s.log.Warn(ctx, "login lookup failed", "error", err)
		}
		return common.ErrWrongEmailOrPassword
	}

	secret, err := s.repomanager.SecondFactors(s.db).SecretFor(ctx, account.ID)
	switch {
	case err == nil:
		if req.TwoFactorCode == nil || !s.codec.VerifyTOTP(secret, *req.TwoFactorCode, s.codec.Window()) {
			return common.ErrInvalid2FACode
		}
	case errors.Is(err, common.ErrorNotFound):
	default:
		s.log.Error(ctx, "second factor lookup failed", "user_id", account.ID, "error", err)
		return common.Wrap(common.ErrDatabaseRead, err)
	}

	ok, err := s.codec.VerifyPassword(req.Password, account.PasswordHash)
	if err != nil {
		s.log.Warn(ctx, "stored password hash rejected", "user_id", account.ID, "error", err)
		return common.ErrWrongEmailOrPassword
	}
	if !ok {
		return common.ErrWrongEmailOrPassword
	}

	if err := session.Set(ctx, account.ID); err != nil {
		s.log.Error(ctx, "session set failed", "user_id", account.ID, "error", err)
		return common.Wrap(common.ErrFatal, err)
	}
	return nil
}

// Logout clears session whatever its state.
func (s *UserService) Logout(ctx context.Context, session Session) error {
	if err := session.Clear(ctx); err != nil {
		s.log.Error(ctx, "session clear failed", "error", err)
		return common.Wrap(common.ErrFatal, err)
	}
	return nil
}

// Revoke accepts a revocation request for id. Revocation has no effect yet.
func (s *UserService) Revoke(ctx context.Context, id string) error {
	s.log.Info(ctx, "revoke requested", "id", id)
	return nil
}

// txError maps transaction infrastructure failures onto error kinds. Errors
// returned from inside the transaction already carry one.
func txError(err error) error {
	switch {
	case errors.Is(err, dbx.ErrBeginTx):
		return common.Wrap(common.ErrDatabaseConnection, err)
	case errors.Is(err, dbx.ErrCommitTx):
		return common.Wrap(common.ErrDatabaseWrite, err)
	default:
		return err
	}
}

func (s *UserService) logFailure(ctx context.Context, msg string, err error) {
	switch common.KindOf(err) {
	case common.ErrDatabaseConnection, common.ErrDatabaseRead, common.ErrDatabaseWrite, common.ErrFatal:
		s.log.Error(ctx, msg, "error", err)
	default:
		s.log.Debug(ctx, msg, "error", err)
	}
}
