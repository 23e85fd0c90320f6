// Package services contains server-side business logic. This file implements
// UserService, which handles registration, login and identity lookups for
// the authentication gate.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/chatop/internal/common"
	"github.com/dmitrijs2005/chatop/internal/cryptox"
	"github.com/dmitrijs2005/chatop/internal/dbx"
	"github.com/dmitrijs2005/chatop/internal/logging"
	"github.com/dmitrijs2005/chatop/internal/server/auth"
	"github.com/dmitrijs2005/chatop/internal/server/models"
	"github.com/dmitrijs2005/chatop/internal/server/repositories/repomanager"
)

// UserService provides authentication-related operations:
// - Register: create a user and log them in
// - Login: verify credentials and mint a token
// - CurrentIdentity / ResolveIdentity: look up the caller by login key
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      cryptox.PasswordHasher
	codec       *auth.TokenCodec
	logger      logging.Logger
	now         func() time.Time
}

// NewUserService constructs a UserService. clock may be nil.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, hasher cryptox.PasswordHasher,
	codec *auth.TokenCodec, logger logging.Logger, clock func() time.Time) *UserService {
	if clock == nil {
		clock = time.Now
	}
	return &UserService{
		db:          db,
		repomanager: m,
		hasher:      hasher,
		codec:       codec,
		logger:      logger.With("module", "users"),
		now:         clock,
	}
}

// NormalizeLogin lowercases and trims a login key.
func NormalizeLogin(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a user and returns it together with a fresh token.
// An email already taken in any letter case yields common.ErrDuplicateIdentity
// and nothing is written.
func (s *UserService) Register(ctx context.Context, name, email, password string) (*models.User, *auth.IssuedToken, error) {
	email = NormalizeLogin(email)
	secret := []byte(password)
	defer common.WipeByteArray(secret)

	var user *models.User
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		exists, err := repo.ExistsByEmail(ctx, email)
		if err != nil {
			return err
		}
		if exists {
			return common.ErrDuplicateIdentity
		}

		hash, err := s.hasher.Hash(secret)
		if err != nil {
			return fmt.Errorf("hashing password: %w", err)
		}

		user, err = repo.Create(ctx, &models.User{
			Name:         strings.TrimSpace(name),
			Email:        email,
			PasswordHash: hash,
		})
		return err
	})
	if err != nil {
		if errors.Is(err, common.ErrDuplicateIdentity) {
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("error creating user: %w", err)
	}

	s.logger.Info(ctx, "user registered", "user_id", user.ID)

	token, err := s.Login(ctx, email, password)
	if err != nil {
		return nil, nil, err
	}

	return user, token, nil
}

// Login checks the password for email. Unknown emails and wrong passwords
// both return common.ErrAuthenticationFailed after comparable work.
func (s *UserService) Login(ctx context.Context, email, password string) (*auth.IssuedToken, error) {
	email = NormalizeLogin(email)
	secret := []byte(password)
	defer common.WipeByteArray(secret)

	user, err := s.repomanager.Users(s.db).GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			s.hasher.CompareDummy(secret)
			return nil, common.ErrAuthenticationFailed
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}

	if err := s.hasher.Compare(user.PasswordHash, secret); err != nil {
		if !errors.Is(err, cryptox.ErrMismatch) {
			s.logger.Warn(ctx, "stored password hash unusable", "user_id", user.ID, "error", err)
		}
		return nil, common.ErrAuthenticationFailed
	}

	token, err := s.codec.Issue(user.Email, s.now())
	if err != nil {
		return nil, fmt.Errorf("error issuing token: %w", err)
	}

	return token, nil
}

// CurrentIdentity returns the user behind a verified login key.
func (s *UserService) CurrentIdentity(ctx context.Context, email string) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).GetUserByEmail(ctx, NormalizeLogin(email))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.NewError(common.ErrNotFound, "user not found")
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}
	return user, nil
}

// ResolveIdentity implements auth.IdentityResolver.
func (s *UserService) ResolveIdentity(ctx context.Context, login string) (*auth.Principal, error) {
	user, err := s.CurrentIdentity(ctx, login)
	if err != nil {
		return nil, err
	}
	return &auth.Principal{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Roles: []string{common.RoleUser},
	}, nil
}
