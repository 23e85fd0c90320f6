// Package services contains application services for the Chatop CLI.
// This file defines the session service: register, login, logout, the
// current identity and a liveness probe.
package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/dmitrijs2005/chatop/internal/client/client"
	"github.com/dmitrijs2005/chatop/internal/client/models"
	"github.com/dmitrijs2005/chatop/internal/common"
)

// AuthService defines session operations for the CLI.
//
// Contract:
//   - Register: create an account; the new session is active on success.
//   - Login: authenticate and remember the current identity.
//   - Logout: forget the session locally.
//   - CurrentUser: identity of the active session, nil when logged out.
//   - Ping: check server liveness.
//
// Passwords are wiped after they have been sent.
type AuthService interface {
	Register(ctx context.Context, name, email string, password []byte) error
	Login(ctx context.Context, email string, password []byte) error
	Logout()
	CurrentUser() *models.User
	Refresh(ctx context.Context) (*models.User, error)
	Ping(ctx context.Context) error
}

type authService struct {
	client client.Client

	mu   sync.RWMutex
	user *models.User
}

// NewAuthService constructs an AuthService bound to the given API client.
func NewAuthService(c client.Client) AuthService {
	return &authService{client: c}
}

func (a *authService) Register(ctx context.Context, name, email string, password []byte) error {
	defer common.WipeByteArray(password)

	u, err := a.client.Register(ctx, strings.TrimSpace(name), strings.TrimSpace(email), password)
	if err != nil {
		return err
	}
	a.setUser(u)
	return nil
}

// Login authenticates and then loads the identity behind the token, so
// later calls can act as that user.
func (a *authService) Login(ctx context.Context, email string, password []byte) error {
	defer common.WipeByteArray(password)

	if _, err := a.client.Login(ctx, strings.TrimSpace(email), password); err != nil {
		return err
	}

	u, err := a.client.Me(ctx)
	if err != nil {
		a.client.Logout()
		return fmt.Errorf("loading current user: %w", err)
	}
	a.setUser(u)
	return nil
}

func (a *authService) Logout() {
	a.client.Logout()
	a.setUser(nil)
}

func (a *authService) CurrentUser() *models.User {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.user
}

// Refresh reloads the current identity from the server. An expired session
// is dropped.
func (a *authService) Refresh(ctx context.Context) (*models.User, error) {
	if !a.client.LoggedIn() {
		return nil, client.ErrNotLoggedIn
	}
	u, err := a.client.Me(ctx)
	if err != nil {
		if isUnauthorized(err) {
			a.Logout()
		}
		return nil, err
	}
	a.setUser(u)
	return u, nil
}

func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}

func (a *authService) setUser(u *models.User) {
	a.mu.Lock()
	a.user = u
	a.mu.Unlock()
}
