// Package services contains application services for the job tracker client.
// This file defines the authentication service: register, login and logout
// against the remote API, with the resulting user kept in the session.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/jobtracker/internal/client/session"
	"github.com/dmitrijs2005/jobtracker/internal/domain"
)

var ErrMissingCredentials = errors.New("email and password are required")

// AuthClient is the part of the remote API used for authentication.
type AuthClient interface {
	Register(ctx context.Context, creds domain.Credentials) (*domain.User, error)
	Login(ctx context.Context, creds domain.Credentials) (*domain.User, error)
}

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Register: create an account and sign in as it.
//   - Login: authenticate and persist the user in the session.
//   - Logout: forget the session, locally and on disk.
type AuthService interface {
	Register(ctx context.Context, name, email string, password []byte) (domain.User, error)
	Login(ctx context.Context, email string, password []byte) (domain.User, error)
	Logout(ctx context.Context) error
}

type authService struct {
	client  AuthClient
	session *session.State
}

func NewAuthService(client AuthClient, s *session.State) AuthService {
	return &authService{client: client, session: s}
}

func (a *authService) Register(ctx context.Context, name, email string, password []byte) (domain.User, error) {
	creds := domain.Credentials{Name: strings.TrimSpace(name), Email: strings.TrimSpace(email), Password: string(password)}
	if creds.Email == "" || creds.Password == "" {
		return domain.User{}, ErrMissingCredentials
	}

	u, err := a.client.Register(ctx, creds)
	if err != nil {
		return domain.User{}, fmt.Errorf("register: %w", err)
	}
	return a.start(ctx, u)
}

func (a *authService) Login(ctx context.Context, email string, password []byte) (domain.User, error) {
	creds := domain.Credentials{Email: strings.TrimSpace(email), Password: string(password)}
	if creds.Email == "" || creds.Password == "" {
		return domain.User{}, ErrMissingCredentials
	}

	u, err := a.client.Login(ctx, creds)
	if err != nil {
		return domain.User{}, fmt.Errorf("login: %w", err)
	}
	return a.start(ctx, u)
}

func (a *authService) start(ctx context.Context, u *domain.User) (domain.User, error) {
	if u == nil || u.ID == "" || u.Token == "" {
		return domain.User{}, errors.New("server returned an incomplete user")
	}
	if err := a.session.Save(ctx, *u); err != nil {
		return domain.User{}, err
	}
	return *u, nil
}

func (a *authService) Logout(ctx context.Context) error {
	return a.session.Clear(ctx)
}
