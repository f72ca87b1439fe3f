package client

import (
	"context"

	"github.com/dmitrijs2005/jobtracker/internal/domain"
)

// Client is the remote job service. userID is always the acting user.
type Client interface {
	Register(ctx context.Context, creds domain.Credentials) (*domain.User, error)
	Login(ctx context.Context, creds domain.Credentials) (*domain.User, error)

	ListAll(ctx context.Context, userID string) ([]domain.JobApplication, error)
	ListByTechStack(ctx context.Context, userID, term string) ([]domain.JobApplication, error)
	ListByStatus(ctx context.Context, userID string, status domain.Status) ([]domain.JobApplication, error)
	ListSortedByDeadline(ctx context.Context, userID string) ([]domain.JobApplication, error)

	Create(ctx context.Context, job domain.JobApplication) (*domain.JobApplication, error)
	Update(ctx context.Context, job domain.JobApplication) (*domain.JobApplication, error)
	Delete(ctx context.Context, userID, id string) error

	Stats(ctx context.Context, userID string) (domain.Stats, error)

	Close() error
}

// TokenSource supplies the bearer token of the current session.
type TokenSource interface {
	AccessToken() string
}
