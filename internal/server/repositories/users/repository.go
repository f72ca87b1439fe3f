package users

import (
	"context"

	"github.com/dmitrijs2005/jobtracker/internal/server/models"
)

// Repository stores registered accounts. Emails are unique
// case-insensitively; Create reports a duplicate as common.ErrorConflict and
// GetUserByEmail reports a miss as common.ErrorNotFound.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}
