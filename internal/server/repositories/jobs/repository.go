// Package jobs stores job applications per user. Every operation is scoped by
// user id: a row owned by someone else behaves as if it did not exist.
package jobs

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/jobtracker/internal/domain"
	"github.com/dmitrijs2005/jobtracker/internal/server/models"
)

type Repository interface {
	// Create inserts job; an existing id yields common.ErrorConflict.
	Create(ctx context.Context, job *domain.JobApplication) error
	// Update replaces the mutable fields of the user's job or returns common.ErrorNotFound.
	Update(ctx context.Context, job *domain.JobApplication) error
	Delete(ctx context.Context, userID, id string) error
	Get(ctx context.Context, userID, id string) (*domain.JobApplication, error)
	List(ctx context.Context, userID string, q models.JobQuery) ([]domain.JobApplication, error)
	// CountByStatus returns only statuses with at least one application.
	CountByStatus(ctx context.Context, userID string) (domain.Stats, error)
}

func joinTechStack(stack []string) string {
	return strings.Join(stack, ",")
}

func splitTechStack(s string) []string {
	return domain.ParseTechStack(s)
}
