package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/jobtracker/internal/common"
	"github.com/dmitrijs2005/jobtracker/internal/dbx"
	"github.com/dmitrijs2005/jobtracker/internal/domain"
	"github.com/dmitrijs2005/jobtracker/internal/logging"
	"github.com/dmitrijs2005/jobtracker/internal/server/cache"
	"github.com/dmitrijs2005/jobtracker/internal/server/models"
	"github.com/dmitrijs2005/jobtracker/internal/server/repositories/repomanager"
)

// JobService manages one user's job applications. Every mutation drops the
// user's cached stats.
type JobService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	stats       cache.StatsCache
	statsTTL    time.Duration
	logger      logging.Logger
}

func NewJobService(db *sql.DB, m repomanager.RepositoryManager, c cache.StatsCache, statsTTL time.Duration, l logging.Logger) *JobService {
	return &JobService{
		db:          db,
		repomanager: m,
		stats:       c,
		statsTTL:    statsTTL,
		logger:      l.With("module", "jobs"),
	}
}

func (s *JobService) List(ctx context.Context, userID string, q models.JobQuery) ([]domain.JobApplication, error) {
	jobs, err := s.repomanager.Jobs(conn(s.db)).List(ctx, userID, q)
	if err != nil {
		s.logger.Error(ctx, "list jobs failed", "user_id", userID, "error", err)
		return nil, common.ErrorInternal
	}
	return jobs, nil
}

// Create stores job for userID. The id comes from the client; a duplicate id
// yields common.ErrorConflict.
func (s *JobService) Create(ctx context.Context, userID string, job domain.JobApplication) (*domain.JobApplication, error) {
	if job.UserID != "" && job.UserID != userID {
		return nil, common.ErrorForbidden
	}
	job.UserID = userID
	if err := normalize(&job); err != nil {
		return nil, err
	}
	if strings.TrimSpace(job.ID) == "" {
		return nil, fmt.Errorf("%w: id is required", common.ErrValidationFailed)
	}

	if err := s.repomanager.Jobs(conn(s.db)).Create(ctx, &job); err != nil {
		return nil, s.repoError(ctx, "create", err)
	}
	s.invalidate(ctx, userID)
	return &job, nil
}

// Update replaces the job with the given id. A job owned by someone else is
// reported as common.ErrorNotFound.
func (s *JobService) Update(ctx context.Context, userID, id string, job domain.JobApplication) (*domain.JobApplication, error) {
	if job.ID != "" && job.ID != id {
		return nil, fmt.Errorf("%w: id in body does not match path", common.ErrValidationFailed)
	}
	if job.UserID != "" && job.UserID != userID {
		return nil, common.ErrorForbidden
	}
	job.ID, job.UserID = id, userID
	if err := normalize(&job); err != nil {
		return nil, err
	}

	err := inTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Jobs(tx)
		if _, err := repo.Get(ctx, userID, id); err != nil {
			return err
		}
		return repo.Update(ctx, &job)
	})
	if err != nil {
		return nil, s.repoError(ctx, "update", err)
	}
	s.invalidate(ctx, userID)
	return &job, nil
}

func (s *JobService) Delete(ctx context.Context, userID, id string) error {
	if err := s.repomanager.Jobs(conn(s.db)).Delete(ctx, userID, id); err != nil {
		return s.repoError(ctx, "delete", err)
	}
	s.invalidate(ctx, userID)
	return nil
}

// Stats returns counts by status, served from the cache when possible.
// Cache failures degrade to a direct count.
func (s *JobService) Stats(ctx context.Context, userID string) (domain.Stats, error) {
	cached, err := s.stats.Get(ctx, userID)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, cache.ErrNotFound) {
		s.logger.Warn(ctx, "stats cache read failed", "user_id", userID, "error", err)
	}

	stats, err := s.repomanager.Jobs(conn(s.db)).CountByStatus(ctx, userID)
	if err != nil {
		s.logger.Error(ctx, "count jobs failed", "user_id", userID, "error", err)
		return nil, common.ErrorInternal
	}

	if err := s.stats.Set(ctx, userID, stats, s.statsTTL); err != nil {
		s.logger.Warn(ctx, "stats cache write failed", "user_id", userID, "error", err)
	}
	return stats, nil
}

func (s *JobService) invalidate(ctx context.Context, userID string) {
	if err := s.stats.Delete(ctx, userID); err != nil {
		s.logger.Warn(ctx, "stats cache invalidation failed", "user_id", userID, "error", err)
	}
}

func (s *JobService) repoError(ctx context.Context, op string, err error) error {
	switch {
	case errors.Is(err, common.ErrorNotFound):
		return common.ErrorNotFound
	case errors.Is(err, common.ErrorConflict):
		return common.ErrorConflict
	default:
		s.logger.Error(ctx, op+" job failed", "error", err)
		return common.ErrorInternal
	}
}

// normalize trims text fields, defaults the status and checks required fields.
func normalize(job *domain.JobApplication) error {
	job.Company = strings.TrimSpace(job.Company)
	job.Position = strings.TrimSpace(job.Position)

	stack := make([]string, 0, len(job.TechStack))
	for _, t := range job.TechStack {
		if t = strings.TrimSpace(t); t != "" {
			stack = append(stack, t)
		}
	}
	job.TechStack = stack

	if job.Deadline != nil && job.Deadline.IsZero() {
		job.Deadline = nil
	}
	if job.Status == "" {
		job.Status = domain.StatusApplied
	}

	var missing []string
	if job.Company == "" {
		missing = append(missing, "company")
	}
	if job.Position == "" {
		missing = append(missing, "position")
	}
	if job.AppliedDate.IsZero() {
		missing = append(missing, "appliedDate")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", common.ErrValidationFailed, strings.Join(missing, ", "))
	}
	if !job.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", common.ErrValidationFailed, job.Status)
	}
	return nil
}
