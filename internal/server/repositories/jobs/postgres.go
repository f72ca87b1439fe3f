package jobs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/jobtracker/internal/common"
	"github.com/dmitrijs2005/jobtracker/internal/dbx"
	"github.com/dmitrijs2005/jobtracker/internal/domain"
	"github.com/dmitrijs2005/jobtracker/internal/server/models"
)

const selectColumns = `SELECT id, user_id, company, position, tech_stack, applied_date, deadline, status FROM jobs`

// PostgresRepository implements job storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, job *domain.JobApplication) error {
	query := `
		INSERT INTO jobs (id, user_id, company, position, tech_stack, applied_date, deadline, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO NOTHING
	`
	res, err := r.db.ExecContext(ctx, query,
		job.ID, job.UserID, job.Company, job.Position, joinTechStack(job.TechStack),
		job.AppliedDate, deadlineArg(job), string(job.Status))
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOne(res, common.ErrorConflict)
}

func (r *PostgresRepository) Update(ctx context.Context, job *domain.JobApplication) error {
	query := `
		UPDATE jobs SET company = $3, position = $4, tech_stack = $5,
			applied_date = $6, deadline = $7, status = $8
		WHERE id = $1 AND user_id = $2
	`
	res, err := r.db.ExecContext(ctx, query,
		job.ID, job.UserID, job.Company, job.Position, joinTechStack(job.TechStack),
		job.AppliedDate, deadlineArg(job), string(job.Status))
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOne(res, common.ErrorNotFound)
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM jobs WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOne(res, common.ErrorNotFound)
}

func (r *PostgresRepository) Get(ctx context.Context, userID, id string) (*domain.JobApplication, error) {
	row := r.db.QueryRowContext(ctx, selectColumns+` WHERE id = $1 AND user_id = $2`, id, userID)

	job, err := scanJob(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return job, nil
}

// List filters in SQL and then re-checks the tech-stack term per entry, since
// ILIKE over the joined column can match across an entry boundary.
func (r *PostgresRepository) List(ctx context.Context, userID string, q models.JobQuery) ([]domain.JobApplication, error) {
	var sb strings.Builder
	sb.WriteString(selectColumns)
	sb.WriteString(` WHERE user_id = $1`)
	args := []any{userID}

	term := strings.TrimSpace(q.TechStack)
	if term != "" {
		args = append(args, "%"+escapeLike(term)+"%")
		fmt.Fprintf(&sb, ` AND tech_stack ILIKE $%d`, len(args))
	}
	if q.Status != "" {
		args = append(args, string(q.Status))
		fmt.Fprintf(&sb, ` AND status = $%d`, len(args))
	}
	if q.SortByDeadline {
		sb.WriteString(` ORDER BY deadline ASC NULLS LAST, applied_date ASC, created_at ASC`)
	} else {
		sb.WriteString(` ORDER BY created_at ASC, id ASC`)
	}

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select jobs: %w", err)
	}
	defer rows.Close()

	result := make([]domain.JobApplication, 0)
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		if term != "" && !job.MatchesTechStack(term) {
			continue
		}
		result = append(result, *job)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) CountByStatus(ctx context.Context, userID string) (domain.Stats, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT status, COUNT(*) FROM jobs WHERE user_id = $1 GROUP BY status`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count jobs: %w", err)
	}
	defer rows.Close()

	stats := domain.Stats{}
	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		if n > 0 {
			stats[domain.Status(status)] = n
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return stats, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanJob(s scanner) (*domain.JobApplication, error) {
	var (
		job       domain.JobApplication
		techStack string
		deadline  domain.Date
		status    string
	)
	if err := s.Scan(&job.ID, &job.UserID, &job.Company, &job.Position, &techStack,
		&job.AppliedDate, &deadline, &status); err != nil {
		return nil, err
	}
	job.TechStack = splitTechStack(techStack)
	job.Status = domain.Status(status)
	if !deadline.IsZero() {
		job.Deadline = &deadline
	}
	return &job, nil
}

func deadlineArg(job *domain.JobApplication) any {
	if !job.HasDeadline() {
		return nil
	}
	return *job.Deadline
}

func expectOne(res sql.Result, none error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	switch n {
	case 1:
		return nil
	case 0:
		return none
	default:
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
