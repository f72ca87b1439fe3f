package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/jobtracker/internal/dbx"
	"github.com/dmitrijs2005/jobtracker/internal/server/repositories/jobs"
	"github.com/dmitrijs2005/jobtracker/internal/server/repositories/users"
)

// InMemoryRepositoryManager hands out the same process-local repositories
// whatever DBTX is passed; transactions are not isolated.
type InMemoryRepositoryManager struct {
	users *users.MemoryRepository
	jobs  *jobs.MemoryRepository
}

func NewInMemoryRepositoryManager() *InMemoryRepositoryManager {
	return &InMemoryRepositoryManager{
		users: users.NewMemoryRepository(),
		jobs:  jobs.NewMemoryRepository(),
	}
}

func (m *InMemoryRepositoryManager) RunMigrations(context.Context, *sql.DB) error { return nil }

func (m *InMemoryRepositoryManager) Users(dbx.DBTX) users.Repository { return m.users }

func (m *InMemoryRepositoryManager) Jobs(dbx.DBTX) jobs.Repository { return m.jobs }
