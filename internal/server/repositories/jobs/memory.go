package jobs

import (
	"context"
	"sort"
	"sync"

	"github.com/dmitrijs2005/jobtracker/internal/common"
	"github.com/dmitrijs2005/jobtracker/internal/domain"
	"github.com/dmitrijs2005/jobtracker/internal/server/models"
)

// MemoryRepository keeps applications in insertion order in process memory.
type MemoryRepository struct {
	mu    sync.RWMutex
	order []string
	byID  map[string]domain.JobApplication
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byID: make(map[string]domain.JobApplication)}
}

func (r *MemoryRepository) Create(_ context.Context, job *domain.JobApplication) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[job.ID]; ok {
		return common.ErrorConflict
	}
	r.byID[job.ID] = clone(*job)
	r.order = append(r.order, job.ID)
	return nil
}

func (r *MemoryRepository) Update(_ context.Context, job *domain.JobApplication) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.byID[job.ID]
	if !ok || cur.UserID != job.UserID {
		return common.ErrorNotFound
	}
	r.byID[job.ID] = clone(*job)
	return nil
}

func (r *MemoryRepository) Delete(_ context.Context, userID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.byID[id]
	if !ok || cur.UserID != userID {
		return common.ErrorNotFound
	}
	delete(r.byID, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *MemoryRepository) Get(_ context.Context, userID, id string) (*domain.JobApplication, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cur, ok := r.byID[id]
	if !ok || cur.UserID != userID {
		return nil, common.ErrorNotFound
	}
	job := clone(cur)
	return &job, nil
}

func (r *MemoryRepository) List(_ context.Context, userID string, q models.JobQuery) ([]domain.JobApplication, error) {
	r.mu.RLock()
	out := make([]domain.JobApplication, 0)
	for _, id := range r.order {
		job := r.byID[id]
		if job.UserID != userID {
			continue
		}
		if q.Status != "" && job.Status != q.Status {
			continue
		}
		if !job.MatchesTechStack(q.TechStack) {
			continue
		}
		out = append(out, clone(job))
	}
	r.mu.RUnlock()

	if q.SortByDeadline {
		sort.SliceStable(out, func(i, j int) bool { return deadlineLess(out[i], out[j]) })
	}
	return out, nil
}

func (r *MemoryRepository) CountByStatus(_ context.Context, userID string) (domain.Stats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := domain.Stats{}
	for _, job := range r.byID {
		if job.UserID == userID {
			stats[job.Status]++
		}
	}
	return stats, nil
}

// deadlineLess orders by deadline ascending with missing deadlines last, then
// by applied date.
func deadlineLess(a, b domain.JobApplication) bool {
	ad, bd := a.HasDeadline(), b.HasDeadline()
	switch {
	case ad && bd:
		if *a.Deadline != *b.Deadline {
			return a.Deadline.Before(*b.Deadline)
		}
	case ad != bd:
		return ad
	}
	return a.AppliedDate.Before(b.AppliedDate)
}

func clone(j domain.JobApplication) domain.JobApplication {
	j.TechStack = append([]string{}, j.TechStack...)
	if j.Deadline != nil {
		d := *j.Deadline
		j.Deadline = &d
	}
	return j
}
