// Package list keeps the visible job collection in step with the active
// query. Each query change or refresh issues exactly one request tagged with
// a fetch epoch; a response is applied only if its epoch is still the latest
// issued, so results land in issue order whatever order the network
// completes them in.
package list

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/jobtracker/internal/client/query"
	"github.com/dmitrijs2005/jobtracker/internal/common"
	"github.com/dmitrijs2005/jobtracker/internal/domain"
	"github.com/dmitrijs2005/jobtracker/internal/logging"
)

const (
	EmptyCollectionMessage = "You haven't added any job applications yet."
	NoMatchesMessage       = "No job applications found matching your criteria."
)

// Fetcher is the read side of the remote job service.
type Fetcher interface {
	ListAll(ctx context.Context, userID string) ([]domain.JobApplication, error)
	ListByTechStack(ctx context.Context, userID, term string) ([]domain.JobApplication, error)
	ListByStatus(ctx context.Context, userID string, status domain.Status) ([]domain.JobApplication, error)
	ListSortedByDeadline(ctx context.Context, userID string) ([]domain.JobApplication, error)
}

// UserSource yields the acting user's id, empty when signed out.
type UserSource interface {
	UserID() string
}

// Snapshot is a consistent copy of the controller's state.
type Snapshot struct {
	Mode           query.Mode
	Jobs           []domain.JobApplication
	Fetching       bool
	InitialLoading bool
	Err            error
	Epoch          uint64

	version uint64
}

// EmptyMessage is what to show instead of an empty list, or "" when there is
// something to show or a load is still pending.
func (s Snapshot) EmptyMessage() string {
	if len(s.Jobs) > 0 || s.InitialLoading {
		return ""
	}
	if s.Mode.IsAll() {
		return EmptyCollectionMessage
	}
	return NoMatchesMessage
}

type Option func(*Controller)

func WithLogger(l logging.Logger) Option {
	return func(c *Controller) { c.log = l }
}

// WithRequestTimeout bounds every fetch. Zero means no bound.
func WithRequestTimeout(d time.Duration) Option {
	return func(c *Controller) { c.timeout = d }
}

type Controller struct {
	svc     Fetcher
	users   UserSource
	log     logging.Logger
	timeout time.Duration

	mu             sync.Mutex
	mode           query.Mode
	epoch          uint64
	started        bool
	jobs           []domain.JobApplication
	fetching       bool
	initialLoading bool
	err            error
	stale          int
	version        uint64

	notifyMu  sync.Mutex
	published uint64
	nextSub   int
	listeners map[int]func(Snapshot)

	wg sync.WaitGroup
}

func NewController(svc Fetcher, users UserSource, opts ...Option) *Controller {
	c := &Controller{
		svc:       svc,
		users:     users,
		log:       logging.Discard(),
		listeners: make(map[int]func(Snapshot)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// OnQueryModeChanged adopts mode and fetches it.
func (c *Controller) OnQueryModeChanged(ctx context.Context, mode query.Mode) {
	c.issue(ctx, &mode)
}

// Refresh fetches again under the current mode.
func (c *Controller) Refresh(ctx context.Context) {
	c.issue(ctx, nil)
}

func (c *Controller) issue(ctx context.Context, mode *query.Mode) {
	c.mu.Lock()
	if mode != nil {
		c.mode = *mode
	}
	c.epoch++
	e, m := c.epoch, c.mode
	userID := c.users.UserID()
	c.fetching = true
	if !c.started {
		c.started = true
		c.initialLoading = true
	}
	snap := c.snapshotLocked()
	c.wg.Add(1)
	c.mu.Unlock()

	c.log.Debug(ctx, "fetch issued", "epoch", e, "mode", m.String())
	c.publish(snap)

	go func() {
		defer c.wg.Done()

		fctx, cancel := c.fetchContext(ctx)
		defer cancel()

		jobs, err := c.fetch(fctx, m, userID)
		_ = c.apply(ctx, e, jobs, err)
	}()
}

// fetchContext detaches the request from the caller's cancellation; a
// superseded request is suppressed, not cancelled.
func (c *Controller) fetchContext(ctx context.Context) (context.Context, context.CancelFunc) {
	base := context.WithoutCancel(ctx)
	if c.timeout > 0 {
		return context.WithTimeout(base, c.timeout)
	}
	return context.WithCancel(base)
}

func (c *Controller) fetch(ctx context.Context, m query.Mode, userID string) ([]domain.JobApplication, error) {
	if userID == "" {
		return nil, common.ErrNotLoggedIn
	}
	switch m.Kind() {
	case query.KindTechStack:
		return c.svc.ListByTechStack(ctx, userID, m.Term())
	case query.KindStatus:
		return c.svc.ListByStatus(ctx, userID, m.Status())
	case query.KindSortedByDeadline:
		return c.svc.ListSortedByDeadline(ctx, userID)
	default:
		return c.svc.ListAll(ctx, userID)
	}
}

// apply settles the response of epoch e. It returns common.ErrStaleResponse
// when a newer request has been issued since.
func (c *Controller) apply(ctx context.Context, e uint64, jobs []domain.JobApplication, fetchErr error) error {
	c.mu.Lock()
	if e != c.epoch {
		c.stale++
		current := c.epoch
		c.mu.Unlock()
		c.log.Debug(ctx, "stale response discarded", "epoch", e, "current", current)
		return common.ErrStaleResponse
	}

	c.fetching = false
	c.initialLoading = false
	if fetchErr != nil {
		c.err = fmt.Errorf("%w: %w", common.ErrFetchFailed, fetchErr)
	} else {
		if jobs == nil {
			jobs = []domain.JobApplication{}
		}
		c.jobs = jobs
		c.err = nil
	}
	snap := c.snapshotLocked()
	c.mu.Unlock()

	if fetchErr != nil {
		c.log.Warn(ctx, "fetch failed", "epoch", e, "error", fetchErr)
	}
	c.publish(snap)
	return nil
}

// Reset returns to the signed-out state: All mode, empty view, and any
// in-flight response invalidated.
func (c *Controller) Reset() {
	c.mu.Lock()
	c.epoch++
	c.mode = query.All()
	c.started = false
	c.jobs = nil
	c.fetching = false
	c.initialLoading = false
	c.err = nil
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.publish(snap)
}

// snapshotLocked copies the state and stamps a new version; c.mu must be held.
func (c *Controller) snapshotLocked() Snapshot {
	c.version++
	return c.copyLocked()
}

func (c *Controller) copyLocked() Snapshot {
	var jobs []domain.JobApplication
	if c.jobs != nil {
		jobs = make([]domain.JobApplication, len(c.jobs))
		copy(jobs, c.jobs)
	}
	return Snapshot{
		Mode:           c.mode,
		Jobs:           jobs,
		Fetching:       c.fetching,
		InitialLoading: c.initialLoading,
		Err:            c.err,
		Epoch:          c.epoch,
		version:        c.version,
	}
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.copyLocked()
}

// Find looks id up in the current view.
func (c *Controller) Find(id string) (domain.JobApplication, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, j := range c.jobs {
		if j.ID == id {
			return j, true
		}
	}
	return domain.JobApplication{}, false
}

// StaleDiscarded counts responses dropped because they were superseded.
func (c *Controller) StaleDiscarded() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stale
}

// Subscribe registers fn to receive every state change in order. fn must not
// call back into the Controller.
func (c *Controller) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	c.notifyMu.Lock()
	id := c.nextSub
	c.nextSub++
	c.listeners[id] = fn
	c.notifyMu.Unlock()

	return func() {
		c.notifyMu.Lock()
		delete(c.listeners, id)
		c.notifyMu.Unlock()
	}
}

// publish delivers snap unless a newer snapshot already went out.
func (c *Controller) publish(snap Snapshot) {
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()

	if snap.version <= c.published {
		return
	}
	c.published = snap.version
	for _, fn := range c.listeners {
		fn(snap)
	}
}

// Wait blocks until every issued fetch has settled.
func (c *Controller) Wait() {
	c.wg.Wait()
}
