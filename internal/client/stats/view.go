// Package stats keeps the per-status counts of the signed-in user. The view
// refetches whenever the shared refresh epoch moves or the user changes.
package stats

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/jobtracker/internal/client/epoch"
	"github.com/dmitrijs2005/jobtracker/internal/common"
	"github.com/dmitrijs2005/jobtracker/internal/domain"
	"github.com/dmitrijs2005/jobtracker/internal/logging"
)

// EmptyMessage is shown instead of a table of zero counts.
const EmptyMessage = "No job statistics available yet."

type Fetcher interface {
	Stats(ctx context.Context, userID string) (domain.Stats, error)
}

type Snapshot struct {
	UserID       string
	Stats        domain.Stats
	Loading      bool
	Err          error
	RefreshEpoch uint64
}

type View struct {
	svc     Fetcher
	log     logging.Logger
	timeout time.Duration

	mu       sync.Mutex
	userID   string
	epoch    uint64
	seq      uint64
	stats    domain.Stats
	loading  bool
	err      error
	onChange func(Snapshot)

	wg sync.WaitGroup
}

func NewView(svc Fetcher, log logging.Logger, timeout time.Duration) *View {
	if log == nil {
		log = logging.Discard()
	}
	return &View{svc: svc, log: log, timeout: timeout}
}

// OnChange sets the function told about every settled fetch. It runs on the
// fetching goroutine.
func (v *View) OnChange(fn func(Snapshot)) {
	v.mu.Lock()
	v.onChange = fn
	v.mu.Unlock()
}

// Attach follows c until the returned function is called.
func (v *View) Attach(ctx context.Context, c *epoch.Counter) (detach func()) {
	return c.Subscribe(func(e uint64) { v.OnRefreshEpoch(ctx, e) })
}

// SetUser switches to userID. An empty id clears the view without a fetch.
func (v *View) SetUser(ctx context.Context, userID string) {
	v.mu.Lock()
	if userID == v.userID {
		v.mu.Unlock()
		return
	}
	v.userID = userID
	if userID == "" {
		v.seq++
		v.stats = nil
		v.loading = false
		v.err = nil
		v.mu.Unlock()
		return
	}
	v.mu.Unlock()

	v.Refresh(ctx)
}

// OnRefreshEpoch refetches when e differs from the last epoch seen.
func (v *View) OnRefreshEpoch(ctx context.Context, e uint64) {
	v.mu.Lock()
	if e == v.epoch {
		v.mu.Unlock()
		return
	}
	v.epoch = e
	v.mu.Unlock()

	v.Refresh(ctx)
}

// Refresh refetches for the current user. A newer fetch supersedes older ones.
func (v *View) Refresh(ctx context.Context) {
	v.mu.Lock()
	if v.userID == "" {
		v.mu.Unlock()
		return
	}
	v.seq++
	seq, userID := v.seq, v.userID
	v.loading = true
	v.wg.Add(1)
	v.mu.Unlock()

	go func() {
		defer v.wg.Done()

		fctx := context.WithoutCancel(ctx)
		cancel := func() {}
		if v.timeout > 0 {
			fctx, cancel = context.WithTimeout(fctx, v.timeout)
		}
		defer cancel()

		stats, err := v.svc.Stats(fctx, userID)
		v.settle(ctx, seq, stats, err)
	}()
}

func (v *View) settle(ctx context.Context, seq uint64, stats domain.Stats, err error) {
	v.mu.Lock()
	if seq != v.seq {
		v.mu.Unlock()
		v.log.Debug(ctx, "stale stats discarded", "seq", seq)
		return
	}
	v.loading = false
	if err != nil {
		v.err = fmt.Errorf("%w: %w", common.ErrFetchFailed, err)
	} else {
		v.stats = stats
		v.err = nil
	}
	snap := v.snapshotLocked()
	fn := v.onChange
	v.mu.Unlock()

	if err != nil {
		v.log.Warn(ctx, "stats fetch failed", "error", err)
	}
	if fn != nil {
		fn(snap)
	}
}

func (v *View) snapshotLocked() Snapshot {
	var stats domain.Stats
	if v.stats != nil {
		stats = make(domain.Stats, len(v.stats))
		for k, n := range v.stats {
			stats[k] = n
		}
	}
	return Snapshot{UserID: v.userID, Stats: stats, Loading: v.loading, Err: v.err, RefreshEpoch: v.epoch}
}

func (v *View) Snapshot() Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.snapshotLocked()
}

// Wait blocks until outstanding fetches have settled.
func (v *View) Wait() {
	v.wg.Wait()
}
