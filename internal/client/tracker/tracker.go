// Package tracker wires the client-side components of one signed-in session:
// query state, list controller, mutation coordinator, stats view and the
// shared refresh epoch.
package tracker

import (
	"context"
	"time"

	"github.com/dmitrijs2005/jobtracker/internal/client/client"
	"github.com/dmitrijs2005/jobtracker/internal/client/epoch"
	"github.com/dmitrijs2005/jobtracker/internal/client/list"
	"github.com/dmitrijs2005/jobtracker/internal/client/mutation"
	"github.com/dmitrijs2005/jobtracker/internal/client/query"
	"github.com/dmitrijs2005/jobtracker/internal/client/services"
	"github.com/dmitrijs2005/jobtracker/internal/client/session"
	"github.com/dmitrijs2005/jobtracker/internal/client/stats"
	"github.com/dmitrijs2005/jobtracker/internal/domain"
	"github.com/dmitrijs2005/jobtracker/internal/logging"
)

type Options struct {
	DebounceWindow time.Duration
	RequestTimeout time.Duration
	Logger         logging.Logger
}

type Tracker struct {
	Query     *query.State
	List      *list.Controller
	Mutations *mutation.Coordinator
	Stats     *stats.View
	Refresh   *epoch.Counter

	session *session.State
	auth    services.AuthService
	log     logging.Logger
	ctx     context.Context
	detach  func()
}

// New builds the components around svc and sess. ctx bounds the background
// work started by query changes and refresh-epoch bumps.
func New(ctx context.Context, svc client.Client, sess *session.State, notifier mutation.Notifier, opts Options) *Tracker {
	log := opts.Logger
	if log == nil {
		log = logging.Discard()
	}
	window := opts.DebounceWindow
	if window <= 0 {
		window = query.DefaultDebounceWindow
	}

	t := &Tracker{session: sess, log: log, ctx: ctx}
	t.Refresh = epoch.NewCounter()
	t.List = list.NewController(svc, sess,
		list.WithLogger(log.With("component", "list")),
		list.WithRequestTimeout(opts.RequestTimeout))
	t.Query = query.NewState(window, t.onModeChanged)
	t.Mutations = mutation.NewCoordinator(svc, sess, t.List, t.Refresh, notifier, log.With("component", "mutation"))
	t.Stats = stats.NewView(svc, log.With("component", "stats"), opts.RequestTimeout)
	t.detach = t.Stats.Attach(ctx, t.Refresh)
	t.auth = services.NewAuthService(svc, sess)
	return t
}

func (t *Tracker) onModeChanged(m query.Mode) {
	if !t.session.LoggedIn() {
		return
	}
	t.List.OnQueryModeChanged(t.ctx, m)
}

// Start loads the list and stats if a session was restored.
func (t *Tracker) Start() {
	if u, ok := t.session.User(); ok {
		t.begin(u)
	}
}

func (t *Tracker) begin(u domain.User) {
	t.log.Info(t.ctx, "session started", "user", u.ID)
	t.List.OnQueryModeChanged(t.ctx, t.Query.Mode())
	t.Stats.SetUser(t.ctx, u.ID)
}

func (t *Tracker) Login(ctx context.Context, email string, password []byte) (domain.User, error) {
	u, err := t.auth.Login(ctx, email, password)
	if err != nil {
		return domain.User{}, err
	}
	t.begin(u)
	return u, nil
}

func (t *Tracker) Register(ctx context.Context, name, email string, password []byte) (domain.User, error) {
	u, err := t.auth.Register(ctx, name, email, password)
	if err != nil {
		return domain.User{}, err
	}
	t.begin(u)
	return u, nil
}

// Logout clears the session, the view, the stats and any edit or pending
// delete. The local state is cleared even if the session store fails.
func (t *Tracker) Logout(ctx context.Context) error {
	err := t.auth.Logout(ctx)
	t.Query.Reset()
	t.List.Reset()
	t.Stats.SetUser(ctx, "")
	t.Mutations.Reset()
	t.log.Info(ctx, "session ended")
	return err
}

func (t *Tracker) User() (domain.User, bool) {
	return t.session.User()
}

// Wait blocks until outstanding list and stats fetches have settled.
func (t *Tracker) Wait() {
	t.List.Wait()
	t.Stats.Wait()
}

// Close stops following the refresh epoch and waits for in-flight fetches.
func (t *Tracker) Close() {
	t.detach()
	t.Wait()
}
