package cli

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/jobtracker/internal/client/client"
	"github.com/dmitrijs2005/jobtracker/internal/client/config"
	"github.com/dmitrijs2005/jobtracker/internal/client/list"
	"github.com/dmitrijs2005/jobtracker/internal/client/mutation"
	"github.com/dmitrijs2005/jobtracker/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/jobtracker/internal/client/session"
	"github.com/dmitrijs2005/jobtracker/internal/domain"
	"github.com/dmitrijs2005/jobtracker/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAPI is an in-memory client.Client.
type fakeAPI struct {
	mu        sync.Mutex
	jobs      []domain.JobApplication
	calls     []string
	loginErr  error
	createErr error
	updateErr error
	closed    bool
}

var _ client.Client = (*fakeAPI)(nil)

func (f *fakeAPI) record(c string) {
	f.mu.Lock()
	f.calls = append(f.calls, c)
	f.mu.Unlock()
}

func (f *fakeAPI) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeAPI) Register(_ context.Context, c domain.Credentials) (*domain.User, error) {
	f.record("register")
	return &domain.User{ID: "u-1", Name: c.Name, Email: c.Email, Token: "tok"}, nil
}

func (f *fakeAPI) Login(_ context.Context, c domain.Credentials) (*domain.User, error) {
	f.record("login")
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &domain.User{ID: "u-1", Name: "Ann", Email: c.Email, Token: "tok"}, nil
}

func (f *fakeAPI) snapshot(keep func(domain.JobApplication) bool) []domain.JobApplication {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []domain.JobApplication{}
	for _, j := range f.jobs {
		if keep(j) {
			out = append(out, j)
		}
	}
	return out
}

func (f *fakeAPI) ListAll(_ context.Context, _ string) ([]domain.JobApplication, error) {
	f.record("all")
	return f.snapshot(func(domain.JobApplication) bool { return true }), nil
}

func (f *fakeAPI) ListByTechStack(_ context.Context, _ string, term string) ([]domain.JobApplication, error) {
	f.record("tech:" + term)
	return f.snapshot(func(j domain.JobApplication) bool { return j.MatchesTechStack(term) }), nil
}

func (f *fakeAPI) ListByStatus(_ context.Context, _ string, s domain.Status) ([]domain.JobApplication, error) {
	f.record("status:" + string(s))
	return f.snapshot(func(j domain.JobApplication) bool { return j.Status == s }), nil
}

func (f *fakeAPI) ListSortedByDeadline(_ context.Context, _ string) ([]domain.JobApplication, error) {
	f.record("sorted")
	return f.snapshot(func(domain.JobApplication) bool { return true }), nil
}

func (f *fakeAPI) Create(_ context.Context, j domain.JobApplication) (*domain.JobApplication, error) {
	f.record("create")
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.mu.Lock()
	f.jobs = append(f.jobs, j)
	f.mu.Unlock()
	return &j, nil
}

func (f *fakeAPI) Update(_ context.Context, j domain.JobApplication) (*domain.JobApplication, error) {
	f.record("update")
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.jobs {
		if f.jobs[i].ID == j.ID {
			f.jobs[i] = j
			return &j, nil
		}
	}
	return nil, client.ErrNotFound
}

func (f *fakeAPI) Delete(_ context.Context, _ string, id string) error {
	f.record("delete")
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.jobs {
		if f.jobs[i].ID == id {
			f.jobs = append(f.jobs[:i], f.jobs[i+1:]...)
			return nil
		}
	}
	return client.ErrNotFound
}

func (f *fakeAPI) Stats(_ context.Context, _ string) (domain.Stats, error) {
	f.record("stats")
	f.mu.Lock()
	defer f.mu.Unlock()
	s := domain.Stats{}
	for _, j := range f.jobs {
		s[j.Status]++
	}
	return s, nil
}

func (f *fakeAPI) Close() error {
	f.closed = true
	return nil
}

type fakeUploader struct {
	userID string
	jobs   []domain.JobApplication
	err    error
}

func (u *fakeUploader) Upload(_ context.Context, userID string, jobs []domain.JobApplication) (string, error) {
	u.userID, u.jobs = userID, jobs
	return "exports/u-1/jobs.csv", u.err
}

type fakeProbe struct {
	mu  sync.Mutex
	err error
}

func (p *fakeProbe) Ping(context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

type testApp struct {
	*App
	api *fakeAPI
	out *bytes.Buffer
}

func newTestApp(t *testing.T, input string) *testApp {
	t.Helper()
	ctx := context.Background()

	db, err := client.InitDatabase(ctx, filepath.Join(t.TempDir(), "jobtracker.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	sess := session.New(metadata.NewSQLiteRepository(db))
	require.NoError(t, sess.Init(ctx))

	cfg := &config.Config{}
	cfg.LoadDefaults()

	api := &fakeAPI{}
	var out bytes.Buffer
	a := newApp(ctx, cfg, api, sess, bufio.NewReader(strings.NewReader(input)), &out, logging.Discard())
	t.Cleanup(a.tracker.Close)
	return &testApp{App: a, api: api, out: &out}
}

func stubCredentials(t *testing.T, email string, password []byte) {
	t.Helper()
	origST, origGP := getSimpleText, getPassword
	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) { return email, nil }
	getPassword = func(_ io.Writer) ([]byte, error) { return append([]byte(nil), password...), nil }
	t.Cleanup(func() {
		getSimpleText = origST
		getPassword = origGP
	})
}

// stubForm answers the form prompts in order and reports the defaults offered.
func stubForm(t *testing.T, answers ...string) *[]string {
	t.Helper()
	var defaults []string
	orig := getTextWithDefault
	getTextWithDefault = func(_ *bufio.Reader, _ string, def string, _ io.Writer) (string, error) {
		defaults = append(defaults, def)
		if len(answers) == 0 {
			return "", io.EOF
		}
		v := answers[0]
		answers = answers[1:]
		if v == "" {
			return def, nil
		}
		return v, nil
	}
	t.Cleanup(func() { getTextWithDefault = orig })
	return &defaults
}

func stubConfirm(t *testing.T, answers ...bool) {
	t.Helper()
	orig := confirm
	confirm = func(_ *bufio.Reader, _ string, _ io.Writer) (bool, error) {
		if len(answers) == 0 {
			return false, nil
		}
		v := answers[0]
		answers = answers[1:]
		return v, nil
	}
	t.Cleanup(func() { confirm = orig })
}

func loggedIn(t *testing.T, jobs ...domain.JobApplication) *testApp {
	t.Helper()
	ta := newTestApp(t, "")
	ta.api.jobs = jobs
	stubCredentials(t, "ann@example.com", []byte("pw"))
	require.NoError(t, ta.Login(context.Background()))
	return ta
}

func job(id, company string, status domain.Status, stack ...string) domain.JobApplication {
	return domain.JobApplication{
		ID: id, UserID: "u-1", Company: company, Position: "Engineer",
		TechStack: stack, AppliedDate: domain.NewDate(2024, time.May, 1), Status: status,
	}
}

func TestLogin_LoadsEmptyList(t *testing.T) {
	ta := loggedIn(t)

	assert.True(t, ta.isLoggedIn())
	assert.Contains(t, ta.out.String(), "Signed in as ann@example.com")
	assert.Contains(t, ta.out.String(), list.EmptyCollectionMessage)
	assert.Equal(t, "(ann@example.com)", ta.getStatus())
}

func TestLogin_Unauthorized(t *testing.T) {
	ta := newTestApp(t, "")
	ta.api.loginErr = client.ErrUnauthorized
	stubCredentials(t, "ann@example.com", []byte("bad"))

	err := ta.Login(context.Background())
	require.ErrorIs(t, err, client.ErrUnauthorized)
	assert.False(t, ta.isLoggedIn())
	assert.Contains(t, ta.out.String(), "invalid email or password")
}

func TestLogin_ServerUnavailableSwitchesOffline(t *testing.T) {
	ta := newTestApp(t, "")
	ta.api.loginErr = client.ErrUnavailable
	stubCredentials(t, "ann@example.com", []byte("pw"))

	require.Error(t, ta.Login(context.Background()))
	assert.Equal(t, ModeOffline, ta.Mode())
	assert.Contains(t, ta.out.String(), "server unavailable")
}

func TestRegister_SignsIn(t *testing.T) {
	ta := newTestApp(t, "")
	stubCredentials(t, "bob@example.com", []byte("pw"))

	require.NoError(t, ta.Register(context.Background()))
	assert.True(t, ta.isLoggedIn())
	assert.Contains(t, ta.api.Calls(), "register")
}

func TestCommands_RequireLogin(t *testing.T) {
	ta := newTestApp(t, "")
	ctx := context.Background()

	for _, fn := range []func() error{
		func() error { return ta.List(ctx) },
		func() error { return ta.Search(ctx, "go") },
		func() error { return ta.Add(ctx) },
		func() error { return ta.Delete(ctx, "1") },
		func() error { return ta.Stats(ctx) },
		func() error { return ta.Export(ctx, nil) },
	} {
		require.Error(t, fn())
	}
	assert.Contains(t, ta.out.String(), "Please log in first")
	assert.Empty(t, ta.api.Calls())
}

func TestQueryCommands_SelectEndpoint(t *testing.T) {
	ta := loggedIn(t,
		job("1", "Acme", domain.StatusApplied, "Go", "React"),
		job("2", "Globex", domain.StatusInterviewing, "Python"),
	)
	ctx := context.Background()

	require.NoError(t, ta.Search(ctx, "react"))
	assert.Contains(t, ta.out.String(), "Acme")
	assert.Equal(t, "react", ta.tracker.Query.Mode().Term())

	require.NoError(t, ta.Filter(ctx, "interviewing"))
	require.NoError(t, ta.Sort(ctx, ""))
	require.NoError(t, ta.Sort(ctx, "off"))
	require.NoError(t, ta.Filter(ctx, "Offer"))
	ta.out.Reset()
	require.NoError(t, ta.Filter(ctx, "Offer"))
	require.NoError(t, ta.Clear(ctx))

	assert.Contains(t, ta.out.String(), list.NoMatchesMessage)
	calls := ta.api.Calls()
	assert.Equal(t, []string{"login", "all", "tech:react", "status:Interviewing", "sorted", "all", "status:Offer", "all"},
		withoutStats(calls))

	require.Error(t, ta.Filter(ctx, "bogus"))
	assert.Contains(t, ta.out.String(), "Usage: status")
}

func withoutStats(calls []string) []string {
	var out []string
	for _, c := range calls {
		if c != "stats" {
			out = append(out, c)
		}
	}
	return out
}

func TestFilter_NoMatchesMessage(t *testing.T) {
	ta := loggedIn(t, job("1", "Acme", domain.StatusApplied))

	require.NoError(t, ta.Filter(context.Background(), "Rejected"))
	assert.Contains(t, ta.out.String(), list.NoMatchesMessage)
}

func TestAdd_CreatesAndRefreshes(t *testing.T) {
	ta := loggedIn(t)
	origToday := today
	today = func() domain.Date { return domain.NewDate(2024, time.June, 3) }
	t.Cleanup(func() { today = origToday })

	defaults := stubForm(t, "Acme", "Backend Engineer", "Go, Postgres", "", "2024-07-01", "")

	require.NoError(t, ta.Add(context.Background()))
	ta.tracker.Wait()

	assert.Equal(t, []string{"", "", "", "2024-06-03", "", "Applied"}, *defaults)
	require.Len(t, ta.api.jobs, 1)
	created := ta.api.jobs[0]
	assert.Equal(t, "Acme", created.Company)
	assert.Equal(t, []string{"Go", "Postgres"}, created.TechStack)
	assert.Equal(t, "2024-06-03", created.AppliedDate.String())
	assert.Equal(t, "u-1", created.UserID)
	assert.NotEmpty(t, created.ID)

	out := ta.out.String()
	assert.Contains(t, out, "[ok] "+mutation.MsgCreated)
	assert.Contains(t, out, "Backend Engineer")
	assert.Equal(t, 1, ta.tracker.Stats.Snapshot().Stats[domain.StatusApplied])
}

func TestAdd_ValidationKeepsForm(t *testing.T) {
	ta := loggedIn(t)
	stubForm(t, "", "Engineer", "Go", "2024-06-03", "", "Applied")

	err := ta.Add(context.Background())
	require.Error(t, err)
	assert.NotContains(t, ta.api.Calls(), "create")
	assert.Contains(t, ta.out.String(), "[error] ")
	assert.Equal(t, "Engineer", ta.tracker.Mutations.Form().Position)

	defaults := stubForm(t, "Acme", "", "", "", "", "")
	require.NoError(t, ta.Add(context.Background()))
	assert.Equal(t, "Engineer", (*defaults)[1])
}

func TestEdit_RetryAfterFailure(t *testing.T) {
	ta := loggedIn(t, job("1", "Acme", domain.StatusApplied, "Go"))
	ta.api.updateErr = errors.New("boom")
	stubForm(t, "", "", "", "", "", "Interviewing", "", "", "", "", "", "")
	stubConfirm(t, true)

	require.Error(t, ta.Edit(context.Background(), "1"))

	_, editing := ta.tracker.Mutations.Editing()
	assert.False(t, editing)
	assert.Equal(t, 2, countOf(ta.api.Calls(), "update"))
	assert.Contains(t, ta.out.String(), "[error] "+mutation.MsgUpdateFailed)
	assert.Equal(t, domain.StatusApplied, ta.api.jobs[0].Status)
}

func TestEdit_Succeeds(t *testing.T) {
	ta := loggedIn(t, job("1", "Acme", domain.StatusApplied, "Go"))
	defaults := stubForm(t, "", "", "", "", "", "Offer")

	require.NoError(t, ta.Edit(context.Background(), "1"))

	assert.Equal(t, []string{"Acme", "Engineer", "Go", "2024-05-01", "", "Applied"}, *defaults)
	assert.Equal(t, domain.StatusOffer, ta.api.jobs[0].Status)
	assert.Contains(t, ta.out.String(), "[ok] "+mutation.MsgUpdated)
	_, editing := ta.tracker.Mutations.Editing()
	assert.False(t, editing)
}

func TestEdit_UnknownID(t *testing.T) {
	ta := loggedIn(t)
	require.Error(t, ta.Edit(context.Background(), "nope"))
	assert.Contains(t, ta.out.String(), `No job application "nope"`)
}

func countOf(calls []string, c string) int {
	n := 0
	for _, x := range calls {
		if x == c {
			n++
		}
	}
	return n
}

func TestDelete_ConfirmAndCancel(t *testing.T) {
	ta := loggedIn(t, job("1", "Acme", domain.StatusApplied), job("2", "Globex", domain.StatusOffer))
	ctx := context.Background()

	stubConfirm(t, false, true)

	require.NoError(t, ta.Delete(ctx, "1"))
	assert.Contains(t, ta.out.String(), "[info] "+mutation.MsgDeleteCancelled)
	assert.NotContains(t, ta.api.Calls(), "delete")
	_, pending := ta.tracker.Mutations.PendingDelete()
	assert.False(t, pending)

	require.NoError(t, ta.Delete(ctx, "1"))
	ta.tracker.Wait()
	assert.Contains(t, ta.out.String(), "[ok] "+mutation.MsgDeleted)
	require.Len(t, ta.api.jobs, 1)
	_, found := ta.tracker.List.Find("1")
	assert.False(t, found)
}

func TestShowAndStats(t *testing.T) {
	ta := loggedIn(t, job("1", "Acme", domain.StatusApplied, "Go"), job("2", "Globex", domain.StatusApplied))
	ctx := context.Background()

	require.NoError(t, ta.Show(ctx, "1"))
	assert.Contains(t, ta.out.String(), "Company:")
	assert.Contains(t, ta.out.String(), "Deadline:   -")

	ta.out.Reset()
	require.NoError(t, ta.Stats(ctx))
	out := ta.out.String()
	assert.Contains(t, out, "Applied       2")
	assert.Contains(t, out, "Total         2")
}

func TestExport_FileAndS3(t *testing.T) {
	ta := loggedIn(t, job("1", "Acme", domain.StatusApplied, "Go"))
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, ta.Export(ctx, []string{"file", path}))
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "Acme")

	require.Error(t, ta.Export(ctx, []string{"s3"}))
	assert.Contains(t, ta.out.String(), "Export failed")

	up := &fakeUploader{}
	ta.config.ExportBucket = "bucket"
	ta.newUploader = func(context.Context) (uploader, error) { return up, nil }
	require.NoError(t, ta.Export(ctx, []string{"s3"}))
	assert.Equal(t, "u-1", up.userID)
	assert.Len(t, up.jobs, 1)
	assert.Contains(t, ta.out.String(), "s3://bucket/exports/u-1/jobs.csv")

	require.Error(t, ta.Export(ctx, []string{"ftp"}))
}

func TestLogout_ClearsView(t *testing.T) {
	ta := loggedIn(t, job("1", "Acme", domain.StatusApplied))

	require.NoError(t, ta.Logout(context.Background()))
	assert.False(t, ta.isLoggedIn())
	assert.Empty(t, ta.tracker.List.Snapshot().Jobs)
	assert.Empty(t, ta.tracker.Stats.Snapshot().UserID)
}

func TestSetMode_ChangesAndLogsOnce(t *testing.T) {
	app := &App{}
	var buf bytes.Buffer

	old := log.Default().Writer()
	defer log.SetOutput(old)
	log.SetOutput(&buf)

	app.setMode(ModeOnline)
	require.Equal(t, ModeOnline, app.Mode())
	require.NotEmpty(t, buf.String())

	buf.Reset()
	app.setMode(ModeOnline)
	require.Empty(t, buf.String())

	app.setMode(ModeOffline)
	require.Equal(t, ModeOffline, app.Mode())
	require.NotEmpty(t, buf.String())
}

func TestStartOnlineStatusWatcher_FlipsMode(t *testing.T) {
	log.SetOutput(io.Discard)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	probe := &fakeProbe{}
	app := &App{probe: probe}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		app.StartOnlineStatusWatcher(ctx, 5*time.Millisecond)
		close(done)
	}()

	require.Eventually(t, func() bool { return app.Mode() == ModeOnline }, time.Second, 5*time.Millisecond)

	probe.mu.Lock()
	probe.err = client.ErrUnavailable
	probe.mu.Unlock()
	require.Eventually(t, func() bool { return app.Mode() == ModeOffline }, time.Second, 5*time.Millisecond)

	cancel()
	<-done
}

func TestRun_RestoredSessionAndExit(t *testing.T) {
	log.SetOutput(io.Discard)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	ta := newTestApp(t, "list\nexit\n")
	ta.api.jobs = []domain.JobApplication{job("1", "Acme", domain.StatusApplied)}
	_, err := ta.tracker.Login(context.Background(), "ann@example.com", []byte("pw"))
	require.NoError(t, err)
	ta.tracker.Wait()
	ta.probe = &fakeProbe{}

	captureOutput(t)
	ta.Run(context.Background())

	assert.Equal(t, ModeOnline, ta.Mode())
	assert.Contains(t, ta.out.String(), "Acme")
	assert.True(t, ta.api.closed)
}
