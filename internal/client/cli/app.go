package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/jobtracker/internal/client/client"
	"github.com/dmitrijs2005/jobtracker/internal/client/config"
	"github.com/dmitrijs2005/jobtracker/internal/client/export"
	"github.com/dmitrijs2005/jobtracker/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/jobtracker/internal/client/session"
	"github.com/dmitrijs2005/jobtracker/internal/client/tracker"
	"github.com/dmitrijs2005/jobtracker/internal/domain"
	"github.com/dmitrijs2005/jobtracker/internal/logging"

	_ "modernc.org/sqlite"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// pinger reports whether the server is reachable.
type pinger interface {
	Ping(ctx context.Context) error
}

// uploader sends an export of jobs somewhere and returns where it landed.
type uploader interface {
	Upload(ctx context.Context, userID string, jobs []domain.JobApplication) (string, error)
}

type App struct {
	config  *config.Config
	db      *sql.DB
	api     client.Client
	probe   pinger
	tracker *tracker.Tracker
	reader  *bufio.Reader
	out     io.Writer

	// newUploader builds the S3 exporter on first use.
	newUploader func(ctx context.Context) (uploader, error)

	mu   sync.Mutex
	mode Mode
}

// NewApp opens the session store, restores a saved session and connects the
// API client and the health probe.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	db, err := client.InitDatabase(ctx, c.SessionDBPath)
	if err != nil {
		log.Printf("error initializing database: %s", err.Error())
		return nil, err
	}

	sess := session.New(metadata.NewSQLiteRepository(db))
	if err := sess.Init(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	api, err := client.NewHTTPClient(c.ServerURL, c.RequestTimeout, sess)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	probe, err := client.NewHealthProbe(c.HealthEndpointAddr)
	if err != nil {
		_ = api.Close()
		_ = db.Close()
		return nil, err
	}

	a := newApp(ctx, c, api, sess, bufio.NewReader(os.Stdin), os.Stdout,
		logging.NewTextLogger(os.Stderr, slog.LevelWarn))
	a.db = db
	a.probe = probe
	a.newUploader = func(ctx context.Context) (uploader, error) {
		if c.ExportBucket == "" {
			return nil, export.ErrNoBucket
		}
		s3c, err := export.NewS3Client(ctx, export.S3Config{
			Bucket:       c.ExportBucket,
			Region:       c.S3Region,
			BaseEndpoint: c.S3BaseEndpoint,
			AccessKey:    c.S3AccessKey,
			SecretKey:    c.S3SecretKey,
		})
		if err != nil {
			return nil, err
		}
		return export.NewS3Exporter(s3c, c.ExportBucket), nil
	}
	return a, nil
}

func newApp(ctx context.Context, c *config.Config, api client.Client, sess *session.State, r *bufio.Reader, w io.Writer, l logging.Logger) *App {
	a := &App{config: c, api: api, reader: r, out: w}
	a.tracker = tracker.New(ctx, api, sess, newNotifier(w), tracker.Options{
		DebounceWindow: c.DebounceWindow,
		RequestTimeout: c.RequestTimeout,
		Logger:         l,
	})
	a.newUploader = func(context.Context) (uploader, error) { return nil, export.ErrNoBucket }
	return a
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()

	if changed {
		log.Printf("Switched to %s mode\n", mode)
	}
}

func (a *App) Mode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

// Run restores the session view, starts the connectivity watcher and blocks
// in the REPL until the user exits or stdin closes.
func (a *App) Run(ctx context.Context) {
	defer a.Close()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	log.Println("Welcome to the job tracker CLI (type 'help' for commands)")

	if a.probe != nil {
		a.checkOnline(ctx)
		go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)
	}

	a.tracker.Start()
	if a.isLoggedIn() {
		a.waitAndPrintList()
	}

	runREPL(ctx, a, a.getStatus, bufio.NewScanner(a.reader))
}

// Close waits for in-flight fetches and releases the API client, the probe
// and the session store.
func (a *App) Close() {
	a.tracker.Close()

	var errs []error
	errs = append(errs, a.api.Close())
	if c, ok := a.probe.(io.Closer); ok {
		errs = append(errs, c.Close())
	}
	if a.db != nil {
		errs = append(errs, a.db.Close())
	}
	if err := errors.Join(errs...); err != nil {
		log.Printf("close: %s", err.Error())
	}
}

func (a *App) isLoggedIn() bool {
	_, ok := a.tracker.User()
	return ok
}

func (a *App) checkOnline(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	err := a.probe.Ping(ctx)
	cancel()

	if err != nil {
		a.setMode(ModeOffline)
	} else {
		a.setMode(ModeOnline)
	}
}

// StartOnlineStatusWatcher probes the server every interval until ctx is
// done and flips the mode when reachability changes.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) getStatus() string {
	var parts []string
	if u, ok := a.tracker.User(); ok {
		parts = append(parts, u.Email)
	}
	if m := a.Mode(); m != "" {
		parts = append(parts, string(m))
	}
	if len(parts) == 0 {
		return ""
	}
	return "(" + strings.Join(parts, " ") + ")"
}
