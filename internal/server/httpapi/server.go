// Package httpapi serves the job tracker REST API under /api.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/jobtracker/internal/domain"
	"github.com/dmitrijs2005/jobtracker/internal/logging"
	"github.com/dmitrijs2005/jobtracker/internal/server/models"
)

const (
	shutdownTimeout = 5 * time.Second
	maxBodyBytes    = 1 << 20
)

// UserService is what the auth endpoints and the bearer middleware need.
type UserService interface {
	Register(ctx context.Context, creds domain.Credentials) (*domain.User, error)
	Login(ctx context.Context, creds domain.Credentials) (*domain.User, error)
	Authenticate(token string) (string, error)
}

// JobService is what the /api/jobs endpoints need. userID is always the
// authenticated caller.
type JobService interface {
	List(ctx context.Context, userID string, q models.JobQuery) ([]domain.JobApplication, error)
	Create(ctx context.Context, userID string, job domain.JobApplication) (*domain.JobApplication, error)
	Update(ctx context.Context, userID, id string, job domain.JobApplication) (*domain.JobApplication, error)
	Delete(ctx context.Context, userID, id string) error
	Stats(ctx context.Context, userID string) (domain.Stats, error)
}

type Server struct {
	address string
	users   UserService
	jobs    JobService
	logger  logging.Logger
	mux     *http.ServeMux
}

func NewServer(addr string, l logging.Logger, us UserService, js JobService) *Server {
	s := &Server{
		address: addr,
		users:   us,
		jobs:    js,
		logger:  l.With("module", "http_server"),
		mux:     http.NewServeMux(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /api/health", s.handleHealth)

	for _, prefix := range []string{"/api/auth", "/api/users"} {
		s.mux.HandleFunc("POST "+prefix+"/register", s.handleRegister)
		s.mux.HandleFunc("POST "+prefix+"/login", s.handleLogin)
	}

	s.mux.Handle("GET /api/jobs", s.requireUser(s.handleListAll))
	s.mux.Handle("GET /api/jobs/filter", s.requireUser(s.handleFilter))
	s.mux.Handle("GET /api/jobs/sorted-by-deadline", s.requireUser(s.handleSortedByDeadline))
	s.mux.Handle("GET /api/jobs/stats", s.requireUser(s.handleStats))
	s.mux.Handle("POST /api/jobs", s.requireUser(s.handleCreate))
	s.mux.Handle("PUT /api/jobs/{id}", s.requireUser(s.handleUpdate))
	s.mux.Handle("DELETE /api/jobs/{id}", s.requireUser(s.handleDelete))
}

// Handler returns the routed API with CORS and access logging applied.
func (s *Server) Handler() http.Handler {
	return s.accessLog(withCORS(s.mux))
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, listen net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP shutdown failed", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
