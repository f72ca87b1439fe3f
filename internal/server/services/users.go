package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/dmitrijs2005/jobtracker/internal/common"
	"github.com/dmitrijs2005/jobtracker/internal/domain"
	"github.com/dmitrijs2005/jobtracker/internal/logging"
	"github.com/dmitrijs2005/jobtracker/internal/server/auth"
	"github.com/dmitrijs2005/jobtracker/internal/server/config"
	"github.com/dmitrijs2005/jobtracker/internal/server/models"
	"github.com/dmitrijs2005/jobtracker/internal/server/repositories/repomanager"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// bcryptCost is lowered by tests.
var bcryptCost = bcrypt.DefaultCost

// UserService provides authentication-related operations:
// - Register: create an account and sign it in
// - Login: verify credentials and mint an access token
type UserService struct {
	db                          *sql.DB
	repomanager                 repomanager.RepositoryManager
	logger                      logging.Logger
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
	newID                       func() string
}

// NewUserService constructs a UserService using repositories and server
// config. db may be nil when m is an in-memory manager.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, l logging.Logger) *UserService {
	return &UserService{
		db:                          db,
		repomanager:                 m,
		logger:                      l.With("module", "users"),
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
		newID:                       uuid.NewString,
	}
}

// Register creates an account and returns it with a fresh access token.
// A taken email yields common.ErrorConflict.
func (s *UserService) Register(ctx context.Context, creds domain.Credentials) (*domain.User, error) {
	email := strings.TrimSpace(creds.Email)
	if err := validateCredentials(email, creds.Password); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(creds.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	name := strings.TrimSpace(creds.Name)
	if name == "" {
		name, _, _ = strings.Cut(email, "@")
	}

	repo := s.repomanager.Users(conn(s.db))
	u, err := repo.Create(ctx, &models.User{ID: s.newID(), Name: name, Email: email, PasswordHash: hash})
	if err != nil {
		if errors.Is(err, common.ErrorConflict) {
			return nil, common.ErrorConflict
		}
		s.logger.Error(ctx, "create user failed", "error", err)
		return nil, common.ErrorInternal
	}

	s.logger.Info(ctx, "user registered", "user_id", u.ID)
	return s.issue(u)
}

// Login verifies credentials. Unknown emails and wrong passwords both yield
// common.ErrorUnauthorized.
func (s *UserService) Login(ctx context.Context, creds domain.Credentials) (*domain.User, error) {
	repo := s.repomanager.Users(conn(s.db))
	u, err := repo.GetUserByEmail(ctx, strings.TrimSpace(creds.Email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		s.logger.Error(ctx, "lookup user failed", "error", err)
		return nil, common.ErrorInternal
	}

	if bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(creds.Password)) != nil {
		return nil, common.ErrorUnauthorized
	}

	return s.issue(u)
}

// Authenticate resolves a bearer token to a user id.
func (s *UserService) Authenticate(token string) (string, error) {
	return auth.GetUserIDFromToken(token, s.jwtSecret)
}

func (s *UserService) issue(u *models.User) (*domain.User, error) {
	token, err := auth.GenerateToken(u.ID, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}
	out := u.Public(token)
	return &out, nil
}

func validateCredentials(email, password string) error {
	if email == "" {
		return fmt.Errorf("%w: email is required", common.ErrValidationFailed)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return fmt.Errorf("%w: email is invalid", common.ErrValidationFailed)
	}
	if password == "" {
		return fmt.Errorf("%w: password is required", common.ErrValidationFailed)
	}
	return nil
}
