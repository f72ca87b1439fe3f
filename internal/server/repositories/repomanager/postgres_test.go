package repomanager

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/jobtracker/internal/server/repositories/jobs"
	"github.com/dmitrijs2005/jobtracker/internal/server/repositories/users"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubGoose(t *testing.T, fn func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error) {
	t.Helper()
	orig := gooseUpContext
	gooseUpContext = fn
	t.Cleanup(func() { gooseUpContext = orig })
}

func TestPostgresManager_BindsRepositoriesToHandle(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	m := NewPostgresRepositoryManager()

	assert.IsType(t, &users.PostgresRepository{}, m.Users(db))
	assert.IsType(t, &jobs.PostgresRepository{}, m.Jobs(db))
}

func TestPostgresManager_RunMigrations(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	var gotDir string
	stubGoose(t, func(_ context.Context, got *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		assert.Same(t, db, got)
		assert.Empty(t, opts)
		gotDir = dir
		return nil
	})

	require.NoError(t, NewPostgresRepositoryManager().RunMigrations(context.Background(), db))
	assert.Equal(t, ".", gotDir)
}

func TestPostgresManager_RunMigrationsError(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	failure := errors.New("relation jobs already exists")
	stubGoose(t, func(context.Context, *sql.DB, string, ...goose.OptionsFunc) error { return failure })

	err = NewPostgresRepositoryManager().RunMigrations(context.Background(), db)
	require.ErrorIs(t, err, failure)
	assert.Contains(t, err.Error(), "apply migrations")
}

func TestInMemoryManager_SharesRepositories(t *testing.T) {
	m := NewInMemoryRepositoryManager()

	assert.Same(t, m.Jobs(nil), m.Jobs(nil))
	assert.Same(t, m.Users(nil), m.Users(nil))
	require.NoError(t, m.RunMigrations(context.Background(), nil))
}

func TestOpenPostgres_Unreachable(t *testing.T) {
	ctx := context.Background()

	_, err := OpenPostgres(ctx, "postgres://postgres@127.0.0.1:1/jobtracker?sslmode=disable&connect_timeout=1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ping db")
}
