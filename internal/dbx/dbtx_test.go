package dbx

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func updateStatus(ctx context.Context, tx DBTX) error {
	_, err := tx.ExecContext(ctx, `UPDATE jobs SET status = $1 WHERE id = $2`, "Offer", "j1")
	return err
}

func TestWithTx_Commits(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE jobs SET status`).WithArgs("Offer", "j1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, WithTx(context.Background(), db, nil, updateStatus))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTx_RollsBackOnError(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE jobs SET status`).WillReturnError(errors.New("deadlock"))
	mock.ExpectRollback()

	err := WithTx(context.Background(), db, nil, updateStatus)
	require.EqualError(t, err, "deadlock")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTx_JoinsRollbackFailure(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectRollback().WillReturnError(errors.New("connection lost"))

	fnErr := errors.New("not found")
	err := WithTx(context.Background(), db, nil, func(context.Context, DBTX) error { return fnErr })
	require.ErrorIs(t, err, fnErr)
	require.ErrorContains(t, err, "connection lost")
}

func TestWithTx_RollsBackOnPanic(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	require.PanicsWithValue(t, "kaput", func() {
		_ = WithTx(context.Background(), db, nil, func(context.Context, DBTX) error {
			panic("kaput")
		})
	})
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTx_BeginError(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectBegin().WillReturnError(errors.New("too many connections"))

	called := false
	err := WithTx(context.Background(), db, nil, func(context.Context, DBTX) error {
		called = true
		return nil
	})
	require.Error(t, err)
	require.False(t, called)
}

func TestWithTx_CommitError(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE jobs SET status`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit().WillReturnError(errors.New("serialization failure"))

	err := WithTx(context.Background(), db, nil, updateStatus)
	require.EqualError(t, err, "serialization failure")
	require.NoError(t, mock.ExpectationsWereMet())
}
