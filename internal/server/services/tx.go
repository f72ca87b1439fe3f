package services

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/jobtracker/internal/dbx"
)

// inTx runs fn inside a transaction, or directly when there is no database
// (in-memory repositories).
func inTx(ctx context.Context, db *sql.DB, fn func(ctx context.Context, tx dbx.DBTX) error) error {
	if db == nil {
		return fn(ctx, nil)
	}
	return dbx.WithTx(ctx, db, nil, fn)
}

// conn returns db as a DBTX, or nil for in-memory repositories.
func conn(db *sql.DB) dbx.DBTX {
	if db == nil {
		return nil
	}
	return db
}
