package repository

import (
	"context"
	"errors"
	"log/slog"

	"psyconnect/internal/pkg/errs"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrTransactionBegin  = errs.New("failed to begin transaction")
	ErrTransactionCommit = errs.New("failed to commit transaction")
)

// PgxTransactor runs write paths that span several repositories inside one
// database transaction.
type PgxTransactor struct {
	db *pgxpool.Pool
}

func NewPgxTransactor(db *pgxpool.Pool) *PgxTransactor {
	return &PgxTransactor{db: db}
}

// WithinTx begins a transaction, hands it to fn and commits when fn returns
// nil. Any error from fn rolls everything back and is returned unchanged.
func (t *PgxTransactor) WithinTx(ctx context.Context, fn func(tx DBTX) error) error {
	tx, err := t.db.Begin(ctx)
	if err != nil {
		return errs.Mark(err, ErrTransactionBegin)
	}

	defer func() {
		if rollbackErr := tx.Rollback(ctx); rollbackErr != nil && !errors.Is(rollbackErr, pgx.ErrTxClosed) {
			slog.Warn("failed to rollback transaction", "error", rollbackErr)
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return errs.Mark(err, ErrTransactionCommit)
	}
	return nil
}
