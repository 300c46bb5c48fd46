package shared

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"tableplan/internal/infra/db"
	"tableplan/internal/pkg/errs"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrTransactionBegin   = errs.New("failed to begin transaction")
	ErrTransactionCommit  = errs.New("failed to commit transaction")
	ErrMaxRetriesExceeded = errs.New("transaction failed after max retries")
)

func RunInTx[T any](ctx context.Context, pool *pgxpool.Pool, fn func(tx db.DBTX) (T, error)) (T, error) {
	return runInTx(ctx, pool, pgx.TxOptions{}, fn)
}

// Serializable transactions lose to concurrent writers with a 40001 instead
// of blocking, so they always run under the retry loop.
const serializableMaxRetries = 3

// RunInSerializableTx is for writes whose preconditions cannot be expressed
// as a constraint, such as shared-table seat accounting.
func RunInSerializableTx[T any](ctx context.Context, pool *pgxpool.Pool, fn func(tx db.DBTX) (T, error)) (T, error) {
	return RunInTxWithRetry(ctx, pool, serializableMaxRetries, pgx.TxOptions{IsoLevel: pgx.Serializable}, fn)
}

func runInTx[T any](ctx context.Context, pool *pgxpool.Pool, opts pgx.TxOptions, fn func(tx db.DBTX) (T, error)) (T, error) {
	var zero T

	tx, err := pool.BeginTx(ctx, opts)
	if err != nil {
		return zero, errs.Mark(err, ErrTransactionBegin)
	}

	defer func() {
		if rollbackErr := tx.Rollback(ctx); rollbackErr != nil {
			// Only log rollback errors for uncommitted transactions
			if !errors.Is(rollbackErr, pgx.ErrTxClosed) {
				slog.Warn("failed to rollback transaction", "error", rollbackErr)
			}
		}
	}()

	result, err := fn(tx)
	if err != nil {
		return zero, err
	}

	if err = tx.Commit(ctx); err != nil {
		return zero, errs.Mark(err, ErrTransactionCommit)
	}

	return result, nil
}

func RunInTxWithRetry[T any](ctx context.Context, pool *pgxpool.Pool, maxRetries int, opts pgx.TxOptions, fn func(tx db.DBTX) (T, error)) (T, error) {
	return runWithRetry(ctx, maxRetries, func() (T, error) {
		return runInTx(ctx, pool, opts, fn)
	})
}

func runWithRetry[T any](ctx context.Context, maxRetries int, attemptFn func() (T, error)) (T, error) {
	var zero T

	for attempt := 0; attempt <= maxRetries; attempt++ {
		result, err := attemptFn()
		if err == nil {
			return result, nil
		}

		if !isRetryableError(err) {
			return zero, err
		}

		if attempt == maxRetries {
			slog.Error("transaction failed after max retries",
				"attempts", attempt+1,
				"error", err)
			return zero, errs.Mark(err, ErrMaxRetriesExceeded)
		}

		waitTime := time.Duration(attempt+1) * 100 * time.Millisecond
		slog.Warn("retrying transaction due to retryable error",
			"attempt", attempt+1,
			"wait_time", waitTime,
			"error", err)

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(waitTime):
		}
	}

	return zero, ErrMaxRetriesExceeded
}

// TxRunner is the narrow transactional surface commands depend on, so unit
// tests can substitute a pass-through.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(tx db.DBTX) error) error
	RunInSerializableTx(ctx context.Context, fn func(tx db.DBTX) error) error
}

type PgxTxRunner struct {
	pool *pgxpool.Pool
}

func NewPgxTxRunner(pool *pgxpool.Pool) *PgxTxRunner {
	return &PgxTxRunner{pool: pool}
}

func (r *PgxTxRunner) RunInTx(ctx context.Context, fn func(tx db.DBTX) error) error {
	_, err := RunInTx(ctx, r.pool, func(tx db.DBTX) (struct{}, error) {
		return struct{}{}, fn(tx)
	})
	return err
}

func (r *PgxTxRunner) RunInSerializableTx(ctx context.Context, fn func(tx db.DBTX) error) error {
	_, err := RunInSerializableTx(ctx, r.pool, func(tx db.DBTX) (struct{}, error) {
		return struct{}{}, fn(tx)
	})
	return err
}

func isRetryableError(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}

	// 40001: serialization_failure
	// 40P01: deadlock_detected
	switch pgErr.Code {
	case "40001", "40P01":
		return true
	default:
		return false
	}
}
