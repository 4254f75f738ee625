package dao

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/mintly/mintly-api/internal/domain"
)

// isUniqueViolation reports whether err is a unique constraint violation on
// an index covering column. An empty column matches any unique violation.
func isUniqueViolation(err error, column string) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgerrcode.UniqueViolation &&
			(column == "" || strings.Contains(pgErr.ConstraintName, column) || strings.Contains(pgErr.Message, column))
	}

	msg := err.Error()

	return strings.Contains(msg, "UNIQUE constraint failed") && (column == "" || strings.Contains(msg, column))
}

// isRetryable reports whether err means the database gave up waiting on a
// lock or aborted the transaction to resolve a conflict.
func isRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.LockNotAvailable, pgerrcode.SerializationFailure, pgerrcode.DeadlockDetected, pgerrcode.QueryCanceled:
			return true
		}
		return false
	}

	msg := err.Error()

	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "SQLITE_BUSY")
}

// translateTxErr maps storage level contention failures to domain.ErrBusy.
// Domain errors raised inside the transaction are returned unchanged.
func translateTxErr(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) || isRetryable(err) {
		return fmt.Errorf("%w (%v)", domain.ErrBusy, err)
	}

	return err
}
