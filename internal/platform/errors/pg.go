package errors

// Postgres helpers: SQLSTATE mapping and retry classification for pgx errors

import (
	"context"
	stderrs "errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgErrUniqueViolation           = "23505"
	pgErrNotNullViolation          = "23502"
	pgErrCheckViolation            = "23514"
	pgErrStringDataRightTruncation = "22001"
	pgErrSerializationFailure      = "40001"
	pgErrDeadlockDetected          = "40P01"
	pgErrLockNotAvailable          = "55P03"
	pgErrCannotConnectNow          = "57P03"
)

// ExtractPgError returns the *pgconn.PgError at the root of err, if any
func ExtractPgError(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if stderrs.As(Root(err), &pgErr) {
		return pgErr, true
	}
	return nil, false
}

// IsDuplicateKey reports whether err is a unique constraint violation
func IsDuplicateKey(err error) bool {
	pgErr, ok := ExtractPgError(err)
	return ok && pgErr.Code == pgErrUniqueViolation
}

// FromPostgres wraps a pg error with a mapped ErrorCode. nil stays nil
func FromPostgres(err error, msg string) error {
	if err == nil {
		return nil
	}
	pgErr, ok := ExtractPgError(err)
	if !ok {
		return Wrap(err, ErrorCodeDB, msg)
	}
	switch pgErr.Code {
	case pgErrUniqueViolation:
		return Wrap(err, ErrorCodeDuplicateKey, msg)
	case pgErrNotNullViolation, pgErrCheckViolation:
		return Wrap(err, ErrorCodeValidation, msg)
	case pgErrStringDataRightTruncation:
		return Wrap(err, ErrorCodeInvalidArgument, msg)
	case pgErrCannotConnectNow:
		return Wrap(err, ErrorCodeUnavailable, msg)
	default:
		return Wrap(err, ErrorCodeDB, msg)
	}
}

// IsRetryable reports whether err is transient contention worth retrying.
// Context cancellation is never retryable
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if stderrs.Is(err, context.Canceled) || stderrs.Is(err, context.DeadlineExceeded) {
		return false
	}
	if pgErr, ok := ExtractPgError(err); ok {
		switch pgErr.Code {
		case pgErrSerializationFailure, pgErrDeadlockDetected, pgErrLockNotAvailable:
			return true
		}
		return false
	}
	s := strings.ToLower(Root(err).Error())
	return strings.Contains(s, "deadlock detected") ||
		strings.Contains(s, "could not serialize access") ||
		strings.Contains(s, "commit unexpectedly resulted in rollback")
}
