package errors

import (
	stderrs "errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE values the vector store can raise
const (
	sqlUniqueViolation       = "23505"
	sqlNotNullViolation      = "23502"
	sqlCheckViolation        = "23514"
	sqlSerializationFailure  = "40001"
	sqlDeadlockDetected      = "40P01"
	sqlLockNotAvailable      = "55P03"
	sqlQueryCanceled         = "57014" // statement_timeout
	sqlReadOnlyTransaction   = "25006"
	sqlCannotConnectNow      = "57P03"
	sqlAdminShutdown         = "57P01"
	sqlUndefinedObject       = "42704" // vector type missing
	sqlUndefinedFile         = "58P01" // extension not installed on the server
	sqlClassDataException    = "22"    // includes pgvector dimension mismatches
	sqlClassConnectionFailed = "08"
)

// PgError returns the *pgconn.PgError at the root of err
func PgError(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if err != nil && stderrs.As(Root(err), &pgErr) {
		return pgErr, true
	}
	return nil, false
}

// IsSQLState reports whether err is a postgres error with code
func IsSQLState(err error, code string) bool {
	pgErr, ok := PgError(err)
	return ok && pgErr.Code == code
}

// PgCode maps a postgres error onto an ErrorCode, ok is false for non postgres errors
func PgCode(err error) (ErrorCode, bool) {
	pgErr, ok := PgError(err)
	if !ok {
		return ErrorCodeUnknown, false
	}
	switch c := pgErr.Code; {
	case c == sqlUniqueViolation:
		return ErrorCodeDuplicateKey, true
	case c == sqlNotNullViolation, c == sqlCheckViolation:
		return ErrorCodeValidation, true
	case strings.HasPrefix(c, sqlClassDataException):
		return ErrorCodeInvalidArgument, true
	case c == sqlQueryCanceled:
		return ErrorCodeTimeout, true
	case c == sqlSerializationFailure, c == sqlDeadlockDetected, c == sqlLockNotAvailable,
		c == sqlReadOnlyTransaction, c == sqlCannotConnectNow, c == sqlAdminShutdown,
		strings.HasPrefix(c, sqlClassConnectionFailed):
		return ErrorCodeUnavailable, true
	case c == sqlUndefinedObject, c == sqlUndefinedFile:
		return ErrorCodeUnavailable, true
	}
	return ErrorCodeDB, true
}

// FromPostgres wraps err with msg and the mapped code, nil stays nil
// the offending column is attached as the field when postgres reports one
func FromPostgres(err error, msg string) error {
	if err == nil {
		return nil
	}
	if _, ok := As(err); ok && !isPg(err) {
		return err
	}
	code, ok := PgCode(err)
	if !ok {
		code = ErrorCodeDB
	}
	out := Wrap(err, code, msg)
	if pgErr, ok := PgError(err); ok && pgErr.ColumnName != "" {
		out = WithField(out, pgErr.ColumnName)
	}
	return out
}

func isPg(err error) bool { _, ok := PgError(err); return ok }

// pgTransient reports contention and connection errors that clear on retry
func pgTransient(err error) bool {
	pgErr, ok := PgError(err)
	if !ok {
		return false
	}
	switch pgErr.Code {
	case sqlSerializationFailure, sqlDeadlockDetected, sqlLockNotAvailable, sqlCannotConnectNow, sqlAdminShutdown:
		return true
	}
	return strings.HasPrefix(pgErr.Code, sqlClassConnectionFailed)
}
