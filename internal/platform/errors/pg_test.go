package errors

import (
	stderrs "errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func pgErr(code string) error { return &pgconn.PgError{Code: code, Message: "sqlstate " + code} }

func TestPgCode(t *testing.T) {
	cases := []struct {
		code      string
		want      ErrorCode
		retryable bool
	}{
		{"23505", ErrorCodeDuplicateKey, false},
		{"23502", ErrorCodeValidation, false},
		{"22000", ErrorCodeInvalidArgument, false},
		{"22P02", ErrorCodeInvalidArgument, false},
		{"57014", ErrorCodeTimeout, false},
		{"40001", ErrorCodeUnavailable, true},
		{"40P01", ErrorCodeUnavailable, true},
		{"08006", ErrorCodeUnavailable, true},
		{"57P03", ErrorCodeUnavailable, true},
		{"42704", ErrorCodeUnavailable, false},
		{"42601", ErrorCodeDB, false},
	}
	for _, c := range cases {
		err := fmt.Errorf("exec: %w", pgErr(c.code))
		got, ok := PgCode(err)
		if !ok || got != c.want {
			t.Fatalf("PgCode(%s) = %d %v, want %d", c.code, got, ok, c.want)
		}
		if pgTransient(err) != c.retryable {
			t.Fatalf("pgTransient(%s) = %v", c.code, !c.retryable)
		}
	}
	if _, ok := PgCode(stderrs.New("nope")); ok {
		t.Fatalf("non pg error should not map")
	}
	if !IsSQLState(pgErr("23505"), "23505") || IsSQLState(nil, "23505") {
		t.Fatalf("IsSQLState mismatch")
	}
}

func TestFromPostgres(t *testing.T) {
	if FromPostgres(nil, "x") != nil {
		t.Fatalf("nil should stay nil")
	}

	src := &pgconn.PgError{Code: "23502", ColumnName: "embedding"}
	err := FromPostgres(src, "vectorindex: upsert")
	e, ok := As(err)
	if !ok || e.Code() != ErrorCodeValidation || e.Field() != "embedding" {
		t.Fatalf("FromPostgres = %+v", e)
	}
	if !stderrs.Is(err, src) {
		t.Fatalf("cause lost")
	}

	if CodeOf(FromPostgres(stderrs.New("conn closed"), "x")) != ErrorCodeDB {
		t.Fatalf("foreign errors default to DB")
	}
	if got := FromPostgres(ErrNotFound, "x"); got != ErrNotFound {
		t.Fatalf("platform errors pass through, got %v", got)
	}
}
