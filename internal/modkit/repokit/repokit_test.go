package repokit

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"ytchat/internal/platform/store"
	"ytchat/internal/platform/testkit"
)

// recQ records statements, Tx runs fn against itself
type recQ struct {
	stmts []string
	txErr error
}

func (r *recQ) Exec(_ context.Context, sql string, _ ...any) (store.CommandTag, error) {
	r.stmts = append(r.stmts, sql)
	return nil, nil
}

func (r *recQ) Query(_ context.Context, sql string, _ ...any) (store.Rows, error) {
	r.stmts = append(r.stmts, sql)
	return nil, nil
}

func (r *recQ) QueryRow(_ context.Context, sql string, _ ...any) store.Row {
	r.stmts = append(r.stmts, sql)
	return nil
}

func (r *recQ) Tx(_ context.Context, fn func(q Queryer) error) error {
	if r.txErr != nil {
		return r.txErr
	}
	r.stmts = append(r.stmts, "begin")
	return fn(r)
}

type segRepo struct{ q Queryer }

func TestMustBind(t *testing.T) {
	q := &recQ{}
	b := binderFunc(func(q Queryer) segRepo { return segRepo{q: q} })
	if got := MustBind[segRepo](b, q); got.q != q {
		t.Fatalf("bound queryer mismatch")
	}
	testkit.MustPanic(t, func() { MustBind[segRepo](b, nil) })
}

type binderFunc func(Queryer) segRepo

func (f binderFunc) Bind(q Queryer) segRepo { return f(q) }

func TestWithTx_PropagatesErrors(t *testing.T) {
	boom := errors.New("boom")
	q := &recQ{}
	if err := WithTx(context.Background(), q, func(Queryer) error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("fn error = %v", err)
	}
	q.txErr = boom
	called := false
	if err := WithTx(context.Background(), q, func(Queryer) error { called = true; return nil }); !errors.Is(err, boom) || called {
		t.Fatalf("tx error = %v called=%v", err, called)
	}
}

func TestWithBeginHooks_RunsHooksFirst(t *testing.T) {
	q := &recQ{}
	tx := WithBeginHooks(q, StatementTimeout(1500*time.Millisecond), func(ctx context.Context, q Queryer) error {
		_, err := q.Exec(ctx, "set local application_name = 'ytchat'")
		return err
	})

	err := tx.Tx(context.Background(), func(q Queryer) error {
		_, err := q.Exec(context.Background(), "insert into video_segments ...")
		return err
	})
	if err != nil {
		t.Fatalf("Tx: %v", err)
	}
	want := []string{
		"begin",
		"set local statement_timeout = 1500",
		"set local application_name = 'ytchat'",
		"insert into video_segments ...",
	}
	if strings.Join(q.stmts, "|") != strings.Join(want, "|") {
		t.Fatalf("stmts = %q", q.stmts)
	}
}

func TestWithBeginHooks_HookErrorSkipsFn(t *testing.T) {
	q := &recQ{}
	boom := errors.New("hook failed")
	tx := WithBeginHooks(q, func(context.Context, Queryer) error { return boom })

	called := false
	err := tx.Tx(context.Background(), func(Queryer) error { called = true; return nil })
	if !errors.Is(err, boom) || called {
		t.Fatalf("err = %v called = %v", err, called)
	}
}

func TestWithBeginHooks_DelegatesOutsideTx(t *testing.T) {
	q := &recQ{}
	tx := WithBeginHooks(q, StatementTimeout(time.Second))
	_, _ = tx.Exec(context.Background(), "e")
	_, _ = tx.Query(context.Background(), "q")
	_ = tx.QueryRow(context.Background(), "r")
	if strings.Join(q.stmts, "") != "eqr" {
		t.Fatalf("hooks must only run inside Tx, got %q", q.stmts)
	}
}

type guardFunc func(context.Context) error

func (g guardFunc) Guard(ctx context.Context) error { return g(ctx) }

func TestMustGuard(t *testing.T) {
	MustGuard(context.Background(), guardFunc(func(context.Context) error { return nil }))
	testkit.MustPanic(t, func() {
		MustGuard(context.Background(), guardFunc(func(context.Context) error { return errors.New("redis: refused") }))
	})
}
