package repo

import (
	"context"
	"testing"
	"time"

	perr "ytchat/internal/platform/errors"
	"ytchat/internal/platform/testkit"

	"github.com/redis/go-redis/v9"
)

func TestKey(t *testing.T) {
	if got := Key("en", "dQw4w9WgXcQ"); got != "ytchat:transcript:en:dQw4w9WgXcQ" {
		t.Fatalf("Key = %q", got)
	}
}

func TestRedis_UnreachableIsUnavailable(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = rdb.Close() })

	c := NewRedis(rdb, time.Minute)
	ctx := context.Background()

	if _, _, err := c.Get(ctx, "abc", "en"); perr.CodeOf(err) != perr.ErrorCodeUnavailable {
		t.Fatalf("Get err = %v, want unavailable", err)
	}
	if err := c.Put(ctx, "abc", "en", nil); perr.CodeOf(err) != perr.ErrorCodeUnavailable {
		t.Fatalf("Put err = %v, want unavailable", err)
	}
}

func TestNewRedis_NilPanics(t *testing.T) {
	testkit.MustPanic(t, func() { NewRedis(nil, 0) })
}

func TestNop(t *testing.T) {
	var c Nop
	if err := c.Put(context.Background(), "abc", "en", nil); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if _, ok, err := c.Get(context.Background(), "abc", "en"); ok || err != nil {
		t.Fatalf("Nop.Get = %v, %v", ok, err)
	}
}
