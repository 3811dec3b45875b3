package config

import (
	"reflect"
	"testing"
	"time"

	kit "ytchat/internal/platform/testkit"
)

func TestPrefix(t *testing.T) {
	if got := New().Prefix("CORE_").Prefix("PG_").key("DBURL"); got != "CORE_PG_DBURL" {
		t.Fatalf("key = %q", got)
	}
}

func TestMustString(t *testing.T) {
	c := New().Prefix("RAG_")
	t.Setenv("RAG_OPENAI_API_KEY", "  sk-test ")
	if got := c.MustString("OPENAI_API_KEY"); got != "sk-test" {
		t.Fatalf("MustString = %q", got)
	}
	t.Setenv("RAG_BLANK", "   ")
	kit.MustPanic(t, func() { _ = c.MustString("BLANK") })
	kit.MustPanic(t, func() { _ = c.MustString("MISSING") })
}

func TestMayScalars(t *testing.T) {
	c := New().Prefix("RAG_")
	t.Setenv("RAG_TOP_K", "8")
	t.Setenv("RAG_BAD_K", "eight")
	t.Setenv("RAG_TEMP", "0.2")
	t.Setenv("RAG_SUMMARY", "true")
	t.Setenv("RAG_BAD_BOOL", "maybe")
	t.Setenv("RAG_TIMEOUT", "250ms")
	t.Setenv("RAG_BAD_TIMEOUT", "soon")

	if c.MayInt("TOP_K", 4) != 8 || c.MayInt("BAD_K", 4) != 4 || c.MayInt("NONE", 4) != 4 {
		t.Fatalf("MayInt mismatch")
	}
	if c.MayFloat64("TEMP", 1) != 0.2 || c.MayFloat64("NONE", 1) != 1 {
		t.Fatalf("MayFloat64 mismatch")
	}
	if !c.MayBool("SUMMARY", false) || !c.MayBool("BAD_BOOL", true) || c.MayBool("NONE", false) {
		t.Fatalf("MayBool mismatch")
	}
	if c.MayDuration("TIMEOUT", time.Second) != 250*time.Millisecond || c.MayDuration("BAD_TIMEOUT", time.Second) != time.Second {
		t.Fatalf("MayDuration mismatch")
	}
	if c.MayString("NONE", "gpt-4o-mini") != "gpt-4o-mini" {
		t.Fatalf("MayString default")
	}
}

func TestMayCSV(t *testing.T) {
	c := New().Prefix("CORE_API_")
	def := []string{"*"}

	t.Setenv("CORE_API_CORS_ORIGINS", " chrome-extension://abc , ,https://x.test ")
	if got := c.MayCSV("CORS_ORIGINS", def); !reflect.DeepEqual(got, []string{"chrome-extension://abc", "https://x.test"}) {
		t.Fatalf("MayCSV = %v", got)
	}
	t.Setenv("CORE_API_CORS_ORIGINS", " , ")
	if got := c.MayCSV("CORS_ORIGINS", def); !reflect.DeepEqual(got, def) {
		t.Fatalf("blank list should give default, got %v", got)
	}
}

func TestMayEnum(t *testing.T) {
	c := New().Prefix("RAG_")
	t.Setenv("RAG_INDEX", "PGVECTOR")
	if got := c.MayEnum("INDEX", "memory", "memory", "pgvector"); got != "pgvector" {
		t.Fatalf("MayEnum = %q", got)
	}
	if got := c.MayEnum("UNSET", "memory", "memory", "pgvector"); got != "memory" {
		t.Fatalf("default = %q", got)
	}
	if got := c.MayEnum("UNSET", ""); got != "" {
		t.Fatalf("empty default = %q", got)
	}
	t.Setenv("RAG_INDEX", "faiss")
	kit.MustPanic(t, func() { _ = c.MayEnum("INDEX", "memory", "memory", "pgvector") })
}
