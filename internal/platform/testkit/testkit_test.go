package testkit

import (
	"strings"
	"testing"
)

// fatalTB records Fatalf instead of stopping the goroutine
type fatalTB struct {
	testing.TB
	msg string
}

func (f *fatalTB) Helper() {}
func (f *fatalTB) Fatalf(format string, args ...any) {
	f.msg = format
}

func TestMustPanic(t *testing.T) {
	MustPanic(t, func() { panic("boom") })

	f := &fatalTB{TB: t}
	MustPanic(f, func() {})
	if f.msg == "" {
		t.Fatal("MustPanic accepted a fn that returned normally")
	}
}

func TestMustContain(t *testing.T) {
	MustContain(t, "transcript unavailable", "unavailable")

	f := &fatalTB{TB: t}
	MustContain(f, "short", "missing")
	if !strings.Contains(f.msg, "expected %q in:") {
		t.Fatalf("short miss msg = %q", f.msg)
	}

	f = &fatalTB{TB: t}
	MustContain(f, strings.Repeat("x", 600), "missing")
	if !strings.Contains(f.msg, "full output in") {
		t.Fatalf("long miss msg = %q", f.msg)
	}
}

var seam = func() string { return "real" }

func TestSwapRestores(t *testing.T) {
	t.Run("swapped", func(t *testing.T) {
		Swap(t, &seam, func() string { return "fake" })
		if seam() != "fake" {
			t.Fatal("swap did not take effect")
		}
	})
	if seam() != "real" {
		t.Fatal("swap not restored")
	}
}
