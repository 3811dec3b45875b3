package videoref

import (
	"errors"
	"testing"

	perr "ytchat/internal/platform/errors"
)

func TestResolve_Table(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want ID
	}{
		{"watch www", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"watch bare host", "https://youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"watch extra params", "https://www.youtube.com/watch?v=abc123&t=42s&list=PL1", "abc123"},
		{"watch param order", "https://www.youtube.com/watch?feature=share&v=abc123", "abc123"},
		{"short link", "https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"short link with time", "https://youtu.be/dQw4w9WgXcQ?t=10", "dQw4w9WgXcQ"},
		{"upper host", "https://WWW.YouTube.com/watch?v=XyZ", "XyZ"},
		{"surrounding space", "  https://youtu.be/abc  ", "abc"},
		{"http scheme", "http://www.youtube.com/watch?v=abc", "abc"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Resolve(tc.in)
			if err != nil {
				t.Fatalf("Resolve(%q) error: %v", tc.in, err)
			}
			if got != tc.want {
				t.Fatalf("Resolve(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestResolve_Invalid(t *testing.T) {
	bad := []string{
		"",
		"not a url",
		"https://vimeo.com/12345",
		"https://www.youtube.com/watch",
		"https://www.youtube.com/watch?v=",
		"https://youtube.com/channel/UC123",
		"https://youtu.be/",
		"https://m.youtube.com/watch?v=abc",
		"https://evil.example/?v=abc",
		"%%%",
	}
	for _, in := range bad {
		_, err := Resolve(in)
		if err == nil {
			t.Fatalf("Resolve(%q) expected error", in)
		}
		if !errors.Is(err, ErrInvalidURL) {
			t.Fatalf("Resolve(%q) err = %v, want ErrInvalidURL", in, err)
		}
		if perr.CodeOf(err) != perr.ErrorCodeValidation {
			t.Fatalf("Resolve(%q) code = %v, want validation", in, perr.CodeOf(err))
		}
	}
}
