package prompt

import (
	"regexp"
	"strings"
	"testing"

	"ytchat/internal/core/transcript"
	kit "ytchat/internal/platform/testkit"
)

var segs = []transcript.Segment{
	{Text: "intro to goroutines", Start: 0, Duration: 5},
	{Text: "channels carry values", Start: 65, Duration: 7},
}

func TestSummary_ContainsRulesAndFullTranscript(t *testing.T) {
	p := Summary(segs)

	kit.MustContain(t, p, "Use ONLY the provided transcript.")
	kit.MustContain(t, p, "Do NOT add external information.")
	kit.MustContain(t, p, "Organize the summary by main topics.")
	kit.MustContain(t, p, "timestamps")
	kit.MustContain(t, p, "[0:00 - 0:05] intro to goroutines\n[1:05 - 1:12] channels carry values")
}

func TestQA_Sections(t *testing.T) {
	h := []Turn{{Role: "user", Text: "hi"}, {Role: "assistant", Text: "hello"}}
	p := QA("  what are channels? ", segs[1:], h)

	kit.MustContain(t, p, "Mention the relevant timestamp(s).")
	kit.MustContain(t, p, "Do NOT include timestamps.")
	kit.MustContain(t, p, NotGroundedLine)
	kit.MustContain(t, p, "Conversation so far:\nUser: hi\nAssistant: hello")
	kit.MustContain(t, p, "Context:\n[1:05 - 1:12] channels carry values")
	kit.MustContain(t, p, "Question:\nwhat are channels?\n")

	// sections appear in a fixed order
	order := []string{"Conversation so far:", "Context:", "Question:"}
	last := -1
	for _, s := range order {
		i := strings.Index(p, s)
		if i <= last {
			t.Fatalf("section %q out of order", s)
		}
		last = i
	}

	if !regexp.MustCompile(`\d+:\d{2}`).MatchString(p) {
		t.Fatalf("expected an m:ss token in the context block")
	}
}

func TestQA_NoHistory(t *testing.T) {
	p := QA("q", nil, nil)
	kit.MustContain(t, p, "Conversation so far:\n(none)")
	kit.MustContain(t, p, "Context:\n\n")
}

func TestHistory(t *testing.T) {
	if History(nil) != "" {
		t.Fatalf("History(nil) should be empty")
	}
	got := History([]Turn{
		{Role: "USER", Text: "a"},
		{Role: "assistant", Text: "b"},
		{Role: "system", Text: "c"},
		{Role: "", Text: "d"},
	})
	want := "User: a\nAssistant: b\nSystem: c\nUser: d"
	if got != want {
		t.Fatalf("History = %q, want %q", got, want)
	}
}
