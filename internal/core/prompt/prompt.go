// Package prompt builds the generation prompts for summary and question answering
package prompt

import (
	"strings"

	"ytchat/internal/core/transcript"
)

// Roles understood by History
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// NotGroundedLine is the sentence the model must append to answers that
// do not come from the transcript
const NotGroundedLine = "This answer is not based on the video transcript."

// Turn is one prior chat message
type Turn struct {
	Role string `json:"role" validate:"required,oneof=user assistant" example:"user"`
	Text string `json:"text" validate:"required,notblank" example:"What is the main topic?"`
}

const summaryHeader = `You are a helpful assistant.

Summarize the following YouTube video transcript clearly and concisely.

Rules:
- Use ONLY the provided transcript.
- Do NOT add external information.
- Organize the summary by main topics.
- Include relevant timestamps in the summary where helpful.

Transcript:
`

const qaHeader = `You are a helpful assistant that answers questions about a YouTube video using its transcript.

Answer the question using the transcript context below.

If the answer is based on the transcript:
- Mention the relevant timestamp(s).

If the transcript does NOT contain enough information:
- Answer using general knowledge.
- Do NOT include timestamps.
- Do NOT claim the answer comes from the video.
- End with: "` + NotGroundedLine + `"
`

// Summary builds the summary prompt over the full ordered transcript
func Summary(segs []transcript.Segment) string {
	var b strings.Builder
	b.WriteString(summaryHeader)
	b.WriteString(transcript.Join(segs))
	b.WriteByte('\n')
	return b.String()
}

// QA builds the grounded question prompt from retrieved segments and prior turns
func QA(question string, context []transcript.Segment, history []Turn) string {
	var b strings.Builder
	b.WriteString(qaHeader)

	b.WriteString("\nConversation so far:\n")
	if h := History(history); h != "" {
		b.WriteString(h)
	} else {
		b.WriteString("(none)")
	}

	b.WriteString("\n\nContext:\n")
	b.WriteString(transcript.Join(context))

	b.WriteString("\n\nQuestion:\n")
	b.WriteString(strings.TrimSpace(question))
	b.WriteByte('\n')
	return b.String()
}

// History renders turns as "User: ..." and "Assistant: ..." lines
func History(turns []Turn) string {
	if len(turns) == 0 {
		return ""
	}
	lines := make([]string, 0, len(turns))
	for _, t := range turns {
		lines = append(lines, speaker(t.Role)+": "+t.Text)
	}
	return strings.Join(lines, "\n")
}

func speaker(role string) string {
	switch r := strings.ToLower(strings.TrimSpace(role)); r {
	case RoleUser:
		return "User"
	case RoleAssistant:
		return "Assistant"
	case "":
		return "User"
	default:
		return strings.ToUpper(r[:1]) + r[1:]
	}
}
