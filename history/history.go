// Package history holds per-session conversation transcripts. A session is an
// opaque caller-supplied id; it comes into existence on its first append and
// is never destroyed. Turns are immutable and strictly ordered by insertion.
package history

import "strings"

// Turn roles. The store does not enforce alternation.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one utterance in a conversation. Its sequence position is its index
// in the session's ordered list.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// RenderPrompt flattens a session's history plus a trailing user utterance
// into the single prompt string sent to the responder. One line per turn,
// "User: <content>" or "Assistant: <content>", in insertion order, each line
// newline-terminated. The responder receives no other conversation structure,
// so this format is the de facto protocol with the model and must stay stable.
func RenderPrompt(turns []Turn, newUserText string) string {
	var b strings.Builder
	for _, t := range turns {
		if t.Role == RoleAssistant {
			b.WriteString("Assistant: ")
		} else {
			b.WriteString("User: ")
		}
		b.WriteString(t.Content)
		b.WriteByte('\n')
	}
	b.WriteString("User: ")
	b.WriteString(newUserText)
	b.WriteByte('\n')
	return b.String()
}
