// Package tt provides shared test helpers.
package tt

import (
	"fmt"
	"strings"
	"testing"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/tmc/langchaingo/llms"
)

// RenderConversation flattens a message list into a readable text
// form, one role-tagged block per message.
func RenderConversation(messages []llms.MessageContent) string {
	var sb strings.Builder
	for i, msg := range messages {
		fmt.Fprintf(&sb, "[%d] %s:\n", i, msg.Role)
		for _, part := range msg.Parts {
			if tc, ok := part.(llms.TextContent); ok {
				sb.WriteString(tc.Text)
				sb.WriteString("\n")
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// RequireSameConversation fails the test when two rebuilt
// conversations differ, printing a unified diff so the exact point of
// divergence is visible. Conversation rebuilds must be byte-for-byte
// deterministic; any drift here means the model would see inconsistent
// history across turns.
func RequireSameConversation(t *testing.T, want, got []llms.MessageContent) {
	t.Helper()

	wantText := RenderConversation(want)
	gotText := RenderConversation(got)
	if wantText == gotText {
		return
	}

	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(wantText),
		B:        difflib.SplitLines(gotText),
		FromFile: "want",
		ToFile:   "got",
		Context:  3,
	})
	if err != nil {
		t.Fatalf("conversations differ (diff failed: %v)\nwant:\n%s\ngot:\n%s", err, wantText, gotText)
	}
	t.Fatalf("conversations differ:\n%s", diff)
}

// MessageText extracts the concatenated text parts of one message.
func MessageText(msg llms.MessageContent) string {
	var sb strings.Builder
	for _, part := range msg.Parts {
		if tc, ok := part.(llms.TextContent); ok {
			sb.WriteString(tc.Text)
		}
	}
	return sb.String()
}
