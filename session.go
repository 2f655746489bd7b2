package reagent

import (
	"context"

	"github.com/tmc/langchaingo/llms"
)

// Session sends an ordered list of role-tagged messages to a language
// model and returns a single text completion.
//
// Implementations must be stateless between calls: the loop resends
// the full conversation history every turn, so a session that retains
// its own history would double-count it.
//
// Errors from Chat (network, auth, rate limits) propagate to the
// caller of the loop's Run. Retry and backoff policy belongs to the
// session implementation or its caller, not to the loop.
type Session interface {
	Chat(ctx context.Context, messages []llms.MessageContent) (string, error)
}

// TextMessage builds a single-part text message with the given role.
// Roles follow langchaingo's chat message types: system, human, ai.
func TextMessage(role llms.ChatMessageType, text string) llms.MessageContent {
	return llms.MessageContent{
		Role:  role,
		Parts: []llms.ContentPart{llms.TextContent{Text: text}},
	}
}
