// Package llm provides an OpenAI-compatible completion client.
package llm

import "context"

// Chat message roles. These match the wire values of the completion API.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single chat message sent to the completion service.
type Message struct {
	Role    string
	Content string
}

// CompletionClient defines the completion operation used by the
// translation pipeline. Use this interface for dependency injection to
// enable mocking in tests.
type CompletionClient interface {
	// Complete sends the messages to the completion service and returns
	// the raw response text.
	Complete(ctx context.Context, messages []Message) (string, error)

	// Model returns the configured model name.
	Model() string
}

// Ensure Client implements CompletionClient at compile time.
var _ CompletionClient = (*Client)(nil)
