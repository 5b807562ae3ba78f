package llm

import "context"

// MockClient is a configurable mock for testing completion functionality.
// Set the function field to control behavior in tests.
type MockClient struct {
	// CompleteFunc is called when Complete is invoked.
	// If nil, returns empty string and nil error.
	CompleteFunc func(ctx context.Context, messages []Message) (string, error)

	// ModelName is returned by Model. Defaults to "mock-model".
	ModelName string

	// Call tracking for verification.
	CompleteCalls int
	LastMessages  []Message
}

// NewMockClient creates a new mock with sensible defaults.
func NewMockClient() *MockClient {
	return &MockClient{ModelName: "mock-model"}
}

// Complete implements CompletionClient.
func (m *MockClient) Complete(ctx context.Context, messages []Message) (string, error) {
	m.CompleteCalls++
	m.LastMessages = messages
	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, messages)
	}
	return "", nil
}

// Model implements CompletionClient.
func (m *MockClient) Model() string {
	if m.ModelName == "" {
		return "mock-model"
	}
	return m.ModelName
}

// Reset clears call tracking.
func (m *MockClient) Reset() {
	m.CompleteCalls = 0
	m.LastMessages = nil
}

// Ensure MockClient implements CompletionClient at compile time.
var _ CompletionClient = (*MockClient)(nil)
