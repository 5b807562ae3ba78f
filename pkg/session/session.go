// Package session persists conversation state between assistant runs as
// JSON files, one per session.
package session

import (
	"time"

	"github.com/google/uuid"

	"github.com/askdb-ai/askdb/pkg/translate"
	"github.com/askdb-ai/askdb/pkg/warehouse"
)

// Message is one entry in a session transcript. Assistant messages carry
// the generated SQL and, when the query was executed, its results.
type Message struct {
	Timestamp time.Time              `json:"timestamp"`
	Role      string                 `json:"role"`
	Content   string                 `json:"content"`
	SQL       string                 `json:"sql,omitempty"`
	Results   *warehouse.QueryResult `json:"results,omitempty"`
}

// Session is a persisted conversation, including a cached schema context so
// resumed sessions skip warehouse introspection.
type Session struct {
	ID           string                  `json:"id"`
	CreatedAt    time.Time               `json:"created_at"`
	Messages     []Message               `json:"messages"`
	ContextCache *translate.QueryContext `json:"context_cache,omitempty"`
}

// New creates a session. An empty id gets a generated UUID.
func New(id string) *Session {
	if id == "" {
		id = uuid.NewString()
	}
	return &Session{
		ID:        id,
		CreatedAt: time.Now().UTC(),
		Messages:  []Message{},
	}
}

// Append adds a message to the transcript.
func (s *Session) Append(role, content, sql string, results *warehouse.QueryResult) {
	s.Messages = append(s.Messages, Message{
		Timestamp: time.Now().UTC(),
		Role:      role,
		Content:   content,
		SQL:       sql,
		Results:   results,
	})
}

// History maps the transcript to conversation turns for the translator.
func (s *Session) History() []translate.Turn {
	turns := make([]translate.Turn, 0, len(s.Messages))
	for _, m := range s.Messages {
		turns = append(turns, translate.Turn{Role: m.Role, Content: m.Content})
	}
	return turns
}
