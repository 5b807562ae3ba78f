package translate

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/askdb-ai/askdb/pkg/llm"
	"github.com/askdb-ai/askdb/pkg/retry"
)

// Translator converts a natural-language question into a single SQL query.
type Translator struct {
	client   llm.CompletionClient
	retryCfg *retry.Config
	logger   *zap.Logger
}

func NewTranslator(client llm.CompletionClient, retryCfg *retry.Config, logger *zap.Logger) *Translator {
	if retryCfg == nil {
		retryCfg = retry.DefaultConfig()
	}
	return &Translator{
		client:   client,
		retryCfg: retryCfg,
		logger:   logger.Named("translator"),
	}
}

// Translate sends the question to the model with the schema prompt and the
// recent conversation history, and returns the generated SQL. Transient
// provider errors are retried; permanent ones (auth, bad model) are not.
func (t *Translator) Translate(ctx context.Context, question, systemPrompt string, history []Turn) (string, error) {
	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: systemPrompt})
	for _, turn := range trimHistory(history) {
		messages = append(messages, llm.Message{Role: turn.Role, Content: turn.Content})
	}
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: question})

	start := time.Now()
	raw, err := retry.DoWithResult(ctx, t.retryCfg, func() (string, error) {
		return t.client.Complete(ctx, messages)
	})
	if err != nil {
		return "", fmt.Errorf("translate question: %w", err)
	}

	query := strings.TrimSpace(stripCodeFence(raw))
	if query == "" {
		return "", fmt.Errorf("model returned an empty query")
	}

	t.logger.Debug("question translated",
		zap.String("model", t.client.Model()),
		zap.Int("history_turns", len(history)),
		zap.Duration("duration", time.Since(start)))

	return query, nil
}

// trimHistory keeps the most recent HistoryTurns messages.
func trimHistory(history []Turn) []Turn {
	if len(history) <= HistoryTurns {
		return history
	}
	return history[len(history)-HistoryTurns:]
}

// stripCodeFence removes a surrounding markdown code fence. Models often
// wrap SQL in ```sql blocks despite being told not to.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```")
	if idx := strings.Index(s, "\n"); idx >= 0 {
		// Drop a language tag such as "sql" on the opening fence line.
		first := strings.TrimSpace(s[:idx])
		if len(first) <= 10 && !strings.ContainsAny(first, " ;") {
			s = s[idx+1:]
		}
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
