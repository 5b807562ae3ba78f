// Package agent orchestrates the question-to-answer pipeline: schema
// context, translation, validation, execution, and session bookkeeping.
package agent

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/askdb-ai/askdb/pkg/apperrors"
	"github.com/askdb-ai/askdb/pkg/llm"
	"github.com/askdb-ai/askdb/pkg/logging"
	"github.com/askdb-ai/askdb/pkg/session"
	"github.com/askdb-ai/askdb/pkg/sql"
	"github.com/askdb-ai/askdb/pkg/translate"
	"github.com/askdb-ai/askdb/pkg/warehouse"
)

// Agent drives one conversation against the warehouse.
type Agent struct {
	translator *translate.Translator
	contexts   *translate.ContextBuilder
	executor   warehouse.Executor
	store      *session.Store
	logger     *zap.Logger

	sess         *session.Session
	systemPrompt string
}

// New wires an agent from its collaborators. No session exists until
// StartSession is called.
func New(
	translator *translate.Translator,
	contexts *translate.ContextBuilder,
	executor warehouse.Executor,
	store *session.Store,
	logger *zap.Logger,
) *Agent {
	return &Agent{
		translator: translator,
		contexts:   contexts,
		executor:   executor,
		store:      store,
		logger:     logger.Named("agent"),
	}
}

// StartSession resumes the session with the given id, or starts a fresh one
// when the id is empty or unknown.
func (a *Agent) StartSession(id string) error {
	if id != "" {
		sess, err := a.store.Load(id)
		if err == nil {
			a.sess = sess
			a.logger.Info("session resumed",
				zap.String("session_id", id),
				zap.Int("messages", len(sess.Messages)))
			return nil
		}
		if !errors.Is(err, apperrors.ErrSessionNotFound) {
			return err
		}
		a.logger.Info("session not found, starting new", zap.String("session_id", id))
	}

	a.sess = session.New(id)
	a.logger.Info("session started", zap.String("session_id", a.sess.ID))
	return nil
}

// Session returns the active session.
func (a *Agent) Session() *session.Session {
	return a.sess
}

// LoadContext prepares the schema context and system prompt. With useCache
// set, a context cached in a resumed session is reused without touching the
// warehouse.
func (a *Agent) LoadContext(ctx context.Context, useCache bool) error {
	if a.sess == nil {
		return fmt.Errorf("no active session")
	}

	if useCache && a.sess.ContextCache != nil {
		a.systemPrompt = translate.ComposeSystemPrompt(a.sess.ContextCache)
		a.logger.Debug("using cached schema context",
			zap.Int("tables", len(a.sess.ContextCache.Tables)))
		return nil
	}

	qc, err := a.contexts.Build(ctx)
	if err != nil {
		return fmt.Errorf("build schema context: %w", err)
	}

	a.sess.ContextCache = qc
	a.systemPrompt = translate.ComposeSystemPrompt(qc)
	a.logger.Info("schema context loaded", zap.Int("tables", len(qc.Tables)))
	return nil
}

// ProcessQuery runs the full pipeline for one question. Translation failure
// is returned as an error and leaves the session transcript untouched.
// Validation failure or execution failure still produce a response and a
// transcript entry, so the conversation can continue.
func (a *Agent) ProcessQuery(ctx context.Context, question string, execute bool) (*QueryResponse, error) {
	if a.sess == nil {
		return nil, fmt.Errorf("no active session")
	}
	if a.systemPrompt == "" {
		if err := a.LoadContext(ctx, true); err != nil {
			return nil, err
		}
	}

	query, err := a.translator.Translate(ctx, question, a.systemPrompt, a.sess.History())
	if err != nil {
		var llmErr *llm.Error
		if errors.As(err, &llmErr) {
			a.logger.Error("translation failed",
				zap.String("type", string(llmErr.Type)),
				zap.Error(err))
		}
		return nil, err
	}

	resp := &QueryResponse{
		Question:   question,
		SQL:        query,
		Validation: sql.Validate(query),
	}

	if execute && resp.Validation.IsValid {
		results, execErr := a.executor.Execute(ctx, query)
		if execErr != nil {
			resp.Error = execErr.Error()
			a.logger.Warn("query execution failed",
				zap.String("query", logging.SanitizeQuery(query)),
				zap.Error(execErr))
		} else {
			resp.Executed = true
			resp.Results = results
			resp.RowCount = results.RowCount
		}
	}

	resp.Suggestions = sql.SuggestImprovements(query)

	a.sess.Append(llm.RoleUser, question, "", nil)
	a.sess.Append(llm.RoleAssistant, query, query, resp.Results)

	return resp, nil
}

// SaveSession persists the active session.
func (a *Agent) SaveSession() error {
	if a.sess == nil {
		return fmt.Errorf("no active session")
	}
	return a.store.Save(a.sess)
}

// ExportResultsCSV writes a result set as CSV, preserving column order.
func ExportResultsCSV(w io.Writer, results *warehouse.QueryResult) error {
	if results == nil {
		return fmt.Errorf("no results to export")
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(results.Columns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range results.Rows {
		record := make([]string, len(results.Columns))
		for i, col := range results.Columns {
			if v := row[col]; v != nil {
				record[i] = fmt.Sprintf("%v", v)
			}
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv record: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
