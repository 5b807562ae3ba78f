// Package translate turns natural-language questions into SQL using an LLM,
// grounded in schema context gathered from the warehouse.
package translate

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/askdb-ai/askdb/pkg/apperrors"
	"github.com/askdb-ai/askdb/pkg/warehouse"
)

const (
	// MaxContextTables caps how many tables are described in the prompt.
	MaxContextTables = 10
	// SampleRowLimit is how many rows are fetched per table for context.
	SampleRowLimit = 3
	// HistoryTurns is how many prior messages are replayed to the model.
	HistoryTurns = 5
)

// Turn is one prior message in the conversation, replayed for follow-up
// questions.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// TableContext is the schema and sample data for one table.
type TableContext struct {
	Name       string             `json:"name"`
	Columns    []warehouse.Column `json:"columns"`
	SampleRows []warehouse.Row    `json:"sample_rows,omitempty"`
}

// QueryContext is everything the prompt composer needs about the warehouse.
// Tables preserve the order returned by the schema source so prompts are
// deterministic.
type QueryContext struct {
	Tables []TableContext `json:"tables"`
}

// ContextBuilder gathers schema context from a warehouse.
type ContextBuilder struct {
	source warehouse.SchemaSource
	logger *zap.Logger
}

func NewContextBuilder(source warehouse.SchemaSource, logger *zap.Logger) *ContextBuilder {
	return &ContextBuilder{
		source: source,
		logger: logger.Named("context"),
	}
}

// Build lists the schema's tables and collects columns and sample rows for
// up to MaxContextTables of them. A table whose metadata cannot be read is
// skipped with a warning; sample failures degrade to schema-only context.
// Returns apperrors.ErrNoTables when the schema has no tables at all.
func (b *ContextBuilder) Build(ctx context.Context) (*QueryContext, error) {
	tables, err := b.source.ListTables(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	if len(tables) == 0 {
		return nil, apperrors.ErrNoTables
	}

	if len(tables) > MaxContextTables {
		b.logger.Info("capping context tables",
			zap.Int("available", len(tables)),
			zap.Int("cap", MaxContextTables))
		tables = tables[:MaxContextTables]
	}

	qc := &QueryContext{Tables: make([]TableContext, 0, len(tables))}
	for _, name := range tables {
		columns, err := b.source.DescribeTable(ctx, name)
		if err != nil {
			b.logger.Warn("skipping table, describe failed",
				zap.String("table", name), zap.Error(err))
			continue
		}

		samples, err := b.source.Sample(ctx, name, SampleRowLimit)
		if err != nil {
			b.logger.Warn("sampling failed, using schema only",
				zap.String("table", name), zap.Error(err))
			samples = nil
		}

		qc.Tables = append(qc.Tables, TableContext{
			Name:       name,
			Columns:    columns,
			SampleRows: samples,
		})
	}

	if len(qc.Tables) == 0 {
		return nil, fmt.Errorf("no tables could be described out of %d listed", len(tables))
	}

	return qc, nil
}
