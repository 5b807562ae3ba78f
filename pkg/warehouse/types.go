// Package warehouse provides PostgreSQL connectivity, schema introspection,
// and bounded query execution for the assistant.
package warehouse

import "context"

// Column describes a single column of a warehouse table.
type Column struct {
	Name       string  `json:"name"`
	DataType   string  `json:"data_type"`
	IsNullable bool    `json:"is_nullable"`
	Default    *string `json:"default,omitempty"`
	Comment    string  `json:"comment,omitempty"`
}

// Row is a single result row keyed by upper-cased column name.
type Row map[string]any

// QueryResult holds the bounded outcome of a query execution.
type QueryResult struct {
	Columns  []string `json:"columns"`
	Rows     []Row    `json:"rows"`
	RowCount int      `json:"row_count"`
	// Truncated is set when the result was cut at the configured row cap.
	Truncated bool `json:"truncated,omitempty"`
}

// SchemaSource exposes warehouse metadata for context building.
type SchemaSource interface {
	// ListTables returns the table names in the configured schema, sorted.
	ListTables(ctx context.Context) ([]string, error)
	// DescribeTable returns the columns of a table in ordinal order.
	DescribeTable(ctx context.Context, table string) ([]Column, error)
	// Sample returns up to limit rows from a table.
	Sample(ctx context.Context, table string, limit int) ([]Row, error)
}

// Executor runs SQL against the warehouse.
type Executor interface {
	Execute(ctx context.Context, query string) (*QueryResult, error)
}
