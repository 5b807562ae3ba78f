package agent

import (
	"github.com/askdb-ai/askdb/pkg/sql"
	"github.com/askdb-ai/askdb/pkg/warehouse"
)

// QueryResponse is the full outcome of one question: the generated SQL, its
// validation verdict, improvement suggestions, and execution results when
// the query ran.
type QueryResponse struct {
	Question    string                 `json:"question"`
	SQL         string                 `json:"sql"`
	Validation  sql.ValidationResult   `json:"validation"`
	Suggestions []string               `json:"suggestions,omitempty"`
	Executed    bool                   `json:"executed"`
	Results     *warehouse.QueryResult `json:"results,omitempty"`
	RowCount    int                    `json:"row_count"`
	// Error carries an execution failure. Translation failures are returned
	// as errors instead, since there is nothing to show for them.
	Error string `json:"error,omitempty"`
}
