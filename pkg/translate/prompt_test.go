package translate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/askdb-ai/askdb/pkg/warehouse"
)

func testContext() *QueryContext {
	comment := "ISO currency code"
	return &QueryContext{
		Tables: []TableContext{
			{
				Name: "orders",
				Columns: []warehouse.Column{
					{Name: "id", DataType: "integer"},
					{Name: "total", DataType: "numeric", IsNullable: true, Comment: comment},
				},
				SampleRows: []warehouse.Row{
					{"ID": 1, "TOTAL": 19.99},
					{"ID": 2, "TOTAL": 5.00},
				},
			},
			{
				Name:    "customers",
				Columns: []warehouse.Column{{Name: "id", DataType: "integer"}},
			},
		},
	}
}

func TestComposeSystemPrompt(t *testing.T) {
	prompt := ComposeSystemPrompt(testContext())

	assert.Contains(t, prompt, "Table: orders")
	assert.Contains(t, prompt, "Table: customers")
	assert.Contains(t, prompt, "- id integer NOT NULL")
	assert.Contains(t, prompt, "- total numeric NULL -- ISO currency code")
	assert.Contains(t, prompt, "Generate only SELECT queries")
	assert.Contains(t, prompt, "PostgreSQL")
}

func TestComposeSystemPrompt_OnlyFirstSampleRow(t *testing.T) {
	prompt := ComposeSystemPrompt(testContext())

	assert.Contains(t, prompt, "ID=1, TOTAL=19.99")
	assert.NotContains(t, prompt, "ID=2")
}

func TestComposeSystemPrompt_NoSampleSection(t *testing.T) {
	qc := &QueryContext{Tables: []TableContext{
		{Name: "empty", Columns: []warehouse.Column{{Name: "id", DataType: "integer"}}},
	}}
	assert.NotContains(t, ComposeSystemPrompt(qc), "Sample row")
}

func TestComposeSystemPrompt_Deterministic(t *testing.T) {
	qc := testContext()
	first := ComposeSystemPrompt(qc)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, ComposeSystemPrompt(qc))
	}
}

func TestComposeSystemPrompt_TableOrderPreserved(t *testing.T) {
	prompt := ComposeSystemPrompt(testContext())
	assert.Less(t, strings.Index(prompt, "Table: orders"), strings.Index(prompt, "Table: customers"))
}
