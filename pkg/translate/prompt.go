package translate

import (
	"fmt"
	"sort"
	"strings"
)

// ComposeSystemPrompt renders the schema context into the system prompt.
// Output is deterministic for a given context: table order follows the
// context and sample row keys are sorted.
func ComposeSystemPrompt(qc *QueryContext) string {
	var b strings.Builder

	b.WriteString("You are a PostgreSQL expert. Convert natural language questions into SQL queries.\n\n")
	b.WriteString("Available tables and their schemas:\n\n")

	for _, table := range qc.Tables {
		fmt.Fprintf(&b, "Table: %s\n", table.Name)
		b.WriteString("Columns:\n")
		for _, col := range table.Columns {
			nullable := "NOT NULL"
			if col.IsNullable {
				nullable = "NULL"
			}
			fmt.Fprintf(&b, "  - %s %s %s", col.Name, col.DataType, nullable)
			if col.Comment != "" {
				fmt.Fprintf(&b, " -- %s", col.Comment)
			}
			b.WriteString("\n")
		}
		if len(table.SampleRows) > 0 {
			b.WriteString("Sample row:\n")
			b.WriteString("  " + formatRow(table.SampleRows[0]) + "\n")
		}
		b.WriteString("\n")
	}

	b.WriteString("Rules:\n")
	b.WriteString("1. Generate only SELECT queries. Never generate INSERT, UPDATE, DELETE, or DDL.\n")
	b.WriteString("2. Use PostgreSQL syntax and functions.\n")
	b.WriteString("3. Add a LIMIT clause unless the question asks for an aggregate.\n")
	b.WriteString("4. Use only the tables and columns listed above.\n")
	b.WriteString("5. Return only the SQL query, with no explanation or markdown.\n")

	return b.String()
}

// formatRow renders one sample row with sorted keys so repeated prompt
// builds over the same data are byte-identical.
func formatRow(row map[string]any) string {
	keys := make([]string, 0, len(row))
	for k := range row {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, row[k]))
	}
	return strings.Join(parts, ", ")
}
