package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/askdb-ai/askdb/pkg/agent"
	"github.com/askdb-ai/askdb/pkg/session"
	"github.com/askdb-ai/askdb/pkg/warehouse"
)

// maxDisplayRows caps how many result rows are printed; exports are not
// affected by this limit.
const maxDisplayRows = 20

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62"))

	sqlStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	cellStyle = lipgloss.NewStyle().Padding(0, 1)
)

// renderResponse prints the outcome of one question: the generated SQL,
// validation findings, results, and suggestions.
func renderResponse(resp *agent.QueryResponse) {
	fmt.Println()
	fmt.Println(headerStyle.Render("SQL:"))
	fmt.Println(sqlStyle.Render("  " + strings.ReplaceAll(resp.SQL, "\n", "\n  ")))

	for _, e := range resp.Validation.Errors {
		fmt.Println(errorStyle.Render("  ✗ " + e))
	}
	for _, w := range resp.Validation.Warnings {
		fmt.Println(warnStyle.Render("  ⚠ " + w))
	}

	if resp.Error != "" {
		fmt.Println()
		fmt.Println(errorStyle.Render("Execution failed: ") + resp.Error)
	}

	if resp.Executed && resp.Results != nil {
		fmt.Println()
		fmt.Println(renderResults(resp.Results))
	}

	if len(resp.Suggestions) > 0 {
		fmt.Println()
		fmt.Println(dimStyle.Render("Suggestions:"))
		for _, s := range resp.Suggestions {
			fmt.Println(dimStyle.Render("  • " + s))
		}
	}
	fmt.Println()
}

// renderResults formats a result set as a bordered table, truncated for
// display.
func renderResults(results *warehouse.QueryResult) string {
	if results.RowCount == 0 {
		return dimStyle.Render("(no rows)")
	}

	displayed := results.Rows
	if len(displayed) > maxDisplayRows {
		displayed = displayed[:maxDisplayRows]
	}

	rows := make([][]string, 0, len(displayed))
	for _, row := range displayed {
		record := make([]string, len(results.Columns))
		for i, col := range results.Columns {
			record[i] = formatValue(row[col])
		}
		rows = append(rows, record)
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(dimStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return cellStyle.Bold(true)
			}
			return cellStyle
		}).
		Headers(results.Columns...).
		Rows(rows...)

	out := t.Render()

	var notes []string
	if len(results.Rows) > maxDisplayRows {
		notes = append(notes, fmt.Sprintf("showing %d of %d rows", maxDisplayRows, results.RowCount))
	}
	if results.Truncated {
		notes = append(notes, "result was truncated at the configured row cap")
	}
	if len(notes) > 0 {
		out += "\n" + dimStyle.Render(strings.Join(notes, "; "))
	}
	return out
}

func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return dimStyle.Render("NULL")
	case time.Time:
		return val.Format("2006-01-02 15:04:05")
	case []byte:
		return string(val)
	case float64:
		return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.4f", val), "0"), ".")
	default:
		return fmt.Sprintf("%v", val)
	}
}

// renderSessionList prints stored session summaries, newest first.
func renderSessionList(infos []session.Info) {
	if len(infos) == 0 {
		fmt.Println(dimStyle.Render("No saved sessions."))
		return
	}

	rows := make([][]string, 0, len(infos))
	for _, info := range infos {
		rows = append(rows, []string{
			info.ID,
			info.CreatedAt.Local().Format("2006-01-02 15:04"),
			fmt.Sprintf("%d", info.MessageCount),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(dimStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return cellStyle.Bold(true)
			}
			return cellStyle
		}).
		Headers("ID", "Created", "Messages").
		Rows(rows...)

	fmt.Println(t.Render())
}
