package sql

import "strings"

// SuggestImprovements returns plain-language, non-blocking suggestions for
// a SQL query. It is independent of validation and runs even for queries
// that failed the safety gate, so the caller always gets actionable
// feedback. Each rule is independent; any subset may fire.
func SuggestImprovements(query string) []string {
	var suggestions []string
	upper := strings.ToUpper(query)

	if strings.Contains(upper, "SELECT") && !strings.Contains(upper, "LIMIT") {
		suggestions = append(suggestions,
			"consider adding a LIMIT clause to prevent large result sets")
	}

	if strings.Contains(upper, "FROM") && !strings.Contains(upper, "WHERE") &&
		!strings.Contains(upper, "GROUP BY") {
		suggestions = append(suggestions,
			"consider adding a WHERE clause to filter results")
	}

	if strings.Contains(upper, "JOIN") {
		suggestions = append(suggestions,
			"ensure JOIN conditions use indexed columns for better performance")
	}

	if strings.Contains(upper, "SELECT *") {
		suggestions = append(suggestions,
			"consider selecting specific columns instead of SELECT * for better performance")
	}

	return suggestions
}
