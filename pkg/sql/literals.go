package sql

import (
	"fmt"

	libinjection "github.com/corazawaf/libinjection-go"
)

// scanLiterals runs each single-quoted string literal in the query through
// libinjection and returns a warning for every literal that fingerprints
// as an injection payload. Advisory only: generated SQL may legitimately
// embed odd-looking literals, so a hit never blocks execution.
func scanLiterals(query string) []string {
	var warnings []string
	for _, literal := range extractStringLiterals(query) {
		if literal == "" {
			continue
		}
		if isSQLi, fingerprint := libinjection.IsSQLi(literal); isSQLi {
			warnings = append(warnings, fmt.Sprintf(
				"string literal %q matches a SQL injection pattern (fingerprint %s)",
				truncateLiteral(literal), fingerprint))
		}
	}
	return warnings
}

// extractStringLiterals returns the contents of every single-quoted string
// literal in the query. Doubled quotes ('') are treated as an escaped quote
// inside the literal.
func extractStringLiterals(query string) []string {
	var literals []string
	runes := []rune(query)

	for i := 0; i < len(runes); i++ {
		if runes[i] != '\'' {
			continue
		}

		var current []rune
		i++
		for i < len(runes) {
			if runes[i] == '\'' {
				// Doubled quote: literal continues with a single quote.
				if i+1 < len(runes) && runes[i+1] == '\'' {
					current = append(current, '\'')
					i += 2
					continue
				}
				break
			}
			current = append(current, runes[i])
			i++
		}
		literals = append(literals, string(current))
	}

	return literals
}

func truncateLiteral(s string) string {
	const maxLen = 40
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
