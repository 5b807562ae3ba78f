package sql

import "strings"

// stripTrailingSemicolon removes a single trailing semicolon and any
// surrounding whitespace. One trailing semicolon is legitimate; anything
// beyond it signals a second statement.
func stripTrailingSemicolon(query string) string {
	query = strings.TrimRight(query, " \t\n\r")
	if strings.HasSuffix(query, ";") {
		query = strings.TrimRight(strings.TrimSuffix(query, ";"), " \t\n\r")
	}
	return query
}

// hasSemicolonOutsideStrings reports whether the query contains a semicolon
// outside of single-quoted strings and double-quoted identifiers. SQL
// standard doubled quotes ('') are handled; a backslash is a literal
// character under PostgreSQL's standard_conforming_strings, never an
// escape, so 'a\' ends its string at the second quote.
func hasSemicolonOutsideStrings(query string) bool {
	const (
		stateNormal = iota
		stateSingleQuote
		stateDoubleQuote
	)

	state := stateNormal

	for _, ch := range query {
		switch state {
		case stateNormal:
			switch ch {
			case ';':
				return true
			case '\'':
				state = stateSingleQuote
			case '"':
				state = stateDoubleQuote
			}
		case stateSingleQuote:
			// A doubled quote ('') exits and immediately re-enters on the
			// next quote, which keeps us inside the string.
			if ch == '\'' {
				state = stateNormal
			}
		case stateDoubleQuote:
			if ch == '"' {
				state = stateNormal
			}
		}
	}

	return false
}
