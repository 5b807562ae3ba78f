// Package sql provides heuristic SQL safety validation and improvement
// advice. Checks are purely textual; no SQL parser is required or assumed.
package sql

import (
	"fmt"
	"strings"
)

// dangerKeywords flag write/DDL operations. A match is advisory only: a
// legitimate analytical query may reference these words (for example in a
// string literal), so false positives are preferred over blocking.
var dangerKeywords = []string{"DROP", "DELETE", "TRUNCATE", "ALTER", "CREATE"}

// noTableFuncs are functions that make a SELECT without FROM plausible.
var noTableFuncs = []string{"CURRENT_", "SYSDATE", "GETDATE"}

// ValidationResult contains the outcome of validating a candidate query.
// Warnings are advisory; only Errors make the query ineligible for
// automatic execution.
type ValidationResult struct {
	IsValid  bool     `json:"is_valid"`
	Warnings []string `json:"warnings"`
	Errors   []string `json:"errors"`
}

// Validate applies the safety rule set to a candidate SQL string.
//
// Rules, each independently evaluated:
//  1. Danger scan: one warning per matched danger keyword (advisory).
//  2. Entry-point check: the query must start with SELECT, or contain
//     WITH, SHOW, or DESCRIBE anywhere. Failing this is an error and
//     makes the query invalid.
//  3. Structural sanity: SELECT without FROM draws a warning unless a
//     no-table function (CURRENT_*, SYSDATE, GETDATE) is present.
//  4. Multi-statement check: after stripping one trailing semicolon, any
//     remaining semicolon outside string literals is an error. This
//     closes the gap where a write statement rides behind a leading
//     SELECT.
//  5. Literal scan: string literals that look like injection payloads
//     draw a warning (advisory).
func Validate(query string) ValidationResult {
	result := ValidationResult{
		IsValid:  true,
		Warnings: []string{},
		Errors:   []string{},
	}

	upper := strings.ToUpper(strings.TrimSpace(query))

	for _, keyword := range dangerKeywords {
		if strings.Contains(upper, keyword) {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("query contains potentially dangerous operation: %s", keyword))
		}
	}

	if !strings.HasPrefix(upper, "SELECT") && !containsAny(upper, "WITH", "SHOW", "DESCRIBE") {
		result.Errors = append(result.Errors,
			"query must start with SELECT, WITH, SHOW, or DESCRIBE")
		result.IsValid = false
	}

	if strings.Contains(upper, "SELECT") && !strings.Contains(upper, "FROM") &&
		!containsAny(upper, noTableFuncs...) {
		result.Warnings = append(result.Warnings, "SELECT query without FROM clause")
	}

	normalized := stripTrailingSemicolon(strings.TrimSpace(query))
	if hasSemicolonOutsideStrings(normalized) {
		result.Errors = append(result.Errors,
			"multiple SQL statements are not allowed; submit a single statement")
		result.IsValid = false
	}

	for _, warning := range scanLiterals(query) {
		result.Warnings = append(result.Warnings, warning)
	}

	return result
}

func containsAny(s string, substrings ...string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
