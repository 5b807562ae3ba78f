package sql

import (
	"strings"
	"testing"
)

func hasEntry(entries []string, substr string) bool {
	for _, e := range entries {
		if strings.Contains(e, substr) {
			return true
		}
	}
	return false
}

func TestValidate_EntryPointGate(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		wantValid bool
	}{
		{"plain select", "SELECT * FROM customers", true},
		{"lowercase select", "select id from orders", true},
		{"leading whitespace", "   SELECT 1", true},
		{"cte", "WITH t AS (SELECT 1) SELECT * FROM t", true},
		{"show", "SHOW TABLES", true},
		{"describe", "DESCRIBE customers", true},
		{"drop", "DROP TABLE customers", false},
		{"delete", "DELETE FROM customers", false},
		{"insert", "INSERT INTO customers VALUES (1)", false},
		{"update", "UPDATE customers SET name = 'x'", false},
		{"free text", "hello there", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Validate(tt.query)
			if result.IsValid != tt.wantValid {
				t.Errorf("IsValid = %v, want %v (errors: %v)", result.IsValid, tt.wantValid, result.Errors)
			}
			if !tt.wantValid && len(result.Errors) == 0 {
				t.Error("invalid query must carry at least one error")
			}
			if tt.wantValid && len(result.Errors) != 0 {
				t.Errorf("valid query must carry no errors, got %v", result.Errors)
			}
		})
	}
}

func TestValidate_DangerScanIsAdvisory(t *testing.T) {
	// A query that references a danger keyword but starts with SELECT stays
	// executable; the finding is surfaced as a warning only.
	result := Validate("SELECT * FROM audit_log WHERE action = 'DROP'")
	if !result.IsValid {
		t.Fatalf("danger keyword must not block a SELECT, errors: %v", result.Errors)
	}
	if !hasEntry(result.Warnings, "DROP") {
		t.Errorf("expected a DROP warning, got %v", result.Warnings)
	}
}

func TestValidate_OneWarningPerDistinctKeyword(t *testing.T) {
	result := Validate("SELECT 'DROP', 'DELETE', 'TRUNCATE' FROM t")
	for _, kw := range []string{"DROP", "DELETE", "TRUNCATE"} {
		count := 0
		for _, w := range result.Warnings {
			if strings.Contains(w, kw) && strings.Contains(w, "dangerous") {
				count++
			}
		}
		if count != 1 {
			t.Errorf("keyword %s: got %d danger warnings, want 1", kw, count)
		}
	}
}

func TestValidate_DropStatement(t *testing.T) {
	result := Validate("DROP TABLE customers")
	if result.IsValid {
		t.Error("DROP statement must be invalid")
	}
	if !hasEntry(result.Warnings, "DROP") {
		t.Errorf("expected a DROP danger warning, got %v", result.Warnings)
	}
	if len(result.Errors) == 0 {
		t.Error("expected an entry-point error")
	}
}

func TestValidate_SelectWithoutFrom(t *testing.T) {
	tests := []struct {
		name        string
		query       string
		wantWarning bool
	}{
		{"arithmetic", "SELECT 1+1", true},
		{"current timestamp", "SELECT CURRENT_TIMESTAMP()", false},
		{"current date", "SELECT CURRENT_DATE", false},
		{"sysdate", "SELECT SYSDATE", false},
		{"getdate", "SELECT GETDATE()", false},
		{"regular from", "SELECT id FROM orders", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Validate(tt.query)
			if !result.IsValid {
				t.Fatalf("query should be valid, errors: %v", result.Errors)
			}
			got := hasEntry(result.Warnings, "without FROM")
			if got != tt.wantWarning {
				t.Errorf("missing-FROM warning = %v, want %v (warnings: %v)", got, tt.wantWarning, result.Warnings)
			}
		})
	}
}

func TestValidate_MultiStatementRejected(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"select then drop", "SELECT * FROM t; DROP TABLE t;"},
		{"select then delete", "SELECT * FROM users WHERE 1=1; DELETE FROM users"},
		{"two selects", "SELECT 1; SELECT 2"},
		{"statement hidden behind backslash quote", `SELECT 'a\'; DROP TABLE t`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Validate(tt.query)
			if result.IsValid {
				t.Error("multi-statement input must be invalid")
			}
			if !hasEntry(result.Errors, "multiple SQL statements") {
				t.Errorf("expected a multi-statement error, got %v", result.Errors)
			}
		})
	}
}

func TestValidate_TrailingSemicolonAllowed(t *testing.T) {
	result := Validate("SELECT * FROM customers;")
	if !result.IsValid {
		t.Errorf("single trailing semicolon must be allowed, errors: %v", result.Errors)
	}
}

func TestValidate_SemicolonInsideLiteralAllowed(t *testing.T) {
	result := Validate("SELECT * FROM notes WHERE body = 'a;b'")
	if !result.IsValid {
		t.Errorf("semicolon inside a string literal must be allowed, errors: %v", result.Errors)
	}
}

func TestValidate_InjectionLiteralWarns(t *testing.T) {
	result := Validate("SELECT * FROM users WHERE name = '1'' OR ''1''=''1'")
	if !result.IsValid {
		t.Fatalf("literal findings are advisory, errors: %v", result.Errors)
	}
	if !hasEntry(result.Warnings, "injection") {
		t.Errorf("expected an injection warning, got %v", result.Warnings)
	}
}

func TestValidate_CleanQueryHasNoInjectionWarning(t *testing.T) {
	result := Validate("SELECT * FROM customers WHERE name = 'O''Brien'")
	if hasEntry(result.Warnings, "injection") {
		t.Errorf("benign literal flagged: %v", result.Warnings)
	}
}
