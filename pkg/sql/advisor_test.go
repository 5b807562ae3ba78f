package sql

import "testing"

func TestSuggestImprovements(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{
			name:  "fully hinted query",
			query: "SELECT id FROM orders WHERE id > 5 LIMIT 10",
			want:  nil,
		},
		{
			name:  "limit absent",
			query: "SELECT id FROM orders WHERE id > 5",
			want:  []string{"consider adding a LIMIT clause to prevent large result sets"},
		},
		{
			name:  "unfiltered scan",
			query: "SELECT id FROM orders LIMIT 5",
			want:  []string{"consider adding a WHERE clause to filter results"},
		},
		{
			name:  "group by counts as filtering",
			query: "SELECT region, COUNT(1) FROM orders GROUP BY region LIMIT 10",
			want:  nil,
		},
		{
			name:  "join caution",
			query: "SELECT o.id FROM orders o JOIN customers c ON o.cid = c.id WHERE c.active LIMIT 10",
			want:  []string{"ensure JOIN conditions use indexed columns for better performance"},
		},
		{
			name:  "select star caution",
			query: "SELECT * FROM orders WHERE id = 1 LIMIT 1",
			want:  []string{"consider selecting specific columns instead of SELECT * for better performance"},
		},
		{
			name:  "everything fires",
			query: "SELECT * FROM orders o JOIN customers c ON o.cid = c.id",
			want: []string{
				"consider adding a LIMIT clause to prevent large result sets",
				"consider adding a WHERE clause to filter results",
				"ensure JOIN conditions use indexed columns for better performance",
				"consider selecting specific columns instead of SELECT * for better performance",
			},
		},
		{
			name:  "no select no suggestions",
			query: "SHOW TABLES",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SuggestImprovements(tt.query)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d suggestions %v, want %d %v", len(got), got, len(tt.want), tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("suggestion[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

// Suggestions are produced independently of validation so that even a
// rejected query gets feedback the user can act on.
func TestSuggestImprovements_IndependentOfValidation(t *testing.T) {
	query := "DELETE FROM orders"
	if result := Validate(query); result.IsValid {
		t.Fatal("precondition: query should fail validation")
	}
	got := SuggestImprovements(query)
	if len(got) == 0 {
		t.Error("expected suggestions for an invalid query")
	}
}
