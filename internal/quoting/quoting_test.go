package quoting

import "testing"

func TestBracket(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple", "Name", "[Name]"},
		{"empty", "", "[]"},
		{"already wrapped", "[Name]", "[Name]"},
		{"wrapped schema", "[dbo]", "[dbo]"},
		{"leading bracket only", "[Name", "[[Name]"},
		{"trailing bracket only", "Name]", "[Name]]"},
		{"single open bracket", "[", "[[]"},
		{"with space", "my column", "[my column]"},
		{"reserved word", "Order", "[Order]"},
		{"unicode", "café", "[café]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Bracket(tt.input)
			if got != tt.want {
				t.Errorf("Bracket(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestBracketIdempotent(t *testing.T) {
	t.Parallel()
	for _, s := range []string{"Id", "Name", "[x]", "a b", "", "Order"} {
		once := Bracket(s)
		twice := Bracket(once)
		if once != twice {
			t.Errorf("Bracket not idempotent for %q: %q then %q", s, once, twice)
		}
	}
}

func TestIsBlank(t *testing.T) {
	t.Parallel()
	tests := []struct {
		input string
		want  bool
	}{
		{"", true},
		{" ", true},
		{"\t\n", true},
		{"a", false},
		{" a ", false},
	}
	for _, tt := range tests {
		if got := IsBlank(tt.input); got != tt.want {
			t.Errorf("IsBlank(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
