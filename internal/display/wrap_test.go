package display

import (
	"strings"
	"testing"

	"github.com/pixil98/go-testutil"
)

func TestCapitalize(t *testing.T) {
	tests := map[string]struct {
		in  string
		exp string
	}{
		"empty":          {in: "", exp: ""},
		"lowercase":      {in: "bob has joined the party.", exp: "Bob has joined the party."},
		"already upper":  {in: "Alice", exp: "Alice"},
		"keeps the rest": {in: "mcFly leads", exp: "McFly leads"},
		"non ascii":      {in: "élodie left", exp: "Élodie left"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			testutil.AssertEqual(t, "result", Capitalize(tt.in), tt.exp)
		})
	}
}

func TestWrap(t *testing.T) {
	text := strings.Repeat("member ", 30)
	for _, line := range strings.Split(Wrap(text), "\n") {
		if len(strings.TrimSpace(line)) > DefaultWidth {
			t.Errorf("line longer than %d: %q", DefaultWidth, line)
		}
	}
	testutil.AssertEqual(t, "short text untouched", Wrap("alice"), "alice")
}
