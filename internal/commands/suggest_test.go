package commands

import (
	"testing"

	"github.com/pixil98/go-party/internal/party"
	"github.com/pixil98/go-testutil"
)

func TestHandler_Suggest(t *testing.T) {
	tests := map[string]struct {
		allowTP bool
		args    []string
		exp     []string
	}{
		"no arguments lists verbs": {
			exp: []string{"create", "invite", "accept", "deny", "leave", "leader", "disband", "gui"},
		},
		"no arguments with tp": {
			allowTP: true,
			exp:     []string{"create", "invite", "accept", "deny", "leave", "leader", "disband", "gui", "tp"},
		},
		"verb prefix": {
			args: []string{"le"},
			exp:  []string{"leave", "leader"},
		},
		"tp hidden when disabled": {
			args: []string{"t"},
		},
		"tp offered when enabled": {
			allowTP: true,
			args:    []string{"t"},
			exp:     []string{"tp"},
		},
		"invite completes players": {
			args: []string{"invite", ""},
			exp:  []string{"alice", "bob", "bobby"},
		},
		"leader completes players by prefix": {
			args: []string{"LEADER", "bo"},
			exp:  []string{"bob", "bobby"},
		},
		"other verbs do not complete players": {
			args: []string{"accept", "b"},
		},
		"too many words": {
			args: []string{"invite", "bob", "x"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			lookup := &mockPlayerLookup{online: []party.Identity{"bobby", "alice", "bob"}}
			h := NewHandler(party.NewRegistry(), lookup, &recordingTeleporter{}, &recordingMessenger{}, WithTeleportAllowed(tt.allowTP))

			got := h.Suggest(tt.args...)
			testutil.AssertEqual(t, "count", len(got), len(tt.exp))
			for i := range tt.exp {
				if i >= len(got) {
					break
				}
				testutil.AssertEqual(t, "suggestion", got[i], tt.exp[i])
			}
		})
	}
}
