package commands

import (
	"slices"
	"strings"
)

// verbOrder is the order verbs are listed to players.
var verbOrder = []string{"create", "invite", "accept", "deny", "leave", "leader", "disband", "gui"}

// Verbs returns the party verbs available on this server.
func (h *Handler) Verbs() []string {
	verbs := slices.Clone(verbOrder)
	if h.allowTeleport {
		verbs = append(verbs, "tp")
	}
	return verbs
}

// Suggest completes the last word of a partial party command. With one word
// it offers matching verbs; after invite or leader it offers online players.
func (h *Handler) Suggest(args ...string) []string {
	switch len(args) {
	case 0:
		return h.Verbs()
	case 1:
		return withPrefix(h.Verbs(), args[0])
	case 2:
		switch strings.ToLower(args[0]) {
		case "invite", "leader":
			online := h.players.OnlinePlayers()
			names := make([]string, 0, len(online))
			for _, id := range online {
				names = append(names, string(id))
			}
			slices.Sort(names)
			return withPrefix(names, args[1])
		}
	}
	return nil
}

func withPrefix(options []string, prefix string) []string {
	var matches []string
	for _, o := range options {
		if strings.HasPrefix(o, prefix) {
			matches = append(matches, o)
		}
	}
	return matches
}
