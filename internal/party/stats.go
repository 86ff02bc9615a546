package party

import (
	"sync"
	"time"
)

// PlayerStats holds the party-related state of one connected player.
// Party and invite are handles into the registry's party arena, empty when unset.
type PlayerStats struct {
	mu        sync.Mutex
	id        Identity
	party     PartyID
	invite    PartyID
	invitedAt time.Time
	connected bool
}

// Identity returns the player this entry belongs to.
func (ps *PlayerStats) Identity() Identity {
	return ps.id
}

// Party returns the handle of the player's current party, or "" if none.
func (ps *PlayerStats) Party() PartyID {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	return ps.party
}

// Invite returns the handle of the party that has invited the player, or "" if none.
func (ps *PlayerStats) Invite() PartyID {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	return ps.invite
}

// InParty reports whether the player currently belongs to a party.
func (ps *PlayerStats) InParty() bool {
	return ps.Party() != ""
}

func (ps *PlayerStats) clearInviteFrom(id PartyID) bool {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	if ps.invite != id {
		return false
	}
	ps.invite = ""
	ps.invitedAt = time.Time{}
	return true
}
