package party

import (
	"slices"
	"sync"

	"github.com/google/uuid"
)

// Identity is the host-supplied identifier of a player. Matching is exact.
type Identity string

// PartyID is the stable handle of a party for its whole lifetime.
type PartyID string

func newPartyID() PartyID {
	return PartyID(uuid.New().String())
}

// Party is a runtime group of players with a single leader.
// All structural changes happen with mu held; the registry is the only
// mutator. A party that has been destroyed is never handed out again.
type Party struct {
	mu        sync.Mutex
	id        PartyID
	leader    Identity
	members   []Identity // join order
	destroyed bool
}

func newParty(id PartyID, founder Identity) *Party {
	return &Party{
		id:      id,
		leader:  founder,
		members: []Identity{founder},
	}
}

func (p *Party) hasMember(id Identity) bool {
	return slices.Contains(p.members, id)
}

func (p *Party) removeMember(id Identity) bool {
	i := slices.Index(p.members, id)
	if i < 0 {
		return false
	}
	p.members = slices.Delete(p.members, i, i+1)
	return true
}

// view must be called with mu held.
func (p *Party) view() View {
	return View{
		ID:      p.id,
		Leader:  p.leader,
		Members: slices.Clone(p.members),
	}
}

// View is a point-in-time copy of a party's membership.
type View struct {
	ID      PartyID
	Leader  Identity
	Members []Identity
}

// HasMember reports whether id was a member when the view was taken.
func (v View) HasMember(id Identity) bool {
	return slices.Contains(v.Members, id)
}
