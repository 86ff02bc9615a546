package party

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// Registry is the single source of truth for party state in a session.
// It owns every PlayerStats entry and the arena of live parties; players
// refer to parties by PartyID only.
//
// Lock order is party, then player stats, then the registry map lock.
type Registry struct {
	mu      sync.RWMutex
	players map[Identity]*PlayerStats
	parties map[PartyID]*Party

	notifier  Notifier
	exclusive bool
	presence  bool
	inviteTTL time.Duration
	now       func() time.Time
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...RegistryOpt) *Registry {
	r := &Registry{
		players:  make(map[Identity]*PlayerStats),
		parties:  make(map[PartyID]*Party),
		notifier: noopNotifier{},
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Get returns the stats for id, creating an empty entry on first reference.
func (r *Registry) Get(id Identity) *PlayerStats {
	if ps := r.lookup(id); ps != nil {
		return ps
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if ps, ok := r.players[id]; ok {
		return ps
	}
	ps := &PlayerStats{id: id}
	r.players[id] = ps
	return ps
}

// Remove drops the entry for id. Callers should use Disconnect unless the
// player is known to hold no party.
func (r *Registry) Remove(id Identity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.players, id)
}

// InParty reports whether id currently belongs to a party.
func (r *Registry) InParty(id Identity) bool {
	ps := r.lookup(id)
	return ps != nil && ps.InParty()
}

// PartyOf returns a snapshot of the party id belongs to.
func (r *Registry) PartyOf(id Identity) (View, bool) {
	ps := r.lookup(id)
	if ps == nil {
		return View{}, false
	}
	p := r.lockPartyOf(ps)
	if p == nil {
		return View{}, false
	}
	defer p.mu.Unlock()
	return p.view(), true
}

// PartyCount returns the number of live parties.
func (r *Registry) PartyCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.parties)
}

// Create starts a new party with founder as its leader and only member.
func (r *Registry) Create(founder Identity) (PartyID, error) {
	ps := r.Get(founder)
	ps.mu.Lock()
	defer ps.mu.Unlock()

	if ps.party != "" {
		return "", ErrAlreadyInParty
	}

	// The party must be in the arena before any handle points at it.
	p := newParty(newPartyID(), founder)
	r.mu.Lock()
	r.parties[p.id] = p
	r.mu.Unlock()

	ps.party = p.id
	return p.id, nil
}

// Invite offers target a place in inviter's party. Any member may invite.
// A pending invite from another party is replaced unless the registry was
// built with WithExclusiveInvites.
//
// With WithPresence, target must have been registered with Connect and not
// yet disconnected.
func (r *Registry) Invite(inviter, target Identity) error {
	return r.withParty(r.Get(inviter), func(p *Party, out *outbox) error {
		ts := r.inviteTarget(target)
		if ts == nil {
			return ErrTargetNotConnected
		}
		ts.mu.Lock()
		defer ts.mu.Unlock()

		if r.presence && !ts.connected {
			return ErrTargetNotConnected
		}
		if ts.party != "" {
			return ErrAlreadyInParty
		}
		if r.exclusive && ts.invite != "" {
			return ErrTargetAlreadyInvited
		}

		ts.invite = p.id
		ts.invitedAt = r.now()

		out.info(target, "%s has invited you to join their party.", inviter)
		return nil
	})
}

// Accept moves invitee into the party that invited them.
func (r *Registry) Accept(invitee Identity) (PartyID, error) {
	ps := r.Get(invitee)
	for {
		pid := ps.Invite()
		if pid == "" {
			return "", ErrNoPendingInvite
		}
		p := r.party(pid)
		if p == nil {
			// Destruction clears invites before the party leaves the arena.
			continue
		}

		p.mu.Lock()
		if p.destroyed {
			p.mu.Unlock()
			continue
		}
		ps.mu.Lock()
		if ps.invite != pid {
			ps.mu.Unlock()
			p.mu.Unlock()
			continue
		}
		if ps.party != "" {
			ps.mu.Unlock()
			p.mu.Unlock()
			return "", ErrAlreadyInParty
		}

		p.members = append(p.members, invitee)
		ps.party = pid
		ps.invite = ""
		ps.invitedAt = time.Time{}
		ps.mu.Unlock()

		var out outbox
		out.broadcast(p.members, "%s has joined the party.", invitee)
		p.mu.Unlock()

		out.flush(r.notifier)
		return pid, nil
	}
}

// Deny discards invitee's pending invite. The inviting party is not touched.
func (r *Registry) Deny(invitee Identity) error {
	ps := r.Get(invitee)
	ps.mu.Lock()
	defer ps.mu.Unlock()

	if ps.invite == "" {
		return ErrNoPendingInvite
	}
	ps.invite = ""
	ps.invitedAt = time.Time{}
	return nil
}

// Leave removes member from their party. The last member leaving destroys
// the party; a departing leader hands leadership to the longest-standing
// remaining member.
func (r *Registry) Leave(member Identity) error {
	ps := r.Get(member)
	return r.withParty(ps, func(p *Party, out *outbox) error {
		p.removeMember(member)
		ps.mu.Lock()
		ps.party = ""
		ps.mu.Unlock()

		if len(p.members) == 0 {
			r.destroy(p)
			return nil
		}

		out.broadcast(p.members, "%s has left the party.", member)
		if p.leader == member {
			p.leader = p.members[0]
			out.broadcast(p.members, "%s is now the leader of the party.", p.leader)
		}
		return nil
	})
}

// Promote hands leadership of actor's party to target.
func (r *Registry) Promote(actor, target Identity) error {
	return r.withParty(r.Get(actor), func(p *Party, out *outbox) error {
		if p.leader != actor {
			return ErrNotLeader
		}
		if !p.hasMember(target) {
			return ErrTargetNotMember
		}
		if target == actor {
			return nil
		}

		p.leader = target
		out.broadcast(p.members, "%s has been given leadership of the party.", target)
		return nil
	})
}

// Disband destroys actor's party, releasing every member.
func (r *Registry) Disband(actor Identity) error {
	return r.withParty(r.Get(actor), func(p *Party, out *outbox) error {
		if p.leader != actor {
			return ErrNotLeader
		}

		for _, id := range p.members {
			if ps := r.lookup(id); ps != nil {
				ps.mu.Lock()
				ps.party = ""
				ps.mu.Unlock()
			}
			if id == actor {
				out.info(id, "You have disbanded the party.")
			} else {
				out.info(id, "The party has been disbanded.")
			}
		}
		r.destroy(p)
		return nil
	})
}

// Teleport checks that requester and target share a party. Moving the
// player is up to the host.
func (r *Registry) Teleport(requester, target Identity) error {
	ps := r.lookup(requester)
	if ps == nil {
		return ErrNotPartyTeleportable
	}
	err := r.withParty(ps, func(p *Party, _ *outbox) error {
		if !p.hasMember(target) {
			return ErrNotPartyTeleportable
		}
		return nil
	})
	if errors.Is(err, ErrNotAMember) {
		return ErrNotPartyTeleportable
	}
	return err
}

// Connect registers id as present and returns its entry. A returning
// player always starts with no pending invite.
func (r *Registry) Connect(id Identity) *PlayerStats {
	ps := r.Get(id)
	ps.mu.Lock()
	defer ps.mu.Unlock()

	ps.connected = true
	if ps.party == "" {
		ps.invite = ""
		ps.invitedAt = time.Time{}
	}
	return ps
}

// Disconnect runs leave cleanup for id and drops their entry.
func (r *Registry) Disconnect(id Identity) {
	ps := r.lookup(id)
	if ps == nil {
		return
	}

	// Marked first so no invite can land while the party is left.
	ps.mu.Lock()
	ps.connected = false
	ps.mu.Unlock()

	if err := r.Leave(id); err == nil {
		slog.Debug("player left party on disconnect", "player", id)
	}
	ps.mu.Lock()
	ps.invite = ""
	ps.invitedAt = time.Time{}
	ps.mu.Unlock()

	r.Remove(id)
}

// Tick expires invites older than the configured TTL. It does nothing when
// no TTL is set.
func (r *Registry) Tick(ctx context.Context) error {
	if r.inviteTTL <= 0 {
		return nil
	}

	now := r.now()
	r.mu.RLock()
	players := make([]*PlayerStats, 0, len(r.players))
	for _, ps := range r.players {
		players = append(players, ps)
	}
	r.mu.RUnlock()

	var out outbox
	for _, ps := range players {
		ps.mu.Lock()
		if ps.invite != "" && now.Sub(ps.invitedAt) >= r.inviteTTL {
			ps.invite = ""
			ps.invitedAt = time.Time{}
			out.info(ps.id, "Your party invite has expired.")
		}
		ps.mu.Unlock()
	}

	if len(out) > 0 {
		slog.DebugContext(ctx, "expired party invites", "count", len(out))
	}
	out.flush(r.notifier)
	return nil
}

// inviteTarget resolves an invite target. Only known players can be invited
// when presence is tracked.
func (r *Registry) inviteTarget(id Identity) *PlayerStats {
	if r.presence {
		return r.lookup(id)
	}
	return r.Get(id)
}

func (r *Registry) lookup(id Identity) *PlayerStats {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.players[id]
}

func (r *Registry) party(id PartyID) *Party {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.parties[id]
}

// lockPartyOf returns the party ps belongs to with its lock held, or nil
// if ps has no party. The handle is re-checked after locking.
func (r *Registry) lockPartyOf(ps *PlayerStats) *Party {
	for {
		pid := ps.Party()
		if pid == "" {
			return nil
		}
		p := r.party(pid)
		if p == nil {
			// Member handles are cleared before a party leaves the arena.
			continue
		}

		p.mu.Lock()
		if !p.destroyed && ps.Party() == pid {
			return p
		}
		p.mu.Unlock()
	}
}

// withParty runs fn with the party of ps locked. Notices queued by fn are
// delivered once the lock is released, and only when fn succeeds.
func (r *Registry) withParty(ps *PlayerStats, fn func(*Party, *outbox) error) error {
	p := r.lockPartyOf(ps)
	if p == nil {
		return ErrNotAMember
	}

	var out outbox
	err := fn(p, &out)
	p.mu.Unlock()
	if err != nil {
		return err
	}

	out.flush(r.notifier)
	return nil
}

// destroy must be called with p.mu held and every member handle already cleared.
// Pending invites to p are found by scanning the players, so a party keeps no
// record of who it has invited.
func (r *Registry) destroy(p *Party) {
	r.mu.RLock()
	players := make([]*PlayerStats, 0, len(r.players))
	for _, ps := range r.players {
		players = append(players, ps)
	}
	r.mu.RUnlock()

	for _, ps := range players {
		ps.clearInviteFrom(p.id)
	}
	p.members = nil
	p.destroyed = true

	r.mu.Lock()
	delete(r.parties, p.id)
	r.mu.Unlock()
}
