package party

import "time"

type RegistryOpt func(*Registry)

// WithNotifier sets where party notices are delivered.
func WithNotifier(n Notifier) RegistryOpt {
	return func(r *Registry) {
		if n != nil {
			r.notifier = n
		}
	}
}

// WithPresence makes the registry track which players are connected. Invite
// then only reaches players registered with Connect, so a disconnected
// player cannot pick up an invite while offline.
func WithPresence() RegistryOpt {
	return func(r *Registry) {
		r.presence = true
	}
}

// WithExclusiveInvites makes Invite fail with ErrTargetAlreadyInvited instead
// of replacing a pending invite.
func WithExclusiveInvites() RegistryOpt {
	return func(r *Registry) {
		r.exclusive = true
	}
}

// WithInviteTTL sets how long an invite stays pending before Tick expires it.
// Zero keeps invites until they are answered.
func WithInviteTTL(d time.Duration) RegistryOpt {
	return func(r *Registry) {
		r.inviteTTL = d
	}
}

// WithClock overrides the time source used to stamp invites.
func WithClock(now func() time.Time) RegistryOpt {
	return func(r *Registry) {
		r.now = now
	}
}
