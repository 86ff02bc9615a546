package session

type ManagerOpt func(*Manager)

// WithTeleportAllowed enables the party tp verb for every session.
func WithTeleportAllowed(allowed bool) ManagerOpt {
	return func(m *Manager) {
		m.allowTeleport = allowed
	}
}

// WithStartLocation sets where new sessions begin.
func WithStartLocation(location string) ManagerOpt {
	return func(m *Manager) {
		m.startLocation = location
	}
}
