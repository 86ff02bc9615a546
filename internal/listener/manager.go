package listener

import (
	"context"
	"io"
	"log/slog"
)

// SessionRunner plays a session on an accepted connection.
type SessionRunner interface {
	RunSession(ctx context.Context, conn io.ReadWriter, name string) error
}

type ConnectionManager struct {
	sessions SessionRunner
}

func NewConnectionManager(sessions SessionRunner) *ConnectionManager {
	return &ConnectionManager{
		sessions: sessions,
	}
}

// AcceptConnection runs a session on conn. name is the identity the
// transport already knows, if any.
func (m *ConnectionManager) AcceptConnection(ctx context.Context, conn io.ReadWriter, name string) {
	if err := m.sessions.RunSession(ctx, conn, name); err != nil {
		slog.WarnContext(ctx, "player session", "error", err)
	}
}
