package messaging

import (
	"log/slog"

	"github.com/pixil98/go-party/internal/party"
)

// Publisher sends raw messages to a subject.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// PlayerSubject is the subject a player's session listens on.
func PlayerSubject(id party.Identity) string {
	return "player-" + string(id)
}

// NatsPublisher delivers party and command messages to individual players.
// Delivery is fire-and-forget: failures are logged, never returned.
type NatsPublisher struct {
	server Publisher
}

// NewNatsPublisher wraps a publisher for per-player message delivery.
func NewNatsPublisher(server Publisher) *NatsPublisher {
	return &NatsPublisher{server: server}
}

// SendInfo sends an informational line to one player.
func (p *NatsPublisher) SendInfo(id party.Identity, text string) {
	p.send(id, text)
}

// SendError sends an error line to one player.
func (p *NatsPublisher) SendError(id party.Identity, text string) {
	p.send(id, "! "+text)
}

// Broadcast sends text to every listed member.
func (p *NatsPublisher) Broadcast(members []party.Identity, text string) {
	for _, id := range members {
		p.send(id, text)
	}
}

func (p *NatsPublisher) send(id party.Identity, text string) {
	if err := p.server.Publish(PlayerSubject(id), []byte(text)); err != nil {
		slog.Warn("failed to publish player message", "player", id, "error", err)
	}
}
