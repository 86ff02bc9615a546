package messaging

import (
	"errors"
	"testing"

	"github.com/pixil98/go-party/internal/party"
	"github.com/pixil98/go-testutil"
)

type publishedMessage struct {
	subject string
	data    string
}

// recordingServer captures Publish calls for test assertions.
type recordingServer struct {
	messages []publishedMessage
	err      error
}

func (s *recordingServer) Publish(subject string, data []byte) error {
	if s.err != nil {
		return s.err
	}
	s.messages = append(s.messages, publishedMessage{subject: subject, data: string(data)})
	return nil
}

func TestNatsPublisher(t *testing.T) {
	tests := map[string]struct {
		send func(p *NatsPublisher)
		exp  []publishedMessage
	}{
		"info": {
			send: func(p *NatsPublisher) { p.SendInfo("alice", "hello") },
			exp:  []publishedMessage{{subject: "player-alice", data: "hello"}},
		},
		"error": {
			send: func(p *NatsPublisher) { p.SendError("alice", "nope") },
			exp:  []publishedMessage{{subject: "player-alice", data: "! nope"}},
		},
		"broadcast": {
			send: func(p *NatsPublisher) {
				p.Broadcast([]party.Identity{"alice", "bob"}, "bob has joined the party.")
			},
			exp: []publishedMessage{
				{subject: "player-alice", data: "bob has joined the party."},
				{subject: "player-bob", data: "bob has joined the party."},
			},
		},
		"broadcast to nobody": {
			send: func(p *NatsPublisher) { p.Broadcast(nil, "empty") },
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			srv := &recordingServer{}
			tt.send(NewNatsPublisher(srv))

			testutil.AssertEqual(t, "message count", len(srv.messages), len(tt.exp))
			for i := range tt.exp {
				if i >= len(srv.messages) {
					break
				}
				testutil.AssertEqual(t, "subject", srv.messages[i].subject, tt.exp[i].subject)
				testutil.AssertEqual(t, "data", srv.messages[i].data, tt.exp[i].data)
			}
		})
	}
}

func TestNatsPublisher_FailureIsSwallowed(t *testing.T) {
	srv := &recordingServer{err: errors.New("connection closed")}
	p := NewNatsPublisher(srv)

	// Must not panic or block.
	p.SendInfo("alice", "hello")
	p.Broadcast([]party.Identity{"alice", "bob"}, "hi")

	testutil.AssertEqual(t, "message count", len(srv.messages), 0)
}

func TestNatsServer_NotStarted(t *testing.T) {
	s, err := NewNatsServer(WithPort(-1))
	if err != nil {
		t.Fatalf("NewNatsServer() error: %v", err)
	}

	err = s.Publish("player-alice", []byte("hi"))
	if !errors.Is(err, ErrNotStarted) {
		t.Fatalf("Publish() error = %v, want %v", err, ErrNotStarted)
	}
	_, err = s.Subscribe("player-alice", func([]byte) {})
	if !errors.Is(err, ErrNotStarted) {
		t.Fatalf("Subscribe() error = %v, want %v", err, ErrNotStarted)
	}
}
