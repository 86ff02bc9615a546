package session

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"
	"unicode"

	"github.com/pixil98/go-party/internal/commands"
	"github.com/pixil98/go-party/internal/messaging"
	"github.com/pixil98/go-party/internal/party"
)

const (
	DefaultStartLocation = "town square"
	maxNameTries         = 5
)

var ErrNameInUse = errors.New("name already in use")

// Subscriber delivers messages published to a subject.
type Subscriber interface {
	WaitReady(ctx context.Context) error
	Subscribe(subject string, handler func(data []byte)) (func(), error)
}

// Messenger sends lines to a connected player.
type Messenger interface {
	SendInfo(id party.Identity, text string)
	SendError(id party.Identity, text string)
}

// Manager tracks connected players and runs their sessions. It is the
// player lookup and teleporter for the party commands.
type Manager struct {
	mu       sync.RWMutex
	sessions map[party.Identity]*Session

	registry *party.Registry
	cmds     *commands.Handler
	bus      Subscriber
	msg      Messenger

	allowTeleport bool
	startLocation string
}

func NewManager(registry *party.Registry, bus Subscriber, msg Messenger, opts ...ManagerOpt) *Manager {
	m := &Manager{
		sessions:      map[party.Identity]*Session{},
		registry:      registry,
		bus:           bus,
		msg:           msg,
		startLocation: DefaultStartLocation,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.cmds = commands.NewHandler(registry, m, m, msg, commands.WithTeleportAllowed(m.allowTeleport))
	return m
}

// RunSession logs a player in on conn and plays until they quit, the
// connection drops or ctx is canceled. name is used as the player's
// identity when it is valid and free; otherwise the player is asked.
func (m *Manager) RunSession(ctx context.Context, conn io.ReadWriter, name string) error {
	if err := m.bus.WaitReady(ctx); err != nil {
		return fmt.Errorf("waiting for message bus: %w", err)
	}

	s := &Session{
		conn: conn,
		in:   bufio.NewReader(conn),
		mgr:  m,
		msgs: make(chan []byte, 32),
		done: make(chan struct{}),
	}
	defer close(s.done)

	if _, err := io.WriteString(conn, "Welcome to go-party!\n"); err != nil {
		return err
	}

	unsub, err := m.login(s, party.Identity(name))
	if err != nil {
		return fmt.Errorf("logging in: %w", err)
	}
	defer m.logout(ctx, s, unsub)

	slog.InfoContext(ctx, "player connected", "player", s.id)
	return s.Play(ctx)
}

// login settles on a name for s and claims it. The returned func ends the
// player's subscription.
func (m *Manager) login(s *Session, hint party.Identity) (func(), error) {
	if validName(string(hint)) {
		unsub, err := m.claim(s, hint)
		if err == nil {
			return unsub, nil
		}
		if !errors.Is(err, ErrNameInUse) {
			return nil, err
		}
	}

	for {
		name, err := Prompt(s.in, s.conn, "By what name do you wish to be known? ",
			WithMaxTries(maxNameTries),
			WithValidator(func(str string) (bool, string) {
				if !validName(str) {
					return false, "Invalid name, please try another.\n"
				}
				if m.IsOnline(party.Identity(str)) {
					return false, "That name is already in use, please try another.\n"
				}
				return true, ""
			}),
		)
		if err != nil {
			return nil, err
		}

		// Someone may have taken the name since it was validated.
		unsub, err := m.claim(s, party.Identity(name))
		if errors.Is(err, ErrNameInUse) {
			if _, err := io.WriteString(s.conn, "That name is already in use, please try another.\n"); err != nil {
				return nil, err
			}
			continue
		}
		return unsub, err
	}
}

// claim subscribes s to id's subject and then registers it, so anything sent
// once id is online reaches the session.
func (m *Manager) claim(s *Session, id party.Identity) (func(), error) {
	unsub, err := m.bus.Subscribe(messaging.PlayerSubject(id), s.deliver)
	if err != nil {
		return nil, fmt.Errorf("subscribing player %s: %w", id, err)
	}

	if err := m.register(id, s); err != nil {
		unsub()
		// Drop anything meant for the session already holding id.
	drain:
		for {
			select {
			case <-s.msgs:
			default:
				break drain
			}
		}
		return nil, err
	}
	return unsub, nil
}

// logout takes s offline before its party state is cleaned up, so nobody
// can reach the player once cleanup starts.
func (m *Manager) logout(ctx context.Context, s *Session, unsub func()) {
	m.mu.Lock()
	delete(m.sessions, s.id)
	m.mu.Unlock()

	unsub()
	m.registry.Disconnect(s.id)

	slog.InfoContext(ctx, "player disconnected", "player", s.id)
}

func (m *Manager) register(id party.Identity, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[id]; ok {
		return ErrNameInUse
	}
	s.id = id
	s.location = m.startLocation
	m.sessions[id] = s
	m.registry.Connect(id)
	return nil
}

// IsOnline reports whether a session exists for id.
func (m *Manager) IsOnline(id party.Identity) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.sessions[id]
	return ok
}

// OnlinePlayers returns the connected players sorted by name.
func (m *Manager) OnlinePlayers() []party.Identity {
	m.mu.RLock()
	ids := make([]party.Identity, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	m.mu.RUnlock()

	slices.Sort(ids)
	return ids
}

// Teleport moves requester to target's location.
func (m *Manager) Teleport(_ context.Context, requester, target party.Identity) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	from, ok := m.sessions[requester]
	if !ok {
		return fmt.Errorf("%w: %s", commands.ErrTargetOffline, requester)
	}
	to, ok := m.sessions[target]
	if !ok {
		return fmt.Errorf("%w: %s", commands.ErrTargetOffline, target)
	}
	from.location = to.location
	return nil
}

// Location returns where a connected player is.
func (m *Manager) Location(id party.Identity) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[id]
	if !ok {
		return "", false
	}
	return s.location, true
}

func (m *Manager) move(id party.Identity, location string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[id]; ok {
		s.location = location
	}
}

// validName accepts non-empty names made only of letters.
func validName(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
