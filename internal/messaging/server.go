package messaging

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
)

var ErrNotStarted = errors.New("nats server not started")

// NatsServer runs an embedded nats server together with the internal client
// connection used to deliver player messages.
type NatsServer struct {
	ns   *server.Server
	conn *nats.Conn

	// ready is closed once conn is usable.
	ready chan struct{}

	startupTimeout time.Duration
	host           string
	port           int
}

func NewNatsServer(opts ...NatsServerOpt) (*NatsServer, error) {
	s := &NatsServer{
		ready:          make(chan struct{}),
		startupTimeout: 10 * time.Second,
		host:           "127.0.0.1",
	}

	for _, opt := range opts {
		opt(s)
	}

	ns, err := server.NewServer(&server.Options{
		Host:   s.host,
		Port:   s.port,
		NoSigs: true, // Let the application handle signals
	})
	if err != nil {
		return nil, fmt.Errorf("creating nats server: %w", err)
	}
	s.ns = ns

	return s, nil
}

func (n *NatsServer) Start(ctx context.Context) error {
	n.ns.Start()

	if !n.ns.ReadyForConnections(n.startupTimeout) {
		return fmt.Errorf("nats server not ready for connections")
	}

	// Create internal client connection
	conn, err := nats.Connect(n.ns.ClientURL())
	if err != nil {
		n.ns.Shutdown()
		return fmt.Errorf("creating nats client connection: %w", err)
	}
	n.conn = conn
	close(n.ready)

	slog.InfoContext(ctx, "nats server listening", "addr", n.ns.Addr())

	<-ctx.Done()
	if err := n.conn.Drain(); err != nil {
		slog.WarnContext(ctx, "draining nats connection", "error", err)
	}
	n.ns.Shutdown()
	n.ns.WaitForShutdown()

	return nil
}

// WaitReady blocks until the client connection is up or ctx is done.
func (n *NatsServer) WaitReady(ctx context.Context) error {
	select {
	case <-n.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Subscribe creates a subscription on the given subject.
// The handler is called for each message received.
// Returns an unsubscribe function to remove the subscription.
func (n *NatsServer) Subscribe(subject string, handler func(data []byte)) (func(), error) {
	if !n.started() {
		return nil, ErrNotStarted
	}
	sub, err := n.conn.Subscribe(subject, func(msg *nats.Msg) {
		handler(msg.Data)
	})
	if err != nil {
		return nil, fmt.Errorf("subscribing to %q: %w", subject, err)
	}
	return func() { _ = sub.Unsubscribe() }, nil
}

// Publish sends a message to the given subject. The client buffers writes,
// so this does not wait on subscribers.
func (n *NatsServer) Publish(subject string, data []byte) error {
	if !n.started() {
		return ErrNotStarted
	}
	return n.conn.Publish(subject, data)
}

func (n *NatsServer) started() bool {
	select {
	case <-n.ready:
		return true
	default:
		return false
	}
}
