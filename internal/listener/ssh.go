package listener

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"sync"

	"golang.org/x/crypto/ssh"
)

type SshListener struct {
	port   uint16
	cm     *ConnectionManager
	config *ssh.ServerConfig
}

func NewSshListener(port uint16, cm *ConnectionManager, hostKey ssh.Signer) *SshListener {
	// Any user name is accepted; it becomes the player's identity hint.
	config := &ssh.ServerConfig{
		NoClientAuth:  true,
		ServerVersion: "SSH-2.0-go-party",
	}
	config.AddHostKey(hostKey)

	return &SshListener{
		port:   port,
		cm:     cm,
		config: config,
	}
}

func (l *SshListener) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", l.port))
	if err != nil {
		return fmt.Errorf("listening on port %d: %w", l.port, err)
	}

	slog.InfoContext(ctx, "listening for ssh", "port", l.port)
	return l.Serve(ctx, ln)
}

// Serve accepts ssh connections on ln until ctx is canceled, then waits for
// open sessions to finish.
func (l *SshListener) Serve(ctx context.Context, ln net.Listener) error {
	connCtx, cancelConns := context.WithCancel(context.Background())
	var wg sync.WaitGroup

	// Close the listener when the parent context is canceled
	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				cancelConns()
				wg.Wait()
				return nil
			default:
			}
			slog.ErrorContext(ctx, "accepting ssh connection", "error", err)
			continue
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			l.handleConnection(connCtx, conn)
		}()
	}
}

func (l *SshListener) handleConnection(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	sshConn, chans, reqs, err := ssh.NewServerConn(conn, l.config)
	if err != nil {
		slog.ErrorContext(ctx, "ssh handshake", "remote", conn.RemoteAddr(), "error", err)
		return
	}
	defer sshConn.Close()

	slog.InfoContext(ctx, "ssh connection established", "remote", conn.RemoteAddr(), "user", sshConn.User())

	// Unblock the channel loop below on shutdown.
	go func() {
		<-ctx.Done()
		sshConn.Close()
	}()

	go ssh.DiscardRequests(reqs)

	for newChan := range chans {
		if newChan.ChannelType() != "session" {
			_ = newChan.Reject(ssh.UnknownChannelType, "unknown channel type")
			continue
		}

		ch, requests, err := newChan.Accept()
		if err != nil {
			slog.ErrorContext(ctx, "accepting ssh channel", "error", err)
			continue
		}

		if !waitForShell(ctx, requests) {
			ch.Close()
			continue
		}

		l.cm.AcceptConnection(ctx, newCRLFReadWriter(ch), sshConn.User())
		ch.Close()
	}
}

// waitForShell answers channel requests until the client asks for a shell.
// Clients do not forward input before the shell reply.
func waitForShell(ctx context.Context, requests <-chan *ssh.Request) bool {
	shellReady := make(chan struct{})
	var once sync.Once
	go func() {
		for req := range requests {
			switch req.Type {
			case "pty-req":
				// Rejecting the PTY keeps local echo and line buffering on the client.
				_ = req.Reply(false, nil)
			case "shell":
				_ = req.Reply(true, nil)
				once.Do(func() { close(shellReady) })
			default:
				_ = req.Reply(false, nil)
			}
		}
	}()

	select {
	case <-shellReady:
		return true
	case <-ctx.Done():
		return false
	}
}
