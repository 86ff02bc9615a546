package command

import (
	"crypto/ed25519"
	"crypto/rand"
	"fmt"
	"log/slog"
	"os"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-party/internal/listener"
	"github.com/pixil98/go-service/service"
	"golang.org/x/crypto/ssh"
)

// Protocol is the wire protocol a listener speaks.
type Protocol string

const (
	ProtocolTelnet Protocol = "telnet"
	ProtocolSSH    Protocol = "ssh"
)

func (p *Protocol) UnmarshalText(text []byte) error {
	switch v := Protocol(text); v {
	case ProtocolTelnet, ProtocolSSH:
		*p = v
		return nil
	}
	return fmt.Errorf("unknown listener type: %s", text)
}

// ListenerConfig describes one port players connect on. Telnet is assumed
// when no protocol is given.
type ListenerConfig struct {
	Protocol Protocol `json:"protocol"`
	Port     uint16   `json:"port"`
	// HostKeyPath points at a PEM private key. Without one an ssh listener
	// makes up a key at startup, which clients will see change on restart.
	HostKeyPath string `json:"host_key_path,omitempty"`
}

func (cl *ListenerConfig) protocol() Protocol {
	if cl.Protocol == "" {
		return ProtocolTelnet
	}
	return cl.Protocol
}

func (cl *ListenerConfig) validate() error {
	el := errors.NewErrorList()

	if cl.Port == 0 {
		el.Add(fmt.Errorf("port must be set to a positive integer"))
	}
	if cl.HostKeyPath != "" && cl.protocol() != ProtocolSSH {
		el.Add(fmt.Errorf("host_key_path only applies to ssh listeners"))
	}

	return el.Err()
}

// newWorker builds the listener that hands its connections to cm.
func (cl *ListenerConfig) newWorker(cm *listener.ConnectionManager) (service.Worker, error) {
	if cl.protocol() == ProtocolTelnet {
		return listener.NewTelnetListener(cl.Port, cm), nil
	}

	signer, err := cl.hostKey()
	if err != nil {
		return nil, fmt.Errorf("ssh listener on port %d: %w", cl.Port, err)
	}
	return listener.NewSshListener(cl.Port, cm, signer), nil
}

func (cl *ListenerConfig) hostKey() (ssh.Signer, error) {
	if cl.HostKeyPath == "" {
		slog.Warn("ssh listener has no host_key_path, using a temporary key", "port", cl.Port)
		return ephemeralHostKey()
	}
	return readHostKey(cl.HostKeyPath)
}

func readHostKey(path string) (ssh.Signer, error) {
	pem, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading host key %q: %w", path, err)
	}

	signer, err := ssh.ParsePrivateKey(pem)
	if err != nil {
		return nil, fmt.Errorf("parsing host key %q: %w", path, err)
	}
	return signer, nil
}

func ephemeralHostKey() (ssh.Signer, error) {
	_, key, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generating host key: %w", err)
	}
	return ssh.NewSignerFromKey(key)
}
