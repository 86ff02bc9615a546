package command

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/json"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pixil98/go-party/internal/listener"
	"github.com/pixil98/go-testutil"
	"golang.org/x/crypto/ssh"
)

func TestConfig_Validate(t *testing.T) {
	tests := map[string]struct {
		json   string
		expErr string
	}{
		"minimal": {
			json: `{"listeners": [{"protocol": "telnet", "port": 4000}]}`,
		},
		"full": {
			json: `{
				"tick_interval": "2s",
				"listeners": [
					{"protocol": "telnet", "port": 4000},
					{"protocol": "ssh", "port": 4022, "host_key_path": "/etc/partyd/host_key"}
				],
				"nats": {"host": "127.0.0.1", "port": 4222, "start_timeout": "5s"},
				"party": {"allow_party_tp": true, "invite_ttl": "1m", "exclusive_invites": true}
			}`,
		},
		"bad tick interval": {
			json:   `{"tick_interval": "soon", "listeners": [{"protocol": "telnet", "port": 4000}]}`,
			expErr: "parsing tick_interval",
		},
		"tick interval too short": {
			json:   `{"tick_interval": "10ms", "listeners": [{"protocol": "telnet", "port": 4000}]}`,
			expErr: "tick_interval must be at least 1 second",
		},
		"no listeners": {
			json:   `{}`,
			expErr: "at least one listener is required",
		},
		"listener without port": {
			json:   `{"listeners": [{"protocol": "ssh"}]}`,
			expErr: "listener 0: port must be set",
		},
		"host key on telnet": {
			json:   `{"listeners": [{"protocol": "telnet", "port": 4000, "host_key_path": "key"}]}`,
			expErr: "host_key_path only applies to ssh listeners",
		},
		"bad nats timeout": {
			json:   `{"listeners": [{"protocol": "telnet", "port": 4000}], "nats": {"start_timeout": "later"}}`,
			expErr: "parsing start_timeout",
		},
		"negative invite ttl": {
			json:   `{"listeners": [{"protocol": "telnet", "port": 4000}], "party": {"invite_ttl": "-1m"}}`,
			expErr: "invite_ttl must not be negative",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			var cfg Config
			if err := json.Unmarshal([]byte(tt.json), &cfg); err != nil {
				t.Fatalf("unmarshaling config: %v", err)
			}

			err := cfg.Validate()
			if tt.expErr != "" {
				testutil.AssertErrorContains(t, err, tt.expErr)
				return
			}
			if err != nil {
				t.Fatalf("Validate() error: %v", err)
			}
		})
	}
}

func TestListenerType_UnmarshalText(t *testing.T) {
	var cfg ListenerConfig
	err := json.Unmarshal([]byte(`{"protocol": "gopher", "port": 70}`), &cfg)
	testutil.AssertErrorContains(t, err, "unknown listener type: gopher")

	err = json.Unmarshal([]byte(`{"protocol": "ssh", "port": 22}`), &cfg)
	if err != nil {
		t.Fatalf("unmarshaling ssh listener: %v", err)
	}
	testutil.AssertEqual(t, "protocol", cfg.Protocol, ProtocolSSH)
}

func TestConfig_TickLength(t *testing.T) {
	testutil.AssertEqual(t, "default", (&Config{}).tickLength(), 2*time.Second)
	testutil.AssertEqual(t, "configured", (&Config{TickInterval: "5s"}).tickLength(), 5*time.Second)
}

func TestPartyConfig_BuildRegistry(t *testing.T) {
	cfg := PartyConfig{InviteTTL: "1m", ExclusiveInvites: true}
	registry, err := cfg.buildRegistry(nil)
	if err != nil {
		t.Fatalf("buildRegistry() error: %v", err)
	}

	if _, err := registry.Create("alice"); err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if _, err := registry.Create("carol"); err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	err = registry.Invite("alice", "bob")
	testutil.AssertErrorContains(t, err, "not connected")

	registry.Connect("bob")
	if err := registry.Invite("alice", "bob"); err != nil {
		t.Fatalf("Invite() error: %v", err)
	}
	err = registry.Invite("carol", "bob")
	testutil.AssertErrorContains(t, err, "already has a pending invite")
}

func TestListenerConfig_HostKey(t *testing.T) {
	_, key, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("generating key: %v", err)
	}
	block, err := ssh.MarshalPrivateKey(key, "")
	if err != nil {
		t.Fatalf("marshaling key: %v", err)
	}

	dir := t.TempDir()
	good := filepath.Join(dir, "host_key")
	if err := os.WriteFile(good, pem.EncodeToMemory(block), 0o600); err != nil {
		t.Fatalf("writing key: %v", err)
	}
	junk := filepath.Join(dir, "junk")
	if err := os.WriteFile(junk, []byte("not a key"), 0o600); err != nil {
		t.Fatalf("writing junk: %v", err)
	}

	tests := map[string]struct {
		path    string
		expType string
		expErr  string
	}{
		"temporary key": {
			expType: "ssh-ed25519",
		},
		"key from file": {
			path:    good,
			expType: "ssh-ed25519",
		},
		"missing file": {
			path:   filepath.Join(dir, "missing"),
			expErr: "reading host key",
		},
		"not a key": {
			path:   junk,
			expErr: "parsing host key",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := ListenerConfig{Protocol: ProtocolSSH, Port: 4022, HostKeyPath: tt.path}
			signer, err := cfg.hostKey()
			if tt.expErr != "" {
				testutil.AssertErrorContains(t, err, tt.expErr)
				return
			}
			if err != nil {
				t.Fatalf("hostKey() error: %v", err)
			}
			testutil.AssertEqual(t, "key type", signer.PublicKey().Type(), tt.expType)
		})
	}
}

func TestListenerConfig_NewWorker(t *testing.T) {
	tests := map[string]struct {
		cfg    ListenerConfig
		expErr string
	}{
		"telnet": {
			cfg: ListenerConfig{Protocol: ProtocolTelnet, Port: 4000},
		},
		"protocol omitted": {
			cfg: ListenerConfig{Port: 4000},
		},
		"ssh": {
			cfg: ListenerConfig{Protocol: ProtocolSSH, Port: 4022},
		},
		"ssh with unreadable key": {
			cfg:    ListenerConfig{Protocol: ProtocolSSH, Port: 4022, HostKeyPath: "/nonexistent/host_key"},
			expErr: "ssh listener on port 4022: reading host key",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			w, err := tt.cfg.newWorker(listener.NewConnectionManager(nil))
			if tt.expErr != "" {
				testutil.AssertErrorContains(t, err, tt.expErr)
				return
			}
			if err != nil {
				t.Fatalf("newWorker() error: %v", err)
			}
			testutil.AssertEqual(t, "worker built", w != nil, true)
		})
	}
}
