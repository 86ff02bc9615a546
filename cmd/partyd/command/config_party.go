package command

import (
	"fmt"
	"time"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-party/internal/party"
	"github.com/pixil98/go-party/internal/session"
)

type PartyConfig struct {
	// AllowPartyTp enables the party tp verb.
	AllowPartyTp bool `json:"allow_party_tp"`
	// InviteTTL expires pending invites; empty or zero keeps them until answered.
	InviteTTL        string `json:"invite_ttl"`
	ExclusiveInvites bool   `json:"exclusive_invites"`
	StartLocation    string `json:"start_location"`
}

func (c *PartyConfig) validate() error {
	el := errors.NewErrorList()

	if c.InviteTTL != "" {
		d, err := time.ParseDuration(c.InviteTTL)
		if err != nil {
			el.Add(fmt.Errorf("parsing invite_ttl: %w", err))
		} else if d < 0 {
			el.Add(fmt.Errorf("invite_ttl must not be negative"))
		}
	}

	return el.Err()
}

func (c *PartyConfig) buildRegistry(notifier party.Notifier) (*party.Registry, error) {
	opts := []party.RegistryOpt{party.WithNotifier(notifier), party.WithPresence()}
	if c.InviteTTL != "" {
		d, err := time.ParseDuration(c.InviteTTL)
		if err != nil {
			return nil, fmt.Errorf("parsing invite_ttl: %w", err)
		}
		opts = append(opts, party.WithInviteTTL(d))
	}
	if c.ExclusiveInvites {
		opts = append(opts, party.WithExclusiveInvites())
	}

	return party.NewRegistry(opts...), nil
}

func (c *PartyConfig) buildSessionManager(registry *party.Registry, bus session.Subscriber, msg session.Messenger) *session.Manager {
	opts := []session.ManagerOpt{session.WithTeleportAllowed(c.AllowPartyTp)}
	if c.StartLocation != "" {
		opts = append(opts, session.WithStartLocation(c.StartLocation))
	}
	return session.NewManager(registry, bus, msg, opts...)
}
