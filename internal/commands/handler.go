package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pixil98/go-party/internal/party"
)

// PlayerLookup reports which players are connected.
type PlayerLookup interface {
	IsOnline(id party.Identity) bool
	OnlinePlayers() []party.Identity
}

// Teleporter moves requester to target. It is only called once the party
// membership check has passed.
type Teleporter interface {
	Teleport(ctx context.Context, requester, target party.Identity) error
}

// Messenger delivers replies to the acting player.
type Messenger interface {
	SendInfo(id party.Identity, text string)
}

// Request is a single resolved party command.
type Request struct {
	Actor  party.Identity
	Verb   string
	Target party.Identity // empty when no player was named
}

type verbFunc func(ctx context.Context, req *Request) error

// Handler resolves "party <verb> [player]" commands into registry operations.
// Expected failures come back as *UserError; anything else is a system error.
type Handler struct {
	registry *party.Registry
	players  PlayerLookup
	tp       Teleporter
	msg      Messenger

	allowTeleport bool
	verbs         map[string]verbFunc
}

func NewHandler(registry *party.Registry, players PlayerLookup, tp Teleporter, msg Messenger, opts ...HandlerOpt) *Handler {
	h := &Handler{
		registry: registry,
		players:  players,
		tp:       tp,
		msg:      msg,
	}

	for _, opt := range opts {
		opt(h)
	}

	h.verbs = map[string]verbFunc{
		"create":  h.create,
		"invite":  h.invite,
		"accept":  h.accept,
		"deny":    h.deny,
		"leave":   h.leave,
		"leader":  h.leader,
		"disband": h.disband,
		"tp":      h.teleport,
		"gui":     h.gui,
	}
	return h
}

// Exec runs a party command for actor. args are the words following "party".
func (h *Handler) Exec(ctx context.Context, actor party.Identity, args ...string) error {
	if len(args) == 0 || len(args) > 2 {
		return h.userErrorWith(&messageData{Verbs: h.Verbs()}, nil, "usage")
	}

	req := &Request{Actor: actor, Verb: strings.ToLower(args[0])}
	fn, ok := h.verbs[req.Verb]
	if !ok {
		data := h.messageData(req)
		data.Suggestions = h.Suggest(args[0])
		return h.userErrorWith(data, nil, "unknown")
	}

	if len(args) == 2 {
		req.Target = party.Identity(args[1])
		if !h.players.IsOnline(req.Target) {
			data := h.messageData(req)
			data.Suggestions = h.Suggest(args...)
			return h.userErrorWith(data, ErrTargetOffline, "offline")
		}
	}

	return fn(ctx, req)
}

func (h *Handler) create(_ context.Context, req *Request) error {
	if _, err := h.registry.Create(req.Actor); err != nil {
		return h.translate(req, err, map[error]string{
			party.ErrAlreadyInParty: "already_in_party",
		})
	}
	return h.reply(req, "created")
}

func (h *Handler) invite(_ context.Context, req *Request) error {
	if req.Target == "" {
		return h.userError(req, nil, "need_target")
	}

	// Inviting without a party starts one.
	created := false
	if !h.registry.InParty(req.Actor) {
		_, err := h.registry.Create(req.Actor)
		switch {
		case err == nil:
			created = true
		case !errors.Is(err, party.ErrAlreadyInParty):
			return fmt.Errorf("creating party for invite: %w", err)
		}
	}

	if err := h.registry.Invite(req.Actor, req.Target); err != nil {
		if created {
			_ = h.registry.Leave(req.Actor)
		}
		return h.translate(req, err, map[error]string{
			party.ErrAlreadyInParty:       "target_in_party",
			party.ErrTargetAlreadyInvited: "target_invited",
			party.ErrTargetNotConnected:   "offline",
			party.ErrNotAMember:           "not_in_party",
		})
	}
	return h.reply(req, "invited")
}

func (h *Handler) accept(_ context.Context, req *Request) error {
	if _, err := h.registry.Accept(req.Actor); err != nil {
		return h.translate(req, err, map[error]string{
			party.ErrNoPendingInvite: "no_invite",
			party.ErrAlreadyInParty:  "leave_first",
		})
	}
	return nil
}

func (h *Handler) deny(_ context.Context, req *Request) error {
	if err := h.registry.Deny(req.Actor); err != nil {
		return h.translate(req, err, map[error]string{
			party.ErrNoPendingInvite: "no_invite",
		})
	}
	return h.reply(req, "denied")
}

func (h *Handler) leave(_ context.Context, req *Request) error {
	if err := h.registry.Leave(req.Actor); err != nil {
		return h.translate(req, err, map[error]string{
			party.ErrNotAMember: "not_in_party",
		})
	}
	return h.reply(req, "left")
}

func (h *Handler) leader(_ context.Context, req *Request) error {
	v, ok := h.registry.PartyOf(req.Actor)
	if !ok {
		return h.userError(req, party.ErrNotAMember, "not_in_party")
	}
	if v.Leader != req.Actor {
		return h.userError(req, party.ErrNotLeader, "promote_not_leader")
	}
	if req.Target == "" {
		return h.userError(req, nil, "need_target")
	}

	if err := h.registry.Promote(req.Actor, req.Target); err != nil {
		return h.translate(req, err, map[error]string{
			party.ErrNotAMember:      "not_in_party",
			party.ErrNotLeader:       "promote_not_leader",
			party.ErrTargetNotMember: "target_not_member",
		})
	}
	return nil
}

func (h *Handler) disband(_ context.Context, req *Request) error {
	if err := h.registry.Disband(req.Actor); err != nil {
		return h.translate(req, err, map[error]string{
			party.ErrNotAMember: "not_in_party",
			party.ErrNotLeader:  "disband_not_leader",
		})
	}
	return nil
}

func (h *Handler) teleport(ctx context.Context, req *Request) error {
	if !h.allowTeleport {
		return h.userError(req, nil, "tp_disabled")
	}
	if !h.registry.InParty(req.Actor) {
		return h.userError(req, party.ErrNotPartyTeleportable, "tp_no_party")
	}
	if req.Target == "" {
		return h.userError(req, nil, "need_target")
	}

	if err := h.registry.Teleport(req.Actor, req.Target); err != nil {
		return h.translate(req, err, map[error]string{
			party.ErrNotPartyTeleportable: "tp_not_member",
		})
	}
	if err := h.tp.Teleport(ctx, req.Actor, req.Target); err != nil {
		return fmt.Errorf("teleporting %s to %s: %w", req.Actor, req.Target, err)
	}
	return h.reply(req, "tp_done")
}

func (h *Handler) gui(_ context.Context, req *Request) error {
	v, ok := h.registry.PartyOf(req.Actor)
	if !ok {
		return h.userError(req, party.ErrNotAMember, "not_in_party")
	}

	screen, err := RenderScreen(v)
	if err != nil {
		return err
	}
	h.msg.SendInfo(req.Actor, screen)
	return nil
}
