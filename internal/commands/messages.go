package commands

import (
	"errors"
	"fmt"

	"github.com/pixil98/go-party/internal/display"
)

// messages holds the text templates for every reply the party command sends.
var messages = map[string]string{
	"usage":              `Usage: party <{{ .Verbs | join "|" }}> [player]`,
	"unknown":            `Unknown party command: {{ .Verb }}.{{ with .Suggestions }} Did you mean: {{ join ", " . }}?{{ end }}`,
	"offline":            `The player {{ .Target }} is not online.{{ with .Suggestions }} Did you mean: {{ join ", " . }}?{{ end }}`,
	"need_target":        `You must specify a player with this command`,
	"tp_disabled":        `This server disallows party teleportation.`,
	"tp_no_party":        `You must be in a party to teleport someone.`,
	"tp_not_member":      `{{ .Target }} is not in your party.`,
	"tp_done":            `You have teleported to {{ .Target }}.`,
	"created":            `You have created a new party.`,
	"already_in_party":   `You are already in a party.`,
	"target_in_party":    `{{ .Target }} is already in a party.`,
	"target_invited":     `{{ .Target }} already has a pending invite.`,
	"invited":            `You have invited {{ .Target }} to your party.`,
	"no_invite":          `You do not currently have an invite.`,
	"leave_first":        `You must leave your current party first.`,
	"denied":             `You have denied the invite`,
	"not_in_party":       `You are not currently in a party.`,
	"left":               `You have left your party.`,
	"promote_not_leader": `Only the leader may promote members.`,
	"target_not_member":  `{{ .Target }} is not a member of your party.`,
	"disband_not_leader": `Only the leader may disband.`,
}

// messageData is what message templates see.
type messageData struct {
	Actor       string
	Verb        string
	Target      string
	Verbs       []string
	Suggestions []string
}

func (h *Handler) messageData(req *Request) *messageData {
	return &messageData{
		Actor:  string(req.Actor),
		Verb:   req.Verb,
		Target: string(req.Target),
		Verbs:  h.Verbs(),
	}
}

func render(key string, data *messageData) (string, error) {
	tmpl, ok := messages[key]
	if !ok {
		return "", fmt.Errorf("unknown message %q", key)
	}
	text, err := ExpandTemplate(tmpl, data)
	if err != nil {
		return "", fmt.Errorf("rendering message %q: %w", key, err)
	}
	return display.Capitalize(text), nil
}

// reply sends the rendered message to the actor.
func (h *Handler) reply(req *Request, key string) error {
	text, err := render(key, h.messageData(req))
	if err != nil {
		return err
	}
	h.msg.SendInfo(req.Actor, text)
	return nil
}

// userError renders a message as a *UserError carrying cause.
func (h *Handler) userError(req *Request, cause error, key string) error {
	return h.userErrorWith(h.messageData(req), cause, key)
}

func (h *Handler) userErrorWith(data *messageData, cause error, key string) error {
	text, err := render(key, data)
	if err != nil {
		return err
	}
	return &UserError{Message: text, Err: cause}
}

// translate turns a party error into the user error registered for it.
// Errors with no entry are treated as system failures.
func (h *Handler) translate(req *Request, err error, keys map[error]string) error {
	for cause, key := range keys {
		if errors.Is(err, cause) {
			return h.userError(req, cause, key)
		}
	}
	return fmt.Errorf("party %s: %w", req.Verb, err)
}
