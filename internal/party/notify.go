package party

import (
	"fmt"
	"slices"
)

// Notifier receives the messages produced by party operations.
// Calls are made after all party locks are released and must not block.
type Notifier interface {
	SendInfo(id Identity, text string)
	Broadcast(members []Identity, text string)
}

type noopNotifier struct{}

func (noopNotifier) SendInfo(Identity, string)    {}
func (noopNotifier) Broadcast([]Identity, string) {}

type notice struct {
	to        []Identity
	broadcast bool
	text      string
}

// outbox collects notices while locks are held so they can be delivered afterwards.
type outbox []notice

func (o *outbox) info(id Identity, format string, args ...any) {
	*o = append(*o, notice{to: []Identity{id}, text: fmt.Sprintf(format, args...)})
}

func (o *outbox) broadcast(members []Identity, format string, args ...any) {
	if len(members) == 0 {
		return
	}
	*o = append(*o, notice{to: slices.Clone(members), broadcast: true, text: fmt.Sprintf(format, args...)})
}

func (o outbox) flush(n Notifier) {
	for _, msg := range o {
		if msg.broadcast {
			n.Broadcast(msg.to, msg.text)
			continue
		}
		n.SendInfo(msg.to[0], msg.text)
	}
}
