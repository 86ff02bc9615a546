package command

import (
	"fmt"
	"time"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-party/internal/driver"
)

type Config struct {
	TickInterval string           `json:"tick_interval"`
	Listeners    []ListenerConfig `json:"listeners"`
	Nats         NatsConfig       `json:"nats"`
	Party        PartyConfig      `json:"party"`
}

func (c *Config) Validate() error {
	el := errors.NewErrorList()

	if c.TickInterval != "" {
		d, err := time.ParseDuration(c.TickInterval)
		if err != nil {
			el.Add(fmt.Errorf("parsing tick_interval: %w", err))
		} else if d < time.Second {
			el.Add(fmt.Errorf("tick_interval must be at least 1 second"))
		}
	}

	if len(c.Listeners) == 0 {
		el.Add(fmt.Errorf("at least one listener is required"))
	}
	for i, l := range c.Listeners {
		err := l.validate()
		if err != nil {
			el.Add(fmt.Errorf("listener %d: %w", i, err))
		}
	}

	el.Add(c.Nats.validate())
	el.Add(c.Party.validate())

	return el.Err()
}

func (c *Config) tickLength() time.Duration {
	d, err := time.ParseDuration(c.TickInterval)
	if err != nil {
		return driver.DefaultTickLength
	}
	return d
}
