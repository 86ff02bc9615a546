package driver

import (
	"context"
	"log/slog"
	"time"
)

const (
	DefaultTickLength = time.Second * 2
)

// Ticker is anything with periodic housekeeping, such as invite expiry.
type Ticker interface {
	Tick(context.Context) error
}

// Driver ticks every registered Ticker on a fixed interval.
type Driver struct {
	tickLength time.Duration
	tickers    []Ticker
}

func NewDriver(tickers []Ticker, opts ...DriverOpt) *Driver {
	d := &Driver{
		tickLength: DefaultTickLength,
		tickers:    tickers,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

func (d *Driver) Start(ctx context.Context) error {
	ticker := time.NewTicker(d.tickLength)
	defer ticker.Stop()

	slog.InfoContext(ctx, "driver started", "tick", d.tickLength)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := d.Tick(ctx); err != nil {
				return err
			}
		}
	}
}

// Tick runs one round. It stops at the first failure.
func (d *Driver) Tick(ctx context.Context) error {
	for _, t := range d.tickers {
		if err := t.Tick(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
	}
	return nil
}
