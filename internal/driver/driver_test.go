package driver

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pixil98/go-party/internal/party"
	"github.com/pixil98/go-testutil"
)

type countingTicker struct {
	count atomic.Int32
	err   error
}

func (c *countingTicker) Tick(context.Context) error {
	c.count.Add(1)
	return c.err
}

func TestDriver_Tick(t *testing.T) {
	tests := map[string]struct {
		tickers  []*countingTicker
		expErr   string
		expCount []int32
	}{
		"all tickers run": {
			tickers:  []*countingTicker{{}, {}},
			expCount: []int32{1, 1},
		},
		"stops at first failure": {
			tickers:  []*countingTicker{{err: errors.New("boom")}, {}},
			expErr:   "boom",
			expCount: []int32{1, 0},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			var tickers []Ticker
			for _, c := range tt.tickers {
				tickers = append(tickers, c)
			}

			err := NewDriver(tickers).Tick(context.Background())
			if tt.expErr != "" {
				testutil.AssertErrorContains(t, err, tt.expErr)
			} else if err != nil {
				t.Fatalf("Tick() error: %v", err)
			}
			for i, c := range tt.tickers {
				testutil.AssertEqual(t, "count", c.count.Load(), tt.expCount[i])
			}
		})
	}
}

func TestDriver_StartExpiresInvites(t *testing.T) {
	registry := party.NewRegistry(party.WithInviteTTL(time.Millisecond))
	if _, err := registry.Create("alice"); err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if err := registry.Invite("alice", "bob"); err != nil {
		t.Fatalf("Invite() error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- NewDriver([]Ticker{registry}, WithTickLength(5*time.Millisecond)).Start(ctx) }()

	deadline := time.After(5 * time.Second)
	for registry.Get("bob").Invite() != "" {
		select {
		case <-deadline:
			t.Fatal("invite never expired")
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Start() error: %v", err)
	}
}
