package service

import (
	"context"
	"time"
)

// Ticker drives the world clock in auto-tick mode: it calls fn with
// the configured period, in milliseconds, once per period. time.Ticker
// schedules against the target time, so jitter under load does not
// accumulate into drift.
type Ticker struct {
	period time.Duration
	fn     func(deltaMillis int64)
}

// NewTicker creates a ticker; it does not start until Run.
func NewTicker(period time.Duration, fn func(deltaMillis int64)) *Ticker {
	return &Ticker{period: period, fn: fn}
}

// Run ticks until ctx is cancelled. Call it on its own goroutine.
func (t *Ticker) Run(ctx context.Context) {
	ticker := time.NewTicker(t.period)
	defer ticker.Stop()

	delta := t.period.Milliseconds()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.fn(delta)
		}
	}
}
