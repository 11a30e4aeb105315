// Package watch repeats work on a fixed interval until cancelled.
package watch

import (
	"context"
	"errors"
	"time"

	"github.com/phyten/grepx/internal/source"
)

// Loop calls OnTick every Interval. It runs on the caller's goroutine.
type Loop struct {
	Interval time.Duration
	OnTick   func(ctx context.Context, now time.Time) error
}

// Run blocks until ctx is done or OnTick fails. Cancellation is not an
// error; the first tick error is returned as is.
func (l Loop) Run(ctx context.Context) error {
	if l.Interval <= 0 {
		return errors.New("watch: interval must be positive")
	}
	if l.OnTick == nil {
		return errors.New("watch: OnTick is nil")
	}
	ticker := time.NewTicker(l.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			if ctx.Err() != nil {
				return nil
			}
			if err := l.OnTick(ctx, now); err != nil {
				return err
			}
		}
	}
}

// Changed reports whether the file moved from prev to cur. A zero prev
// means nothing has been seen yet.
func Changed(prev, cur source.Stat) bool {
	if prev == (source.Stat{}) {
		return true
	}
	return prev != cur
}
