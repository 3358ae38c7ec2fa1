package filesystem

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// DefaultRebuildInterval is the minimum time between two watch-triggered rebuilds.
const DefaultRebuildInterval = 5 * time.Second

// Throttle groups events into batches, emitting at most one batch per
// interval. Events arriving while a batch is held back are merged into it,
// keyed by structure id. The returned channel is closed when events is
// closed (after flushing) or ctx is cancelled.
func Throttle(ctx context.Context, events <-chan Event, interval time.Duration) <-chan []Event {
	out := make(chan []Event)
	limiter := rate.NewLimiter(rate.Every(interval), 1)

	go func() {
		defer close(out)

		pending := make(map[string]Event)
		var order []string
		add := func(ev Event) {
			if _, ok := pending[ev.ID]; !ok {
				order = append(order, ev.ID)
			}
			pending[ev.ID] = ev
		}
		flush := func() bool {
			batch := make([]Event, 0, len(order))
			for _, id := range order {
				batch = append(batch, pending[id])
			}
			pending = make(map[string]Event)
			order = nil
			select {
			case out <- batch:
				return true
			case <-ctx.Done():
				return false
			}
		}

		for {
			// Wait for the first event of a batch.
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-events:
				if !ok {
					return
				}
				add(ev)
			}

			// Hold the batch until the limiter allows it, absorbing events.
			r := limiter.Reserve()
			timer := time.NewTimer(r.Delay())
			closed := false
		collect:
			for {
				select {
				case <-ctx.Done():
					timer.Stop()
					return
				case ev, ok := <-events:
					if !ok {
						closed = true
						timer.Stop()
						break collect
					}
					add(ev)
				case <-timer.C:
					break collect
				}
			}

			if !flush() || closed {
				return
			}
		}
	}()

	return out
}
