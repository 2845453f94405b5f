package domain

import (
	"context"
	"errors"
)

// QueryStream answers a question and reports progress as events.
//
// The stream yields cache_hit or cache_miss, then on a miss one node_update per
// executed state handler, then exactly one terminal complete or error event.
// The channel is closed after the terminal event.
//
// The terminal event is delivered even when ctx ends first, so a deadline is
// reported as an error event like any other infrastructure failure. The
// channel keeps one buffered slot for it; if an unread progress event holds
// that slot when ctx ends, the terminal event replaces it. Consumers that stop
// reading must cancel ctx.
func (o *Orchestrator) QueryStream(ctx context.Context, question string) <-chan Event {
	events := make(chan Event, 1)

	go func() {
		defer close(events)

		send := func(e Event) bool {
			select {
			case events <- e:
				return true
			case <-ctx.Done():
				return false
			}
		}

		finish := func(e Event) {
			if ctx.Err() == nil && send(e) {
				return
			}
			// This goroutine is the only sender: once the slot is free the write cannot block.
			select {
			case <-events:
			default:
			}
			events <- e
		}

		result, err := o.execute(ctx, question, send)
		switch {
		case err == nil:
			finish(Event{Type: EventComplete, Answer: result.Answer, CacheInfo: result.CacheInfo})
		case errors.Is(err, ErrRecursionLimit):
			finish(Event{Type: EventError, Answer: RecursionLimitAnswer, Err: ErrRecursionLimit})
		default:
			finish(Event{Type: EventError, Err: err})
		}
	}()

	return events
}

// CollectStream drains a stream and returns its events, terminal event last.
func CollectStream(events <-chan Event) []Event {
	var out []Event
	for e := range events {
		out = append(out, e)
	}
	return out
}
