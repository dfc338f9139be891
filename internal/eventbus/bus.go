// Package eventbus fans client events out to channel subscribers, for
// consumers that drain a channel instead of implementing a listener.
package eventbus

import (
	"context"
	"sync"

	"pkt.systems/multipane/schema"
	"pkt.systems/pslog"
)

// EventType identifies the event payload.
type EventType string

const (
	// EventOutput carries raw output bytes for a tab.
	EventOutput EventType = "output"
	// EventSession carries a session-level notification (kicked, session
	// ended, all workspaces closed).
	EventSession EventType = "session"
)

// Event is one fanned-out client event.
type Event struct {
	Type EventType

	// Output fields, set for EventOutput.
	TabID      schema.TabID
	Data       []byte
	FullScreen bool

	// Session is the notification name, set for EventSession.
	Session string
}

// Bus fans events out to subscribers. Publishing never blocks: a
// subscriber whose channel is full loses the event.
type Bus struct {
	mu    sync.Mutex
	subs  map[chan Event]struct{}
	log   pslog.Logger
	depth int
}

// New constructs a Bus.
func New(logger pslog.Logger) *Bus {
	if logger == nil {
		logger = pslog.Ctx(context.Background())
	}
	return &Bus{
		subs:  make(map[chan Event]struct{}),
		log:   logger,
		depth: 256,
	}
}

// Subscribe registers a subscriber and returns its channel plus a cancel
// function. Cancel closes the channel.
func (b *Bus) Subscribe() (<-chan Event, func()) {
	if b == nil {
		return nil, func() {}
	}
	ch := make(chan Event, b.depth)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	count := len(b.subs)
	b.mu.Unlock()
	if b.log != nil {
		b.log.Debug("eventbus subscribe", "subs", count)
	}
	return ch, func() {
		b.mu.Lock()
		_, subscribed := b.subs[ch]
		if subscribed {
			delete(b.subs, ch)
			// Closed under the lock so publish, which sends under the same
			// lock, can never hit a closed channel.
			close(ch)
		}
		b.mu.Unlock()
		if subscribed && b.log != nil {
			b.log.Debug("eventbus unsubscribe")
		}
	}
}

// OnOutput publishes tab output.
func (b *Bus) OnOutput(tabID schema.TabID, data []byte, fullScreen bool) {
	b.publish(Event{Type: EventOutput, TabID: tabID, Data: data, FullScreen: fullScreen})
}

// OnSessionEvent publishes a session notification.
func (b *Bus) OnSessionEvent(name string) {
	b.publish(Event{Type: EventSession, Session: name})
}

func (b *Bus) publish(event Event) {
	if b == nil {
		return
	}
	dropped := 0
	b.mu.Lock()
	// Non-blocking sends while holding the lock: the buffered channels
	// never block here, and a cancel cannot close a channel mid-send.
	for sub := range b.subs {
		select {
		case sub <- event:
		default:
			dropped++
		}
	}
	b.mu.Unlock()
	if dropped > 0 && b.log != nil {
		b.log.Trace("eventbus dropped", "count", dropped)
	}
}
