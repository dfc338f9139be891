package multipane

import (
	"pkt.systems/multipane/internal/eventbus"
	"pkt.systems/multipane/schema"
)

// BusListener bridges the Listener interface onto an eventbus.Bus, for
// consumers that drain a channel instead of implementing callbacks. The
// bus never blocks the dispatch goroutine; slow subscribers lose events.
type BusListener struct {
	Bus *eventbus.Bus
}

func (l BusListener) OnOutput(tabID schema.TabID, data []byte, fullScreen bool) {
	l.Bus.OnOutput(tabID, data, fullScreen)
}

func (l BusListener) OnSessionEvent(event SessionEvent) {
	l.Bus.OnSessionEvent(string(event))
}
