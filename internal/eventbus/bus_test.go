package eventbus

import (
	"testing"
	"time"

	"pkt.systems/multipane/schema"
)

func TestSubscribeAndPublish(t *testing.T) {
	bus := New(nil)
	ch, cancel := bus.Subscribe()
	defer cancel()

	tabID := schema.NewTabID()
	bus.OnOutput(tabID, []byte("hi"), false)

	select {
	case event := <-ch:
		if event.Type != EventOutput || event.TabID != tabID || string(event.Data) != "hi" {
			t.Fatalf("unexpected event %#v", event)
		}
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for event")
	}
}

func TestCancelClosesChannel(t *testing.T) {
	bus := New(nil)
	ch, cancel := bus.Subscribe()
	cancel()

	if _, ok := <-ch; ok {
		t.Fatalf("expected closed channel")
	}

	// Publishing after cancel must not panic or deliver.
	bus.OnSessionEvent("session_ended")
}

func TestPublishDropsWhenFull(t *testing.T) {
	bus := New(nil)
	bus.depth = 1
	ch, cancel := bus.Subscribe()
	defer cancel()

	bus.OnSessionEvent("kicked")
	bus.OnSessionEvent("session_ended")

	event := <-ch
	if event.Session != "kicked" {
		t.Fatalf("expected first event retained, got %#v", event)
	}
	select {
	case extra := <-ch:
		t.Fatalf("expected overflow drop, got %#v", extra)
	default:
	}
}

func TestCancelRacingPublish(t *testing.T) {
	bus := New(nil)
	tabID := schema.NewTabID()

	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case <-stop:
				return
			default:
				bus.OnOutput(tabID, []byte("x"), false)
			}
		}
	}()

	for i := 0; i < 200; i++ {
		ch, cancel := bus.Subscribe()
		select {
		case <-ch:
		default:
		}
		cancel()
		cancel() // repeated cancel is a no-op
	}
	close(stop)
	<-done
}

func TestPublishWithoutSubscribers(t *testing.T) {
	bus := New(nil)
	bus.OnOutput(schema.NewTabID(), nil, true)
}
