package hub

import (
	"testing"
	"time"

	"agentarium/internal/app/ports"
)

func TestHub_FansOutToSubscribers(t *testing.T) {
	h := New()
	defer h.Close()

	ch1, cancel1 := h.Subscribe()
	defer cancel1()
	ch2, cancel2 := h.Subscribe()
	defer cancel2()

	h.Publish(ports.Event{Name: ports.EventSimulationTick, At: time.Now()})

	for i, ch := range []<-chan ports.Event{ch1, ch2} {
		select {
		case evt := <-ch:
			if evt.Name != ports.EventSimulationTick {
				t.Fatalf("subscriber %d got %q", i, evt.Name)
			}
		default:
			t.Fatalf("subscriber %d received nothing", i)
		}
	}
}

func TestHub_PublishNeverBlocksOnFullBuffer(t *testing.T) {
	h := New()
	defer h.Close()

	_, cancel := h.Subscribe()
	defer cancel()

	// Nobody drains, so everything past the buffer must be dropped, not
	// block the publisher.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < subscriberBuffer+10; i++ {
			h.Publish(ports.Event{Name: ports.EventSimulationTick})
		}
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked on a full subscriber")
	}
	if got := h.Dropped(); got != 10 {
		t.Fatalf("expected 10 dropped events, got %d", got)
	}
}

func TestHub_CancelClosesChannel(t *testing.T) {
	h := New()
	defer h.Close()

	ch, cancel := h.Subscribe()
	cancel()
	if _, open := <-ch; open {
		t.Fatal("expected closed channel after cancel")
	}
	// Publishing after cancel must not panic or deliver.
	h.Publish(ports.Event{Name: ports.EventSimulationTick})
	if h.Dropped() != 0 {
		t.Fatalf("cancelled subscriber still counted drops: %d", h.Dropped())
	}
}

func TestHub_CloseIsTerminal(t *testing.T) {
	h := New()
	ch, _ := h.Subscribe()
	h.Close()
	h.Close()

	if _, open := <-ch; open {
		t.Fatal("expected subscriber channel closed by Close")
	}
	late, cancel := h.Subscribe()
	defer cancel()
	if _, open := <-late; open {
		t.Fatal("expected closed channel for post-Close subscription")
	}
	h.Publish(ports.Event{Name: ports.EventSimulationTick})
}
