package channel

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newTestChannel(t *testing.T) *Simulated {
	t.Helper()
	s := NewSimulated(Config{
		HandshakeDelay: time.Millisecond,
		EventInterval:  time.Hour, // keep the synthetic loop quiet
		Seed:           1,
	})
	t.Cleanup(s.Close)
	return s
}

func drainStates(events <-chan Event) []State {
	var states []State
	for {
		select {
		case ev := <-events:
			if ev.Type == EventState {
				states = append(states, ev.State)
			}
		default:
			return states
		}
	}
}

func TestConnectTransitions(t *testing.T) {
	s := newTestChannel(t)
	events, cancel := s.Subscribe()
	defer cancel()

	if got := s.State(); got != StateDisconnected {
		t.Fatalf("initial state = %q", got)
	}
	if err := s.Connect(context.Background()); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	if got := s.State(); got != StateConnected {
		t.Fatalf("state after Connect = %q", got)
	}

	states := drainStates(events)
	if len(states) != 2 || states[0] != StateConnecting || states[1] != StateConnected {
		t.Errorf("state events = %v, want [connecting connected]", states)
	}

	// Connecting again is a no-op.
	if err := s.Connect(context.Background()); err != nil {
		t.Errorf("second Connect() error = %v", err)
	}
	if states := drainStates(events); len(states) != 0 {
		t.Errorf("redundant Connect emitted state events: %v", states)
	}
}

func TestConnectCanceledContext(t *testing.T) {
	s := NewSimulated(Config{
		HandshakeDelay: time.Hour,
		EventInterval:  time.Hour,
	})
	t.Cleanup(s.Close)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.Connect(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Connect() error = %v, want context.Canceled", err)
	}
	if got := s.State(); got != StateError {
		t.Errorf("state after canceled handshake = %q, want error", got)
	}
}

func TestSendTypingRequiresConnection(t *testing.T) {
	s := newTestChannel(t)

	if err := s.SendTyping("contact-1", true); !errors.Is(err, ErrNotConnected) {
		t.Fatalf("SendTyping() before Connect error = %v, want ErrNotConnected", err)
	}

	if err := s.Connect(context.Background()); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	events, cancel := s.Subscribe()
	defer cancel()

	if err := s.SendTyping("contact-1", true); err != nil {
		t.Fatalf("SendTyping() error = %v", err)
	}
	select {
	case ev := <-events:
		if ev.Type != EventTyping || ev.ContactID != "contact-1" || !ev.Typing {
			t.Errorf("looped event = %+v", ev)
		}
	case <-time.After(time.Second):
		t.Fatal("typing event not looped back to subscriber")
	}
}

func TestFailEntersErrorStateWithoutReconnect(t *testing.T) {
	s := newTestChannel(t)
	if err := s.Connect(context.Background()); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}

	s.Fail()
	if got := s.State(); got != StateError {
		t.Fatalf("state after Fail = %q", got)
	}

	// The channel stays down until the consumer reconnects.
	if err := s.SendTyping("contact-1", true); !errors.Is(err, ErrNotConnected) {
		t.Errorf("SendTyping() after Fail error = %v, want ErrNotConnected", err)
	}
	time.Sleep(10 * time.Millisecond)
	if got := s.State(); got != StateError {
		t.Errorf("channel reconnected on its own, state = %q", got)
	}

	if err := s.Connect(context.Background()); err != nil {
		t.Fatalf("explicit reconnect error = %v", err)
	}
	if got := s.State(); got != StateConnected {
		t.Errorf("state after reconnect = %q", got)
	}
}

func TestSubscribeCancelStopsDelivery(t *testing.T) {
	s := newTestChannel(t)
	events, cancel := s.Subscribe()

	cancel()
	if _, open := <-events; open {
		t.Error("canceled subscription channel should be closed")
	}
	cancel() // second cancel is harmless

	s.Inject(Event{Type: EventPresence, ContactID: "contact-2", Online: false})
}

func TestCloseShutsDownSubscribers(t *testing.T) {
	s := NewSimulated(Config{HandshakeDelay: time.Millisecond, EventInterval: time.Hour})
	events, _ := s.Subscribe()

	if err := s.Connect(context.Background()); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	s.Close()

	for {
		if _, open := <-events; !open {
			break
		}
	}
	if got := s.State(); got != StateDisconnected {
		t.Errorf("state after Close = %q", got)
	}
	if err := s.Connect(context.Background()); err == nil {
		t.Error("Connect() after Close should fail")
	}
}
