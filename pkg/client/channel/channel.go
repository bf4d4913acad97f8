// Package channel provides the client's push-notification channel. The
// Simulated implementation stands in for a real socket: it fakes the
// handshake, emits synthetic inbound events on a timer, and loops typing
// broadcasts back to subscribers.
package channel

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/propconnect/propconnect/pkg/client/gateway"
)

type State string

const (
	StateDisconnected State = "disconnected"
	StateConnecting   State = "connecting"
	StateConnected    State = "connected"
	StateError        State = "error"
)

type EventType string

const (
	EventMessage  EventType = "message"
	EventTyping   EventType = "typing"
	EventPresence EventType = "presence"
	EventState    EventType = "state"
)

// Event is one inbound notification fanned out to subscribers.
type Event struct {
	Type      EventType
	State     State
	ContactID string
	Message   *gateway.Message
	Typing    bool
	Online    bool
}

// Channel is the push side of the chat transport.
type Channel interface {
	// Connect performs the handshake. There is no automatic reconnect;
	// after a failure the consumer must call Connect again.
	Connect(ctx context.Context) error
	Disconnect()
	State() State
	// Subscribe returns an event stream and its cancel func. Slow
	// subscribers drop events rather than block the channel.
	Subscribe() (<-chan Event, func())
	SendTyping(contactID string, typing bool) error
	Close()
}

var ErrNotConnected = errors.New("channel not connected")

type Config struct {
	// HandshakeDelay emulates connection setup time.
	HandshakeDelay time.Duration
	// EventInterval is the synthetic inbound event tick.
	EventInterval time.Duration
	// EventChance is the probability an event fires on each tick.
	EventChance float64
	// TypingClearAfter bounds the self-clear delay for synthetic typing
	// events; the actual delay is uniform in [min, max].
	TypingClearMin time.Duration
	TypingClearMax time.Duration
	// Seed fixes the RNG, for tests. Zero means time-seeded.
	Seed int64
}

func (c *Config) withDefaults() {
	if c.HandshakeDelay <= 0 {
		c.HandshakeDelay = 500 * time.Millisecond
	}
	if c.EventInterval <= 0 {
		c.EventInterval = 10 * time.Second
	}
	if c.EventChance <= 0 {
		c.EventChance = 0.2
	}
	if c.TypingClearMin <= 0 {
		c.TypingClearMin = 3 * time.Second
	}
	if c.TypingClearMax <= c.TypingClearMin {
		c.TypingClearMax = c.TypingClearMin + 5*time.Second
	}
}

// Simulated is the mock channel. It satisfies Channel.
type Simulated struct {
	cfg Config

	mu     sync.Mutex
	state  State
	subs   map[int]chan Event
	nextID int
	rng    *rand.Rand
	done   chan struct{} // per-connection; nil when not connected
	closed bool
}

func NewSimulated(cfg Config) *Simulated {
	cfg.withDefaults()
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Simulated{
		cfg:   cfg,
		state: StateDisconnected,
		subs:  make(map[int]chan Event),
		rng:   rand.New(rand.NewSource(seed)),
	}
}

func (s *Simulated) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Simulated) setState(state State) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
	s.broadcast(Event{Type: EventState, State: state})
}

func (s *Simulated) Connect(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return errors.New("channel closed")
	}
	if s.state == StateConnected {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	s.setState(StateConnecting)

	timer := time.NewTimer(s.cfg.HandshakeDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		s.setState(StateError)
		return ctx.Err()
	case <-timer.C:
	}

	s.mu.Lock()
	done := make(chan struct{})
	s.done = done
	s.mu.Unlock()

	s.setState(StateConnected)
	go s.eventLoop(done)
	return nil
}

func (s *Simulated) Disconnect() {
	s.stopLoop()
	s.setState(StateDisconnected)
}

// Fail drops the channel into the error state, as a real transport failure
// would. Reconnection is the consumer's responsibility.
func (s *Simulated) Fail() {
	s.stopLoop()
	s.setState(StateError)
}

func (s *Simulated) stopLoop() {
	s.mu.Lock()
	if s.done != nil {
		close(s.done)
		s.done = nil
	}
	s.mu.Unlock()
}

func (s *Simulated) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 32)

	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = ch
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		if sub, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(sub)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

func (s *Simulated) broadcast(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sub := range s.subs {
		select {
		case sub <- ev:
		default:
			// drop rather than block
		}
	}
}

func (s *Simulated) SendTyping(contactID string, typing bool) error {
	s.mu.Lock()
	connected := s.state == StateConnected
	s.mu.Unlock()
	if !connected {
		return ErrNotConnected
	}
	// The mock loops the indicator straight back to subscribers.
	s.broadcast(Event{Type: EventTyping, ContactID: contactID, Typing: typing})
	return nil
}

// Inject delivers an arbitrary event to subscribers, as if it arrived from
// the server. Used by tests and demo tooling.
func (s *Simulated) Inject(ev Event) {
	s.broadcast(ev)
}

func (s *Simulated) Close() {
	s.stopLoop()
	s.mu.Lock()
	s.closed = true
	s.state = StateDisconnected
	for id, sub := range s.subs {
		delete(s.subs, id)
		close(sub)
	}
	s.mu.Unlock()
}

// eventLoop emits occasional synthetic typing and presence events until the
// connection is torn down.
func (s *Simulated) eventLoop(done chan struct{}) {
	ticker := time.NewTicker(s.cfg.EventInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			s.mu.Lock()
			fire := s.rng.Float64() < s.cfg.EventChance
			pick := s.rng.Intn(2)
			online := s.rng.Intn(2) == 0
			clearAfter := s.cfg.TypingClearMin +
				time.Duration(s.rng.Int63n(int64(s.cfg.TypingClearMax-s.cfg.TypingClearMin)))
			s.mu.Unlock()

			if !fire {
				continue
			}

			if pick == 0 {
				s.broadcast(Event{Type: EventTyping, ContactID: "contact-1", Typing: true})
				timer := time.AfterFunc(clearAfter, func() {
					s.broadcast(Event{Type: EventTyping, ContactID: "contact-1", Typing: false})
				})
				// tie the pending clear to the connection lifetime
				go func() {
					<-done
					timer.Stop()
				}()
			} else {
				s.broadcast(Event{Type: EventPresence, ContactID: "contact-2", Online: online})
			}
		}
	}
}
