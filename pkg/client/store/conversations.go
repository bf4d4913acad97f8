package store

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/propconnect/propconnect/pkg/client/cache"
	"github.com/propconnect/propconnect/pkg/client/channel"
	"github.com/propconnect/propconnect/pkg/client/gateway"
)

type opState int

const (
	opPending opState = iota
	opCommitted
	opFailed
)

// pendingSend tracks one outbound message from optimistic insert to its
// terminal state. TempID is the locally assigned ID; ServerID is set when
// the gateway commits.
type pendingSend struct {
	TempID   string
	State    opState
	ServerID string
}

// ConversationStore tracks contacts, per-contact message lists, typing
// indicators and the push channel state. Message lists load lazily, once per
// contact. Outbound sends are optimistic: the message appears immediately
// with a temporary ID and is reconciled or marked failed when the gateway
// answers. Failed sends stay visible until the user retries.
type ConversationStore struct {
	gw    gateway.Gateway
	ch    channel.Channel
	cache cache.Cache
	log   *slog.Logger
	now   func() time.Time

	replyMin  time.Duration
	replyMax  time.Duration
	selfClear time.Duration
	peerClear time.Duration

	mu       sync.Mutex
	contacts []gateway.Contact
	messages map[string][]gateway.Message
	fetched  map[string]bool
	active   string
	typing   map[string]bool
	sends    map[string]*pendingSend // keyed by temp ID
	lastErr  string
	loading  bool
	chState  channel.State
	rng      *rand.Rand

	typingTimers map[string]*time.Timer // counterpart indicators, receiver side
	selfTimers   map[string]*time.Timer // our own indicator, sender side

	unsubscribe func()
	stopOnce    sync.Once
	stop        chan struct{}
}

type ConversationStoreConfig struct {
	Gateway gateway.Gateway
	Channel channel.Channel
	Cache   cache.Cache
	Logger  *slog.Logger
	// Now overrides the clock, for tests.
	Now func() time.Time
	// ReplyDelayMin/Max bound the assistant's simulated thinking time.
	ReplyDelayMin time.Duration
	ReplyDelayMax time.Duration
	// TypingSelfClear stops our own typing indicator after inactivity;
	// TypingPeerClear expires a counterpart's indicator when no explicit
	// stop arrives.
	TypingSelfClear time.Duration
	TypingPeerClear time.Duration
	// Seed fixes the RNG, for tests. Zero means time-seeded.
	Seed int64
}

func NewConversationStore(cfg ConversationStoreConfig) *ConversationStore {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	replyMin := cfg.ReplyDelayMin
	if replyMin <= 0 {
		replyMin = 800 * time.Millisecond
	}
	replyMax := cfg.ReplyDelayMax
	if replyMax <= replyMin {
		replyMax = replyMin + 2*time.Second
	}
	selfClear := cfg.TypingSelfClear
	if selfClear <= 0 {
		selfClear = 5 * time.Second
	}
	peerClear := cfg.TypingPeerClear
	if peerClear <= 0 {
		peerClear = 3 * time.Second
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	s := &ConversationStore{
		gw:           cfg.Gateway,
		ch:           cfg.Channel,
		cache:        cfg.Cache,
		log:          log.With("component", "conversation_store"),
		now:          now,
		replyMin:     replyMin,
		replyMax:     replyMax,
		selfClear:    selfClear,
		peerClear:    peerClear,
		messages:     make(map[string][]gateway.Message),
		fetched:      make(map[string]bool),
		typing:       make(map[string]bool),
		sends:        make(map[string]*pendingSend),
		chState:      channel.StateDisconnected,
		rng:          rand.New(rand.NewSource(seed)),
		typingTimers: make(map[string]*time.Timer),
		selfTimers:   make(map[string]*time.Timer),
		stop:         make(chan struct{}),
	}

	if s.cache != nil {
		var cached map[string][]gateway.Message
		if ok, err := s.cache.Get(context.Background(), cache.KeyMessages, &cached); err != nil {
			s.log.Warn("cache read failed", "error", err)
		} else if ok {
			s.messages = cached
			for id := range cached {
				s.fetched[id] = true
			}
		}
	}

	if s.ch != nil {
		events, cancel := s.ch.Subscribe()
		s.unsubscribe = cancel
		go s.consume(events)
	}
	return s
}

// LoadContacts replaces the contact list with the gateway's view.
func (s *ConversationStore) LoadContacts(ctx context.Context) error {
	s.setLoading(true)
	defer s.setLoading(false)

	contacts, err := s.gw.ListContacts(ctx)
	if err != nil {
		s.recordErr(fmt.Errorf("load contacts: %w", err))
		return err
	}

	s.mu.Lock()
	s.contacts = contacts
	s.lastErr = ""
	s.mu.Unlock()
	return nil
}

// SelectContact makes the contact active, loads its history on first
// selection, and clears its unread count locally and remotely. The remote
// mark-read is best effort.
func (s *ConversationStore) SelectContact(ctx context.Context, contactID string) error {
	s.mu.Lock()
	s.active = contactID
	needFetch := !s.fetched[contactID]
	for i := range s.contacts {
		if s.contacts[i].ID == contactID {
			s.contacts[i].Unread = 0
		}
	}
	s.markIncomingRead(contactID)
	s.mu.Unlock()

	if needFetch {
		msgs, err := s.gw.ListMessages(ctx, contactID)
		if err != nil {
			s.recordErr(fmt.Errorf("load messages for %s: %w", contactID, err))
			return err
		}
		s.mu.Lock()
		s.messages[contactID] = msgs
		s.markIncomingRead(contactID)
		s.fetched[contactID] = true
		s.lastErr = ""
		s.mu.Unlock()
		s.persist(ctx)
	}

	if err := s.gw.MarkRead(ctx, contactID); err != nil {
		s.log.Warn("mark read failed", "contact_id", contactID, "error", err)
	}
	return nil
}

// Send appends the message optimistically and round-trips it through the
// gateway. On success the temporary ID is replaced by the server's and the
// status becomes delivered; on failure the message stays in the list marked
// failed. Either way the send reaches a terminal state before Send returns.
func (s *ConversationStore) Send(ctx context.Context, contactID, text string) (gateway.Message, error) {
	tempID := "temp-" + uuid.NewString()
	msg := gateway.Message{
		ID:        tempID,
		ContactID: contactID,
		SenderID:  gateway.LocalSender,
		Text:      text,
		Timestamp: s.now(),
		Status:    gateway.MessageSending,
	}

	s.mu.Lock()
	s.messages[contactID] = append(s.messages[contactID], msg)
	s.sends[tempID] = &pendingSend{TempID: tempID, State: opPending}
	s.mu.Unlock()

	committed, err := s.gw.SendMessage(ctx, contactID, text)
	if err != nil {
		s.mu.Lock()
		s.sends[tempID].State = opFailed
		if m := s.findMessage(contactID, tempID); m != nil {
			m.Status = gateway.MessageFailed
			m.Error = true
			msg = *m
		}
		s.mu.Unlock()
		s.recordErr(fmt.Errorf("send message: %w", err))
		s.persist(ctx)
		return msg, err
	}

	s.mu.Lock()
	op := s.sends[tempID]
	op.State = opCommitted
	op.ServerID = committed.ID
	var final gateway.Message
	if m := s.findMessage(contactID, tempID); m != nil {
		m.ID = committed.ID
		m.Status = gateway.MessageDelivered
		if !committed.Timestamp.IsZero() {
			m.Timestamp = committed.Timestamp
		}
		final = *m
	}
	s.bumpContact(contactID, text)
	s.lastErr = ""
	assistant := s.contactIsAssistant(contactID)
	specialty := s.contactSpecialty(contactID)
	s.mu.Unlock()

	s.persist(ctx)

	if assistant {
		s.scheduleReply(contactID, specialty, text)
	}
	return final, nil
}

// Retry resubmits a failed message. It is a no-op for messages in any other
// state; there is no automatic retry anywhere in the store.
func (s *ConversationStore) Retry(ctx context.Context, contactID, messageID string) (gateway.Message, error) {
	s.mu.Lock()
	m := s.findMessage(contactID, messageID)
	if m == nil || m.Status != gateway.MessageFailed {
		s.mu.Unlock()
		return gateway.Message{}, gateway.ErrNotFound
	}
	m.Status = gateway.MessageSending
	m.Error = false
	text := m.Text
	if op, ok := s.sends[messageID]; ok {
		op.State = opPending
	}
	s.mu.Unlock()

	committed, err := s.gw.SendMessage(ctx, contactID, text)
	if err != nil {
		s.mu.Lock()
		if m := s.findMessage(contactID, messageID); m != nil {
			m.Status = gateway.MessageFailed
			m.Error = true
		}
		if op, ok := s.sends[messageID]; ok {
			op.State = opFailed
		}
		s.mu.Unlock()
		s.recordErr(fmt.Errorf("retry message: %w", err))
		s.persist(ctx)
		return gateway.Message{}, err
	}

	s.mu.Lock()
	var final gateway.Message
	if m := s.findMessage(contactID, messageID); m != nil {
		m.ID = committed.ID
		m.Status = gateway.MessageDelivered
		final = *m
	}
	if op, ok := s.sends[messageID]; ok {
		op.State = opCommitted
		op.ServerID = committed.ID
	}
	s.bumpContact(contactID, text)
	s.lastErr = ""
	assistant := s.contactIsAssistant(contactID)
	specialty := s.contactSpecialty(contactID)
	s.mu.Unlock()

	s.persist(ctx)

	if assistant {
		s.scheduleReply(contactID, specialty, text)
	}
	return final, nil
}

// SetTyping broadcasts our typing state and, when typing starts, arms a
// timer that clears it after the self-clear timeout of inactivity.
func (s *ConversationStore) SetTyping(contactID string, typing bool) {
	if s.ch == nil {
		return
	}
	if err := s.ch.SendTyping(contactID, typing); err != nil {
		s.log.Debug("send typing failed", "contact_id", contactID, "error", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.selfTimers[contactID]; ok {
		t.Stop()
		delete(s.selfTimers, contactID)
	}
	if typing {
		s.selfTimers[contactID] = time.AfterFunc(s.selfClear, func() {
			_ = s.ch.SendTyping(contactID, false)
		})
	}
}

// CreateAssistant adds a new assistant contact with a greeting message and
// makes it active. Assistants live entirely client-side.
func (s *ConversationStore) CreateAssistant(ctx context.Context, name, specialty string) (gateway.Contact, error) {
	now := s.now()
	greeting := fmt.Sprintf("Hello, I'm %s, your AI assistant for %s. How can I help you today?", name, specialty)
	contact := gateway.Contact{
		ID:            "ai-" + uuid.NewString(),
		Name:          name,
		Online:        true,
		Assistant:     true,
		Specialty:     specialty,
		LastMessage:   greeting,
		LastMessageAt: now,
	}
	first := gateway.Message{
		ID:        "msg-" + uuid.NewString(),
		ContactID: contact.ID,
		SenderID:  contact.ID,
		Text:      greeting,
		Timestamp: now,
		Status:    gateway.MessageRead,
		Assistant: true,
	}

	s.mu.Lock()
	s.contacts = append([]gateway.Contact{contact}, s.contacts...)
	s.messages[contact.ID] = []gateway.Message{first}
	s.fetched[contact.ID] = true
	s.active = contact.ID
	s.mu.Unlock()

	s.persist(ctx)
	return contact, nil
}

// scheduleReply arms the assistant's synthesized answer: typing comes on
// immediately, the reply lands after the simulated thinking delay.
func (s *ConversationStore) scheduleReply(contactID, specialty, text string) {
	s.mu.Lock()
	s.typing[contactID] = true
	delay := s.replyMin + time.Duration(s.rng.Int63n(int64(s.replyMax-s.replyMin)))
	s.mu.Unlock()

	timer := time.AfterFunc(delay, func() {
		now := s.now()
		reply := gateway.Message{
			ID:        "msg-" + uuid.NewString(),
			ContactID: contactID,
			SenderID:  contactID,
			Text:      synthesizeReply(text, specialty, now),
			Timestamp: now,
			Status:    gateway.MessageDelivered,
			Assistant: true,
		}

		s.mu.Lock()
		s.typing[contactID] = false
		s.messages[contactID] = append(s.messages[contactID], reply)
		s.bumpContact(contactID, reply.Text)
		s.mu.Unlock()

		s.persist(context.Background())
	})
	go func() {
		<-s.stop
		timer.Stop()
	}()
}

// consume applies push channel events to store state.
func (s *ConversationStore) consume(events <-chan channel.Event) {
	for {
		select {
		case <-s.stop:
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			s.apply(ev)
		}
	}
}

func (s *ConversationStore) apply(ev channel.Event) {
	switch ev.Type {
	case channel.EventMessage:
		if ev.Message == nil {
			return
		}
		msg := *ev.Message
		s.mu.Lock()
		if msg.ContactID == s.active {
			msg.Status = gateway.MessageRead
		}
		s.messages[msg.ContactID] = append(s.messages[msg.ContactID], msg)
		for i := range s.contacts {
			if s.contacts[i].ID != msg.ContactID {
				continue
			}
			s.contacts[i].LastMessage = msg.Text
			s.contacts[i].LastMessageAt = msg.Timestamp
			if msg.ContactID != s.active {
				s.contacts[i].Unread++
			}
		}
		active := s.active
		s.mu.Unlock()

		s.persist(context.Background())
		if msg.ContactID == active {
			if err := s.gw.MarkRead(context.Background(), msg.ContactID); err != nil {
				s.log.Warn("mark read failed", "contact_id", msg.ContactID, "error", err)
			}
		}

	case channel.EventTyping:
		s.mu.Lock()
		s.typing[ev.ContactID] = ev.Typing
		if t, ok := s.typingTimers[ev.ContactID]; ok {
			t.Stop()
			delete(s.typingTimers, ev.ContactID)
		}
		if ev.Typing {
			id := ev.ContactID
			s.typingTimers[id] = time.AfterFunc(s.peerClear, func() {
				s.mu.Lock()
				s.typing[id] = false
				delete(s.typingTimers, id)
				s.mu.Unlock()
			})
		}
		s.mu.Unlock()

	case channel.EventPresence:
		s.mu.Lock()
		for i := range s.contacts {
			if s.contacts[i].ID == ev.ContactID {
				s.contacts[i].Online = ev.Online
			}
		}
		s.mu.Unlock()

	case channel.EventState:
		s.mu.Lock()
		s.chState = ev.State
		s.mu.Unlock()
	}
}

// Contacts returns a copy of the contact list.
func (s *ConversationStore) Contacts() []gateway.Contact {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]gateway.Contact, len(s.contacts))
	copy(out, s.contacts)
	return out
}

// Messages returns a copy of the contact's ordered message list.
func (s *ConversationStore) Messages(contactID string) []gateway.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	msgs := s.messages[contactID]
	out := make([]gateway.Message, len(msgs))
	copy(out, msgs)
	return out
}

func (s *ConversationStore) Active() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Typing reports whether the counterpart is currently typing.
func (s *ConversationStore) Typing(contactID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.typing[contactID]
}

func (s *ConversationStore) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

func (s *ConversationStore) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// ChannelState reports the push channel's last known state.
func (s *ConversationStore) ChannelState() channel.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.chState
}

func (s *ConversationStore) Close() {
	s.stopOnce.Do(func() {
		close(s.stop)
		if s.unsubscribe != nil {
			s.unsubscribe()
		}
		s.mu.Lock()
		for id, t := range s.typingTimers {
			t.Stop()
			delete(s.typingTimers, id)
		}
		for id, t := range s.selfTimers {
			t.Stop()
			delete(s.selfTimers, id)
		}
		s.mu.Unlock()
	})
}

// markIncomingRead flags every counterpart message as read. Failed sends
// keep their state. Callers must hold mu.
func (s *ConversationStore) markIncomingRead(contactID string) {
	msgs := s.messages[contactID]
	for i := range msgs {
		if msgs[i].SenderID != gateway.LocalSender && msgs[i].Status != gateway.MessageFailed {
			msgs[i].Status = gateway.MessageRead
		}
	}
}

// findMessage returns a pointer into the live slice; callers must hold mu.
func (s *ConversationStore) findMessage(contactID, id string) *gateway.Message {
	msgs := s.messages[contactID]
	for i := range msgs {
		if msgs[i].ID == id {
			return &msgs[i]
		}
	}
	return nil
}

// bumpContact refreshes the contact's preview line; callers must hold mu.
func (s *ConversationStore) bumpContact(contactID, text string) {
	for i := range s.contacts {
		if s.contacts[i].ID == contactID {
			s.contacts[i].LastMessage = text
			s.contacts[i].LastMessageAt = s.now()
		}
	}
}

func (s *ConversationStore) contactIsAssistant(contactID string) bool {
	for _, c := range s.contacts {
		if c.ID == contactID {
			return c.Assistant
		}
	}
	return false
}

func (s *ConversationStore) contactSpecialty(contactID string) string {
	for _, c := range s.contacts {
		if c.ID == contactID && c.Specialty != "" {
			return c.Specialty
		}
	}
	return "general"
}

func (s *ConversationStore) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}

func (s *ConversationStore) recordErr(err error) {
	s.log.Error("conversation store operation failed", "error", err)
	s.mu.Lock()
	s.lastErr = err.Error()
	s.mu.Unlock()
}

func (s *ConversationStore) persist(ctx context.Context) {
	if s.cache == nil {
		return
	}
	s.mu.Lock()
	snapshot := make(map[string][]gateway.Message, len(s.messages))
	for id, msgs := range s.messages {
		cp := make([]gateway.Message, len(msgs))
		copy(cp, msgs)
		snapshot[id] = cp
	}
	s.mu.Unlock()
	if err := s.cache.Put(ctx, cache.KeyMessages, snapshot); err != nil {
		s.log.Warn("cache write failed", "key", cache.KeyMessages, "error", err)
	}
}
