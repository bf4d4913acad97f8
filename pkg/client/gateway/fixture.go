package gateway

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/propconnect/propconnect/pkg/client/cache"
)

// Fixture serves gateway calls from in-memory seed data and the durable
// cache, for offline operation and tests. IDs and timestamps are
// synthesized locally. All methods honor ctx cancellation only at the
// artificial-latency boundary, like the network variant would.
type Fixture struct {
	mu       sync.Mutex
	tickets  []Ticket
	contacts []Contact
	messages map[string][]Message
	users    []fixtureUser
	cache    cache.Cache
	latency  time.Duration
	log      *slog.Logger
	now      func() time.Time
}

type fixtureUser struct {
	User
	Password string
}

type FixtureConfig struct {
	// Cache, when set, is read through on construction and written on every
	// ticket mutation, mirroring the remote-backed store behavior.
	Cache   cache.Cache
	Latency time.Duration
	Logger  *slog.Logger
	// Now overrides the clock, for tests.
	Now func() time.Time
}

func NewFixture(cfg FixtureConfig) *Fixture {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	f := &Fixture{
		cache:    cfg.Cache,
		latency:  cfg.Latency,
		log:      logger,
		now:      now,
		messages: make(map[string][]Message),
	}
	f.seed()

	// Previously cached tickets win over seed data.
	if f.cache != nil {
		var cached []Ticket
		if found, err := f.cache.Get(context.Background(), cache.KeyTickets, &cached); err == nil && found && len(cached) > 0 {
			f.tickets = cached
		}
	}

	return f
}

func (f *Fixture) seed() {
	t := f.now()
	f.tickets = []Ticket{
		{
			ID:          "1",
			Title:       "Leaking Faucet",
			Description: "The kitchen faucet is leaking and needs repair",
			Status:      StatusPending,
			Priority:    PriorityMedium,
			Category:    "plumbing",
			Location:    "Kitchen",
			CreatedAt:   t.Add(-3 * 24 * time.Hour),
		},
		{
			ID:          "2",
			Title:       "Broken Window",
			Description: "The window in the living room is cracked and needs to be replaced",
			Status:      StatusInProgress,
			Priority:    PriorityHigh,
			Category:    "structural",
			Location:    "Living Room",
			CreatedAt:   t.Add(-24 * time.Hour),
		},
		{
			ID:          "3",
			Title:       "AC Not Working",
			Description: "The air conditioner is not cooling properly",
			Status:      StatusCompleted,
			Priority:    PriorityHigh,
			Category:    "hvac",
			Location:    "Entire Unit",
			CreatedAt:   t.Add(-7 * 24 * time.Hour),
		},
	}

	f.contacts = []Contact{
		{
			ID:            "contact-1",
			Name:          "John Smith",
			Role:          "Tenant",
			Online:        true,
			LastMessage:   "When will the maintenance be finished?",
			LastMessageAt: t.Add(-30 * time.Minute),
			Unread:        1,
		},
		{
			ID:            "contact-2",
			Name:          "Sarah Johnson",
			Role:          "Property Owner",
			Online:        false,
			LastMessage:   "Please send me the latest reports",
			LastMessageAt: t.Add(-24 * time.Hour),
		},
		{
			ID:            "ai-assistant",
			Name:          "Property Assistant",
			Assistant:     true,
			Online:        true,
			Specialty:     "property management",
			LastMessage:   "How can I help you today?",
			LastMessageAt: t.Add(-2 * time.Hour),
		},
	}

	f.messages["contact-1"] = []Message{
		{ID: "msg-1-1", ContactID: "contact-1", SenderID: "contact-1",
			Text: "Hello, I have a question about my apartment", Timestamp: t.Add(-time.Hour), Status: MessageRead},
		{ID: "msg-1-2", ContactID: "contact-1", SenderID: LocalSender,
			Text: "Of course, how can I help you?", Timestamp: t.Add(-50 * time.Minute), Status: MessageDelivered},
	}
	f.messages["contact-2"] = []Message{
		{ID: "msg-2-1", ContactID: "contact-2", SenderID: LocalSender,
			Text: "Hi Sarah, I've prepared the monthly reports", Timestamp: t.Add(-24 * time.Hour), Status: MessageRead},
	}
	f.messages["ai-assistant"] = []Message{
		{ID: "msg-3-1", ContactID: "ai-assistant", SenderID: "ai-assistant",
			Text: "Hello! I'm your property management assistant. How can I help you today?",
			Timestamp: t.Add(-2 * time.Hour), Status: MessageRead, Assistant: true},
	}

	f.users = []fixtureUser{
		{User: User{ID: "admin-1", Name: "Admin User", Email: "admin@example.com", Role: "admin"}, Password: "admin123"},
		{User: User{ID: "tenant-1", Name: "Tenant User", Email: "tenant@example.com", Role: "tenant"}, Password: "tenant123"},
		{User: User{ID: "owner-1", Name: "Property Owner", Email: "owner@example.com", Role: "owner"}, Password: "owner123"},
	}
}

// validateInput rejects unknown enum values the way the real server does,
// keeping both gateway variants behaviorally identical.
func validateInput(in TicketInput) error {
	if in.Priority != "" && !IsValidPriority(in.Priority) {
		return fmt.Errorf("invalid priority %q", in.Priority)
	}
	if in.Status != "" && !IsValidStatus(in.Status) {
		return fmt.Errorf("invalid status %q", in.Status)
	}
	return nil
}

// sleep emulates the remote round trip.
func (f *Fixture) sleep(ctx context.Context) error {
	if f.latency <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(f.latency)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (f *Fixture) persistTickets() {
	if f.cache == nil {
		return
	}
	if err := f.cache.Put(context.Background(), cache.KeyTickets, f.tickets); err != nil {
		f.log.Warn("fixture: persist tickets failed", "err", err)
	}
}

func (f *Fixture) ListTickets(ctx context.Context) ([]Ticket, error) {
	if err := f.sleep(ctx); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Ticket, len(f.tickets))
	copy(out, f.tickets)
	return out, nil
}

func (f *Fixture) CreateTicket(ctx context.Context, in TicketInput) (Ticket, error) {
	if err := f.sleep(ctx); err != nil {
		return Ticket{}, err
	}
	if err := validateInput(in); err != nil {
		return Ticket{}, err
	}
	now := f.now()
	t := Ticket{
		ID:          fmt.Sprintf("maintenance-%s", uuid.NewString()),
		Title:       in.Title,
		Description: in.Description,
		Priority:    in.Priority,
		Status:      in.Status,
		Category:    in.Category,
		Location:    in.Location,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if t.Priority == "" {
		t.Priority = PriorityMedium
	}
	if t.Status == "" {
		t.Status = StatusPending
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.tickets = append([]Ticket{t}, f.tickets...)
	f.persistTickets()
	return t, nil
}

func (f *Fixture) UpdateTicket(ctx context.Context, id string, in TicketInput) (Ticket, error) {
	if err := f.sleep(ctx); err != nil {
		return Ticket{}, err
	}
	if err := validateInput(in); err != nil {
		return Ticket{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.tickets {
		if f.tickets[i].ID != id {
			continue
		}
		t := &f.tickets[i]
		if in.Title != "" {
			t.Title = in.Title
		}
		if in.Description != "" {
			t.Description = in.Description
		}
		if in.Priority != "" {
			t.Priority = in.Priority
		}
		if in.Status != "" {
			t.Status = in.Status
		}
		if in.Category != "" {
			t.Category = in.Category
		}
		if in.Location != "" {
			t.Location = in.Location
		}
		t.UpdatedAt = f.now()
		f.persistTickets()
		return *t, nil
	}
	return Ticket{}, ErrNotFound
}

func (f *Fixture) DeleteTicket(ctx context.Context, id string) error {
	if err := f.sleep(ctx); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.tickets {
		if f.tickets[i].ID == id {
			f.tickets = append(f.tickets[:i], f.tickets[i+1:]...)
			f.persistTickets()
			return nil
		}
	}
	return ErrNotFound
}

func (f *Fixture) ListContacts(ctx context.Context) ([]Contact, error) {
	if err := f.sleep(ctx); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Contact, len(f.contacts))
	copy(out, f.contacts)
	return out, nil
}

func (f *Fixture) ListMessages(ctx context.Context, contactID string) ([]Message, error) {
	if err := f.sleep(ctx); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	msgs := f.messages[contactID]
	out := make([]Message, len(msgs))
	copy(out, msgs)
	return out, nil
}

func (f *Fixture) SendMessage(ctx context.Context, contactID, text string) (Message, error) {
	if err := f.sleep(ctx); err != nil {
		return Message{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	msg := Message{
		ID:        "msg-" + uuid.NewString(),
		ContactID: contactID,
		SenderID:  LocalSender,
		Text:      text,
		Timestamp: f.now(),
		Status:    MessageDelivered,
	}
	f.messages[contactID] = append(f.messages[contactID], msg)

	for i := range f.contacts {
		if f.contacts[i].ID == contactID {
			f.contacts[i].LastMessage = text
			f.contacts[i].LastMessageAt = msg.Timestamp
		}
	}
	return msg, nil
}

func (f *Fixture) MarkRead(ctx context.Context, contactID string) error {
	if err := f.sleep(ctx); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.contacts {
		if f.contacts[i].ID == contactID {
			f.contacts[i].Unread = 0
		}
	}
	msgs := f.messages[contactID]
	for i := range msgs {
		if msgs[i].SenderID != LocalSender {
			msgs[i].Status = MessageRead
		}
	}
	return nil
}

func (f *Fixture) Login(ctx context.Context, creds Credentials) (Session, error) {
	if err := f.sleep(ctx); err != nil {
		return Session{}, err
	}
	email := strings.ToLower(strings.TrimSpace(creds.Email))

	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email && u.Password == creds.Password {
			return f.newSession(u.User), nil
		}
	}
	return Session{}, fmt.Errorf("%w: invalid email or password", ErrUnauthorized)
}

func (f *Fixture) Register(ctx context.Context, reg Registration) (Session, error) {
	if err := f.sleep(ctx); err != nil {
		return Session{}, err
	}
	email := strings.ToLower(strings.TrimSpace(reg.Email))

	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			return Session{}, fmt.Errorf("email already registered")
		}
	}
	u := fixtureUser{
		User:     User{ID: "user-" + uuid.NewString(), Name: reg.Name, Email: email, Role: reg.Role},
		Password: reg.Password,
	}
	f.users = append(f.users, u)
	return f.newSession(u.User), nil
}

func (f *Fixture) newSession(u User) Session {
	session := Session{Token: "fixture-" + uuid.NewString(), User: u}
	if f.cache != nil {
		if err := f.cache.Put(context.Background(), cache.KeySession, session); err != nil {
			f.log.Warn("fixture: persist session failed", "err", err)
		}
	}
	return session
}
