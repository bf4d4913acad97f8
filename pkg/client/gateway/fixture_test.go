package gateway

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/propconnect/propconnect/pkg/client/cache"
)

func TestFixtureSeedData(t *testing.T) {
	f := NewFixture(FixtureConfig{})

	tickets, err := f.ListTickets(context.Background())
	if err != nil {
		t.Fatalf("ListTickets() error = %v", err)
	}
	if len(tickets) != 3 {
		t.Fatalf("seeded tickets = %d, want 3", len(tickets))
	}
	if tickets[0].Title != "Leaking Faucet" || tickets[0].Status != StatusPending {
		t.Errorf("first seeded ticket = %+v", tickets[0])
	}

	contacts, err := f.ListContacts(context.Background())
	if err != nil {
		t.Fatalf("ListContacts() error = %v", err)
	}
	if len(contacts) != 3 {
		t.Fatalf("seeded contacts = %d, want 3", len(contacts))
	}

	var assistant *Contact
	for i := range contacts {
		if contacts[i].Assistant {
			assistant = &contacts[i]
		}
	}
	if assistant == nil {
		t.Fatal("seed should include an assistant contact")
	}
	if assistant.Specialty != "property management" {
		t.Errorf("assistant specialty = %q", assistant.Specialty)
	}
}

func TestFixtureCreateTicketDefaults(t *testing.T) {
	f := NewFixture(FixtureConfig{})

	created, err := f.CreateTicket(context.Background(), TicketInput{Title: "Clogged Drain"})
	if err != nil {
		t.Fatalf("CreateTicket() error = %v", err)
	}
	if !strings.HasPrefix(created.ID, "maintenance-") {
		t.Errorf("CreateTicket() ID = %q, want maintenance- prefix", created.ID)
	}
	if created.Priority != PriorityMedium {
		t.Errorf("default priority = %q, want medium", created.Priority)
	}
	if created.Status != StatusPending {
		t.Errorf("default status = %q, want pending", created.Status)
	}

	tickets, _ := f.ListTickets(context.Background())
	if tickets[0].ID != created.ID {
		t.Errorf("new ticket should come first, got %q", tickets[0].ID)
	}
}

func TestFixtureRejectsUnknownEnums(t *testing.T) {
	f := NewFixture(FixtureConfig{})

	if _, err := f.CreateTicket(context.Background(), TicketInput{Title: "X", Priority: "urgent"}); err == nil {
		t.Error("CreateTicket() with unknown priority should fail")
	}
	if _, err := f.UpdateTicket(context.Background(), "1", TicketInput{Status: "done"}); err == nil {
		t.Error("UpdateTicket() with unknown status should fail")
	}

	// A rejected update must not touch the record.
	tickets, _ := f.ListTickets(context.Background())
	if tickets[0].Status != StatusPending {
		t.Errorf("ticket status after rejected update = %q, want pending", tickets[0].Status)
	}
}

func TestFixtureUpdateKeepsEmptyFields(t *testing.T) {
	f := NewFixture(FixtureConfig{})

	updated, err := f.UpdateTicket(context.Background(), "1", TicketInput{Status: StatusCompleted})
	if err != nil {
		t.Fatalf("UpdateTicket() error = %v", err)
	}
	if updated.Status != StatusCompleted {
		t.Errorf("status = %q, want completed", updated.Status)
	}
	if updated.Title != "Leaking Faucet" {
		t.Errorf("empty title should keep the old value, got %q", updated.Title)
	}
	if updated.Location != "Kitchen" {
		t.Errorf("empty location should keep the old value, got %q", updated.Location)
	}

	if _, err := f.UpdateTicket(context.Background(), "missing", TicketInput{Status: StatusPending}); !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdateTicket(missing) error = %v, want ErrNotFound", err)
	}
}

func TestFixtureDeleteMissingLeavesRecords(t *testing.T) {
	f := NewFixture(FixtureConfig{})

	if err := f.DeleteTicket(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("DeleteTicket(missing) error = %v, want ErrNotFound", err)
	}
	tickets, _ := f.ListTickets(context.Background())
	if len(tickets) != 3 {
		t.Errorf("failed delete changed the list, len = %d", len(tickets))
	}

	if err := f.DeleteTicket(context.Background(), "1"); err != nil {
		t.Fatalf("DeleteTicket() error = %v", err)
	}
	tickets, _ = f.ListTickets(context.Background())
	if len(tickets) != 2 {
		t.Errorf("delete should remove one record, len = %d", len(tickets))
	}
	for _, ticket := range tickets {
		if ticket.ID == "1" {
			t.Error("deleted ticket still present")
		}
	}
}

func TestFixtureSendAndMarkRead(t *testing.T) {
	f := NewFixture(FixtureConfig{})

	msg, err := f.SendMessage(context.Background(), "contact-1", "On my way")
	if err != nil {
		t.Fatalf("SendMessage() error = %v", err)
	}
	if msg.Status != MessageDelivered {
		t.Errorf("sent message status = %q", msg.Status)
	}

	contacts, _ := f.ListContacts(context.Background())
	if contacts[0].LastMessage != "On my way" {
		t.Errorf("contact preview = %q", contacts[0].LastMessage)
	}

	if err := f.MarkRead(context.Background(), "contact-1"); err != nil {
		t.Fatalf("MarkRead() error = %v", err)
	}
	contacts, _ = f.ListContacts(context.Background())
	if contacts[0].Unread != 0 {
		t.Errorf("unread after MarkRead = %d", contacts[0].Unread)
	}
	msgs, _ := f.ListMessages(context.Background(), "contact-1")
	for _, m := range msgs {
		if m.SenderID != LocalSender && m.Status != MessageRead {
			t.Errorf("incoming message %q status = %q, want read", m.ID, m.Status)
		}
	}
}

func TestFixtureLogin(t *testing.T) {
	f := NewFixture(FixtureConfig{})

	tests := []struct {
		name    string
		email   string
		pass    string
		wantErr bool
	}{
		{"admin", "admin@example.com", "admin123", false},
		{"case and whitespace folded", "  Tenant@Example.com ", "tenant123", false},
		{"wrong password", "admin@example.com", "nope", true},
		{"unknown user", "ghost@example.com", "x", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session, err := f.Login(context.Background(), Credentials{Email: tt.email, Password: tt.pass})
			if tt.wantErr {
				if !errors.Is(err, ErrUnauthorized) {
					t.Errorf("Login() error = %v, want ErrUnauthorized", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Login() error = %v", err)
			}
			if session.Token == "" {
				t.Error("Login() returned empty token")
			}
		})
	}
}

func TestFixtureRegister(t *testing.T) {
	mem := cache.NewMemory()
	f := NewFixture(FixtureConfig{Cache: mem})

	session, err := f.Register(context.Background(), Registration{
		Name:     "New Tenant",
		Email:    "New@Example.com",
		Password: "secret",
		Role:     "tenant",
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if session.User.Email != "new@example.com" {
		t.Errorf("registered email = %q, want folded to lowercase", session.User.Email)
	}
	if !strings.HasPrefix(session.Token, "fixture-") {
		t.Errorf("session token = %q, want fixture- prefix", session.Token)
	}

	var cached Session
	if found, err := mem.Get(context.Background(), cache.KeySession, &cached); err != nil || !found {
		t.Fatalf("session not persisted: found=%v err=%v", found, err)
	}
	if cached.Token != session.Token {
		t.Errorf("cached token = %q, want %q", cached.Token, session.Token)
	}

	if _, err := f.Register(context.Background(), Registration{Email: "admin@example.com", Password: "x"}); err == nil {
		t.Error("Register() with a taken email should fail")
	}

	if _, err := f.Login(context.Background(), Credentials{Email: "new@example.com", Password: "secret"}); err != nil {
		t.Errorf("Login() after Register() error = %v", err)
	}
}

func TestFixtureCachedTicketsWin(t *testing.T) {
	mem := cache.NewMemory()
	cached := []Ticket{{ID: "cached-1", Title: "From Cache", Status: StatusPending, Priority: PriorityLow}}
	if err := mem.Put(context.Background(), cache.KeyTickets, cached); err != nil {
		t.Fatalf("cache.Put() error = %v", err)
	}

	f := NewFixture(FixtureConfig{Cache: mem})
	tickets, err := f.ListTickets(context.Background())
	if err != nil {
		t.Fatalf("ListTickets() error = %v", err)
	}
	if len(tickets) != 1 || tickets[0].ID != "cached-1" {
		t.Errorf("cached snapshot should replace seed data, got %d tickets", len(tickets))
	}
}
