// Package gateway performs the client's remote calls, or synthesizes
// equivalent responses from fixtures when the remote service is not
// configured. Both variants return the same shapes, so stores never branch
// on mode.
package gateway

import (
	"context"
	"errors"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
)

// Gateway is the boundary between the stores and the remote service.
// Implementations: Remote (HTTP) and Fixture (in-memory + durable cache).
type Gateway interface {
	ListTickets(ctx context.Context) ([]Ticket, error)
	CreateTicket(ctx context.Context, in TicketInput) (Ticket, error)
	UpdateTicket(ctx context.Context, id string, in TicketInput) (Ticket, error)
	DeleteTicket(ctx context.Context, id string) error

	ListContacts(ctx context.Context) ([]Contact, error)
	ListMessages(ctx context.Context, contactID string) ([]Message, error)
	SendMessage(ctx context.Context, contactID, text string) (Message, error)
	MarkRead(ctx context.Context, contactID string) error

	Login(ctx context.Context, creds Credentials) (Session, error)
	Register(ctx context.Context, reg Registration) (Session, error)
}
