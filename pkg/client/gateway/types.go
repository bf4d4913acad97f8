package gateway

import "time"

// Ticket is a maintenance request as the client sees it.
type Ticket struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Priority    string    `json:"priority"` // low | medium | high
	Status      string    `json:"status"`   // pending | in-progress | completed
	Category    string    `json:"category"`
	Location    string    `json:"location"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"

	StatusPending    = "pending"
	StatusInProgress = "in-progress"
	StatusCompleted  = "completed"
)

func IsValidPriority(p string) bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

func IsValidStatus(s string) bool {
	return s == StatusPending || s == StatusInProgress || s == StatusCompleted
}

// TicketInput carries the writable fields for create and update calls.
// Empty fields are ignored on update (the server keeps the old value).
type TicketInput struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Priority    string `json:"priority,omitempty"`
	Status      string `json:"status,omitempty"`
	Category    string `json:"category,omitempty"`
	Location    string `json:"location,omitempty"`
}

// Contact is a chat counterpart, human or assistant.
type Contact struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Role          string    `json:"role,omitempty"`
	Online        bool      `json:"online"`
	Assistant     bool      `json:"assistant"`
	Specialty     string    `json:"specialty,omitempty"`
	LastMessage   string    `json:"last_message,omitempty"`
	LastMessageAt time.Time `json:"last_message_at,omitempty"`
	Unread        int       `json:"unread"`
}

// LocalSender is the sentinel sender ID for messages authored by the
// local user.
const LocalSender = "me"

type MessageStatus string

const (
	MessageSending   MessageStatus = "sending"
	MessageSent      MessageStatus = "sent"
	MessageDelivered MessageStatus = "delivered"
	MessageRead      MessageStatus = "read"
	MessageFailed    MessageStatus = "failed"
)

// Terminal reports whether the status is an end state of delivery.
func (s MessageStatus) Terminal() bool {
	return s == MessageDelivered || s == MessageRead || s == MessageFailed
}

// Message is a single chat entry in one contact's ordered list.
type Message struct {
	ID        string        `json:"id"`
	ContactID string        `json:"contact_id"`
	SenderID  string        `json:"sender_id"`
	Text      string        `json:"text"`
	Timestamp time.Time     `json:"timestamp"`
	Status    MessageStatus `json:"status"`
	Assistant bool          `json:"assistant,omitempty"`
	Error     bool          `json:"error,omitempty"`
}

// User is the authenticated account.
type User struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Avatar string `json:"avatar,omitempty"`
}

// Session is the result of a successful login or registration.
type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type Registration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}
