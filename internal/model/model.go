// Package model defines the persistence entities shared by the services.
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TicketPriority string

const (
	PriorityLow    TicketPriority = "low"
	PriorityMedium TicketPriority = "medium"
	PriorityHigh   TicketPriority = "high"
)

func IsValidPriority(p TicketPriority) bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

type TicketStatus string

const (
	StatusPending    TicketStatus = "pending"
	StatusInProgress TicketStatus = "in-progress"
	StatusCompleted  TicketStatus = "completed"
)

func IsValidStatus(s TicketStatus) bool {
	return s == StatusPending || s == StatusInProgress || s == StatusCompleted
}

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string    `gorm:"type:varchar(255);not null" json:"name"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	Role         string    `gorm:"type:varchar(32);not null;default:tenant" json:"role"`
	Avatar       string    `gorm:"type:varchar(512)" json:"avatar,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

type Ticket struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string         `gorm:"type:varchar(255);not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	Priority    TicketPriority `gorm:"type:varchar(32);index;not null;default:medium" json:"priority"`
	Status      TicketStatus   `gorm:"type:varchar(32);index;not null;default:pending" json:"status"`
	Category    string         `gorm:"type:varchar(64);index" json:"category,omitempty"`
	Location    string         `gorm:"type:varchar(255)" json:"location,omitempty"`
	CreatedBy   uuid.UUID      `gorm:"type:uuid;index;not null" json:"created_by"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (t *Ticket) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// Contact is one row of a user's conversation list. Assistant contacts have
// a specialty and no backing user account.
type Contact struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID   uuid.UUID `gorm:"type:uuid;index;not null" json:"owner_id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Role      string    `gorm:"type:varchar(64)" json:"role,omitempty"`
	Online    bool      `gorm:"not null;default:false" json:"online"`
	Assistant bool      `gorm:"not null;default:false" json:"assistant"`
	Specialty string    `gorm:"type:varchar(128)" json:"specialty,omitempty"`
	Unread    int       `gorm:"not null;default:0" json:"unread"`

	LastMessage   string    `gorm:"type:text" json:"last_message,omitempty"`
	LastMessageAt time.Time `json:"last_message_at,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (c *Contact) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

type Message struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ContactID uuid.UUID `gorm:"type:uuid;index;not null" json:"contact_id"`
	SenderID  string    `gorm:"type:varchar(64);not null" json:"sender_id"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	Status    string    `gorm:"type:varchar(32);not null;default:delivered" json:"status"`
	Assistant bool      `gorm:"not null;default:false" json:"assistant,omitempty"`

	CreatedAt time.Time `json:"timestamp"`
	UpdatedAt time.Time `json:"-"`
}

func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

type Notification struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	Kind   string    `gorm:"type:varchar(64);not null" json:"kind"`
	Title  string    `gorm:"type:varchar(255);not null" json:"title"`
	Body   string    `gorm:"type:text" json:"body,omitempty"`
	Read   bool      `gorm:"not null;default:false" json:"read"`

	CreatedAt time.Time `json:"created_at"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
