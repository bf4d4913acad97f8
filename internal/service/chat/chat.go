package chat

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"gorm.io/gorm"

	"github.com/propconnect/propconnect/internal/model"
)

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

type SendRequest struct {
	SenderID string
	Text     string
}

type CreateContactRequest struct {
	OwnerID   uuid.UUID
	Name      string
	Role      string
	Assistant bool
	Specialty string
}

// ---------------------------------------------------------------------------
// Interface
// ---------------------------------------------------------------------------

type Service interface {
	ListContacts(ctx context.Context, ownerID uuid.UUID) ([]*model.Contact, error)
	CreateContact(ctx context.Context, req CreateContactRequest) (*model.Contact, error)
	ListMessages(ctx context.Context, contactID, ownerID uuid.UUID) ([]*model.Message, error)
	Send(ctx context.Context, contactID, ownerID uuid.UUID, req SendRequest) (*model.Message, error)
	MarkRead(ctx context.Context, contactID, ownerID uuid.UUID) error
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type chatService struct {
	db *gorm.DB
	nc *nats.Conn
}

func New(db *gorm.DB, nc *nats.Conn) Service {
	return &chatService{db: db, nc: nc}
}

func (s *chatService) ListContacts(ctx context.Context, ownerID uuid.UUID) ([]*model.Contact, error) {
	var contacts []*model.Contact
	err := s.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("last_message_at DESC").
		Find(&contacts).Error
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	return contacts, nil
}

func (s *chatService) CreateContact(ctx context.Context, req CreateContactRequest) (*model.Contact, error) {
	c := model.Contact{
		OwnerID:       req.OwnerID,
		Name:          req.Name,
		Role:          req.Role,
		Assistant:     req.Assistant,
		Specialty:     req.Specialty,
		Online:        req.Assistant,
		LastMessageAt: time.Now(),
	}
	if err := s.db.WithContext(ctx).Create(&c).Error; err != nil {
		return nil, fmt.Errorf("create contact: %w", err)
	}
	return &c, nil
}

func (s *chatService) ListMessages(ctx context.Context, contactID, ownerID uuid.UUID) ([]*model.Message, error) {
	if _, err := s.getContact(ctx, contactID, ownerID); err != nil {
		return nil, err
	}

	var msgs []*model.Message
	err := s.db.WithContext(ctx).
		Where("contact_id = ?", contactID).
		Order("created_at ASC").
		Find(&msgs).Error
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return msgs, nil
}

func (s *chatService) Send(ctx context.Context, contactID, ownerID uuid.UUID, req SendRequest) (*model.Message, error) {
	contact, err := s.getContact(ctx, contactID, ownerID)
	if err != nil {
		return nil, err
	}

	msg := model.Message{
		ContactID: contactID,
		SenderID:  req.SenderID,
		Text:      req.Text,
		Status:    "delivered",
	}
	if err := s.db.WithContext(ctx).Create(&msg).Error; err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}

	contact.LastMessage = req.Text
	contact.LastMessageAt = msg.CreatedAt
	if err := s.db.WithContext(ctx).Save(contact).Error; err != nil {
		return nil, fmt.Errorf("update contact preview: %w", err)
	}

	if s.nc != nil {
		subject := fmt.Sprintf("propconnect.message.new.%s", contactID.String())
		_ = s.nc.Publish(subject, []byte(msg.ID.String()))
	}
	return &msg, nil
}

func (s *chatService) MarkRead(ctx context.Context, contactID, ownerID uuid.UUID) error {
	contact, err := s.getContact(ctx, contactID, ownerID)
	if err != nil {
		return err
	}

	contact.Unread = 0
	if err := s.db.WithContext(ctx).Save(contact).Error; err != nil {
		return fmt.Errorf("reset unread: %w", err)
	}

	err = s.db.WithContext(ctx).Model(&model.Message{}).
		Where("contact_id = ? AND sender_id <> ? AND status <> ?", contactID, "me", "read").
		Update("status", "read").Error
	if err != nil {
		return fmt.Errorf("mark messages read: %w", err)
	}
	return nil
}

func (s *chatService) getContact(ctx context.Context, contactID, ownerID uuid.UUID) (*model.Contact, error) {
	var c model.Contact
	err := s.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", contactID, ownerID).
		First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContactNotFound
		}
		return nil, fmt.Errorf("get contact: %w", err)
	}
	return &c, nil
}
