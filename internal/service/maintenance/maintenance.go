package maintenance

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"gorm.io/gorm"

	"github.com/propconnect/propconnect/internal/model"
)

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

type ListRequest struct {
	Status   *string
	Priority *string
	Page     int
	PerPage  int
}

type CreateRequest struct {
	UserID      uuid.UUID
	Title       string
	Description string
	Priority    string
	Category    string
	Location    string
}

// UpdateRequest carries partial changes. Empty fields keep the stored value.
type UpdateRequest struct {
	Title       string
	Description string
	Priority    string
	Status      string
	Category    string
	Location    string
}

// ---------------------------------------------------------------------------
// Interface
// ---------------------------------------------------------------------------

type Service interface {
	List(ctx context.Context, userID uuid.UUID, req ListRequest) ([]*model.Ticket, error)
	GetByID(ctx context.Context, ticketID, userID uuid.UUID) (*model.Ticket, error)
	Create(ctx context.Context, req CreateRequest) (*model.Ticket, error)
	Update(ctx context.Context, ticketID, userID uuid.UUID, req UpdateRequest) (*model.Ticket, error)
	Delete(ctx context.Context, ticketID, userID uuid.UUID) error
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type maintenanceService struct {
	db *gorm.DB
	nc *nats.Conn
}

func New(db *gorm.DB, nc *nats.Conn) Service {
	return &maintenanceService{db: db, nc: nc}
}

func (s *maintenanceService) List(ctx context.Context, userID uuid.UUID, req ListRequest) ([]*model.Ticket, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PerPage < 1 || req.PerPage > 100 {
		req.PerPage = 50
	}
	offset := (req.Page - 1) * req.PerPage

	q := s.db.WithContext(ctx).Where("created_by = ?", userID)
	if req.Status != nil {
		q = q.Where("status = ?", *req.Status)
	}
	if req.Priority != nil {
		q = q.Where("priority = ?", *req.Priority)
	}

	var tickets []*model.Ticket
	if err := q.Order("created_at DESC").Offset(offset).Limit(req.PerPage).Find(&tickets).Error; err != nil {
		return nil, fmt.Errorf("list maintenance requests: %w", err)
	}
	return tickets, nil
}

func (s *maintenanceService) GetByID(ctx context.Context, ticketID, userID uuid.UUID) (*model.Ticket, error) {
	var t model.Ticket
	err := s.db.WithContext(ctx).
		Where("id = ? AND created_by = ?", ticketID, userID).
		First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get maintenance request: %w", err)
	}
	return &t, nil
}

func (s *maintenanceService) Create(ctx context.Context, req CreateRequest) (*model.Ticket, error) {
	priority := model.PriorityMedium
	if req.Priority != "" {
		priority = model.TicketPriority(req.Priority)
		if !model.IsValidPriority(priority) {
			return nil, ErrInvalidPriority
		}
	}

	t := model.Ticket{
		Title:       req.Title,
		Description: req.Description,
		Priority:    priority,
		Status:      model.StatusPending,
		Category:    req.Category,
		Location:    req.Location,
		CreatedBy:   req.UserID,
	}
	if err := s.db.WithContext(ctx).Create(&t).Error; err != nil {
		return nil, fmt.Errorf("create maintenance request: %w", err)
	}

	s.publish("propconnect.ticket.created."+t.ID.String(), t.ID.String())
	return &t, nil
}

func (s *maintenanceService) Update(ctx context.Context, ticketID, userID uuid.UUID, req UpdateRequest) (*model.Ticket, error) {
	t, err := s.GetByID(ctx, ticketID, userID)
	if err != nil {
		return nil, err
	}

	statusChanged := false
	if req.Title != "" {
		t.Title = req.Title
	}
	if req.Description != "" {
		t.Description = req.Description
	}
	if req.Priority != "" {
		p := model.TicketPriority(req.Priority)
		if !model.IsValidPriority(p) {
			return nil, ErrInvalidPriority
		}
		t.Priority = p
	}
	if req.Status != "" {
		st := model.TicketStatus(req.Status)
		if !model.IsValidStatus(st) {
			return nil, ErrInvalidStatus
		}
		statusChanged = t.Status != st
		t.Status = st
	}
	if req.Category != "" {
		t.Category = req.Category
	}
	if req.Location != "" {
		t.Location = req.Location
	}

	if err := s.db.WithContext(ctx).Save(t).Error; err != nil {
		return nil, fmt.Errorf("update maintenance request: %w", err)
	}

	if statusChanged {
		s.publish("propconnect.ticket.status."+t.ID.String(), string(t.Status))
	}
	return t, nil
}

func (s *maintenanceService) Delete(ctx context.Context, ticketID, userID uuid.UUID) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND created_by = ?", ticketID, userID).
		Delete(&model.Ticket{})
	if res.Error != nil {
		return fmt.Errorf("delete maintenance request: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *maintenanceService) publish(subject, payload string) {
	if s.nc != nil {
		_ = s.nc.Publish(subject, []byte(payload))
	}
}
