package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/propconnect/propconnect/internal/model"
	"github.com/propconnect/propconnect/internal/service/maintenance"
	"github.com/propconnect/propconnect/pkg/token"
)

type stubMaintenanceService struct {
	deleteErr error
}

func (s *stubMaintenanceService) List(ctx context.Context, userID uuid.UUID, req maintenance.ListRequest) ([]*model.Ticket, error) {
	return nil, nil
}

func (s *stubMaintenanceService) GetByID(ctx context.Context, ticketID, userID uuid.UUID) (*model.Ticket, error) {
	return nil, maintenance.ErrNotFound
}

func (s *stubMaintenanceService) Create(ctx context.Context, req maintenance.CreateRequest) (*model.Ticket, error) {
	return &model.Ticket{Title: req.Title}, nil
}

func (s *stubMaintenanceService) Update(ctx context.Context, ticketID, userID uuid.UUID, req maintenance.UpdateRequest) (*model.Ticket, error) {
	return nil, maintenance.ErrNotFound
}

func (s *stubMaintenanceService) Delete(ctx context.Context, ticketID, userID uuid.UUID) error {
	return s.deleteErr
}

func newMaintenanceTestApp(svc maintenance.Service) *fiber.App {
	app := fiber.New()
	app.Use(func(c fiber.Ctx) error {
		c.Locals(token.CtxKeyClaims, &token.Claims{UserID: uuid.New()})
		return c.Next()
	})
	h := NewMaintenanceHandler(svc)
	app.Delete("/maintenance/:id", h.Delete)
	return app
}

func TestDeleteKeepsLegacyBodyShape(t *testing.T) {
	tests := []struct {
		name        string
		deleteErr   error
		wantStatus  int
		wantSuccess bool
	}{
		{"deleted", nil, http.StatusOK, true},
		{"missing", maintenance.ErrNotFound, http.StatusNotFound, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newMaintenanceTestApp(&stubMaintenanceService{deleteErr: tt.deleteErr})

			req := httptest.NewRequest(http.MethodDelete, "/maintenance/"+uuid.NewString(), nil)
			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("app.Test() error = %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}

			var body struct {
				Success *bool  `json:"success"`
				Message string `json:"message"`
			}
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body.Success == nil {
				t.Fatal("body should carry the success flag, not the error envelope")
			}
			if *body.Success != tt.wantSuccess {
				t.Errorf("success = %v, want %v", *body.Success, tt.wantSuccess)
			}
			if body.Message == "" {
				t.Error("body should carry a message")
			}
		})
	}
}
