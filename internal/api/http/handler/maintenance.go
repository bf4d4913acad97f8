package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/propconnect/propconnect/internal/service/maintenance"
	"github.com/propconnect/propconnect/pkg/token"
)

type MaintenanceHandler struct {
	svc maintenance.Service
}

func NewMaintenanceHandler(svc maintenance.Service) *MaintenanceHandler {
	return &MaintenanceHandler{svc: svc}
}

func mapMaintenanceError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, maintenance.ErrNotFound):
		return notFound(c, err.Error())
	case errors.Is(err, maintenance.ErrInvalidPriority),
		errors.Is(err, maintenance.ErrInvalidStatus):
		return badRequest(c, err.Error())
	default:
		return internalError(c, err)
	}
}

// GET /maintenance
func (h *MaintenanceHandler) List(c fiber.Ctx) error {
	claims, claimsOK := token.ClaimsFromFiber(c)
	if !claimsOK {
		return unauthorized(c)
	}

	var q struct {
		Status   string `query:"status"`
		Priority string `query:"priority"`
		Page     int    `query:"page"`
		PerPage  int    `query:"per_page"`
	}
	_ = c.Bind().Query(&q)

	req := maintenance.ListRequest{
		Page:    q.Page,
		PerPage: q.PerPage,
	}
	if q.Status != "" {
		req.Status = &q.Status
	}
	if q.Priority != "" {
		req.Priority = &q.Priority
	}

	tickets, err := h.svc.List(c.Context(), claims.UserID, req)
	if err != nil {
		return mapMaintenanceError(c, err)
	}

	return ok(c, tickets)
}

// POST /maintenance
func (h *MaintenanceHandler) Create(c fiber.Ctx) error {
	claims, claimsOK := token.ClaimsFromFiber(c)
	if !claimsOK {
		return unauthorized(c)
	}

	var body struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Priority    string `json:"priority"`
		Category    string `json:"category"`
		Location    string `json:"location"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	if body.Title == "" {
		return badRequest(c, "title is required")
	}

	t, err := h.svc.Create(c.Context(), maintenance.CreateRequest{
		UserID:      claims.UserID,
		Title:       body.Title,
		Description: body.Description,
		Priority:    body.Priority,
		Category:    body.Category,
		Location:    body.Location,
	})
	if err != nil {
		return mapMaintenanceError(c, err)
	}

	return created(c, t)
}

// GET /maintenance/:id
func (h *MaintenanceHandler) Get(c fiber.Ctx) error {
	claims, claimsOK := token.ClaimsFromFiber(c)
	if !claimsOK {
		return unauthorized(c)
	}

	ticketID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid request id")
	}

	t, err := h.svc.GetByID(c.Context(), ticketID, claims.UserID)
	if err != nil {
		return mapMaintenanceError(c, err)
	}

	return ok(c, t)
}

// PUT /maintenance/:id
func (h *MaintenanceHandler) Update(c fiber.Ctx) error {
	claims, claimsOK := token.ClaimsFromFiber(c)
	if !claimsOK {
		return unauthorized(c)
	}

	ticketID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid request id")
	}

	var body struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Priority    string `json:"priority"`
		Status      string `json:"status"`
		Category    string `json:"category"`
		Location    string `json:"location"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	t, err := h.svc.Update(c.Context(), ticketID, claims.UserID, maintenance.UpdateRequest{
		Title:       body.Title,
		Description: body.Description,
		Priority:    body.Priority,
		Status:      body.Status,
		Category:    body.Category,
		Location:    body.Location,
	})
	if err != nil {
		return mapMaintenanceError(c, err)
	}

	return ok(c, t)
}

// DELETE /maintenance/:id
func (h *MaintenanceHandler) Delete(c fiber.Ctx) error {
	claims, claimsOK := token.ClaimsFromFiber(c)
	if !claimsOK {
		return unauthorized(c)
	}

	ticketID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid request id")
	}

	if err := h.svc.Delete(c.Context(), ticketID, claims.UserID); err != nil {
		// The delete endpoint keeps its legacy {success, message} body on
		// both outcomes instead of the usual error envelope.
		if errors.Is(err, maintenance.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"message": "Maintenance request not found",
			})
		}
		return mapMaintenanceError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Maintenance request deleted",
	})
}
