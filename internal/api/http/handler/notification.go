package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/propconnect/propconnect/internal/service/notification"
	"github.com/propconnect/propconnect/pkg/token"
)

type NotificationHandler struct {
	svc notification.Service
}

func NewNotificationHandler(svc notification.Service) *NotificationHandler {
	return &NotificationHandler{svc: svc}
}

func mapNotificationError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, notification.ErrNotFound):
		return notFound(c, err.Error())
	default:
		return internalError(c, err)
	}
}

// GET /notifications
func (h *NotificationHandler) List(c fiber.Ctx) error {
	claims, claimsOK := token.ClaimsFromFiber(c)
	if !claimsOK {
		return unauthorized(c)
	}

	var q struct {
		Unread  bool `query:"unread"`
		Page    int  `query:"page"`
		PerPage int  `query:"per_page"`
	}
	_ = c.Bind().Query(&q)

	notifs, err := h.svc.List(c.Context(), claims.UserID, q.Unread, q.Page, q.PerPage)
	if err != nil {
		return mapNotificationError(c, err)
	}

	return ok(c, notifs)
}

// POST /notifications/:id/read
func (h *NotificationHandler) MarkRead(c fiber.Ctx) error {
	claims, claimsOK := token.ClaimsFromFiber(c)
	if !claimsOK {
		return unauthorized(c)
	}

	notifID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid notification id")
	}

	if err := h.svc.MarkRead(c.Context(), notifID, claims.UserID); err != nil {
		return mapNotificationError(c, err)
	}

	return ok(c, fiber.Map{"read": true})
}

// POST /notifications/read-all
func (h *NotificationHandler) MarkAllRead(c fiber.Ctx) error {
	claims, claimsOK := token.ClaimsFromFiber(c)
	if !claimsOK {
		return unauthorized(c)
	}

	if err := h.svc.MarkAllRead(c.Context(), claims.UserID); err != nil {
		return mapNotificationError(c, err)
	}

	return ok(c, fiber.Map{"read": true})
}
