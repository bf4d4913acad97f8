package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/propconnect/propconnect/internal/service/chat"
	"github.com/propconnect/propconnect/pkg/token"
)

type ChatHandler struct {
	svc chat.Service
}

func NewChatHandler(svc chat.Service) *ChatHandler {
	return &ChatHandler{svc: svc}
}

func mapChatError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, chat.ErrContactNotFound):
		return notFound(c, err.Error())
	default:
		return internalError(c, err)
	}
}

// GET /contacts
func (h *ChatHandler) ListContacts(c fiber.Ctx) error {
	claims, claimsOK := token.ClaimsFromFiber(c)
	if !claimsOK {
		return unauthorized(c)
	}

	contacts, err := h.svc.ListContacts(c.Context(), claims.UserID)
	if err != nil {
		return mapChatError(c, err)
	}

	return ok(c, contacts)
}

// POST /contacts
func (h *ChatHandler) CreateContact(c fiber.Ctx) error {
	claims, claimsOK := token.ClaimsFromFiber(c)
	if !claimsOK {
		return unauthorized(c)
	}

	var body struct {
		Name      string `json:"name"`
		Role      string `json:"role"`
		Assistant bool   `json:"assistant"`
		Specialty string `json:"specialty"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	if body.Name == "" {
		return badRequest(c, "name is required")
	}

	contact, err := h.svc.CreateContact(c.Context(), chat.CreateContactRequest{
		OwnerID:   claims.UserID,
		Name:      body.Name,
		Role:      body.Role,
		Assistant: body.Assistant,
		Specialty: body.Specialty,
	})
	if err != nil {
		return mapChatError(c, err)
	}

	return created(c, contact)
}

// GET /contacts/:id/messages
func (h *ChatHandler) ListMessages(c fiber.Ctx) error {
	claims, claimsOK := token.ClaimsFromFiber(c)
	if !claimsOK {
		return unauthorized(c)
	}

	contactID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid contact id")
	}

	msgs, err := h.svc.ListMessages(c.Context(), contactID, claims.UserID)
	if err != nil {
		return mapChatError(c, err)
	}

	return ok(c, msgs)
}

// POST /contacts/:id/messages
func (h *ChatHandler) Send(c fiber.Ctx) error {
	claims, claimsOK := token.ClaimsFromFiber(c)
	if !claimsOK {
		return unauthorized(c)
	}

	contactID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid contact id")
	}

	var body struct {
		Text string `json:"text"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	if body.Text == "" {
		return badRequest(c, "text is required")
	}

	msg, err := h.svc.Send(c.Context(), contactID, claims.UserID, chat.SendRequest{
		SenderID: "me",
		Text:     body.Text,
	})
	if err != nil {
		return mapChatError(c, err)
	}

	return created(c, msg)
}

// POST /contacts/:id/read
func (h *ChatHandler) MarkRead(c fiber.Ctx) error {
	claims, claimsOK := token.ClaimsFromFiber(c)
	if !claimsOK {
		return unauthorized(c)
	}

	contactID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid contact id")
	}

	if err := h.svc.MarkRead(c.Context(), contactID, claims.UserID); err != nil {
		return mapChatError(c, err)
	}

	return ok(c, fiber.Map{"read": true})
}
