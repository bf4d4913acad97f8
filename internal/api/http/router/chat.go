package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/propconnect/propconnect/internal/api/http/handler"
)

func (r *Router) registerChatRoutes(
	api fiber.Router,
	ch *handler.ChatHandler,
	authRequired fiber.Handler,
) {
	contacts := api.Group("/contacts", authRequired)

	contacts.Get("/", ch.ListContacts)
	contacts.Post("/", ch.CreateContact)

	contact := contacts.Group("/:id")
	contact.Get("/messages", ch.ListMessages)
	contact.Post("/messages", ch.Send)
	contact.Post("/read", ch.MarkRead)
}
