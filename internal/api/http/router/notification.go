package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/propconnect/propconnect/internal/api/http/handler"
)

func (r *Router) registerNotificationRoutes(
	api fiber.Router,
	nh *handler.NotificationHandler,
	authRequired fiber.Handler,
) {
	notifications := api.Group("/notifications", authRequired)

	notifications.Get("/", nh.List)
	notifications.Post("/read-all", nh.MarkAllRead)
	notifications.Post("/:id/read", nh.MarkRead)
}
