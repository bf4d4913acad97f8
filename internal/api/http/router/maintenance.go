package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/propconnect/propconnect/internal/api/http/handler"
)

func (r *Router) registerMaintenanceRoutes(
	api fiber.Router,
	mh *handler.MaintenanceHandler,
	authRequired fiber.Handler,
) {
	maintenance := api.Group("/maintenance", authRequired)

	maintenance.Get("/", mh.List)
	maintenance.Post("/", mh.Create)

	m := maintenance.Group("/:id")
	m.Get("/", mh.Get)
	m.Put("/", mh.Update)
	m.Delete("/", mh.Delete)
}
