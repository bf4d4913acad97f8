package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/propconnect/propconnect/internal/api/http/handler"
)

func (r *Router) registerAuthRoutes(api fiber.Router, ah *handler.AuthHandler) {
	authGroup := api.Group("/auth")

	authGroup.Post("/register", ah.Register)
	authGroup.Post("/login", ah.Login)
}
