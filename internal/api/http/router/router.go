package router

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"go.uber.org/fx"

	"github.com/propconnect/propconnect/config"
	"github.com/propconnect/propconnect/internal/api/http/handler"
	"github.com/propconnect/propconnect/internal/api/http/middleware"
	"github.com/propconnect/propconnect/internal/service/auth"
	"github.com/propconnect/propconnect/internal/service/chat"
	"github.com/propconnect/propconnect/internal/service/maintenance"
	"github.com/propconnect/propconnect/internal/service/notification"
	"github.com/propconnect/propconnect/pkg/token"
)

// Module provides the Router to the fx graph.
var Module = fx.Module("router", fx.Provide(NewRouter))

type Params struct {
	fx.In

	Cfg             *config.Config
	AuthSvc         auth.Service
	MaintenanceSvc  maintenance.Service
	ChatSvc         chat.Service
	NotificationSvc notification.Service
	Tokens          *token.Manager
}

type Router struct {
	p Params
}

func NewRouter(p Params) *Router {
	return &Router{p: p}
}

func (r *Router) Register(app *fiber.App) {
	r.registerSystemRoutes(app)

	authRequired := middleware.AuthRequired(r.p.Tokens)

	authH := handler.NewAuthHandler(r.p.AuthSvc)
	maintenanceH := handler.NewMaintenanceHandler(r.p.MaintenanceSvc)
	chatH := handler.NewChatHandler(r.p.ChatSvc)
	notificationH := handler.NewNotificationHandler(r.p.NotificationSvc)

	api := app.Group("/api/v1")

	r.registerAuthRoutes(api, authH)
	r.registerMaintenanceRoutes(api, maintenanceH, authRequired)
	r.registerChatRoutes(api, chatH, authRequired)
	r.registerNotificationRoutes(api, notificationH, authRequired)
}

func (r *Router) registerSystemRoutes(app *fiber.App) {
	app.Get(healthcheck.LivenessEndpoint, healthcheck.New())
	app.Get(healthcheck.ReadinessEndpoint, healthcheck.New())
	app.Get(healthcheck.StartupEndpoint, healthcheck.New())
	app.Get("/health", healthcheck.New())
}
