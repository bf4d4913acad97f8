package http

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/fx"

	"github.com/propconnect/propconnect/config"
	"github.com/propconnect/propconnect/internal/api/http/router"
	"github.com/propconnect/propconnect/internal/app"
)

func Start(cfg *config.Config, timeout time.Duration) {
	fx.New(
		fx.Supply(cfg),
		app.InfraModule,
		app.ServiceModule,
		app.WorkerModule,
		router.Module,
		Module,

		// Invoking *fiber.App forces its construction, which registers the
		// OnStart hook that actually listens.
		fx.Invoke(func(*fiber.App) {}),

		fx.StopTimeout(timeout),
	).Run()
}
