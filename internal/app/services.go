package app

import (
	"github.com/nats-io/nats.go"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/propconnect/propconnect/config"
	"github.com/propconnect/propconnect/internal/service/auth"
	"github.com/propconnect/propconnect/internal/service/chat"
	"github.com/propconnect/propconnect/internal/service/maintenance"
	"github.com/propconnect/propconnect/internal/service/notification"
	"github.com/propconnect/propconnect/pkg/token"
)

// ServiceModule provides all application service dependencies.
var ServiceModule = fx.Module("services",
	fx.Provide(
		ProvideAuthService,
		ProvideMaintenanceService,
		ProvideChatService,
		ProvideNotificationService,
		ProvideTokenManager,
	),
)

func ProvideAuthService(db *gorm.DB, tokens *token.Manager) auth.Service {
	return auth.New(db, tokens)
}

func ProvideMaintenanceService(db *gorm.DB, nc *nats.Conn) maintenance.Service {
	return maintenance.New(db, nc)
}

func ProvideChatService(db *gorm.DB, nc *nats.Conn) chat.Service {
	return chat.New(db, nc)
}

func ProvideNotificationService(db *gorm.DB) notification.Service {
	return notification.New(db)
}

func ProvideTokenManager(cfg *config.Config) (*token.Manager, error) {
	return token.NewManager(cfg)
}
