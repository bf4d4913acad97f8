package app

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/propconnect/propconnect/internal/model"
	"github.com/propconnect/propconnect/internal/service/notification"
)

// WorkerModule registers all NATS event workers.
var WorkerModule = fx.Module("workers",
	fx.Invoke(RegisterWorkers),
)

type WorkerParams struct {
	fx.In

	Lc       fx.Lifecycle
	NC       *nats.Conn
	DB       *gorm.DB
	NotifSvc notification.Service
}

func RegisterWorkers(p WorkerParams) {
	p.Lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			startNotificationWorker(p.NC, p.DB, p.NotifSvc)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			// Drain handled by ProvideNatsClient
			return nil
		},
	})
}

// ---------------------------------------------------------------------------
// notification_worker
// ---------------------------------------------------------------------------

func startNotificationWorker(nc *nats.Conn, db *gorm.DB, notifSvc notification.Service) {
	// New ticket notifications
	_, err := nc.Subscribe("propconnect.ticket.created.*", func(msg *nats.Msg) {
		ticketID, ok := subjectID(msg.Subject)
		if !ok {
			return
		}

		ctx := context.Background()

		var ticket model.Ticket
		if err := db.WithContext(ctx).First(&ticket, "id = ?", ticketID).Error; err != nil {
			slog.Warn("notification_worker: ticket not found", "id", ticketID, "err", err)
			return
		}

		_, err := notifSvc.Create(ctx, notification.CreateRequest{
			UserID: ticket.CreatedBy,
			Kind:   "ticket_created",
			Title:  "Maintenance request submitted",
			Body:   ticket.Title,
		})
		if err != nil {
			slog.Warn("notification_worker: create notification failed", "err", err)
		}
	})
	if err != nil {
		slog.Error("notification_worker: subscribe ticket.created failed", "err", err)
	}

	// Ticket status change notifications
	_, err = nc.Subscribe("propconnect.ticket.status.*", func(msg *nats.Msg) {
		ticketID, ok := subjectID(msg.Subject)
		if !ok {
			return
		}

		ctx := context.Background()

		var ticket model.Ticket
		if err := db.WithContext(ctx).First(&ticket, "id = ?", ticketID).Error; err != nil {
			slog.Warn("notification_worker: ticket not found", "id", ticketID, "err", err)
			return
		}

		status := strings.TrimSpace(string(msg.Data))
		_, err := notifSvc.Create(ctx, notification.CreateRequest{
			UserID: ticket.CreatedBy,
			Kind:   "ticket_status",
			Title:  "Maintenance request updated",
			Body:   ticket.Title + " is now " + status,
		})
		if err != nil {
			slog.Warn("notification_worker: create status notification failed", "err", err)
		}
	})
	if err != nil {
		slog.Error("notification_worker: subscribe ticket.status failed", "err", err)
	}

	// New message notifications
	_, err = nc.Subscribe("propconnect.message.new.*", func(msg *nats.Msg) {
		contactID, ok := subjectID(msg.Subject)
		if !ok {
			return
		}

		ctx := context.Background()

		var contact model.Contact
		if err := db.WithContext(ctx).First(&contact, "id = ?", contactID).Error; err != nil {
			slog.Warn("notification_worker: contact not found", "id", contactID, "err", err)
			return
		}

		_, err := notifSvc.Create(ctx, notification.CreateRequest{
			UserID: contact.OwnerID,
			Kind:   "message_new",
			Title:  "New message",
			Body:   contact.Name,
		})
		if err != nil {
			slog.Warn("notification_worker: create message notification failed", "err", err)
		}
	})
	if err != nil {
		slog.Error("notification_worker: subscribe message.new failed", "err", err)
	}

	slog.Info("notification_worker: started")
}

// subjectID extracts and validates the trailing uuid of a subject like
// propconnect.ticket.created.<id>.
func subjectID(subject string) (uuid.UUID, bool) {
	parts := strings.Split(subject, ".")
	if len(parts) < 4 {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(parts[len(parts)-1])
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
