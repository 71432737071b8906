package usecase

import (
	"context"
	"log/slog"
	"maps"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/polkiloo/storefront/internal/domain/model"
	"github.com/polkiloo/storefront/internal/domain/repository"
)

const (
	TopicOrderCreated          = "order.created"
	TopicOrderStatusChanged    = "order.status.changed"
	TopicRequestCreated        = "request.created"
	TopicRequestStatusChanged  = "request.status.changed"
	TopicRequestUpdated        = "request.updated"
	TopicRequestOrderGenerated = "request.order.spawned"

	notificationIDPrefix = "ntf_"
)

// eventPublisher writes lifecycle events to the outbox. Failures are logged and never
// undo the transition that produced the event.
type eventPublisher struct {
	outbox repository.NotificationRepository
	logger *slog.Logger
}

func newEventPublisher(outbox repository.NotificationRepository, logger *slog.Logger) eventPublisher {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return eventPublisher{outbox: outbox, logger: logger}
}

func (p eventPublisher) publish(ctx context.Context, topic, entityID string, userID int64, payload map[string]any, now time.Time) {
	if p.outbox == nil {
		return
	}
	n := model.Notification{
		ID:        notificationIDPrefix + ulid.Make().String(),
		Topic:     topic,
		EntityID:  entityID,
		UserID:    userID,
		Status:    model.NotificationStatusPending,
		Payload:   maps.Clone(payload),
		CreatedAt: now,
	}
	if err := p.outbox.Enqueue(ctx, n); err != nil {
		p.logger.Error("enqueue notification failed",
			slog.String("topic", topic),
			slog.String("entity", entityID),
			slog.String("error", err.Error()),
		)
	}
}
