package repository

import (
	"context"

	"github.com/polkiloo/storefront/internal/domain/model"
)

// NotificationRepository is the outbox of lifecycle events.
type NotificationRepository interface {
	Enqueue(ctx context.Context, n model.Notification) error
	SelectBatchForDelivery(ctx context.Context, limit int) ([]model.Notification, error)
	MarkDelivered(ctx context.Context, id string) error
	// MarkFailed records a failed attempt; after maxAttempts the notification is given up.
	MarkFailed(ctx context.Context, id string, maxAttempts int) error
}
