package model

import "time"

// NotificationStatus tracks outbox delivery.
type NotificationStatus string

const (
	NotificationStatusPending   NotificationStatus = "pending"
	NotificationStatusSending   NotificationStatus = "sending"
	NotificationStatusDelivered NotificationStatus = "delivered"
	NotificationStatusFailed    NotificationStatus = "failed"
)

// Notification is a lifecycle event waiting to be delivered to the notification collaborator.
type Notification struct {
	ID        string
	Topic     string
	EntityID  string
	UserID    int64
	Status    NotificationStatus
	Payload   map[string]any
	Attempts  int
	CreatedAt time.Time
}
