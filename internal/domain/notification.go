package domain

import (
	"context"
	"time"
)

// NotificationCategory tags the origin of a notification.
type NotificationCategory string

const (
	NotifyExpiry   NotificationCategory = "expiry"
	NotifyDonation NotificationCategory = "donation"
	NotifySystem   NotificationCategory = "system"
)

// NotificationEvent is a write-once record owned by the sink once emitted.
type NotificationEvent struct {
	ID          string               `json:"id"`
	RecipientID string               `json:"recipient_id"`
	Message     string               `json:"message"`
	Category    NotificationCategory `json:"category"`
	Read        bool                 `json:"read"`
	CreatedAt   time.Time            `json:"created_at"`
}

// NotificationSink accepts notification requests. Implementations own
// delivery semantics; failures are logged by the sink, never surfaced to
// the emitting operation.
type NotificationSink interface {
	Notify(ctx context.Context, recipientID, message string, category NotificationCategory)
}
