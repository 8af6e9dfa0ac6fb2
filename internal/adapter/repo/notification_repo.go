package repo

import (
	"context"

	"medicab/internal/domain"
	"medicab/internal/infra"
	"medicab/internal/sqlinline"
)

// NotificationRepositoryPG stores the in-app notification inbox.
type NotificationRepositoryPG struct {
	sql infra.SQLExecutor
}

func NewNotificationRepository(sql infra.SQLExecutor) *NotificationRepositoryPG {
	return &NotificationRepositoryPG{sql: sql}
}

func (r *NotificationRepositoryPG) Insert(ctx context.Context, n *domain.NotificationEvent) error {
	_, err := r.sql.Exec(ctx, sqlinline.QInsertNotification,
		n.ID, n.RecipientID, n.Message, string(n.Category), n.CreatedAt)
	return err
}

func (r *NotificationRepositoryPG) ListByRecipient(ctx context.Context, recipientID string, unreadOnly bool, limit int) ([]domain.NotificationEvent, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QListNotifications, recipientID, unreadOnly, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.NotificationEvent
	for rows.Next() {
		var (
			n        domain.NotificationEvent
			category string
		)
		if err := rows.Scan(&n.ID, &n.RecipientID, &n.Message, &category, &n.Read, &n.CreatedAt); err != nil {
			return nil, err
		}
		n.Category = domain.NotificationCategory(category)
		items = append(items, n)
	}
	return items, rows.Err()
}

func (r *NotificationRepositoryPG) MarkRead(ctx context.Context, recipientID, id string) error {
	tag, err := r.sql.Exec(ctx, sqlinline.QMarkNotificationRead, id, recipientID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

var _ domain.NotificationRepository = (*NotificationRepositoryPG)(nil)
