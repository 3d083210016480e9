package notification

import "context"

type NotificationRepository interface {
	// CreateIfAbsent inserts the notification unless one with the same
	// dedupe key exists; returns true when a row was inserted.
	CreateIfAbsent(ctx context.Context, n Notification) (bool, error)
	ListPending(ctx context.Context, limit int) ([]Notification, error)
	MarkSent(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id string) error
}
