package postgresql

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sahl-hr/attendance-backend-go/internal/domain/notification"
	"github.com/sahl-hr/attendance-backend-go/internal/pkg/database"
)

type notificationRepository struct {
	db *database.DB
}

func NewNotificationRepository(db *database.DB) notification.NotificationRepository {
	return &notificationRepository{db: db}
}

// CreateIfAbsent implements notification.NotificationRepository.
func (r *notificationRepository) CreateIfAbsent(ctx context.Context, n notification.Notification) (bool, error) {
	q := GetQuerier(ctx, r.db)

	if n.ID == "" {
		n.ID = uuid.New().String()
	}

	tag, err := q.Exec(ctx, `
		INSERT INTO notifications (id, employee_id, kind, subject, body, status, dedupe_key)
		VALUES ($1, $2, $3, $4, $5, 'pending', $6)
		ON CONFLICT (dedupe_key) DO NOTHING
	`, n.ID, n.EmployeeID, n.Kind, n.Subject, n.Body, n.DedupeKey)
	if err != nil {
		return false, fmt.Errorf("failed to create notification: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// ListPending implements notification.NotificationRepository.
func (r *notificationRepository) ListPending(ctx context.Context, limit int) ([]notification.Notification, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT id, employee_id, kind, subject, body, status, dedupe_key, sent_at, created_at, updated_at
		FROM notifications
		WHERE status = 'pending'
		ORDER BY created_at
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending notifications: %w", err)
	}
	defer rows.Close()

	var result []notification.Notification
	for rows.Next() {
		var n notification.Notification
		err := rows.Scan(
			&n.ID, &n.EmployeeID, &n.Kind, &n.Subject, &n.Body, &n.Status,
			&n.DedupeKey, &n.SentAt, &n.CreatedAt, &n.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		result = append(result, n)
	}
	return result, rows.Err()
}

// MarkSent implements notification.NotificationRepository.
func (r *notificationRepository) MarkSent(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	_, err := q.Exec(ctx, `
		UPDATE notifications SET status = 'sent', sent_at = NOW(), updated_at = NOW() WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("failed to mark notification sent: %w", err)
	}
	return nil
}

// MarkFailed implements notification.NotificationRepository.
func (r *notificationRepository) MarkFailed(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	_, err := q.Exec(ctx, `
		UPDATE notifications SET status = 'failed', updated_at = NOW() WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("failed to mark notification failed: %w", err)
	}
	return nil
}
