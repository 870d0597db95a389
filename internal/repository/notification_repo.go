package repository

import (
	"context"

	"github.com/boobaGreen/trinity-fat-loss-app/internal/models"
)

type NotificationRepository struct {
	db DBTX
}

func NewNotificationRepository(db DBTX) *NotificationRepository {
	return &NotificationRepository{db: db}
}

type CreateNotificationInput struct {
	ID      string
	UserID  string
	Title   string
	Message string
	Type    string
}

func (r *NotificationRepository) Create(
	ctx context.Context,
	input CreateNotificationInput,
) (*models.Notification, error) {
	query := `
		INSERT INTO notifications (id, user_id, title, message, type)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, user_id, title, message, type, is_read, created_at
	`
	var notification models.Notification
	err := r.db.QueryRow(ctx, query,
		input.ID,
		input.UserID,
		input.Title,
		input.Message,
		input.Type,
	).Scan(
		&notification.ID,
		&notification.UserID,
		&notification.Title,
		&notification.Message,
		&notification.Type,
		&notification.IsRead,
		&notification.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &notification, nil
}

func (r *NotificationRepository) ListByUser(
	ctx context.Context,
	userID string,
	limit, offset int,
) ([]models.Notification, error) {
	query := `
		SELECT id, user_id, title, message, type, is_read, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notifications := make([]models.Notification, 0)
	for rows.Next() {
		var notification models.Notification
		if err := rows.Scan(
			&notification.ID,
			&notification.UserID,
			&notification.Title,
			&notification.Message,
			&notification.Type,
			&notification.IsRead,
			&notification.CreatedAt,
		); err != nil {
			return nil, err
		}
		notifications = append(notifications, notification)
	}
	return notifications, rows.Err()
}

func (r *NotificationRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*)::int FROM notifications WHERE user_id = $1`, userID,
	).Scan(&count)
	return count, err
}

// MarkRead flips is_read for a notification owned by the user. Returns false
// when the notification does not exist or belongs to someone else.
func (r *NotificationRepository) MarkRead(ctx context.Context, notificationID, userID string) (bool, error) {
	query := `UPDATE notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2`
	tag, err := r.db.Exec(ctx, query, notificationID, userID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}
