package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/segyhp/reminder-engine/internal/domain"

	"github.com/jmoiron/sqlx"
)

type notificationLogRepository struct {
	db *sqlx.DB
}

func NewNotificationLogRepository(db *sqlx.DB) NotificationLogRepository {
	return &notificationLogRepository{db: db}
}

func (r *notificationLogRepository) Create(ctx context.Context, entry *domain.NotificationLog) error {
	query := `
		INSERT INTO notification_logs (id, channel, recipient, subject, status, related_id, related_type, sent_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(ctx, query,
		entry.ID,
		entry.Channel,
		entry.Recipient,
		entry.Subject,
		entry.Status,
		entry.RelatedID,
		entry.RelatedType,
		entry.SentAt,
	)

	return err
}

func (r *notificationLogRepository) ExistsSince(ctx context.Context, relatedID uuid.UUID, relatedType, subjectContains string, since time.Time) (bool, error) {
	// strpos instead of LIKE so labels need no escaping
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM notification_logs
			WHERE related_id = $1 AND related_type = $2 AND strpos(subject, $3) > 0 AND sent_at >= $4
		)
	`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, relatedID, relatedType, subjectContains, since); err != nil {
		return false, err
	}

	return exists, nil
}
