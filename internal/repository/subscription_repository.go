package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/segyhp/reminder-engine/internal/domain"

	"github.com/jmoiron/sqlx"
)

type subscriptionRepository struct {
	db *sqlx.DB
}

func NewSubscriptionRepository(db *sqlx.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) Upsert(ctx context.Context, sub *domain.PushSubscription) error {
	query := `
		INSERT INTO push_subscriptions (id, endpoint, p256dh, auth, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (endpoint, user_id)
		DO UPDATE SET p256dh = EXCLUDED.p256dh, auth = EXCLUDED.auth, updated_at = EXCLUDED.updated_at
		RETURNING id, created_at
	`

	return r.db.QueryRowxContext(ctx, query,
		sub.ID,
		sub.Endpoint,
		sub.P256dh,
		sub.Auth,
		sub.UserID,
		sub.CreatedAt,
		sub.UpdatedAt,
	).Scan(&sub.ID, &sub.CreatedAt)
}

func (r *subscriptionRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.PushSubscription, error) {
	query := `
		SELECT id, endpoint, p256dh, auth, user_id, created_at, updated_at
		FROM push_subscriptions
		WHERE user_id = $1
		ORDER BY created_at
	`

	var subs []*domain.PushSubscription
	if err := r.db.SelectContext(ctx, &subs, query, userID); err != nil {
		return nil, err
	}

	return subs, nil
}

func (r *subscriptionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM push_subscriptions WHERE id = $1`, id)
	return err
}
