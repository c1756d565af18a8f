package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/segyhp/reminder-engine/internal/domain"
	"github.com/segyhp/reminder-engine/internal/repository"
	customError "github.com/segyhp/reminder-engine/pkg/errors"
)

type SubscriptionService struct {
	SubscriptionRepo repository.SubscriptionRepository
	now              func() time.Time
}

func NewSubscriptionService(subscriptionRepo repository.SubscriptionRepository) *SubscriptionService {
	return &SubscriptionService{
		SubscriptionRepo: subscriptionRepo,
		now:              time.Now,
	}
}

// Subscribe stores a browser push subscription. Re-subscribing the same
// endpoint replaces its keys.
func (s *SubscriptionService) Subscribe(ctx context.Context, userID uuid.UUID, request *domain.SubscribeRequest) (*domain.PushSubscription, error) {
	payload := request.Subscription
	if payload.Endpoint == "" || payload.Keys.P256dh == "" || payload.Keys.Auth == "" {
		return nil, customError.WrapInvalidSubscription("endpoint and keys are required")
	}

	now := s.now()
	sub := &domain.PushSubscription{
		ID:        uuid.New(),
		Endpoint:  payload.Endpoint,
		P256dh:    payload.Keys.P256dh,
		Auth:      payload.Keys.Auth,
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.SubscriptionRepo.Upsert(ctx, sub); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return sub, nil
}
