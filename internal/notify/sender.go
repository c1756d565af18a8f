package notify

import (
	"context"
	"errors"

	"github.com/segyhp/reminder-engine/internal/domain"
)

// ErrSubscriptionExpired is returned by a PushSender when the push service
// reports the endpoint as gone (HTTP 404 or 410).
var ErrSubscriptionExpired = errors.New("push subscription expired")

// EmailSender delivers one HTML email
type EmailSender interface {
	Send(ctx context.Context, to, subject, html string) error
}

// PushSender delivers one web push message to one subscription
type PushSender interface {
	Send(ctx context.Context, sub *domain.PushSubscription, payload domain.PushPayload) error
}

// disabledPush is used when no VAPID keys are configured
type disabledPush struct{}

// DisabledPush returns a PushSender that fails every delivery without
// treating the subscription as expired.
func DisabledPush() PushSender {
	return disabledPush{}
}

func (disabledPush) Send(context.Context, *domain.PushSubscription, domain.PushPayload) error {
	return errors.New("push delivery disabled: VAPID keys not configured")
}
