package notify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/segyhp/reminder-engine/internal/domain"
	"github.com/segyhp/reminder-engine/internal/repository"

	"github.com/sirupsen/logrus"
)

// Result counts what one Dispatch delivered
type Result struct {
	EmailSent   bool
	PushSent    int
	PushExpired int
	PushFailed  int
}

// Dispatcher fans an Intent out to email and push and records it in the
// notification log. Deliveries are attempted once; failures are recorded,
// never retried.
type Dispatcher struct {
	email  EmailSender
	push   PushSender
	subs   repository.SubscriptionRepository
	logs   repository.NotificationLogRepository
	logger logrus.FieldLogger
	now    func() time.Time
}

func NewDispatcher(
	email EmailSender,
	push PushSender,
	subs repository.SubscriptionRepository,
	logs repository.NotificationLogRepository,
	logger logrus.FieldLogger,
) *Dispatcher {
	return &Dispatcher{
		email:  email,
		push:   push,
		subs:   subs,
		logs:   logs,
		logger: logger,
		now:    time.Now,
	}
}

// Close releases sender sessions held between deliveries
func (d *Dispatcher) Close() error {
	if c, ok := d.email.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// WithClock overrides the timestamp source of log rows
func (d *Dispatcher) WithClock(now func() time.Time) *Dispatcher {
	d.now = now
	return d
}

// Dispatch delivers the intent. A failed email does not stop push delivery,
// and a failed push does not stop the remaining subscriptions. The returned
// error only reports persistence failures; the Result is valid either way.
func (d *Dispatcher) Dispatch(ctx context.Context, intent Intent) (Result, error) {
	var result Result
	log := d.logger.WithFields(logrus.Fields{
		"kind":       intent.Kind.String(),
		"related_id": intent.RelatedID.String(),
	})

	if err := d.email.Send(ctx, intent.Recipient.Email, intent.Subject, intent.HTML); err != nil {
		log.WithError(err).Warn("email delivery failed")
	} else {
		result.EmailSent = true
	}

	var errs []error
	if err := d.deliverPush(ctx, intent, &result, log); err != nil {
		errs = append(errs, err)
	}

	status := domain.DeliveryStatusFailed
	if result.EmailSent {
		status = domain.DeliveryStatusSent
	}

	entry := &domain.NotificationLog{
		ID:          uuid.New(),
		Channel:     domain.ChannelEmail,
		Recipient:   intent.Recipient.Email,
		Subject:     intent.LogSubject,
		Status:      status,
		RelatedID:   intent.RelatedID,
		RelatedType: intent.Kind.RelatedType(),
		SentAt:      d.now(),
	}
	if err := d.logs.Create(ctx, entry); err != nil {
		errs = append(errs, fmt.Errorf("write notification log: %w", err))
	}

	return result, errors.Join(errs...)
}

func (d *Dispatcher) deliverPush(ctx context.Context, intent Intent, result *Result, log logrus.FieldLogger) error {
	subs, err := d.subs.ListByUser(ctx, intent.Recipient.UserID)
	if err != nil {
		return fmt.Errorf("list push subscriptions: %w", err)
	}

	var errs []error
	for _, sub := range subs {
		err := d.push.Send(ctx, sub, intent.Push)
		switch {
		case err == nil:
			result.PushSent++
		case errors.Is(err, ErrSubscriptionExpired):
			result.PushExpired++
			if delErr := d.subs.Delete(ctx, sub.ID); delErr != nil {
				errs = append(errs, fmt.Errorf("delete expired subscription %s: %w", sub.ID, delErr))
			} else {
				log.WithField("subscription_id", sub.ID.String()).Info("removed expired push subscription")
			}
		default:
			result.PushFailed++
			log.WithError(err).WithField("subscription_id", sub.ID.String()).Warn("push delivery failed")
		}
	}

	return errors.Join(errs...)
}
