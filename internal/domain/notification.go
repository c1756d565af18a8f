package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	ChannelEmail = "email"
	ChannelPush  = "push"
)

const (
	DeliveryStatusSent   = "sent"
	DeliveryStatusFailed = "failed"
)

const (
	RelatedTypeReminder = "reminder"
	RelatedTypeEMI      = "emi"
)

// PushSubscription is a browser push endpoint registered by a user
type PushSubscription struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Endpoint  string    `json:"endpoint" db:"endpoint"`
	P256dh    string    `json:"p256dh" db:"p256dh"`
	Auth      string    `json:"auth" db:"auth"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// NotificationLog is the append-only delivery audit trail. The EMI scheduler
// reads it back to avoid sending the same window twice.
type NotificationLog struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Channel     string    `json:"channel" db:"channel"`
	Recipient   string    `json:"recipient" db:"recipient"`
	Subject     string    `json:"subject" db:"subject"`
	Status      string    `json:"status" db:"status"`
	RelatedID   uuid.UUID `json:"related_id" db:"related_id"`
	RelatedType string    `json:"related_type" db:"related_type"`
	SentAt      time.Time `json:"sent_at" db:"sent_at"`
}

// PushPayload is the JSON body delivered to the service worker
type PushPayload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	URL   string `json:"url,omitempty"`
	Tag   string `json:"tag,omitempty"`
}

type SubscriptionKeys struct {
	P256dh string `json:"p256dh" validate:"required"`
	Auth   string `json:"auth" validate:"required"`
}

type SubscriptionPayload struct {
	Endpoint string           `json:"endpoint" validate:"required,url"`
	Keys     SubscriptionKeys `json:"keys" validate:"required"`
}

type SubscribeRequest struct {
	Subscription SubscriptionPayload `json:"subscription" validate:"required"`
}
