package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/segyhp/reminder-engine/internal/domain"
)

// ReminderRepository defines the interface for reminder data operations
type ReminderRepository interface {
	// Create creates a new reminder
	Create(ctx context.Context, reminder *domain.Reminder) error

	// GetByID retrieves a reminder by its ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Reminder, error)

	// ListByUser returns a user's reminders matching filter, earliest first
	ListByUser(ctx context.Context, userID uuid.UUID, filter domain.ReminderFilter) ([]*domain.Reminder, error)

	// Update overwrites the editable fields and status of a reminder
	Update(ctx context.Context, reminder *domain.Reminder) error

	// Delete removes a reminder
	Delete(ctx context.Context, id uuid.UUID) error

	// FindDue returns Pending reminders whose trigger time is at or before now
	FindDue(ctx context.Context, now time.Time) ([]*domain.ReminderWithOwner, error)

	// MarkMissed moves Pending reminders triggered before cutoff to Missed
	MarkMissed(ctx context.Context, cutoff time.Time) (int64, error)
}

// LoanRepository defines the interface for loan and installment data operations
type LoanRepository interface {
	// CreateWithSchedule creates a loan and its installments in one transaction
	CreateWithSchedule(ctx context.Context, loan *domain.Loan, schedule []*domain.EMIPayment) error

	// GetByID retrieves a loan by its ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Loan, error)

	// UpdateStatus sets the status of a loan
	UpdateStatus(ctx context.Context, loanID uuid.UUID, status string) error

	// ListActive returns every Active loan with its owner
	ListActive(ctx context.Context) ([]*domain.LoanWithOwner, error)

	// ListByUser returns a user's loans, newest first. An empty status matches all.
	ListByUser(ctx context.Context, userID uuid.UUID, status string) ([]*domain.Loan, error)

	// GetSchedulesByLoanIDs retrieves the installments of several loans ordered by loan and month
	GetSchedulesByLoanIDs(ctx context.Context, loanIDs []uuid.UUID) ([]*domain.EMIPayment, error)

	// GetScheduleByLoanID retrieves all installments of a loan ordered by month
	GetScheduleByLoanID(ctx context.Context, loanID uuid.UUID) ([]*domain.EMIPayment, error)

	// NextUnpaid returns the earliest-due installment that is not Paid, or nil
	NextUnpaid(ctx context.Context, loanID uuid.UUID) (*domain.EMIPayment, error)

	// CountPaid returns the number of Paid installments of a loan
	CountPaid(ctx context.Context, loanID uuid.UUID) (int, error)

	// MarkInstallmentPaid sets an installment to Paid with the given timestamp
	MarkInstallmentPaid(ctx context.Context, emiID uuid.UUID, paidAt time.Time) error

	// MarkOverdue moves Pending installments due before now to Overdue
	MarkOverdue(ctx context.Context, loanID uuid.UUID, now time.Time) (int64, error)
}

// SubscriptionRepository defines the interface for push subscription data operations
type SubscriptionRepository interface {
	// Upsert creates a subscription or refreshes the keys of an existing (endpoint, user) pair
	Upsert(ctx context.Context, sub *domain.PushSubscription) error

	// ListByUser returns all subscriptions of a user
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.PushSubscription, error)

	// Delete removes a subscription
	Delete(ctx context.Context, id uuid.UUID) error
}

// NotificationLogRepository defines the interface for the notification audit trail
type NotificationLogRepository interface {
	// Create appends a log entry
	Create(ctx context.Context, entry *domain.NotificationLog) error

	// ExistsSince reports whether an entry for the related entity, whose subject
	// contains the given fragment, was sent at or after since
	ExistsSince(ctx context.Context, relatedID uuid.UUID, relatedType, subjectContains string, since time.Time) (bool, error)
}
