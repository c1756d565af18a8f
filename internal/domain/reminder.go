package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	ReminderStatusPending   = "Pending"
	ReminderStatusCompleted = "Completed"
	ReminderStatusMissed    = "Missed"
)

const (
	PriorityLow    = "Low"
	PriorityMedium = "Medium"
	PriorityHigh   = "High"
)

const (
	CategoryWork     = "Work"
	CategoryMeeting  = "Meeting"
	CategoryPersonal = "Personal"
	CategoryLoan     = "Loan"
	CategoryOther    = "Other"
)

// Reminder is a user-scheduled alert. Status only moves out of Pending.
type Reminder struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	Title       string     `json:"title" db:"title"`
	Description *string    `json:"description,omitempty" db:"description"`
	DateTime    time.Time  `json:"date_time" db:"date_time"`
	Category    string     `json:"category" db:"category"`
	Priority    string     `json:"priority" db:"priority"`
	Status      string     `json:"status" db:"status"`
	LoanID      *uuid.UUID `json:"loan_id,omitempty" db:"loan_id"`
	UserID      uuid.UUID  `json:"user_id" db:"user_id"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

type ReminderWithOwner struct {
	Reminder
	Owner Recipient `db:"owner"`
}

// Recipient is the user a notification is delivered to
type Recipient struct {
	UserID uuid.UUID `json:"user_id" db:"user_id"`
	Name   string    `json:"name" db:"name"`
	Email  string    `json:"email" db:"email"`
}

// IsResolved reports whether the reminder left Pending
func (r *Reminder) IsResolved() bool {
	return r.Status != ReminderStatusPending
}

// ReminderFilter narrows a user's reminder list. Empty fields match everything.
type ReminderFilter struct {
	Status   string     `validate:"omitempty,oneof=Pending Completed Missed"`
	Category string     `validate:"omitempty,oneof=Work Meeting Personal Loan Other"`
	Priority string     `validate:"omitempty,oneof=Low Medium High"`
	Search   string     `validate:"omitempty,max=200"`
	From     *time.Time
	To       *time.Time
}

// DTOs for requests

type CreateReminderRequest struct {
	Title       string     `json:"title" validate:"required,min=1,max=200"`
	Description *string    `json:"description,omitempty" validate:"omitempty,max=1000"`
	DateTime    time.Time  `json:"date_time" validate:"required"`
	Category    string     `json:"category" validate:"required,oneof=Work Meeting Personal Loan Other"`
	Priority    string     `json:"priority" validate:"required,oneof=Low Medium High"`
	LoanID      *uuid.UUID `json:"loan_id,omitempty"`
}

// UpdateReminderRequest is a partial update; nil fields are left unchanged
type UpdateReminderRequest struct {
	Title       *string    `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Description *string    `json:"description,omitempty" validate:"omitempty,max=1000"`
	DateTime    *time.Time `json:"date_time,omitempty"`
	Category    *string    `json:"category,omitempty" validate:"omitempty,oneof=Work Meeting Personal Loan Other"`
	Priority    *string    `json:"priority,omitempty" validate:"omitempty,oneof=Low Medium High"`
	Status      *string    `json:"status,omitempty" validate:"omitempty,oneof=Pending Completed Missed"`
}
