package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/segyhp/reminder-engine/internal/domain"
	customError "github.com/segyhp/reminder-engine/pkg/errors"
	"github.com/segyhp/reminder-engine/pkg/response"

	"github.com/sirupsen/logrus"
)

// UserIDHeader carries the authenticated user. Authentication itself happens
// in front of this service.
const UserIDHeader = "X-User-ID"

type LoanService interface {
	CreateLoan(ctx context.Context, userID uuid.UUID, req *domain.CreateLoanRequest) (*domain.LoanResponse, error)
	GetLoan(ctx context.Context, userID, loanID uuid.UUID) (*domain.LoanResponse, error)
	MarkInstallmentPaid(ctx context.Context, userID, loanID, emiID uuid.UUID) (*domain.LoanResponse, error)
	ListLoans(ctx context.Context, userID uuid.UUID, status string) ([]*domain.LoanResponse, error)
}

type ReminderService interface {
	CreateReminder(ctx context.Context, userID uuid.UUID, req *domain.CreateReminderRequest) (*domain.Reminder, error)
	ListReminders(ctx context.Context, userID uuid.UUID, filter domain.ReminderFilter) ([]*domain.Reminder, error)
	GetReminder(ctx context.Context, userID, reminderID uuid.UUID) (*domain.Reminder, error)
	UpdateReminder(ctx context.Context, userID, reminderID uuid.UUID, req *domain.UpdateReminderRequest) (*domain.Reminder, error)
	CompleteReminder(ctx context.Context, userID, reminderID uuid.UUID) (*domain.Reminder, error)
	DeleteReminder(ctx context.Context, userID, reminderID uuid.UUID) error
}

type SubscriptionService interface {
	Subscribe(ctx context.Context, userID uuid.UUID, req *domain.SubscribeRequest) (*domain.PushSubscription, error)
}

func userID(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.Header.Get(UserIDHeader))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// writeServiceError maps business errors to status codes; anything else is a 500
func writeServiceError(w http.ResponseWriter, logger logrus.FieldLogger, err error) {
	var bizErr *customError.BusinessError
	if !errors.As(err, &bizErr) {
		logger.WithError(err).Error("request failed")
		response.InternalServerError(w, "Internal server error", nil)
		return
	}

	switch bizErr.Code {
	case customError.ErrCodeLoanNotFound, customError.ErrCodeInstallmentNotFound, customError.ErrCodeReminderNotFound:
		response.NotFound(w, bizErr.Message)
	case customError.ErrCodeInstallmentAlreadyPaid, customError.ErrCodeInvalidLoan,
		customError.ErrCodeInvalidSubscription, customError.ErrCodeInvalidReminder:
		response.BadRequest(w, bizErr.Message, nil)
	case customError.ErrCodeReminderResolved:
		response.Conflict(w, bizErr.Message)
	default:
		logger.WithError(err).Error("request failed")
		response.InternalServerError(w, "Internal server error", nil)
	}
}
