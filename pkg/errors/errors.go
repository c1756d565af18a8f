package errors

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrLoanNotFound           = errors.New("loan not found")
	ErrInstallmentNotFound    = errors.New("installment not found")
	ErrInstallmentAlreadyPaid = errors.New("installment already paid")
	ErrInvalidLoan            = errors.New("invalid loan")
	ErrInvalidSubscription    = errors.New("invalid subscription")
	ErrReminderNotFound       = errors.New("reminder not found")
	ErrInvalidReminder        = errors.New("invalid reminder")
	ErrReminderResolved       = errors.New("reminder already resolved")
	ErrDeliveryFailed         = errors.New("delivery failed")
)

// BusinessError represents a business logic error
type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// NewBusinessError creates a new business error
func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Error codes
const (
	ErrCodeLoanNotFound           = "LOAN_NOT_FOUND"
	ErrCodeInstallmentNotFound    = "INSTALLMENT_NOT_FOUND"
	ErrCodeInstallmentAlreadyPaid = "INSTALLMENT_ALREADY_PAID"
	ErrCodeInvalidLoan            = "INVALID_LOAN"
	ErrCodeInvalidSubscription    = "INVALID_SUBSCRIPTION"
	ErrCodeReminderNotFound       = "REMINDER_NOT_FOUND"
	ErrCodeInvalidReminder        = "INVALID_REMINDER"
	ErrCodeReminderResolved       = "REMINDER_RESOLVED"
	ErrCodeDatabaseError          = "DATABASE_ERROR"
	ErrCodeDeliveryError          = "DELIVERY_ERROR"
	ErrCodeCacheError             = "CACHE_ERROR"
)

// Wrap common errors with business context
func WrapLoanNotFound(loanID string) *BusinessError {
	return NewBusinessError(
		ErrCodeLoanNotFound,
		fmt.Sprintf("Loan with ID %s not found", loanID),
		ErrLoanNotFound,
	)
}

func WrapInstallmentNotFound(emiID string) *BusinessError {
	return NewBusinessError(
		ErrCodeInstallmentNotFound,
		fmt.Sprintf("Installment with ID %s not found", emiID),
		ErrInstallmentNotFound,
	)
}

func WrapInstallmentAlreadyPaid(emiID string) *BusinessError {
	return NewBusinessError(
		ErrCodeInstallmentAlreadyPaid,
		fmt.Sprintf("Installment with ID %s is already marked as paid", emiID),
		ErrInstallmentAlreadyPaid,
	)
}

func WrapInvalidLoan(reason string) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidLoan,
		reason,
		ErrInvalidLoan,
	)
}

func WrapInvalidSubscription(reason string) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidSubscription,
		reason,
		ErrInvalidSubscription,
	)
}

func WrapReminderNotFound(reminderID string) *BusinessError {
	return NewBusinessError(
		ErrCodeReminderNotFound,
		fmt.Sprintf("Reminder with ID %s not found", reminderID),
		ErrReminderNotFound,
	)
}

func WrapInvalidReminder(reason string) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidReminder,
		reason,
		ErrInvalidReminder,
	)
}

func WrapReminderResolved(reminderID, status string) *BusinessError {
	return NewBusinessError(
		ErrCodeReminderResolved,
		fmt.Sprintf("Reminder with ID %s is already %s", reminderID, status),
		ErrReminderResolved,
	)
}

func WrapDatabaseError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeDatabaseError,
		"database operation failed",
		err,
	)
}

func WrapDeliveryError(channel string, err error) *BusinessError {
	return NewBusinessError(
		ErrCodeDeliveryError,
		fmt.Sprintf("%s delivery failed", channel),
		errors.Join(ErrDeliveryFailed, err),
	)
}

func WrapCacheError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeCacheError,
		"Cache operation failed",
		err,
	)
}
