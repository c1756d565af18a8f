package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	LoanStatusActive    = "Active"
	LoanStatusCompleted = "Completed"
	LoanStatusOverdue   = "Overdue"
)

// Loan represents a loan entity. The total payable amount (EMIAmount * Tenure)
// is derived and never stored.
type Loan struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	Platform    string          `json:"platform" db:"platform"`
	Title       string          `json:"title" db:"title"`
	TotalAmount decimal.Decimal `json:"total_amount" db:"total_amount"`
	EMIAmount   decimal.Decimal `json:"emi_amount" db:"emi_amount"`
	EMIDate     int             `json:"emi_date" db:"emi_date"`
	StartDate   time.Time       `json:"start_date" db:"start_date"`
	Tenure      int             `json:"tenure" db:"tenure"`
	Status      string          `json:"status" db:"status"`
	Notes       *string         `json:"notes,omitempty" db:"notes"`
	UserID      uuid.UUID       `json:"user_id" db:"user_id"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
}

// TotalPayable returns principal plus interest as implied by the fixed installment.
func (l *Loan) TotalPayable() decimal.Decimal {
	return l.EMIAmount.Mul(decimal.NewFromInt(int64(l.Tenure)))
}

// DeriveStatus recomputes the loan status from its installments.
func (l *Loan) DeriveStatus(installments []*EMIPayment) string {
	paid := 0
	overdue := false
	for _, emi := range installments {
		switch emi.Status {
		case EMIStatusPaid:
			paid++
		case EMIStatusOverdue:
			overdue = true
		}
	}

	switch {
	case paid >= l.Tenure:
		return LoanStatusCompleted
	case overdue:
		return LoanStatusOverdue
	default:
		return LoanStatusActive
	}
}

// LoanWithOwner is an active loan joined with the recipient of its notifications.
type LoanWithOwner struct {
	Loan
	Owner Recipient `db:"owner"`
}

// LoanStats holds the derived repayment figures shown to the user.
type LoanStats struct {
	TotalPayable    decimal.Decimal `json:"total_payable"`
	AmountPaid      decimal.Decimal `json:"amount_paid"`
	AmountPending   decimal.Decimal `json:"amount_pending"`
	ProgressPercent int64           `json:"progress_percent"`
	NextEMIDate     *time.Time      `json:"next_emi_date"`
}

// ComputeLoanStats derives repayment figures. AmountPending is never negative
// and ProgressPercent never exceeds 100.
func ComputeLoanStats(loan *Loan, installments []*EMIPayment) LoanStats {
	paid := 0
	var next *time.Time
	for _, emi := range installments {
		if emi.Status == EMIStatusPaid {
			paid++
			continue
		}
		if next == nil || emi.DueDate.Before(*next) {
			due := emi.DueDate
			next = &due
		}
	}

	totalPayable := loan.TotalPayable()
	amountPaid := loan.EMIAmount.Mul(decimal.NewFromInt(int64(paid)))
	amountPending := decimal.Max(totalPayable.Sub(amountPaid), decimal.Zero)

	var progress int64
	if totalPayable.IsPositive() {
		progress = amountPaid.Div(totalPayable).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
		if progress > 100 {
			progress = 100
		}
	}

	return LoanStats{
		TotalPayable:    totalPayable,
		AmountPaid:      amountPaid,
		AmountPending:   amountPending,
		ProgressPercent: progress,
		NextEMIDate:     next,
	}
}

// DTOs for requests and responses

type CreateLoanRequest struct {
	Platform    string          `json:"platform" validate:"required,min=1,max=100"`
	Title       string          `json:"title" validate:"required,min=1,max=200"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	EMIAmount   decimal.Decimal `json:"emi_amount"`
	EMIDate     int             `json:"emi_date" validate:"required,min=1,max=31"`
	StartDate   time.Time       `json:"start_date" validate:"required"`
	Tenure      int             `json:"tenure" validate:"required,gt=0"`
	Notes       *string         `json:"notes,omitempty" validate:"omitempty,max=500"`
}

type MarkPaidRequest struct {
	EMIID uuid.UUID `json:"emi_id" validate:"required"`
}

type LoanResponse struct {
	Loan     *Loan         `json:"loan"`
	Schedule []*EMIPayment `json:"schedule"`
	Stats    LoanStats     `json:"stats"`
}
