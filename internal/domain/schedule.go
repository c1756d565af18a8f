package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	EMIStatusPending = "Pending"
	EMIStatusPaid    = "Paid"
	EMIStatusOverdue = "Overdue"
)

// EMIPayment represents one installment of a loan schedule
type EMIPayment struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	LoanID    uuid.UUID       `json:"loan_id" db:"loan_id"`
	Month     int             `json:"month" db:"month"`
	Amount    decimal.Decimal `json:"amount" db:"amount"`
	DueDate   time.Time       `json:"due_date" db:"due_date"`
	PaidDate  *time.Time      `json:"paid_date,omitempty" db:"paid_date"`
	Status    string          `json:"status" db:"status"` // Pending, Paid, Overdue
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
}
