package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/segyhp/reminder-engine/internal/domain"

	"github.com/jmoiron/sqlx"
)

type loanRepository struct {
	db *sqlx.DB
}

func NewLoanRepository(db *sqlx.DB) LoanRepository {
	return &loanRepository{db: db}
}

const loanColumns = `id, platform, title, total_amount, emi_amount, emi_date, start_date, tenure, status, notes, user_id, created_at, updated_at`

const emiColumns = `id, loan_id, month, amount, due_date, paid_date, status, created_at`

func (r *loanRepository) CreateWithSchedule(ctx context.Context, loan *domain.Loan, schedule []*domain.EMIPayment) error {
	loanQuery := `
		INSERT INTO loans (id, platform, title, total_amount, emi_amount, emi_date, start_date, tenure, status, notes, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	emiQuery := `
		INSERT INTO emi_payments (id, loan_id, month, amount, due_date, paid_date, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, loanQuery,
		loan.ID,
		loan.Platform,
		loan.Title,
		loan.TotalAmount,
		loan.EMIAmount,
		loan.EMIDate,
		loan.StartDate,
		loan.Tenure,
		loan.Status,
		loan.Notes,
		loan.UserID,
		loan.CreatedAt,
		loan.UpdatedAt,
	)
	if err != nil {
		return err
	}

	for _, emi := range schedule {
		_, err = tx.ExecContext(ctx, emiQuery,
			emi.ID,
			emi.LoanID,
			emi.Month,
			emi.Amount,
			emi.DueDate,
			emi.PaidDate,
			emi.Status,
			emi.CreatedAt,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *loanRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE id = $1`

	var loan domain.Loan
	if err := r.db.GetContext(ctx, &loan, query, id); err != nil {
		return nil, err
	}

	return &loan, nil
}

func (r *loanRepository) UpdateStatus(ctx context.Context, loanID uuid.UUID, status string) error {
	query := `
		UPDATE loans
		SET status = $2, updated_at = $3
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query, loanID, status, time.Now())
	return err
}

func (r *loanRepository) ListActive(ctx context.Context) ([]*domain.LoanWithOwner, error) {
	query := `
		SELECT l.id, l.platform, l.title, l.total_amount, l.emi_amount, l.emi_date, l.start_date,
		       l.tenure, l.status, l.notes, l.user_id, l.created_at, l.updated_at,
		       u.id AS "owner.user_id", u.name AS "owner.name", u.email AS "owner.email"
		FROM loans l
		JOIN users u ON u.id = l.user_id
		WHERE l.status = $1
		ORDER BY l.created_at
	`

	var loans []*domain.LoanWithOwner
	if err := r.db.SelectContext(ctx, &loans, query, domain.LoanStatusActive); err != nil {
		return nil, err
	}

	return loans, nil
}

func (r *loanRepository) ListByUser(ctx context.Context, userID uuid.UUID, status string) ([]*domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE user_id = $1 AND ($2 = '' OR status = $2) ORDER BY created_at DESC`

	var loans []*domain.Loan
	if err := r.db.SelectContext(ctx, &loans, query, userID, status); err != nil {
		return nil, err
	}

	return loans, nil
}

func (r *loanRepository) GetSchedulesByLoanIDs(ctx context.Context, loanIDs []uuid.UUID) ([]*domain.EMIPayment, error) {
	if len(loanIDs) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(`SELECT `+emiColumns+` FROM emi_payments WHERE loan_id IN (?) ORDER BY loan_id, month`, loanIDs)
	if err != nil {
		return nil, err
	}

	var schedule []*domain.EMIPayment
	if err := r.db.SelectContext(ctx, &schedule, r.db.Rebind(query), args...); err != nil {
		return nil, err
	}

	return schedule, nil
}

func (r *loanRepository) GetScheduleByLoanID(ctx context.Context, loanID uuid.UUID) ([]*domain.EMIPayment, error) {
	query := `SELECT ` + emiColumns + ` FROM emi_payments WHERE loan_id = $1 ORDER BY month`

	var schedule []*domain.EMIPayment
	if err := r.db.SelectContext(ctx, &schedule, query, loanID); err != nil {
		return nil, err
	}

	return schedule, nil
}

func (r *loanRepository) NextUnpaid(ctx context.Context, loanID uuid.UUID) (*domain.EMIPayment, error) {
	query := `
		SELECT ` + emiColumns + `
		FROM emi_payments
		WHERE loan_id = $1 AND status <> $2
		ORDER BY due_date
		LIMIT 1
	`

	var emi domain.EMIPayment
	err := r.db.GetContext(ctx, &emi, query, loanID, domain.EMIStatusPaid)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &emi, nil
}

func (r *loanRepository) CountPaid(ctx context.Context, loanID uuid.UUID) (int, error) {
	query := `SELECT COUNT(*) FROM emi_payments WHERE loan_id = $1 AND status = $2`

	var count int
	if err := r.db.GetContext(ctx, &count, query, loanID, domain.EMIStatusPaid); err != nil {
		return 0, err
	}

	return count, nil
}

func (r *loanRepository) MarkInstallmentPaid(ctx context.Context, emiID uuid.UUID, paidAt time.Time) error {
	query := `
		UPDATE emi_payments
		SET status = $2, paid_date = $3
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query, emiID, domain.EMIStatusPaid, paidAt)
	return err
}

func (r *loanRepository) MarkOverdue(ctx context.Context, loanID uuid.UUID, now time.Time) (int64, error) {
	query := `
		UPDATE emi_payments
		SET status = $2
		WHERE loan_id = $1 AND status = $3 AND due_date < $4
	`

	result, err := r.db.ExecContext(ctx, query, loanID, domain.EMIStatusOverdue, domain.EMIStatusPending, now)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}
