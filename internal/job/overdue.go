package job

import (
	"context"
	"fmt"
	"time"

	"github.com/segyhp/reminder-engine/internal/domain"

	"github.com/sirupsen/logrus"
)

// transitionOverdue flags the loan's Pending installments due before now.
// The loan follows when an installment flipped in this run or next is
// already Overdue, which repairs a loan left Active by an earlier failed
// status write. Nothing here moves a loan back to Active.
func (j *Job) transitionOverdue(
	ctx context.Context,
	loan *domain.LoanWithOwner,
	next *domain.EMIPayment,
	now time.Time,
	summary *domain.Summary,
) error {
	n, err := j.loans.MarkOverdue(ctx, loan.ID, now)
	if err != nil {
		return fmt.Errorf("mark installments overdue: %w", err)
	}
	if n == 0 && next.Status != domain.EMIStatusOverdue {
		return nil
	}

	if err := j.loans.UpdateStatus(ctx, loan.ID, domain.LoanStatusOverdue); err != nil {
		return fmt.Errorf("mark loan overdue: %w", err)
	}

	summary.LoansOverdue++
	j.metrics.RecordLoanOverdue(ctx)
	j.logger.WithFields(logrus.Fields{
		"stage":        "process_loans",
		"loan_id":      loan.ID.String(),
		"installments": n,
	}).Info("loan marked overdue")
	return nil
}
