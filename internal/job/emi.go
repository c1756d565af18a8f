package job

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/segyhp/reminder-engine/internal/domain"
	"github.com/segyhp/reminder-engine/internal/notify"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// processLoans walks every Active loan once. A failing loan is counted and
// skipped.
func (j *Job) processLoans(ctx context.Context, now time.Time, summary *domain.Summary) error {
	loans, err := j.loans.ListActive(ctx)
	if err != nil {
		return err
	}
	summary.LoansProcessed = len(loans)

	for _, loan := range loans {
		if err := ctx.Err(); err != nil {
			return err
		}

		fields := logrus.Fields{"stage": "process_loans", "loan_id": loan.ID.String()}
		if err := j.processLoan(ctx, loan, now, summary); err != nil {
			j.entityFailed(summary, "processLoans", fields, err)
		}
	}

	return nil
}

func (j *Job) processLoan(ctx context.Context, loan *domain.LoanWithOwner, now time.Time, summary *domain.Summary) error {
	next, err := j.loans.NextUnpaid(ctx, loan.ID)
	if err != nil {
		return fmt.Errorf("next unpaid installment: %w", err)
	}
	if next == nil {
		return nil
	}

	notifyErr := j.notifyInstallment(ctx, loan, next, now, summary)
	overdueErr := j.transitionOverdue(ctx, loan, next, now, summary)

	return errors.Join(notifyErr, overdueErr)
}

// notifyInstallment sends at most one notification for the loan: the first
// ladder window containing the time until due, unless that window was
// already logged within the dedup lookback.
func (j *Job) notifyInstallment(
	ctx context.Context,
	loan *domain.LoanWithOwner,
	next *domain.EMIPayment,
	now time.Time,
	summary *domain.Summary,
) error {
	window, ok := j.opts.Ladder.Match(next.DueDate.Sub(now), j.opts.WindowTolerance)
	if !ok {
		return nil
	}

	log := j.logger.WithFields(logrus.Fields{
		"stage":          "process_loans",
		"loan_id":        loan.ID.String(),
		"installment_id": next.ID.String(),
		"window":         window.Label,
	})

	sent, err := j.logs.ExistsSince(ctx, next.ID, domain.RelatedTypeEMI, window.Label, now.Add(-j.opts.DedupLookback))
	if err != nil {
		return fmt.Errorf("check notification log: %w", err)
	}
	if sent {
		log.Debug("window already notified")
		return nil
	}

	paidCount, err := j.loans.CountPaid(ctx, loan.ID)
	if err != nil {
		return fmt.Errorf("count paid installments: %w", err)
	}
	amountPaid := loan.EMIAmount.Mul(decimal.NewFromInt(int64(paidCount)))

	intent, err := notify.EMIIntent(notify.EMINotice{
		Loan:          loan,
		Installment:   next,
		Window:        window,
		AmountPaid:    amountPaid,
		AmountPending: loan.TotalAmount.Sub(amountPaid),
	})
	if err != nil {
		return err
	}

	result, err := j.dispatcher.Dispatch(ctx, intent)
	j.record(ctx, notify.KindEMI, result, summary)
	if err != nil {
		return err
	}

	log.WithFields(logrus.Fields{
		"email_sent": result.EmailSent,
		"push_sent":  result.PushSent,
	}).Info("emi notification dispatched")
	return nil
}
