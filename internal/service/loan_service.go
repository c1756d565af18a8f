package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segyhp/reminder-engine/internal/domain"
	"github.com/segyhp/reminder-engine/internal/repository"
	customError "github.com/segyhp/reminder-engine/pkg/errors"
	"github.com/segyhp/reminder-engine/pkg/utils"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const loanCacheTTL = 5 * time.Minute

type LoanService struct {
	LoanRepo repository.LoanRepository
	redis    *redis.Client
	logger   logrus.FieldLogger
	now      func() time.Time
}

// NewLoanService builds the service. redis may be nil to disable caching.
func NewLoanService(
	loanRepo repository.LoanRepository,
	redis *redis.Client,
	logger logrus.FieldLogger,
) *LoanService {
	return &LoanService{
		LoanRepo: loanRepo,
		redis:    redis,
		logger:   logger,
		now:      time.Now,
	}
}

// CreateLoan creates a new loan with its monthly installment schedule
func (s *LoanService) CreateLoan(ctx context.Context, userID uuid.UUID, request *domain.CreateLoanRequest) (*domain.LoanResponse, error) {
	if !request.TotalAmount.IsPositive() {
		return nil, customError.WrapInvalidLoan("total amount must be positive")
	}
	if !request.EMIAmount.IsPositive() {
		return nil, customError.WrapInvalidLoan("emi amount must be positive")
	}
	if request.EMIDate < 1 || request.EMIDate > 31 {
		return nil, customError.WrapInvalidLoan("emi date must be between 1 and 31")
	}
	if request.Tenure <= 0 {
		return nil, customError.WrapInvalidLoan("tenure must be positive")
	}
	if request.StartDate.IsZero() {
		return nil, customError.WrapInvalidLoan("start date is required")
	}

	now := s.now()
	loan := &domain.Loan{
		ID:          uuid.New(),
		Platform:    request.Platform,
		Title:       request.Title,
		TotalAmount: request.TotalAmount,
		EMIAmount:   request.EMIAmount,
		EMIDate:     request.EMIDate,
		StartDate:   request.StartDate,
		Tenure:      request.Tenure,
		Status:      domain.LoanStatusActive,
		Notes:       request.Notes,
		UserID:      userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	schedule := make([]*domain.EMIPayment, 0, request.Tenure)
	for month := 1; month <= request.Tenure; month++ {
		schedule = append(schedule, &domain.EMIPayment{
			ID:        uuid.New(),
			LoanID:    loan.ID,
			Month:     month,
			Amount:    request.EMIAmount,
			DueDate:   utils.CalculateDueDate(request.StartDate, request.EMIDate, month),
			Status:    domain.EMIStatusPending,
			CreatedAt: now,
		})
	}

	if err := s.LoanRepo.CreateWithSchedule(ctx, loan, schedule); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	return &domain.LoanResponse{
		Loan:     loan,
		Schedule: schedule,
		Stats:    domain.ComputeLoanStats(loan, schedule),
	}, nil
}

// GetLoan returns the loan with its schedule and repayment stats
func (s *LoanService) GetLoan(ctx context.Context, userID, loanID uuid.UUID) (*domain.LoanResponse, error) {
	if cached, ok := s.cachedLoan(ctx, loanID); ok {
		if cached.Loan.UserID != userID {
			return nil, customError.WrapLoanNotFound(loanID.String())
		}
		return cached, nil
	}

	loan, schedule, err := s.ownedLoan(ctx, userID, loanID)
	if err != nil {
		return nil, err
	}

	resp := &domain.LoanResponse{
		Loan:     loan,
		Schedule: schedule,
		Stats:    domain.ComputeLoanStats(loan, schedule),
	}
	s.cacheLoan(ctx, resp)
	return resp, nil
}

// ListLoans returns the user's loans, newest first, each with its schedule
// and repayment stats. An empty status lists every loan.
func (s *LoanService) ListLoans(ctx context.Context, userID uuid.UUID, status string) ([]*domain.LoanResponse, error) {
	loans, err := s.LoanRepo.ListByUser(ctx, userID, status)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	if len(loans) == 0 {
		return []*domain.LoanResponse{}, nil
	}

	ids := make([]uuid.UUID, 0, len(loans))
	for _, loan := range loans {
		ids = append(ids, loan.ID)
	}
	installments, err := s.LoanRepo.GetSchedulesByLoanIDs(ctx, ids)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	schedules := make(map[uuid.UUID][]*domain.EMIPayment, len(loans))
	for _, emi := range installments {
		schedules[emi.LoanID] = append(schedules[emi.LoanID], emi)
	}

	out := make([]*domain.LoanResponse, 0, len(loans))
	for _, loan := range loans {
		schedule := schedules[loan.ID]
		out = append(out, &domain.LoanResponse{
			Loan:     loan,
			Schedule: schedule,
			Stats:    domain.ComputeLoanStats(loan, schedule),
		})
	}

	return out, nil
}

// MarkInstallmentPaid records a payment and re-derives the loan status, so
// settling the overdue installment returns the loan to Active.
func (s *LoanService) MarkInstallmentPaid(ctx context.Context, userID, loanID, emiID uuid.UUID) (*domain.LoanResponse, error) {
	loan, schedule, err := s.ownedLoan(ctx, userID, loanID)
	if err != nil {
		return nil, err
	}

	var installment *domain.EMIPayment
	for _, emi := range schedule {
		if emi.ID == emiID {
			installment = emi
			break
		}
	}
	if installment == nil {
		return nil, customError.WrapInstallmentNotFound(emiID.String())
	}
	if installment.Status == domain.EMIStatusPaid {
		return nil, customError.WrapInstallmentAlreadyPaid(emiID.String())
	}

	paidAt := s.now()
	if err := s.LoanRepo.MarkInstallmentPaid(ctx, emiID, paidAt); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	installment.Status = domain.EMIStatusPaid
	installment.PaidDate = &paidAt

	if status := loan.DeriveStatus(schedule); status != loan.Status {
		if err := s.LoanRepo.UpdateStatus(ctx, loan.ID, status); err != nil {
			return nil, customError.WrapDatabaseError(err)
		}
		loan.Status = status
	}
	s.invalidateLoan(ctx, loan.ID)

	return &domain.LoanResponse{
		Loan:     loan,
		Schedule: schedule,
		Stats:    domain.ComputeLoanStats(loan, schedule),
	}, nil
}

func (s *LoanService) ownedLoan(ctx context.Context, userID, loanID uuid.UUID) (*domain.Loan, []*domain.EMIPayment, error) {
	loan, err := s.LoanRepo.GetByID(ctx, loanID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, customError.WrapLoanNotFound(loanID.String())
	}
	if err != nil {
		return nil, nil, customError.WrapDatabaseError(err)
	}
	// other users' loans are reported as missing
	if loan.UserID != userID {
		return nil, nil, customError.WrapLoanNotFound(loanID.String())
	}

	schedule, err := s.LoanRepo.GetScheduleByLoanID(ctx, loanID)
	if err != nil {
		return nil, nil, customError.WrapDatabaseError(err)
	}
	return loan, schedule, nil
}

func loanCacheKey(loanID uuid.UUID) string {
	return fmt.Sprintf("loan:%s", loanID)
}

func (s *LoanService) cachedLoan(ctx context.Context, loanID uuid.UUID) (*domain.LoanResponse, bool) {
	if s.redis == nil {
		return nil, false
	}

	raw, err := s.redis.Get(ctx, loanCacheKey(loanID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		s.logger.WithError(customError.WrapCacheError(err)).Warn("loan cache read failed")
		return nil, false
	}

	var resp domain.LoanResponse
	if err := json.Unmarshal(raw, &resp); err != nil || resp.Loan == nil {
		return nil, false
	}
	return &resp, true
}

func (s *LoanService) cacheLoan(ctx context.Context, resp *domain.LoanResponse) {
	if s.redis == nil {
		return
	}

	raw, err := json.Marshal(resp)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, loanCacheKey(resp.Loan.ID), raw, loanCacheTTL).Err(); err != nil {
		s.logger.WithError(customError.WrapCacheError(err)).Warn("loan cache write failed")
	}
}

func (s *LoanService) invalidateLoan(ctx context.Context, loanID uuid.UUID) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Del(ctx, loanCacheKey(loanID)).Err(); err != nil {
		s.logger.WithError(customError.WrapCacheError(err)).Warn("loan cache invalidation failed")
	}
}
