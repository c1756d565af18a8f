package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/segyhp/reminder-engine/internal/domain"
	"github.com/segyhp/reminder-engine/internal/repository"
	"github.com/segyhp/reminder-engine/internal/repository/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLoanWithSchedule(userID uuid.UUID, start time.Time, tenure int) (*domain.Loan, []*domain.EMIPayment) {
	loan := &domain.Loan{
		ID:          uuid.New(),
		Platform:    "Bajaj Finserv",
		Title:       "Phone",
		TotalAmount: decimal.NewFromInt(30000),
		EMIAmount:   decimal.NewFromInt(2500),
		EMIDate:     start.Day(),
		StartDate:   start,
		Tenure:      tenure,
		Status:      domain.LoanStatusActive,
		UserID:      userID,
		CreatedAt:   start,
		UpdatedAt:   start,
	}

	schedule := make([]*domain.EMIPayment, 0, tenure)
	for month := 1; month <= tenure; month++ {
		schedule = append(schedule, &domain.EMIPayment{
			ID:        uuid.New(),
			LoanID:    loan.ID,
			Month:     month,
			Amount:    loan.EMIAmount,
			DueDate:   start.AddDate(0, month-1, 0),
			Status:    domain.EMIStatusPending,
			CreatedAt: start,
		})
	}

	return loan, schedule
}

func TestLoanRepository(t *testing.T) {
	td := testutil.SetupTestDatabase(t)
	repo := repository.NewLoanRepository(td.DB)
	ctx := context.Background()

	userID := td.InsertUser(t, "Ravi", "ravi@example.com")
	start := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	loan, schedule := newLoanWithSchedule(userID, start, 3)
	require.NoError(t, repo.CreateWithSchedule(ctx, loan, schedule))

	t.Run("create stores loan and schedule", func(t *testing.T) {
		got, err := repo.GetByID(ctx, loan.ID)
		require.NoError(t, err)
		assert.Equal(t, "Phone", got.Title)
		assert.True(t, got.EMIAmount.Equal(decimal.NewFromInt(2500)))

		stored, err := repo.GetScheduleByLoanID(ctx, loan.ID)
		require.NoError(t, err)
		require.Len(t, stored, 3)
		for i, emi := range stored {
			assert.Equal(t, i+1, emi.Month)
			assert.True(t, emi.DueDate.Equal(schedule[i].DueDate))
			assert.Nil(t, emi.PaidDate)
		}
	})

	t.Run("duplicate month rolls back the whole loan", func(t *testing.T) {
		bad, badSchedule := newLoanWithSchedule(userID, start, 2)
		badSchedule[1].Month = 1

		require.Error(t, repo.CreateWithSchedule(ctx, bad, badSchedule))

		_, err := repo.GetByID(ctx, bad.ID)
		assert.Error(t, err)
	})

	t.Run("list active includes owner", func(t *testing.T) {
		loans, err := repo.ListActive(ctx)
		require.NoError(t, err)
		require.Len(t, loans, 1)
		assert.Equal(t, loan.ID, loans[0].ID)
		assert.Equal(t, "Ravi", loans[0].Owner.Name)
		assert.Equal(t, "ravi@example.com", loans[0].Owner.Email)
	})

	t.Run("next unpaid and count paid follow payments", func(t *testing.T) {
		next, err := repo.NextUnpaid(ctx, loan.ID)
		require.NoError(t, err)
		require.NotNil(t, next)
		assert.Equal(t, schedule[0].ID, next.ID)

		require.NoError(t, repo.MarkInstallmentPaid(ctx, schedule[0].ID, start.Add(time.Hour)))

		next, err = repo.NextUnpaid(ctx, loan.ID)
		require.NoError(t, err)
		require.NotNil(t, next)
		assert.Equal(t, schedule[1].ID, next.ID)

		paid, err := repo.CountPaid(ctx, loan.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, paid)
	})

	t.Run("mark overdue flips past pending installments", func(t *testing.T) {
		now := schedule[1].DueDate.Add(time.Hour)

		n, err := repo.MarkOverdue(ctx, loan.ID, now)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		stored, err := repo.GetScheduleByLoanID(ctx, loan.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.EMIStatusPaid, stored[0].Status)
		assert.Equal(t, domain.EMIStatusOverdue, stored[1].Status)
		assert.Equal(t, domain.EMIStatusPending, stored[2].Status)

		n, err = repo.MarkOverdue(ctx, loan.ID, now)
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("status change removes loan from active list", func(t *testing.T) {
		require.NoError(t, repo.UpdateStatus(ctx, loan.ID, domain.LoanStatusOverdue))

		loans, err := repo.ListActive(ctx)
		require.NoError(t, err)
		assert.Empty(t, loans)
	})

	t.Run("fully paid loan has no next installment", func(t *testing.T) {
		for _, emi := range schedule[1:] {
			require.NoError(t, repo.MarkInstallmentPaid(ctx, emi.ID, start))
		}

		next, err := repo.NextUnpaid(ctx, loan.ID)
		require.NoError(t, err)
		assert.Nil(t, next)
	})
}

func TestLoanRepository_ListByUser(t *testing.T) {
	td := testutil.SetupTestDatabase(t)
	repo := repository.NewLoanRepository(td.DB)
	ctx := context.Background()

	userID := td.InsertUser(t, "Dev", "dev@example.com")
	otherID := td.InsertUser(t, "Nila", "nila@example.com")

	older, olderSchedule := newLoanWithSchedule(userID, time.Date(2023, 3, 10, 0, 0, 0, 0, time.UTC), 2)
	newer, newerSchedule := newLoanWithSchedule(userID, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), 3)
	foreign, foreignSchedule := newLoanWithSchedule(otherID, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), 1)
	require.NoError(t, repo.CreateWithSchedule(ctx, older, olderSchedule))
	require.NoError(t, repo.CreateWithSchedule(ctx, newer, newerSchedule))
	require.NoError(t, repo.CreateWithSchedule(ctx, foreign, foreignSchedule))
	require.NoError(t, repo.UpdateStatus(ctx, older.ID, domain.LoanStatusCompleted))

	t.Run("newest first", func(t *testing.T) {
		got, err := repo.ListByUser(ctx, userID, "")
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, newer.ID, got[0].ID)
		assert.Equal(t, older.ID, got[1].ID)
	})

	t.Run("status filter", func(t *testing.T) {
		got, err := repo.ListByUser(ctx, userID, domain.LoanStatusCompleted)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, older.ID, got[0].ID)

		got, err = repo.ListByUser(ctx, userID, domain.LoanStatusOverdue)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("schedules for several loans in one query", func(t *testing.T) {
		got, err := repo.GetSchedulesByLoanIDs(ctx, []uuid.UUID{older.ID, newer.ID})
		require.NoError(t, err)
		require.Len(t, got, 5)

		perLoan := map[uuid.UUID][]int{}
		for _, emi := range got {
			perLoan[emi.LoanID] = append(perLoan[emi.LoanID], emi.Month)
		}
		assert.Equal(t, []int{1, 2}, perLoan[older.ID])
		assert.Equal(t, []int{1, 2, 3}, perLoan[newer.ID])
		assert.NotContains(t, perLoan, foreign.ID)
	})

	t.Run("no ids", func(t *testing.T) {
		got, err := repo.GetSchedulesByLoanIDs(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}
