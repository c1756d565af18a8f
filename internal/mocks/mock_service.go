package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/segyhp/reminder-engine/internal/calendar"
	"github.com/segyhp/reminder-engine/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockLoanService struct {
	mock.Mock
}

func (m *MockLoanService) CreateLoan(ctx context.Context, userID uuid.UUID, req *domain.CreateLoanRequest) (*domain.LoanResponse, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LoanResponse), args.Error(1)
}

func (m *MockLoanService) GetLoan(ctx context.Context, userID, loanID uuid.UUID) (*domain.LoanResponse, error) {
	args := m.Called(ctx, userID, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LoanResponse), args.Error(1)
}

func (m *MockLoanService) MarkInstallmentPaid(ctx context.Context, userID, loanID, emiID uuid.UUID) (*domain.LoanResponse, error) {
	args := m.Called(ctx, userID, loanID, emiID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LoanResponse), args.Error(1)
}

func (m *MockLoanService) ListLoans(ctx context.Context, userID uuid.UUID, status string) ([]*domain.LoanResponse, error) {
	args := m.Called(ctx, userID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.LoanResponse), args.Error(1)
}

type MockReminderService struct {
	mock.Mock
}

func (m *MockReminderService) CreateReminder(ctx context.Context, userID uuid.UUID, req *domain.CreateReminderRequest) (*domain.Reminder, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reminder), args.Error(1)
}

func (m *MockReminderService) ListReminders(ctx context.Context, userID uuid.UUID, filter domain.ReminderFilter) ([]*domain.Reminder, error) {
	args := m.Called(ctx, userID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Reminder), args.Error(1)
}

func (m *MockReminderService) GetReminder(ctx context.Context, userID, reminderID uuid.UUID) (*domain.Reminder, error) {
	args := m.Called(ctx, userID, reminderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reminder), args.Error(1)
}

func (m *MockReminderService) UpdateReminder(ctx context.Context, userID, reminderID uuid.UUID, req *domain.UpdateReminderRequest) (*domain.Reminder, error) {
	args := m.Called(ctx, userID, reminderID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reminder), args.Error(1)
}

func (m *MockReminderService) CompleteReminder(ctx context.Context, userID, reminderID uuid.UUID) (*domain.Reminder, error) {
	args := m.Called(ctx, userID, reminderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reminder), args.Error(1)
}

func (m *MockReminderService) DeleteReminder(ctx context.Context, userID, reminderID uuid.UUID) error {
	args := m.Called(ctx, userID, reminderID)
	return args.Error(0)
}

type MockSubscriptionService struct {
	mock.Mock
}

func (m *MockSubscriptionService) Subscribe(ctx context.Context, userID uuid.UUID, req *domain.SubscribeRequest) (*domain.PushSubscription, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PushSubscription), args.Error(1)
}

type MockJobRunner struct {
	mock.Mock
}

func (m *MockJobRunner) Run(ctx context.Context) (domain.Summary, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.Summary), args.Error(1)
}

type MockCalendarSyncer struct {
	mock.Mock
}

func (m *MockCalendarSyncer) SyncAll(ctx context.Context) (calendar.SyncResult, error) {
	args := m.Called(ctx)
	return args.Get(0).(calendar.SyncResult), args.Error(1)
}
