package mocks

import (
	"context"

	"github.com/segyhp/reminder-engine/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) Send(ctx context.Context, to, subject, html string) error {
	args := m.Called(ctx, to, subject, html)
	return args.Error(0)
}

// MockSessionEmailSender is an EmailSender that also holds a session to close
type MockSessionEmailSender struct {
	MockEmailSender
}

func (m *MockSessionEmailSender) Close() error {
	args := m.Called()
	return args.Error(0)
}

type MockPushSender struct {
	mock.Mock
}

func (m *MockPushSender) Send(ctx context.Context, sub *domain.PushSubscription, payload domain.PushPayload) error {
	args := m.Called(ctx, sub, payload)
	return args.Error(0)
}
