package notify_test

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/segyhp/reminder-engine/internal/domain"
	"github.com/segyhp/reminder-engine/internal/notify"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReminderIntent(t *testing.T) {
	description := "Pay the electricity bill"
	reminder := &domain.ReminderWithOwner{
		Reminder: domain.Reminder{
			ID:          uuid.New(),
			Title:       "Electricity",
			Description: &description,
			DateTime:    time.Date(2024, 3, 10, 18, 30, 0, 0, time.UTC),
			Category:    "Bills",
			Priority:    domain.PriorityHigh,
		},
		Owner: domain.Recipient{UserID: uuid.New(), Name: "Asha <admin>", Email: "asha@example.com"},
	}

	intent, err := notify.ReminderIntent(reminder)
	require.NoError(t, err)

	assert.Equal(t, notify.KindReminder, intent.Kind)
	assert.Equal(t, reminder.ID, intent.RelatedID)
	assert.Equal(t, "Reminder: Electricity", intent.Subject)
	assert.Equal(t, intent.Subject, intent.LogSubject)
	assert.Equal(t, "Pay the electricity bill", intent.Push.Body)
	assert.Equal(t, "/reminders", intent.Push.URL)
	assert.Equal(t, "reminder-"+reminder.ID.String(), intent.Push.Tag)
	assert.Contains(t, intent.HTML, "10 Mar 2024, 18:30")
	assert.Contains(t, intent.HTML, "High Priority")
	assert.Contains(t, intent.HTML, "#fee2e2")
	assert.Contains(t, intent.HTML, "Asha &lt;admin&gt;")

	t.Run("without description the push body shows the due date", func(t *testing.T) {
		reminder.Description = nil
		intent, err := notify.ReminderIntent(reminder)
		require.NoError(t, err)
		assert.Equal(t, "Due: 10 Mar 2024", intent.Push.Body)
	})
}

func TestEMIIntent(t *testing.T) {
	loan := &domain.LoanWithOwner{
		Loan: domain.Loan{
			ID:          uuid.New(),
			Platform:    "Bajaj Finserv",
			Title:       "Phone",
			TotalAmount: decimal.NewFromInt(100000),
			EMIAmount:   decimal.NewFromInt(2500),
			Tenure:      40,
		},
		Owner: domain.Recipient{UserID: uuid.New(), Name: "Asha", Email: "asha@example.com"},
	}
	installment := &domain.EMIPayment{
		ID:      uuid.New(),
		LoanID:  loan.ID,
		Month:   5,
		DueDate: time.Date(2024, 6, 5, 0, 0, 0, 0, time.UTC),
	}
	window := domain.Window{Hours: 24, Label: "1 day before"}

	intent, err := notify.EMIIntent(notify.EMINotice{
		Loan:          loan,
		Installment:   installment,
		Window:        window,
		AmountPaid:    decimal.NewFromInt(10000),
		AmountPending: decimal.NewFromInt(90000),
	})
	require.NoError(t, err)

	assert.Equal(t, notify.KindEMI, intent.Kind)
	assert.Equal(t, installment.ID, intent.RelatedID)
	assert.Equal(t, "EMI Reminder (1 day before): Phone", intent.LogSubject)
	assert.Equal(t, "EMI Reminder (1 day before): Phone - ₹2,500", intent.Subject)
	assert.True(t, strings.HasPrefix(intent.Subject, intent.LogSubject))
	assert.Equal(t, "EMI Due 1 day before", intent.Push.Title)
	assert.Equal(t, "Phone: ₹2,500 due on 5 Jun 2024", intent.Push.Body)
	assert.Equal(t, "/loans/"+loan.ID.String(), intent.Push.URL)
	assert.Equal(t, "emi-"+installment.ID.String()+"-24", intent.Push.Tag)
	assert.Contains(t, intent.HTML, "₹90,000")
	assert.Contains(t, intent.HTML, "Bajaj Finserv")
	assert.Contains(t, intent.HTML, "<strong>10%</strong>")
}

func TestKind_RelatedType(t *testing.T) {
	assert.Equal(t, domain.RelatedTypeReminder, notify.KindReminder.RelatedType())
	assert.Equal(t, domain.RelatedTypeEMI, notify.KindEMI.RelatedType())
	assert.Equal(t, "emi", notify.KindEMI.String())
}
