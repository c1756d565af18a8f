package notify

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/segyhp/reminder-engine/internal/domain"
	"github.com/segyhp/reminder-engine/pkg/utils"

	"github.com/shopspring/decimal"
)

// Kind tags what an Intent is about
type Kind int

const (
	KindReminder Kind = iota
	KindEMI
)

// RelatedType is the notification log related_type of the kind
func (k Kind) RelatedType() string {
	if k == KindEMI {
		return domain.RelatedTypeEMI
	}
	return domain.RelatedTypeReminder
}

func (k Kind) String() string {
	return k.RelatedType()
}

// Intent is a fully rendered notification, independent of what produced it.
// The Dispatcher sends one email, one push per subscription of the
// recipient, and writes one log row.
type Intent struct {
	Kind      Kind
	RelatedID uuid.UUID
	Recipient domain.Recipient

	Subject string
	// LogSubject is what the notification log stores. It is matched against
	// window labels for deduplication.
	LogSubject string
	HTML       string

	Push domain.PushPayload
}

// ReminderIntent renders the notification for a due reminder
func ReminderIntent(reminder *domain.ReminderWithOwner) (Intent, error) {
	description := ""
	if reminder.Description != nil {
		description = *reminder.Description
	}
	background, color := priorityColors(reminder.Priority)

	html, err := render(reminderEmailTmpl, reminderEmailData{
		UserName:           reminder.Owner.Name,
		Title:              reminder.Title,
		Description:        description,
		DateTime:           utils.FormatDateTime(reminder.DateTime),
		Category:           reminder.Category,
		Priority:           reminder.Priority,
		PriorityBackground: background,
		PriorityColor:      color,
	})
	if err != nil {
		return Intent{}, fmt.Errorf("render reminder email: %w", err)
	}

	body := description
	if body == "" {
		body = "Due: " + utils.FormatDate(reminder.DateTime)
	}

	subject := "Reminder: " + reminder.Title

	return Intent{
		Kind:       KindReminder,
		RelatedID:  reminder.ID,
		Recipient:  reminder.Owner,
		Subject:    subject,
		LogSubject: subject,
		HTML:       html,
		Push: domain.PushPayload{
			Title: subject,
			Body:  body,
			URL:   "/reminders",
			Tag:   ReminderTag(reminder.ID),
		},
	}, nil
}

// EMINotice carries what the EMI email needs about one installment in one window
type EMINotice struct {
	Loan          *domain.LoanWithOwner
	Installment   *domain.EMIPayment
	Window        domain.Window
	AmountPaid    decimal.Decimal
	AmountPending decimal.Decimal
}

// EMIIntent renders the notification for an upcoming installment
func EMIIntent(n EMINotice) (Intent, error) {
	loan := n.Loan
	emiAmount := utils.FormatCurrency(loan.EMIAmount)
	dueDate := utils.FormatDate(n.Installment.DueDate)

	html, err := render(emiEmailTmpl, emiEmailData{
		UserName:        loan.Owner.Name,
		LoanTitle:       loan.Title,
		Platform:        loan.Platform,
		EMIAmount:       emiAmount,
		DueDate:         dueDate,
		PendingBalance:  utils.FormatCurrency(n.AmountPending),
		ProgressPercent: progressPercent(n.AmountPaid, loan.TotalAmount),
		TimeUntilDue:    n.Window.Label,
	})
	if err != nil {
		return Intent{}, fmt.Errorf("render emi email: %w", err)
	}

	logSubject := fmt.Sprintf("EMI Reminder (%s): %s", n.Window.Label, loan.Title)

	return Intent{
		Kind:       KindEMI,
		RelatedID:  n.Installment.ID,
		Recipient:  loan.Owner,
		Subject:    logSubject + " - " + emiAmount,
		LogSubject: logSubject,
		HTML:       html,
		Push: domain.PushPayload{
			Title: "EMI Due " + n.Window.Label,
			Body:  fmt.Sprintf("%s: %s due on %s", loan.Title, emiAmount, dueDate),
			URL:   "/loans/" + loan.ID.String(),
			Tag:   EMITag(n.Installment.ID, n.Window),
		},
	}, nil
}

// ReminderTag is the push dedup tag of a reminder
func ReminderTag(id uuid.UUID) string {
	return "reminder-" + id.String()
}

// EMITag is the push dedup tag of an installment in a window
func EMITag(id uuid.UUID, w domain.Window) string {
	return fmt.Sprintf("emi-%s-%d", id, w.Hours)
}

func progressPercent(paid, total decimal.Decimal) int64 {
	if !total.IsPositive() {
		return 0
	}
	p := paid.Div(total).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
	if p > 100 {
		return 100
	}
	if p < 0 {
		return 0
	}
	return p
}
