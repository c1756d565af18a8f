// Package memory is an in-process implementation of the repository
// interfaces. It backs unit tests of the batch job and services.
package memory

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/segyhp/reminder-engine/internal/domain"
	"github.com/segyhp/reminder-engine/internal/repository"
	"github.com/segyhp/reminder-engine/pkg/utils"
)

// Store holds all entities. Each repository view shares the same data.
type Store struct {
	mu            sync.Mutex
	users         map[uuid.UUID]domain.Recipient
	reminders     map[uuid.UUID]*domain.Reminder
	loans         map[uuid.UUID]*domain.Loan
	installments  map[uuid.UUID]*domain.EMIPayment
	subscriptions map[uuid.UUID]*domain.PushSubscription
	logs          []*domain.NotificationLog

	// FailNextUnpaid makes NextUnpaid fail for the given loan
	FailNextUnpaid   map[uuid.UUID]error
	// FailUpdateStatus makes the next UpdateStatus of the given loan fail once
	FailUpdateStatus map[uuid.UUID]error
}

func NewStore() *Store {
	return &Store{
		users:            make(map[uuid.UUID]domain.Recipient),
		reminders:        make(map[uuid.UUID]*domain.Reminder),
		loans:            make(map[uuid.UUID]*domain.Loan),
		installments:     make(map[uuid.UUID]*domain.EMIPayment),
		subscriptions:    make(map[uuid.UUID]*domain.PushSubscription),
		FailNextUnpaid:   make(map[uuid.UUID]error),
		FailUpdateStatus: make(map[uuid.UUID]error),
	}
}

// AddUser registers a notification recipient
func (s *Store) AddUser(r domain.Recipient) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[r.UserID] = r
}

// Logs returns a copy of the notification log
func (s *Store) Logs() []domain.NotificationLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.NotificationLog, 0, len(s.logs))
	for _, l := range s.logs {
		out = append(out, *l)
	}
	return out
}

// Reminder returns a copy of a stored reminder
func (s *Store) Reminder(id uuid.UUID) domain.Reminder {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.reminders[id]
}

// Loan returns a copy of a stored loan
func (s *Store) Loan(id uuid.UUID) domain.Loan {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.loans[id]
}

// Installment returns a copy of a stored installment
func (s *Store) Installment(id uuid.UUID) domain.EMIPayment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.installments[id]
}

func (s *Store) Reminders() repository.ReminderRepository { return reminderRepo{s} }

func (s *Store) Loans() repository.LoanRepository { return loanRepo{s} }

func (s *Store) Subscriptions() repository.SubscriptionRepository { return subscriptionRepo{s} }

func (s *Store) NotificationLogs() repository.NotificationLogRepository { return logRepo{s} }

func (s *Store) owner(userID uuid.UUID) domain.Recipient {
	if r, ok := s.users[userID]; ok {
		return r
	}
	return domain.Recipient{UserID: userID}
}

type reminderRepo struct{ s *Store }

func (r reminderRepo) Create(_ context.Context, reminder *domain.Reminder) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *reminder
	r.s.reminders[reminder.ID] = &cp
	return nil
}

func (r reminderRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Reminder, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rem, ok := r.s.reminders[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *rem
	return &cp, nil
}

func (r reminderRepo) ListByUser(_ context.Context, userID uuid.UUID, filter domain.ReminderFilter) ([]*domain.Reminder, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*domain.Reminder
	for _, rem := range r.s.reminders {
		if rem.UserID == userID && matchesReminder(rem, filter) {
			cp := *rem
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DateTime.Before(out[j].DateTime) })
	return out, nil
}

func matchesReminder(rem *domain.Reminder, f domain.ReminderFilter) bool {
	switch {
	case f.Status != "" && rem.Status != f.Status:
		return false
	case f.Category != "" && rem.Category != f.Category:
		return false
	case f.Priority != "" && rem.Priority != f.Priority:
		return false
	case f.From != nil && rem.DateTime.Before(*f.From):
		return false
	case f.To != nil && rem.DateTime.After(*f.To):
		return false
	}
	if f.Search == "" {
		return true
	}
	if strings.Contains(rem.Title, f.Search) {
		return true
	}
	return rem.Description != nil && strings.Contains(*rem.Description, f.Search)
}

func (r reminderRepo) Update(_ context.Context, reminder *domain.Reminder) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.reminders[reminder.ID]; !ok {
		return sql.ErrNoRows
	}
	cp := *reminder
	r.s.reminders[reminder.ID] = &cp
	return nil
}

func (r reminderRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.reminders, id)
	return nil
}

func (r reminderRepo) FindDue(_ context.Context, now time.Time) ([]*domain.ReminderWithOwner, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*domain.ReminderWithOwner
	for _, rem := range r.s.reminders {
		if rem.Status == domain.ReminderStatusPending && !rem.DateTime.After(now) {
			out = append(out, &domain.ReminderWithOwner{Reminder: *rem, Owner: r.s.owner(rem.UserID)})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DateTime.Before(out[j].DateTime) })
	return out, nil
}

func (r reminderRepo) MarkMissed(_ context.Context, cutoff time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, rem := range r.s.reminders {
		if rem.Status == domain.ReminderStatusPending && rem.DateTime.Before(cutoff) {
			rem.Status = domain.ReminderStatusMissed
			n++
		}
	}
	return n, nil
}

type loanRepo struct{ s *Store }

func (r loanRepo) CreateWithSchedule(_ context.Context, loan *domain.Loan, schedule []*domain.EMIPayment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *loan
	r.s.loans[loan.ID] = &cp
	for _, emi := range schedule {
		e := *emi
		r.s.installments[emi.ID] = &e
	}
	return nil
}

func (r loanRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Loan, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	loan, ok := r.s.loans[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *loan
	return &cp, nil
}

func (r loanRepo) UpdateStatus(_ context.Context, loanID uuid.UUID, status string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.FailUpdateStatus[loanID]; err != nil {
		delete(r.s.FailUpdateStatus, loanID)
		return err
	}
	loan, ok := r.s.loans[loanID]
	if !ok {
		return sql.ErrNoRows
	}
	loan.Status = status
	return nil
}

func (r loanRepo) ListActive(_ context.Context) ([]*domain.LoanWithOwner, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*domain.LoanWithOwner
	for _, loan := range r.s.loans {
		if loan.Status == domain.LoanStatusActive {
			out = append(out, &domain.LoanWithOwner{Loan: *loan, Owner: r.s.owner(loan.UserID)})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	return out, nil
}

func (r loanRepo) ListByUser(_ context.Context, userID uuid.UUID, status string) ([]*domain.Loan, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*domain.Loan
	for _, loan := range r.s.loans {
		if loan.UserID == userID && (status == "" || loan.Status == status) {
			cp := *loan
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r loanRepo) GetSchedulesByLoanIDs(_ context.Context, loanIDs []uuid.UUID) ([]*domain.EMIPayment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*domain.EMIPayment
	for _, id := range loanIDs {
		for _, emi := range r.schedule(id) {
			cp := *emi
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r loanRepo) schedule(loanID uuid.UUID) []*domain.EMIPayment {
	var out []*domain.EMIPayment
	for _, emi := range r.s.installments {
		if emi.LoanID == loanID {
			out = append(out, emi)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

func (r loanRepo) GetScheduleByLoanID(_ context.Context, loanID uuid.UUID) ([]*domain.EMIPayment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*domain.EMIPayment
	for _, emi := range r.schedule(loanID) {
		cp := *emi
		out = append(out, &cp)
	}
	return out, nil
}

func (r loanRepo) NextUnpaid(_ context.Context, loanID uuid.UUID) (*domain.EMIPayment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.FailNextUnpaid[loanID]; err != nil {
		return nil, err
	}
	var next *domain.EMIPayment
	for _, emi := range r.schedule(loanID) {
		if emi.Status == domain.EMIStatusPaid {
			continue
		}
		if next == nil || emi.DueDate.Before(next.DueDate) {
			next = emi
		}
	}
	if next == nil {
		return nil, nil
	}
	cp := *next
	return &cp, nil
}

func (r loanRepo) CountPaid(_ context.Context, loanID uuid.UUID) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, emi := range r.schedule(loanID) {
		if emi.Status == domain.EMIStatusPaid {
			n++
		}
	}
	return n, nil
}

func (r loanRepo) MarkInstallmentPaid(_ context.Context, emiID uuid.UUID, paidAt time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	emi, ok := r.s.installments[emiID]
	if !ok {
		return sql.ErrNoRows
	}
	emi.Status = domain.EMIStatusPaid
	emi.PaidDate = &paidAt
	return nil
}

func (r loanRepo) MarkOverdue(_ context.Context, loanID uuid.UUID, now time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, emi := range r.schedule(loanID) {
		if emi.Status == domain.EMIStatusPending && utils.IsDateOverdue(emi.DueDate, now) {
			emi.Status = domain.EMIStatusOverdue
			n++
		}
	}
	return n, nil
}

type subscriptionRepo struct{ s *Store }

func (r subscriptionRepo) Upsert(_ context.Context, sub *domain.PushSubscription) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.subscriptions {
		if existing.Endpoint == sub.Endpoint && existing.UserID == sub.UserID {
			existing.P256dh = sub.P256dh
			existing.Auth = sub.Auth
			existing.UpdatedAt = sub.UpdatedAt
			sub.ID = existing.ID
			sub.CreatedAt = existing.CreatedAt
			return nil
		}
	}
	cp := *sub
	r.s.subscriptions[sub.ID] = &cp
	return nil
}

func (r subscriptionRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]*domain.PushSubscription, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*domain.PushSubscription
	for _, sub := range r.s.subscriptions {
		if sub.UserID == userID {
			cp := *sub
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Endpoint < out[j].Endpoint })
	return out, nil
}

func (r subscriptionRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.subscriptions[id]; !ok {
		return errors.New("subscription not found")
	}
	delete(r.s.subscriptions, id)
	return nil
}

type logRepo struct{ s *Store }

func (r logRepo) Create(_ context.Context, entry *domain.NotificationLog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *entry
	r.s.logs = append(r.s.logs, &cp)
	return nil
}

func (r logRepo) ExistsSince(_ context.Context, relatedID uuid.UUID, relatedType, subjectContains string, since time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, l := range r.s.logs {
		if l.RelatedID == relatedID && l.RelatedType == relatedType &&
			strings.Contains(l.Subject, subjectContains) && !l.SentAt.Before(since) {
			return true, nil
		}
	}
	return false, nil
}
