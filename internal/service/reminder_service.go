package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/segyhp/reminder-engine/internal/domain"
	"github.com/segyhp/reminder-engine/internal/repository"
	customError "github.com/segyhp/reminder-engine/pkg/errors"
)

type ReminderService struct {
	ReminderRepo repository.ReminderRepository
	now          func() time.Time
}

func NewReminderService(reminderRepo repository.ReminderRepository) *ReminderService {
	return &ReminderService{
		ReminderRepo: reminderRepo,
		now:          time.Now,
	}
}

// CreateReminder stores a new Pending reminder for the user
func (s *ReminderService) CreateReminder(ctx context.Context, userID uuid.UUID, request *domain.CreateReminderRequest) (*domain.Reminder, error) {
	if strings.TrimSpace(request.Title) == "" {
		return nil, customError.WrapInvalidReminder("title is required")
	}
	if request.DateTime.IsZero() {
		return nil, customError.WrapInvalidReminder("date & time is required")
	}

	category := request.Category
	if category == "" {
		category = domain.CategoryOther
	}
	priority := request.Priority
	if priority == "" {
		priority = domain.PriorityMedium
	}

	now := s.now()
	reminder := &domain.Reminder{
		ID:          uuid.New(),
		Title:       request.Title,
		Description: request.Description,
		DateTime:    request.DateTime,
		Category:    category,
		Priority:    priority,
		Status:      domain.ReminderStatusPending,
		LoanID:      request.LoanID,
		UserID:      userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.ReminderRepo.Create(ctx, reminder); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	return reminder, nil
}

// ListReminders returns the user's reminders matching filter, earliest first
func (s *ReminderService) ListReminders(ctx context.Context, userID uuid.UUID, filter domain.ReminderFilter) ([]*domain.Reminder, error) {
	if filter.From != nil && filter.To != nil && filter.From.After(*filter.To) {
		return nil, customError.WrapInvalidReminder("from must not be after to")
	}

	reminders, err := s.ReminderRepo.ListByUser(ctx, userID, filter)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	if reminders == nil {
		reminders = []*domain.Reminder{}
	}

	return reminders, nil
}

func (s *ReminderService) GetReminder(ctx context.Context, userID, reminderID uuid.UUID) (*domain.Reminder, error) {
	return s.ownedReminder(ctx, userID, reminderID)
}

// UpdateReminder applies a partial update to a Pending reminder. Resolved
// reminders are immutable, and Missed is only ever set by the batch job.
func (s *ReminderService) UpdateReminder(ctx context.Context, userID, reminderID uuid.UUID, request *domain.UpdateReminderRequest) (*domain.Reminder, error) {
	reminder, err := s.ownedReminder(ctx, userID, reminderID)
	if err != nil {
		return nil, err
	}
	if reminder.IsResolved() {
		return nil, customError.WrapReminderResolved(reminderID.String(), reminder.Status)
	}

	if request.Status != nil {
		switch *request.Status {
		case domain.ReminderStatusPending, domain.ReminderStatusCompleted:
			reminder.Status = *request.Status
		default:
			return nil, customError.WrapInvalidReminder("reminders are marked missed automatically")
		}
	}
	if request.Title != nil {
		if strings.TrimSpace(*request.Title) == "" {
			return nil, customError.WrapInvalidReminder("title is required")
		}
		reminder.Title = *request.Title
	}
	if request.Description != nil {
		reminder.Description = request.Description
	}
	if request.DateTime != nil {
		if request.DateTime.IsZero() {
			return nil, customError.WrapInvalidReminder("date & time is required")
		}
		reminder.DateTime = *request.DateTime
	}
	if request.Category != nil {
		reminder.Category = *request.Category
	}
	if request.Priority != nil {
		reminder.Priority = *request.Priority
	}
	reminder.UpdatedAt = s.now()

	if err := s.ReminderRepo.Update(ctx, reminder); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	return reminder, nil
}

// CompleteReminder moves a Pending reminder to Completed
func (s *ReminderService) CompleteReminder(ctx context.Context, userID, reminderID uuid.UUID) (*domain.Reminder, error) {
	status := domain.ReminderStatusCompleted
	return s.UpdateReminder(ctx, userID, reminderID, &domain.UpdateReminderRequest{Status: &status})
}

// DeleteReminder removes a reminder in any status
func (s *ReminderService) DeleteReminder(ctx context.Context, userID, reminderID uuid.UUID) error {
	if _, err := s.ownedReminder(ctx, userID, reminderID); err != nil {
		return err
	}

	if err := s.ReminderRepo.Delete(ctx, reminderID); err != nil {
		return customError.WrapDatabaseError(err)
	}

	return nil
}

func (s *ReminderService) ownedReminder(ctx context.Context, userID, reminderID uuid.UUID) (*domain.Reminder, error) {
	reminder, err := s.ReminderRepo.GetByID(ctx, reminderID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, customError.WrapReminderNotFound(reminderID.String())
	}
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	// other users' reminders are reported as missing
	if reminder.UserID != userID {
		return nil, customError.WrapReminderNotFound(reminderID.String())
	}

	return reminder, nil
}
