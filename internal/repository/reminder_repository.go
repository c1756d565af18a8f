package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/segyhp/reminder-engine/internal/domain"

	"github.com/jmoiron/sqlx"
)

const reminderColumns = `id, title, description, date_time, category, priority, status, loan_id, user_id, created_at, updated_at`

type reminderRepository struct {
	db *sqlx.DB
}

func NewReminderRepository(db *sqlx.DB) ReminderRepository {
	return &reminderRepository{db: db}
}

func (r *reminderRepository) Create(ctx context.Context, reminder *domain.Reminder) error {
	query := `
		INSERT INTO reminders (id, title, description, date_time, category, priority, status, loan_id, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.ExecContext(ctx, query,
		reminder.ID,
		reminder.Title,
		reminder.Description,
		reminder.DateTime,
		reminder.Category,
		reminder.Priority,
		reminder.Status,
		reminder.LoanID,
		reminder.UserID,
		reminder.CreatedAt,
		reminder.UpdatedAt,
	)

	return err
}

func (r *reminderRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Reminder, error) {
	query := `SELECT ` + reminderColumns + ` FROM reminders WHERE id = $1`

	var reminder domain.Reminder
	if err := r.db.GetContext(ctx, &reminder, query, id); err != nil {
		return nil, err
	}

	return &reminder, nil
}

func (r *reminderRepository) FindDue(ctx context.Context, now time.Time) ([]*domain.ReminderWithOwner, error) {
	query := `
		SELECT r.id, r.title, r.description, r.date_time, r.category, r.priority, r.status,
		       r.loan_id, r.user_id, r.created_at, r.updated_at,
		       u.id AS "owner.user_id", u.name AS "owner.name", u.email AS "owner.email"
		FROM reminders r
		JOIN users u ON u.id = r.user_id
		WHERE r.status = $1 AND r.date_time <= $2
		ORDER BY r.date_time
	`

	var reminders []*domain.ReminderWithOwner
	if err := r.db.SelectContext(ctx, &reminders, query, domain.ReminderStatusPending, now); err != nil {
		return nil, err
	}

	return reminders, nil
}

func (r *reminderRepository) MarkMissed(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `
		UPDATE reminders
		SET status = $1, updated_at = $2
		WHERE status = $3 AND date_time < $4
	`

	result, err := r.db.ExecContext(ctx, query,
		domain.ReminderStatusMissed,
		time.Now(),
		domain.ReminderStatusPending,
		cutoff,
	)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}

func (r *reminderRepository) ListByUser(ctx context.Context, userID uuid.UUID, filter domain.ReminderFilter) ([]*domain.Reminder, error) {
	conds := []string{"user_id = $1"}
	args := []interface{}{userID}
	where := func(cond string, arg interface{}) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if filter.Status != "" {
		where("status = $%d", filter.Status)
	}
	if filter.Category != "" {
		where("category = $%d", filter.Category)
	}
	if filter.Priority != "" {
		where("priority = $%d", filter.Priority)
	}
	if filter.Search != "" {
		where("(strpos(title, $%[1]d) > 0 OR strpos(COALESCE(description, ''), $%[1]d) > 0)", filter.Search)
	}
	if filter.From != nil {
		where("date_time >= $%d", *filter.From)
	}
	if filter.To != nil {
		where("date_time <= $%d", *filter.To)
	}

	query := `SELECT ` + reminderColumns + ` FROM reminders WHERE ` + strings.Join(conds, " AND ") + ` ORDER BY date_time`

	var reminders []*domain.Reminder
	if err := r.db.SelectContext(ctx, &reminders, query, args...); err != nil {
		return nil, err
	}

	return reminders, nil
}

func (r *reminderRepository) Update(ctx context.Context, reminder *domain.Reminder) error {
	query := `
		UPDATE reminders
		SET title = $2, description = $3, date_time = $4, category = $5, priority = $6, status = $7, updated_at = $8
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query,
		reminder.ID,
		reminder.Title,
		reminder.Description,
		reminder.DateTime,
		reminder.Category,
		reminder.Priority,
		reminder.Status,
		reminder.UpdatedAt,
	)

	return err
}

func (r *reminderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM reminders WHERE id = $1`, id)
	return err
}
