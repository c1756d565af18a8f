package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/segyhp/reminder-engine/internal/domain"
	"github.com/segyhp/reminder-engine/internal/repository"
	"github.com/segyhp/reminder-engine/internal/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newReminder(userID uuid.UUID, title string, at time.Time) *domain.Reminder {
	return &domain.Reminder{
		ID:        uuid.New(),
		Title:     title,
		DateTime:  at,
		Category:  domain.CategoryPersonal,
		Priority:  domain.PriorityHigh,
		Status:    domain.ReminderStatusPending,
		UserID:    userID,
		CreatedAt: at.Add(-24 * time.Hour),
		UpdatedAt: at.Add(-24 * time.Hour),
	}
}

func TestReminderRepository(t *testing.T) {
	td := testutil.SetupTestDatabase(t)
	repo := repository.NewReminderRepository(td.DB)
	ctx := context.Background()

	userID := td.InsertUser(t, "Asha", "asha@example.com")
	now := time.Date(2024, 6, 4, 10, 0, 0, 0, time.UTC)

	overdue := newReminder(userID, "Electricity bill", now.Add(-90*time.Minute))
	recent := newReminder(userID, "Call bank", now.Add(-30*time.Minute))
	future := newReminder(userID, "Renew insurance", now.Add(2*time.Hour))
	for _, rem := range []*domain.Reminder{overdue, recent, future} {
		require.NoError(t, repo.Create(ctx, rem))
	}

	t.Run("find due joins owner", func(t *testing.T) {
		due, err := repo.FindDue(ctx, now)
		require.NoError(t, err)
		require.Len(t, due, 2)

		assert.Equal(t, overdue.ID, due[0].ID)
		assert.Equal(t, recent.ID, due[1].ID)
		assert.Equal(t, userID, due[0].Owner.UserID)
		assert.Equal(t, "Asha", due[0].Owner.Name)
		assert.Equal(t, "asha@example.com", due[0].Owner.Email)
	})

	t.Run("mark missed only touches reminders before cutoff", func(t *testing.T) {
		n, err := repo.MarkMissed(ctx, now.Add(-time.Hour))
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		got, err := repo.GetByID(ctx, overdue.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.ReminderStatusMissed, got.Status)

		got, err = repo.GetByID(ctx, recent.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.ReminderStatusPending, got.Status)

		due, err := repo.FindDue(ctx, now)
		require.NoError(t, err)
		require.Len(t, due, 1)
		assert.Equal(t, recent.ID, due[0].ID)
	})
}

func TestReminderRepository_ListUpdateDelete(t *testing.T) {
	td := testutil.SetupTestDatabase(t)
	repo := repository.NewReminderRepository(td.DB)
	ctx := context.Background()

	userID := td.InsertUser(t, "Meera", "meera@example.com")
	otherID := td.InsertUser(t, "Kiran", "kiran@example.com")
	now := time.Date(2024, 6, 4, 10, 0, 0, 0, time.UTC)

	rent := newReminder(userID, "Pay rent", now.Add(48*time.Hour))
	note := "sync with the design team"
	standup := newReminder(userID, "Standup", now.Add(time.Hour))
	standup.Category = domain.CategoryMeeting
	standup.Priority = domain.PriorityLow
	standup.Description = &note
	foreign := newReminder(otherID, "Pay rent", now)
	for _, rem := range []*domain.Reminder{rent, standup, foreign} {
		require.NoError(t, repo.Create(ctx, rem))
	}

	ids := func(rs []*domain.Reminder) []uuid.UUID {
		out := make([]uuid.UUID, 0, len(rs))
		for _, r := range rs {
			out = append(out, r.ID)
		}
		return out
	}

	t.Run("list scopes to user ordered by time", func(t *testing.T) {
		got, err := repo.ListByUser(ctx, userID, domain.ReminderFilter{})
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{standup.ID, rent.ID}, ids(got))
	})

	t.Run("list filters", func(t *testing.T) {
		from := now.Add(24 * time.Hour)
		to := now.Add(2 * time.Hour)
		tests := []struct {
			name   string
			filter domain.ReminderFilter
			want   []uuid.UUID
		}{
			{"category", domain.ReminderFilter{Category: domain.CategoryMeeting}, []uuid.UUID{standup.ID}},
			{"priority", domain.ReminderFilter{Priority: domain.PriorityHigh}, []uuid.UUID{rent.ID}},
			{"search title", domain.ReminderFilter{Search: "rent"}, []uuid.UUID{rent.ID}},
			{"search description", domain.ReminderFilter{Search: "design"}, []uuid.UUID{standup.ID}},
			{"from", domain.ReminderFilter{From: &from}, []uuid.UUID{rent.ID}},
			{"to", domain.ReminderFilter{To: &to}, []uuid.UUID{standup.ID}},
			{"combined", domain.ReminderFilter{Status: domain.ReminderStatusPending, Search: "rent", To: &to}, []uuid.UUID{}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				got, err := repo.ListByUser(ctx, userID, tt.filter)
				require.NoError(t, err)
				assert.Equal(t, tt.want, ids(got))
			})
		}
	})

	t.Run("update rewrites editable columns", func(t *testing.T) {
		standup.Title = "Standup moved"
		standup.Status = domain.ReminderStatusCompleted
		standup.UpdatedAt = now
		require.NoError(t, repo.Update(ctx, standup))

		got, err := repo.GetByID(ctx, standup.ID)
		require.NoError(t, err)
		assert.Equal(t, "Standup moved", got.Title)
		assert.Equal(t, domain.ReminderStatusCompleted, got.Status)
		assert.True(t, got.UpdatedAt.Equal(now))

		due, err := repo.FindDue(ctx, now.Add(72*time.Hour))
		require.NoError(t, err)
		for _, d := range due {
			assert.NotEqual(t, standup.ID, d.ID)
		}
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, rent.ID))

		_, err := repo.GetByID(ctx, rent.ID)
		assert.Error(t, err)

		got, err := repo.GetByID(ctx, foreign.ID)
		require.NoError(t, err)
		assert.Equal(t, otherID, got.UserID)
	})
}
