package job

import (
	"context"
	"time"

	"github.com/segyhp/reminder-engine/internal/domain"
	"github.com/segyhp/reminder-engine/internal/notify"

	"github.com/sirupsen/logrus"
)

// notifyDueReminders notifies every Pending reminder whose time has come.
// Without a ReminderDedupWindow a reminder is notified on every cycle until
// it leaves Pending.
func (j *Job) notifyDueReminders(ctx context.Context, now time.Time, summary *domain.Summary) error {
	due, err := j.reminders.FindDue(ctx, now)
	if err != nil {
		return err
	}

	for _, reminder := range due {
		if err := ctx.Err(); err != nil {
			return err
		}

		fields := logrus.Fields{"stage": "notify_reminders", "reminder_id": reminder.ID.String()}

		intent, err := notify.ReminderIntent(reminder)
		if err != nil {
			j.entityFailed(summary, "notifyDueReminders", fields, err)
			continue
		}

		if j.opts.ReminderDedupWindow > 0 {
			sent, err := j.logs.ExistsSince(ctx, reminder.ID, domain.RelatedTypeReminder, intent.LogSubject, now.Add(-j.opts.ReminderDedupWindow))
			if err != nil {
				j.entityFailed(summary, "notifyDueReminders", fields, err)
				continue
			}
			if sent {
				j.logger.WithFields(fields).Debug("reminder already notified")
				continue
			}
		}

		result, err := j.dispatcher.Dispatch(ctx, intent)
		j.record(ctx, notify.KindReminder, result, summary)
		if err != nil {
			j.entityFailed(summary, "notifyDueReminders", fields, err)
		}
	}

	return nil
}

// reapMissedReminders moves reminders past the grace period to Missed
func (j *Job) reapMissedReminders(ctx context.Context, now time.Time, summary *domain.Summary) error {
	n, err := j.reminders.MarkMissed(ctx, now.Add(-j.opts.MissedGrace))
	if err != nil {
		return err
	}

	summary.RemindersMissed = int(n)
	j.metrics.RecordRemindersMissed(ctx, n)
	if n > 0 {
		j.logger.WithFields(logrus.Fields{"stage": "reap_reminders", "count": n}).Info("reminders marked missed")
	}
	return nil
}
