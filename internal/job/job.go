// Package job runs one notification cycle over every user: due reminders
// are notified and reaped, upcoming installments are notified along the
// EMI ladder, overdue installments are flagged, and external calendars are
// synced last.
package job

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/segyhp/reminder-engine/internal/calendar"
	"github.com/segyhp/reminder-engine/internal/config"
	"github.com/segyhp/reminder-engine/internal/domain"
	"github.com/segyhp/reminder-engine/internal/notify"
	"github.com/segyhp/reminder-engine/internal/observability"
	"github.com/segyhp/reminder-engine/internal/repository"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const moduleName = "job"

// Dispatcher delivers a rendered notification
type Dispatcher interface {
	Dispatch(ctx context.Context, intent notify.Intent) (notify.Result, error)
}

// Options tune one cycle. The zero value is not usable; start from
// DefaultOptions.
type Options struct {
	Ladder              domain.Ladder
	MissedGrace         time.Duration
	WindowTolerance     time.Duration
	DedupLookback       time.Duration
	ReminderDedupWindow time.Duration
}

func DefaultOptions() Options {
	return Options{
		Ladder:          domain.DefaultLadder(),
		MissedGrace:     time.Hour,
		WindowTolerance: 30 * time.Minute,
		DedupLookback:   2 * time.Hour,
	}
}

// OptionsFromConfig keeps the default ladder and takes durations from cfg
func OptionsFromConfig(cfg config.NotifyConfig) Options {
	opts := DefaultOptions()
	opts.MissedGrace = cfg.MissedGrace
	opts.WindowTolerance = cfg.WindowTolerance
	opts.DedupLookback = cfg.DedupLookback
	opts.ReminderDedupWindow = cfg.ReminderDedupWindow
	return opts
}

// Deps are the collaborators of a Job
type Deps struct {
	Reminders  repository.ReminderRepository
	Loans      repository.LoanRepository
	Logs       repository.NotificationLogRepository
	Dispatcher Dispatcher
	Calendar   calendar.Syncer
	Metrics    *observability.Metrics
	Logger     logrus.FieldLogger
}

type Job struct {
	reminders  repository.ReminderRepository
	loans      repository.LoanRepository
	logs       repository.NotificationLogRepository
	dispatcher Dispatcher
	calendar   calendar.Syncer
	metrics    *observability.Metrics
	logger     logrus.FieldLogger
	tracer     trace.Tracer
	opts       Options
	now        func() time.Time
}

func New(deps Deps, opts Options) (*Job, error) {
	metrics := deps.Metrics
	if metrics == nil {
		var err error
		if metrics, err = observability.NewMetrics(); err != nil {
			return nil, err
		}
	}
	syncer := deps.Calendar
	if syncer == nil {
		syncer = calendar.NoopSyncer{}
	}
	if len(opts.Ladder) == 0 {
		return nil, fmt.Errorf("job: empty ladder")
	}

	return &Job{
		reminders:  deps.Reminders,
		loans:      deps.Loans,
		logs:       deps.Logs,
		dispatcher: deps.Dispatcher,
		calendar:   syncer,
		metrics:    metrics,
		logger:     deps.Logger,
		tracer:     observability.Tracer(),
		opts:       opts,
		now:        time.Now,
	}, nil
}

// WithClock overrides the cycle's notion of now
func (j *Job) WithClock(now func() time.Time) *Job {
	j.now = now
	return j
}

// Run executes one cycle. Counts of work completed before a failure are
// returned together with the error.
func (j *Job) Run(ctx context.Context) (domain.Summary, error) {
	var summary domain.Summary
	now := j.now()

	ctx, span := j.tracer.Start(ctx, "job.Run")
	defer span.End()
	defer j.closeDispatcher()

	stages := []struct {
		name string
		run  func(context.Context, time.Time, *domain.Summary) error
	}{
		{"notify_reminders", j.notifyDueReminders},
		{"reap_reminders", j.reapMissedReminders},
		{"process_loans", j.processLoans},
		{"sync_calendar", j.syncCalendar},
	}

	for _, stage := range stages {
		if err := j.runStage(ctx, stage.name, now, &summary, stage.run); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, stage.name)
			return summary, fmt.Errorf("%s: %w", stage.name, err)
		}
	}

	j.logger.WithFields(logrus.Fields{
		"emails_sent":      summary.EmailsSent,
		"push_sent":        summary.PushSent,
		"reminders_missed": summary.RemindersMissed,
		"loans_processed":  summary.LoansProcessed,
		"loans_overdue":    summary.LoansOverdue,
		"calendar_synced":  summary.CalendarSynced,
		"calendar_failed":  summary.CalendarFailed,
		"errors":           summary.Errors,
	}).Info("cycle completed")

	return summary, nil
}

// closeDispatcher ends delivery sessions opened during the cycle
func (j *Job) closeDispatcher() {
	c, ok := j.dispatcher.(io.Closer)
	if !ok {
		return
	}
	if err := c.Close(); err != nil {
		j.logger.WithError(err).Warn("failed to close delivery session")
	}
}

func (j *Job) runStage(
	ctx context.Context,
	name string,
	now time.Time,
	summary *domain.Summary,
	run func(context.Context, time.Time, *domain.Summary) error,
) error {
	ctx, span := j.tracer.Start(ctx, "job."+name, trace.WithAttributes(attribute.String("stage", name)))
	defer span.End()

	err := run(ctx, now, summary)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

// entityFailed logs a per-entity failure and counts it. The batch continues.
func (j *Job) entityFailed(summary *domain.Summary, funcName string, fields logrus.Fields, err error) {
	summary.Errors++
	logError(j.logger, funcName, fields, err)
}

func (j *Job) record(ctx context.Context, kind notify.Kind, result notify.Result, summary *domain.Summary) {
	if result.EmailSent {
		summary.EmailsSent++
	}
	summary.PushSent += result.PushSent
	j.metrics.RecordDelivery(ctx, kind.String(), result.EmailSent, result.PushSent, result.PushExpired)
}

func (j *Job) syncCalendar(ctx context.Context, _ time.Time, summary *domain.Summary) error {
	result, err := j.calendar.SyncAll(ctx)
	if err != nil {
		return err
	}
	summary.CalendarSynced = result.Synced
	summary.CalendarFailed = result.Failed
	return nil
}
