// Package app wires configuration into the collaborators shared by the
// server and scheduler binaries.
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/segyhp/reminder-engine/internal/calendar"
	"github.com/segyhp/reminder-engine/internal/config"
	"github.com/segyhp/reminder-engine/internal/database"
	"github.com/segyhp/reminder-engine/internal/job"
	"github.com/segyhp/reminder-engine/internal/lock"
	"github.com/segyhp/reminder-engine/internal/notify"
	"github.com/segyhp/reminder-engine/internal/observability"
	"github.com/segyhp/reminder-engine/internal/repository"
	"github.com/segyhp/reminder-engine/internal/service"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

type App struct {
	Config *config.Config
	Logger *logrus.Logger
	DB     *sqlx.DB
	// Redis is nil unless REDIS_ENABLED
	Redis *redis.Client

	Runner        *job.Runner
	Loans         *service.LoanService
	Reminders     *service.ReminderService
	Subscriptions *service.SubscriptionService
}

func New(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*App, error) {
	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, err
	}

	a := &App{Config: cfg, Logger: logger, DB: db}

	var locker lock.Locker = lock.NewLocalLocker()
	if cfg.Redis.Enabled {
		a.Redis = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := a.Redis.Ping(ctx).Err(); err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		locker = lock.NewRedisLocker(a.Redis)
	}

	reminderRepo := repository.NewReminderRepository(db)
	loanRepo := repository.NewLoanRepository(db)
	subscriptionRepo := repository.NewSubscriptionRepository(db)
	logRepo := repository.NewNotificationLogRepository(db)

	var push notify.PushSender = notify.DisabledPush()
	if cfg.PushEnabled() {
		push = notify.NewWebPushSender(cfg.Push, &http.Client{Timeout: 30 * time.Second})
	} else {
		logger.Warn("VAPID keys not configured; push delivery disabled")
	}

	dispatcher := notify.NewDispatcher(
		notify.NewSMTPSender(cfg.Email),
		push,
		subscriptionRepo,
		logRepo,
		logger.WithField("module", "notify"),
	)

	metrics, err := observability.NewMetrics()
	if err != nil {
		a.Close()
		return nil, err
	}

	cycle, err := job.New(job.Deps{
		Reminders:  reminderRepo,
		Loans:      loanRepo,
		Logs:       logRepo,
		Dispatcher: dispatcher,
		Calendar:   calendar.NoopSyncer{},
		Metrics:    metrics,
		Logger:     logger.WithField("module", "job"),
	}, job.OptionsFromConfig(cfg.Notify))
	if err != nil {
		a.Close()
		return nil, err
	}

	a.Runner = job.NewRunner(cycle, locker, cfg.Job.LockTTL, cfg.Job.Timeout, logger)
	a.Loans = service.NewLoanService(loanRepo, a.Redis, logger.WithField("module", "service"))
	a.Reminders = service.NewReminderService(reminderRepo)
	a.Subscriptions = service.NewSubscriptionService(subscriptionRepo)

	return a, nil
}

func (a *App) Close() {
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			a.Logger.WithError(err).Warn("failed to close redis")
		}
	}
	if err := a.DB.Close(); err != nil {
		a.Logger.WithError(err).Warn("failed to close database")
	}
}
