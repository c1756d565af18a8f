package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/segyhp/reminder-engine/internal/app"
	"github.com/segyhp/reminder-engine/internal/config"
	"github.com/segyhp/reminder-engine/internal/job"
	"github.com/segyhp/reminder-engine/internal/lock"
	"github.com/segyhp/reminder-engine/internal/logger"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger := logger.New(cfg.Logging)
	appLogger.Info("Starting reminder scheduler...")

	a, err := app.New(context.Background(), cfg, appLogger)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to initialize application")
	}
	defer a.Close()

	location, err := time.LoadLocation(cfg.Scheduler.Timezone)
	if err != nil {
		appLogger.WithError(err).Fatal("Invalid scheduler timezone")
	}

	// Initialize cron scheduler
	c := cron.New(cron.WithSeconds(), cron.WithLocation(location))

	if err := setupCronJobs(c, cfg, a.Runner, appLogger); err != nil {
		appLogger.WithError(err).Fatal("Failed to schedule cycle")
	}

	// Start the scheduler
	c.Start()
	appLogger.WithField("schedule", cfg.Scheduler.Cron).Info("Scheduler started successfully")

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down scheduler...")
	<-c.Stop().Done()
	appLogger.Info("Scheduler stopped")
}

func setupCronJobs(c *cron.Cron, cfg *config.Config, runner *job.Runner, appLogger *logrus.Logger) error {
	_, err := c.AddFunc(cfg.Scheduler.Cron, func() {
		appLogger.Info("Running notification cycle...")
		summary, err := runner.Run(context.Background())
		switch {
		case errors.Is(err, lock.ErrLocked):
			appLogger.Warn("Previous cycle still running; skipped")
		case err != nil:
			appLogger.WithError(err).Error("Notification cycle failed")
		default:
			appLogger.WithFields(logrus.Fields{
				"emails_sent":      summary.EmailsSent,
				"push_sent":        summary.PushSent,
				"reminders_missed": summary.RemindersMissed,
				"loans_processed":  summary.LoansProcessed,
			}).Info("Notification cycle completed")
		}
	})
	return err
}
