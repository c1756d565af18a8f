package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/segyhp/reminder-engine/internal/app"
	"github.com/segyhp/reminder-engine/internal/config"
	"github.com/segyhp/reminder-engine/internal/database"
	"github.com/segyhp/reminder-engine/internal/handler"
	"github.com/segyhp/reminder-engine/internal/logger"
	"github.com/segyhp/reminder-engine/pkg/response"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger := logger.New(cfg.Logging)

	a, err := app.New(context.Background(), cfg, appLogger)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to initialize application")
	}
	defer a.Close()

	if cfg.IsDevelopment() {
		if err := database.MigrateUp(a.DB); err != nil {
			appLogger.WithError(err).Fatal("Failed to apply migrations")
		}
	}

	var redisPinger handler.RedisPinger
	if a.Redis != nil {
		redisPinger = a.Redis
	}

	cronHandler := handler.NewCronHandler(a.Runner, cfg.Job.CronSecret, cfg.Job.Timeout, appLogger.WithField("module", "handler"))
	loanHandler := handler.NewLoanHandler(a.Loans, appLogger.WithField("module", "handler"))
	reminderHandler := handler.NewReminderHandler(a.Reminders, appLogger.WithField("module", "handler"))
	subscriptionHandler := handler.NewSubscriptionHandler(a.Subscriptions, appLogger.WithField("module", "handler"))
	healthHandler := handler.NewHealthHandler(a.DB, redisPinger)

	// Setup routes
	router := setupRoutes(appLogger, cronHandler, loanHandler, reminderHandler, subscriptionHandler, healthHandler)

	// Start server
	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in a goroutine
	go func() {
		appLogger.WithField("addr", server.Addr).Info("Server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.WithError(err).Fatal("Server failed to start")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		appLogger.WithError(err).Error("Server forced to shutdown")
		return
	}

	appLogger.Info("Server exited")
}

func setupRoutes(
	appLogger *logrus.Logger,
	cronHandler *handler.CronHandler,
	loanHandler *handler.LoanHandler,
	reminderHandler *handler.ReminderHandler,
	subscriptionHandler *handler.SubscriptionHandler,
	healthHandler *handler.HealthHandler,
) *mux.Router {
	router := mux.NewRouter()
	router.Use(response.LoggingMiddleware(appLogger))

	// Health check
	router.HandleFunc("/health", healthHandler.Health).Methods("GET")
	router.HandleFunc("/health/ready", healthHandler.Ready).Methods("GET")

	// External scheduler trigger
	router.HandleFunc("/api/cron", cronHandler.Run).Methods("GET")

	/// API routes
	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/loans", loanHandler.CreateLoan).Methods("POST")
	api.HandleFunc("/loans", loanHandler.ListLoans).Methods("GET")
	api.HandleFunc("/loans/{loanId}", loanHandler.GetLoan).Methods("GET")
	api.HandleFunc("/loans/{loanId}/emi", loanHandler.MarkInstallmentPaid).Methods("POST")
	api.HandleFunc("/reminders", reminderHandler.CreateReminder).Methods("POST")
	api.HandleFunc("/reminders", reminderHandler.ListReminders).Methods("GET")
	api.HandleFunc("/reminders/{reminderId}", reminderHandler.GetReminder).Methods("GET")
	api.HandleFunc("/reminders/{reminderId}", reminderHandler.UpdateReminder).Methods("PUT")
	api.HandleFunc("/reminders/{reminderId}", reminderHandler.DeleteReminder).Methods("DELETE")
	api.HandleFunc("/reminders/{reminderId}/complete", reminderHandler.CompleteReminder).Methods("POST")
	api.HandleFunc("/notifications/subscribe", subscriptionHandler.Subscribe).Methods("POST")

	return router
}
