package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/smarttasker/api/internal/config"
	"github.com/smarttasker/api/internal/notify"
	"github.com/smarttasker/api/internal/platform/aiservice"
	"github.com/smarttasker/api/internal/platform/mail"
	"github.com/smarttasker/api/internal/platform/postgres"
	"github.com/smarttasker/api/internal/scheduler"
	"github.com/smarttasker/api/internal/service"
	"github.com/smarttasker/api/internal/service/auth"
	"github.com/smarttasker/api/internal/store"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	// Configuration
	config *config.Config

	// Core services
	logger *slog.Logger
	db     *sql.DB

	// Stores (using interfaces for proper abstraction)
	userStore store.UserStore
	taskStore store.TaskStore

	// Service interfaces
	jwtService       auth.JWTService
	passwordHasher   auth.PasswordHasher
	passwordVerifier auth.PasswordVerifier
	taskService      service.TaskService

	// Real-time notification hub
	hub *notify.Hub

	// Background reminder scanning
	reminderScheduler *scheduler.ReminderScheduler
}

// newApplication creates a new application instance with all dependencies
// initialized. It accepts core dependencies like configuration, logger, and
// database connection that must be established before application
// initialization.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	// Initialize JWT service
	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"access_token_lifetime_minutes", cfg.Auth.AccessTokenLifetimeMinutes,
		"refresh_token_lifetime_minutes", cfg.Auth.RefreshTokenLifetimeMinutes)

	// Initialize password hashing
	app.passwordHasher = auth.NewBcryptHasher(cfg.Auth.BcryptCost)
	app.passwordVerifier = auth.NewBcryptVerifier()

	// Initialize stores
	app.userStore = postgres.NewUserStore(db, logger)
	app.taskStore = postgres.NewTaskStore(db, logger)

	// Initialize the AI sidecar client
	aiClient, err := aiservice.NewClient(
		cfg.AI.BaseURL,
		time.Duration(cfg.AI.TimeoutSeconds)*time.Second,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize AI service client: %w", err)
	}
	logger.Info("AI service client initialized", "base_url", cfg.AI.BaseURL)

	// Initialize the notification hub
	app.hub = notify.NewHub(logger)

	// Initialize the task service
	app.taskService = service.NewTaskService(
		app.taskStore,
		aiClient,
		aiClient,
		app.hub,
		logger,
	)

	// Initialize the reminder mailer; with SMTP unconfigured it logs and
	// skips sends instead of failing.
	mailer := mail.NewSMTPMailer(cfg.SMTP, logger)

	// Initialize and start the reminder scheduler
	app.reminderScheduler = scheduler.New(
		app.taskStore,
		app.userStore,
		app.hub,
		mailer,
		scheduler.Config{
			Interval:  time.Duration(cfg.Scheduler.IntervalSeconds) * time.Second,
			Lookahead: time.Duration(cfg.Scheduler.LookaheadMinutes) * time.Minute,
		},
		logger,
	)

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run starts the background scheduler and the HTTP server, handling
// lifecycle and cleanup. It returns when the server has shut down.
func (app *application) Run(ctx context.Context) error {
	app.reminderScheduler.Start()

	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	// Stop scanning for reminders first so no new notifications are
	// published to a closing hub.
	if app.reminderScheduler != nil {
		app.reminderScheduler.Stop()
	}

	// Disconnect websocket clients
	if app.hub != nil {
		app.hub.Close()
	}

	// Close database connection
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
