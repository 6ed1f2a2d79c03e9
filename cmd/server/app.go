package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	apimiddleware "github.com/calebwray/enroll-api/internal/api/middleware"
	"github.com/calebwray/enroll-api/internal/config"
	"github.com/calebwray/enroll-api/internal/notify"
	"github.com/calebwray/enroll-api/internal/platform/metrics"
	"github.com/calebwray/enroll-api/internal/platform/postgres"
	"github.com/calebwray/enroll-api/internal/service/auth"
	"github.com/calebwray/enroll-api/internal/service/registration"
	"github.com/calebwray/enroll-api/internal/store"
	"github.com/calebwray/enroll-api/internal/task"
)

// application holds the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	// Observability
	registry *prometheus.Registry
	recorder metrics.Recorder

	// Stores
	accountStore store.AccountStore

	// Services
	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier
	registrar        *registration.Registrar

	// Notification pipeline
	taskQueue  *task.TaskQueue
	workerPool *task.WorkerPool
	notifier   *notify.WelcomeNotifier

	// Middleware with background state
	rateLimiter *apimiddleware.RateLimiter
}

// newApplication creates an application instance with all dependencies
// initialized. Core dependencies (configuration, logger, database
// connection) must already be established.
func newApplication(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	db *sql.DB,
) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	// Metrics registry with the standard process and Go collectors.
	app.registry = prometheus.NewRegistry()
	app.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	app.recorder = metrics.NewCollector(app.registry)

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	app.passwordVerifier = auth.NewBcryptVerifier()

	app.accountStore = postgres.NewPostgresAccountStore(db, logger)

	// Welcome notification pipeline: queue, worker pool, sender.
	app.taskQueue = task.NewTaskQueue(cfg.Task.QueueSize, logger)
	app.workerPool = task.NewWorkerPool(app.taskQueue, task.WorkerPoolConfig{
		WorkerCount: cfg.Task.WorkerCount,
	}, logger)
	app.workerPool.Start()

	var sender notify.Sender
	if cfg.Mail.Enabled {
		sender = notify.NewSMTPSender(cfg.Mail)
		logger.Info("SMTP welcome notifications enabled",
			"host", cfg.Mail.Host,
			"from", cfg.Mail.From)
	} else {
		sender = notify.NewLogSender(logger)
		logger.Info("SMTP disabled, welcome notifications are logged only")
	}
	app.notifier = notify.NewWelcomeNotifier(app.taskQueue, sender, app.recorder, logger)

	app.registrar = registration.NewRegistrar(
		app.accountStore,
		db,
		app.notifier,
		app.passwordVerifier,
		app.recorder,
		logger,
	)

	app.rateLimiter = apimiddleware.NewRateLimiter(apimiddleware.RateLimiterConfig{
		RequestsPerMinute: cfg.RateLimit.RequestsPerMinute,
		Burst:             cfg.RateLimit.Burst,
		CleanupInterval:   5 * time.Minute,
	})

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources. The queue is
// closed first so no new welcome notifications can be enqueued while the
// pool shuts down.
func (app *application) cleanup() {
	if app.rateLimiter != nil {
		app.rateLimiter.Stop()
	}

	if app.taskQueue != nil {
		app.taskQueue.Close()
	}
	if app.workerPool != nil {
		app.workerPool.Stop()
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
