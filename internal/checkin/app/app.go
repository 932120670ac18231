package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aussiebroadwan/checkin/internal/checkin/events"
	httpapi "github.com/aussiebroadwan/checkin/internal/checkin/http"
	"github.com/aussiebroadwan/checkin/internal/checkin/metrics"
	"github.com/aussiebroadwan/checkin/internal/checkin/scan"
	"github.com/aussiebroadwan/checkin/internal/checkin/service"
	"github.com/aussiebroadwan/checkin/internal/checkin/store"
	"github.com/aussiebroadwan/checkin/internal/checkin/store/drivers/postgres"
	"github.com/aussiebroadwan/checkin/internal/checkin/store/drivers/sqlite"
	"github.com/aussiebroadwan/checkin/pkg/httpx"
	"github.com/aussiebroadwan/checkin/pkg/jwtx"
	"github.com/aussiebroadwan/checkin/pkg/slogx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application encapsulates the check-in service with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db       store.Store
	verifier jwtx.Verifier // nil when staff auth is disabled
	events   events.Publisher
	nats     *events.NATSPublisher // nil when NATS_URL is unset
	registry *prometheus.Registry
	metrics  *metrics.Metrics

	// Services
	registrationService *service.RegistrationService
	attendeeService     *service.AttendeeService
	sessionService      *service.SessionService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "checkin-service",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := app.initDatabase(context.Background()); err != nil {
		return nil, err
	}

	if err := app.initAuth(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	if err := app.initEvents(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	app.initMetrics()
	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.sessionService.Start()

	app.logger.Info("checkin service starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			app.sessionService.Stop()
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down checkin service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	// Closes every open scan session and its replay guard.
	app.sessionService.Stop()

	if app.nats != nil {
		if err := app.nats.Close(); err != nil {
			app.logger.Error("error draining nats connection", "error", err)
		}
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("checkin service stopped")
	return nil
}

// initDatabase opens the configured store and applies migrations. Postgres is
// used when DATABASE_URL is set so several stations can share one roster.
func (app *Application) initDatabase(ctx context.Context) error {
	var (
		db     store.Store
		driver string
		err    error
	)

	if app.cfg.DatabaseURL != "" {
		driver = "postgres"
		db, err = postgres.NewStore(ctx, app.cfg.DatabaseURL)
	} else {
		driver = "sqlite"
		host := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", app.cfg.DatabaseFile)
		db, err = sqlite.NewStore(host)
	}
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully", "driver", driver)
	return nil
}

// initAuth enables staff bearer tokens when a secret is configured.
func (app *Application) initAuth() error {
	if app.cfg.JWTSecret == "" {
		app.logger.Warn("CHECKIN_JWT_SECRET not set, staff auth disabled")
		return nil
	}

	v, err := jwtx.NewHS256([]byte(app.cfg.JWTSecret), app.cfg.JWTIssuer)
	if err != nil {
		return fmt.Errorf("failed to initialize staff auth: %w", err)
	}
	app.verifier = v
	app.logger.Info("staff auth enabled", "issuer", app.cfg.JWTIssuer)
	return nil
}

func (app *Application) initEvents() error {
	if app.cfg.NATSURL == "" {
		app.events = events.Nop{}
		return nil
	}

	p, err := events.NewNATSPublisher(app.cfg.NATSURL, app.cfg.NATSSubject)
	if err != nil {
		return fmt.Errorf("failed to connect to nats: %w", err)
	}
	app.nats = p
	app.events = p
	app.logger.Info("publishing check-in events", "subject", app.cfg.NATSSubject)
	return nil
}

func (app *Application) initMetrics() {
	app.registry = prometheus.NewRegistry()
	app.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	app.metrics = metrics.New(app.registry)
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	app.registrationService = &service.RegistrationService{Store: app.db}
	app.attendeeService = &service.AttendeeService{Store: app.db}

	app.sessionService = service.NewSessionService(app.db, app.logger, app.cfg.SessionIdleTimeout)
	app.sessionService.Events = app.events
	app.sessionService.Metrics = app.metrics
	app.sessionService.Images = scan.ZXingDecoder{}
	app.sessionService.Cooldown = app.cfg.ScanCooldown
	if app.cfg.HousekeepingInterval > 0 {
		app.sessionService.Interval = app.cfg.HousekeepingInterval
	}
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	applyRateLimitOverrides()

	router := httpapi.NewRouter(
		app.verifier,
		BuildVersion,
		app.db,
		app.registry,
		app.logger,
	)

	router.RegistrationService = app.registrationService
	router.AttendeeService = app.attendeeService
	router.SessionService = app.sessionService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}

// applyRateLimitOverrides must run before routes are registered.
func applyRateLimitOverrides() {
	httpx.ScanLimit = httpx.ParseRateLimitFromEnv("SCAN", httpx.ScanLimit)
	httpx.AdminLimit = httpx.ParseRateLimitFromEnv("ADMIN", httpx.AdminLimit)
	httpx.ReadLimit = httpx.ParseRateLimitFromEnv("READ", httpx.ReadLimit)
	httpx.ProbeLimit = httpx.ParseRateLimitFromEnv("PROBE", httpx.ProbeLimit)
}
