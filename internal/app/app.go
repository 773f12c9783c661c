package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/alexedwards/scs/goredisstore"
	"github.com/alexedwards/scs/v2"
	"github.com/exaring/otelpgx"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/metinatakli/cinex-booking/internal/domain"
	"github.com/metinatakli/cinex-booking/internal/events"
	"github.com/metinatakli/cinex-booking/internal/gateway"
	"github.com/metinatakli/cinex-booking/internal/mailer"
	"github.com/metinatakli/cinex-booking/internal/repository"
	"github.com/metinatakli/cinex-booking/internal/store"
	"github.com/metinatakli/cinex-booking/internal/ticket"
	appvalidator "github.com/metinatakli/cinex-booking/internal/validator"
	"github.com/metinatakli/cinex-booking/internal/vcs"
	"github.com/metinatakli/cinex-booking/internal/watchdog"
	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/bridges/otelslog"
)

var (
	version = vcs.Version()
)

type Application struct {
	config         Config
	logger         *slog.Logger
	db             *pgxpool.Pool
	redis          redis.UniversalClient
	validator      *validator.Validate
	mailer         mailer.Mailer
	sessionManager *scs.SessionManager

	cinema    domain.CinemaAPI
	checkouts domain.CheckoutStore
	seats     domain.SeatHolder
	deadlines domain.PaymentDeadlineRepository
	events    domain.BookingEventPublisher
	tickets   *ticket.QRGenerator
	metrics   *bookingMetrics

	// wg tracks background goroutines such as confirmation e-mails.
	wg sync.WaitGroup
}

func NewApp(
	cfg Config,
	logger *slog.Logger,
	db *pgxpool.Pool,
	redis redis.UniversalClient,
	validator *validator.Validate,
	mailer mailer.Mailer,
	sessionManager *scs.SessionManager,
	cinema domain.CinemaAPI,
	checkouts domain.CheckoutStore,
	seats domain.SeatHolder,
	deadlines domain.PaymentDeadlineRepository,
	events domain.BookingEventPublisher,
	tickets *ticket.QRGenerator) *Application {

	return &Application{
		config:         cfg,
		logger:         logger,
		db:             db,
		redis:          redis,
		validator:      validator,
		mailer:         mailer,
		sessionManager: sessionManager,
		cinema:         cinema,
		checkouts:      checkouts,
		seats:          seats,
		deadlines:      deadlines,
		events:         events,
		tickets:        tickets,
		metrics:        mustBookingMetrics(logger),
	}
}

func Run() error {
	cfg, displayVersion, err := LoadConfig(os.Args[1:])
	if err != nil {
		return err
	}

	if displayVersion {
		fmt.Printf("Version:\t%s\n", version)
		os.Exit(0)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	app := &Application{config: cfg, logger: logger}

	shutdownTelemetry, err := app.InitTelemetry()
	if err != nil {
		return err
	}
	defer shutdownTelemetry(context.Background())

	if cfg.OtelCollectorUrl != "" {
		logger = slog.New(NewMultiHandler(
			slog.NewTextHandler(os.Stdout, nil),
			otelslog.NewHandler("cinex-booking"),
		))
	}

	db, err := NewDatabasePool(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	redisClient, err := NewRedisClient(cfg)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	cinema, err := gateway.New(cfg.Gateway.URL, cfg.Gateway.Timeout, gateway.WithLogger(logger))
	if err != nil {
		return err
	}

	publisher := events.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, logger)
	defer publisher.Close()

	app = NewApp(
		cfg,
		logger,
		db,
		redisClient,
		appvalidator.NewValidator(),
		newMailer(cfg.SMTP, logger),
		NewSessionManager(redisClient, cfg.Cart.TTL),
		cinema,
		store.NewCheckoutStore(redisClient, cfg.Cart.TTL),
		store.NewSeatHolder(redisClient, cfg.Cart.TTL),
		repository.NewPostgresDeadlineRepository(db),
		publisher,
		ticket.NewQRGenerator(cfg.Ticket.QRSize),
	)

	return app.run()
}

// newMailer records e-mails in memory when no SMTP credentials are configured.
func newMailer(cfg SMTPConfig, logger *slog.Logger) mailer.Mailer {
	if cfg.Username == "" {
		logger.Warn("SMTP credentials not set, confirmation e-mails are only recorded")
		return mailer.NewRecordingMailer(cfg.Sender, logger)
	}

	return mailer.NewSMTPMailer(cfg.Host, cfg.Port, cfg.Username, cfg.Password, cfg.Sender)
}

func NewSessionManager(client *redis.Client, idleTimeout time.Duration) *scs.SessionManager {
	if idleTimeout <= 0 {
		idleTimeout = store.DefaultCheckoutTTL
	}

	sessionManager := scs.New()

	sessionManager.Store = goredisstore.New(client)
	sessionManager.IdleTimeout = idleTimeout
	sessionManager.Cookie.Name = "session_id"
	sessionManager.Cookie.HttpOnly = true
	sessionManager.Cookie.SameSite = http.SameSiteLaxMode

	return sessionManager
}

func NewRedisClient(cfg Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:            cfg.Redis.URL,
		MaxIdleConns:    cfg.Redis.MaxIdleConns,
		MaxActiveConns:  cfg.Redis.MaxOpenConns,
		ConnMaxIdleTime: cfg.Redis.MaxIdleTime,
	})

	if err := redisotel.InstrumentTracing(rdb); err != nil {
		return nil, fmt.Errorf("failed to instrument redis tracing: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err := rdb.Ping(ctx).Err()
	if err != nil {
		return nil, err
	}

	return rdb, nil
}

func NewDatabasePool(cfg Config) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(cfg.DB.DSN)
	if err != nil {
		return nil, err
	}

	config.MaxConnIdleTime = cfg.DB.MaxIdleTime
	config.MaxConns = int32(cfg.DB.MaxOpenConns)
	config.ConnConfig.Tracer = otelpgx.NewTracer()

	db, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err = db.Ping(ctx)
	if err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

func (app *Application) newWatchdog() *watchdog.Watchdog {
	return watchdog.New(
		app.deadlines,
		app.cinema,
		app.checkouts,
		app.events,
		app.logger,
		watchdog.Config{
			Interval:     app.config.Payment.WatchdogInterval,
			BatchSize:    app.config.Payment.WatchdogBatchSize,
			ServiceToken: app.config.Gateway.ServiceToken,
		},
	)
}

func (app *Application) run() error {
	srv := &http.Server{
		Addr:         fmt.Sprintf("0.0.0.0:%d", app.config.Port),
		Handler:      app.Routes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		ErrorLog:     slog.NewLogLogger(app.logger.Handler(), slog.LevelDebug),
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	wd := app.newWatchdog()
	wd.Start(ctx)

	shutdownError := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		app.logger.Info("shutting down server", "signal", s.String())

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		err := srv.Shutdown(ctx)
		if err != nil {
			shutdownError <- err
			return
		}

		wd.Stop()

		app.logger.Info("completing background tasks", "addr", srv.Addr)
		app.wg.Wait()

		shutdownError <- nil
	}()

	app.logger.Info("starting server", "addr", srv.Addr, "env", app.config.Env)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdownError
	if err != nil {
		return err
	}

	app.logger.Info("stopped server", "addr", srv.Addr)

	return nil
}
