package integration_test

import (
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/metinatakli/cinex-booking/internal/app"
	"github.com/metinatakli/cinex-booking/internal/events"
	"github.com/metinatakli/cinex-booking/internal/gateway"
	"github.com/metinatakli/cinex-booking/internal/mailer"
	"github.com/metinatakli/cinex-booking/internal/repository"
	"github.com/metinatakli/cinex-booking/internal/store"
	"github.com/metinatakli/cinex-booking/internal/ticket"
	appvalidator "github.com/metinatakli/cinex-booking/internal/validator"
	"github.com/metinatakli/cinex-booking/internal/watchdog"
	"github.com/redis/go-redis/v9"
)

type TestApp struct {
	App       *app.Application
	DB        *pgxpool.Pool
	Redis     *redis.Client
	Mailer    *mailer.RecordingMailer
	Checkouts *store.CheckoutStore
	Watchdog  *watchdog.Watchdog
}

func newTestApp(cfg app.Config) (*TestApp, error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	validator := appvalidator.NewValidator()
	mailer := mailer.NewRecordingMailer(cfg.SMTP.Sender, logger)

	db, err := app.NewDatabasePool(cfg)
	if err != nil {
		return nil, err
	}

	redisClient, err := app.NewRedisClient(cfg)
	if err != nil {
		db.Close()
		return nil, err
	}

	cinema, err := gateway.New(cfg.Gateway.URL, cfg.Gateway.Timeout, gateway.WithLogger(logger))
	if err != nil {
		db.Close()
		redisClient.Close()
		return nil, err
	}

	sessionManager := app.NewSessionManager(redisClient, cfg.Cart.TTL)

	checkouts := store.NewCheckoutStore(redisClient, cfg.Cart.TTL)
	seats := store.NewSeatHolder(redisClient, cfg.Cart.TTL)
	deadlines := repository.NewPostgresDeadlineRepository(db)
	publisher := events.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, logger)

	application := app.NewApp(
		cfg,
		logger,
		db,
		redisClient,
		validator,
		mailer,
		sessionManager,
		cinema,
		checkouts,
		seats,
		deadlines,
		publisher,
		ticket.NewQRGenerator(cfg.Ticket.QRSize),
	)

	wd := watchdog.New(deadlines, cinema, checkouts, publisher, logger, watchdog.Config{
		BatchSize:    cfg.Payment.WatchdogBatchSize,
		ServiceToken: cfg.Gateway.ServiceToken,
	})

	return &TestApp{
		App:       application,
		DB:        db,
		Redis:     redisClient,
		Mailer:    mailer,
		Checkouts: checkouts,
		Watchdog:  wd,
	}, nil
}
