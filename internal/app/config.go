package app

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/metinatakli/cinex-booking/internal/domain"
	"github.com/metinatakli/cinex-booking/internal/events"
	"github.com/metinatakli/cinex-booking/internal/store"
	"github.com/metinatakli/cinex-booking/internal/ticket"
	"github.com/metinatakli/cinex-booking/internal/watchdog"
)

type Config struct {
	Port             int
	Env              string
	OtelCollectorUrl string
	DB               DBConfig
	Redis            RedisConfig
	Gateway          GatewayConfig
	Cart             CartConfig
	Payment          PaymentConfig
	Kafka            KafkaConfig
	SMTP             SMTPConfig
	Ticket           TicketConfig
}

type DBConfig struct {
	DSN          string
	MaxOpenConns int
	MaxIdleTime  time.Duration
}

type RedisConfig struct {
	URL          string
	MaxOpenConns int
	MaxIdleConns int
	MaxIdleTime  time.Duration
}

type GatewayConfig struct {
	URL     string
	Timeout time.Duration
	// ServiceToken is used for calls the service makes on its own, such as timeout cancellations.
	ServiceToken string
}

type CartConfig struct {
	TTL time.Duration
}

type PaymentConfig struct {
	Timeout           time.Duration
	WatchdogInterval  time.Duration
	WatchdogBatchSize int
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	Sender   string
}

type TicketConfig struct {
	QRSize int
}

// LoadConfig parses command line flags. Every flag defaults to an environment variable, which
// may also come from a .env file in the working directory.
func LoadConfig(args []string) (Config, bool, error) {
	err := godotenv.Load()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, false, fmt.Errorf("failed to load .env file: %w", err)
	}

	return parseConfig(args)
}

func parseConfig(args []string) (Config, bool, error) {
	var cfg Config
	var kafkaBrokers string

	fset := flag.NewFlagSet("cinex-booking", flag.ContinueOnError)

	fset.IntVar(&cfg.Port, "port", envInt("PORT", 3000), "server port")
	fset.StringVar(&cfg.Env, "env", envString("ENV", "dev"), "Environment (dev|staging|prod)")
	fset.StringVar(&cfg.OtelCollectorUrl, "otel-collector-url", envString("OTEL_COLLECTOR_URL", ""), "OpenTelemetry collector endpoint")

	fset.StringVar(&cfg.DB.DSN, "db-dsn", envString("DB_DSN", ""), "PostgreSQL DSN")
	fset.IntVar(&cfg.DB.MaxOpenConns, "db-max-open-conns", envInt("DB_MAX_OPEN_CONNS", 25), "PostgreSQL max open connections")
	fset.DurationVar(&cfg.DB.MaxIdleTime, "db-max-idle-time", envDuration("DB_MAX_IDLE_TIME", 15*time.Minute), "PostgreSQL max idle time for connections")

	fset.StringVar(&cfg.Redis.URL, "redis-url", envString("REDIS_URL", "localhost:6379"), "Redis URL")
	fset.IntVar(&cfg.Redis.MaxOpenConns, "redis-max-open-conns", envInt("REDIS_MAX_OPEN_CONNS", 25), "Redis max open connections")
	fset.IntVar(&cfg.Redis.MaxIdleConns, "redis-max-idle-conns", envInt("REDIS_MAX_IDLE_CONNS", 10), "Redis max idle connections")
	fset.DurationVar(&cfg.Redis.MaxIdleTime, "redis-max-idle-time", envDuration("REDIS_MAX_IDLE_TIME", 2*time.Minute), "Redis max idle time for connections")

	fset.StringVar(&cfg.Gateway.URL, "gateway-url", envString("GATEWAY_URL", "http://localhost:5000/api"), "Cinema API base URL")
	fset.DurationVar(&cfg.Gateway.Timeout, "gateway-timeout", envDuration("GATEWAY_TIMEOUT", 10*time.Second), "Cinema API request timeout")
	fset.StringVar(&cfg.Gateway.ServiceToken, "gateway-service-token", envString("GATEWAY_SERVICE_TOKEN", ""), "Cinema API token used by background jobs")

	fset.DurationVar(&cfg.Cart.TTL, "cart-ttl", envDuration("CART_TTL", store.DefaultCheckoutTTL), "Idle lifetime of carts and seat holds")

	fset.DurationVar(&cfg.Payment.Timeout, "payment-timeout", envDuration("PAYMENT_TIMEOUT", domain.DefaultPaymentTimeout), "Time allowed to pay a submitted booking")
	fset.DurationVar(&cfg.Payment.WatchdogInterval, "watchdog-interval", envDuration("WATCHDOG_INTERVAL", watchdog.DefaultInterval), "Interval between expired payment sweeps")
	fset.IntVar(&cfg.Payment.WatchdogBatchSize, "watchdog-batch-size", envInt("WATCHDOG_BATCH_SIZE", watchdog.DefaultBatchSize), "Expired payments handled per sweep")

	fset.StringVar(&kafkaBrokers, "kafka-brokers", envString("KAFKA_BROKERS", ""), "Comma separated Kafka brokers, empty disables events")
	fset.StringVar(&cfg.Kafka.Topic, "kafka-topic", envString("KAFKA_TOPIC", events.DefaultTopic), "Kafka topic for booking events")

	fset.StringVar(&cfg.SMTP.Host, "smtp-host", envString("SMTP_HOST", "sandbox.smtp.mailtrap.io"), "SMTP host")
	fset.IntVar(&cfg.SMTP.Port, "smtp-port", envInt("SMTP_PORT", 2525), "SMTP port")
	fset.StringVar(&cfg.SMTP.Username, "smtp-username", envString("SMTP_USERNAME", ""), "SMTP username")
	fset.StringVar(&cfg.SMTP.Password, "smtp-password", envString("SMTP_PASSWORD", ""), "SMTP password")
	fset.StringVar(&cfg.SMTP.Sender, "smtp-sender", envString("SMTP_SENDER", "CineX <no-reply@cinex.vn>"), "SMTP sender")

	fset.IntVar(&cfg.Ticket.QRSize, "ticket-qr-size", envInt("TICKET_QR_SIZE", ticket.DefaultSize), "Ticket QR code size in pixels")

	displayVersion := fset.Bool("version", false, "Display version and exit")

	err := fset.Parse(args)
	if err != nil {
		return Config{}, false, err
	}

	cfg.Kafka.Brokers = splitList(kafkaBrokers)

	return cfg, *displayVersion, nil
}

func envString(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
