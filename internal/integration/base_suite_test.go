package integration_test

import (
	"context"
	"io"
	"log"
	"net/http"
	"testing"
	"time"

	"github.com/metinatakli/cinex-booking/internal/app"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
)

const (
	dbName         = "cinex_booking"
	dbUser         = "test_user"
	dbPassword     = "test_password"
	dbImageName    = "postgres:17-alpine"
	cacheImageName = "redis:7"
)

type BaseSuite struct {
	suite.Suite
	app            *TestApp
	cinema         *fakeCinema
	handler        http.Handler
	dbContainer    *PostgresContainer
	cacheContainer *RedisContainer
}

func (s *BaseSuite) SetupSuite() {
	ctx := context.Background()

	postgresContainer, err := getDbContainer(ctx)
	if err != nil {
		s.T().Fatalf("failed to start container: %s", err)
	}

	redisContainer, err := getCacheContainer(ctx)
	if err != nil {
		s.T().Fatalf("failed to start container: %s", err)
	}

	s.dbContainer = postgresContainer
	s.cacheContainer = redisContainer
	s.cinema = newFakeCinema()

	cfg := app.Config{
		Port: 3000,
		Env:  "test",
		DB: app.DBConfig{
			DSN:          postgresContainer.ConnectionString,
			MaxOpenConns: 25,
			MaxIdleTime:  2 * time.Minute,
		},
		Redis: app.RedisConfig{
			URL:          redisContainer.ConnectionString,
			MaxOpenConns: 10,
			MaxIdleConns: 10,
			MaxIdleTime:  2 * time.Minute,
		},
		Gateway: app.GatewayConfig{
			URL:          s.cinema.URL(),
			Timeout:      5 * time.Second,
			ServiceToken: TestServiceToken,
		},
		Cart: app.CartConfig{TTL: 20 * time.Minute},
		Payment: app.PaymentConfig{
			Timeout:           10 * time.Minute,
			WatchdogBatchSize: 10,
		},
		SMTP: app.SMTPConfig{Sender: "CineX <no-reply@cinex.vn>"},
	}

	testApp, err := newTestApp(cfg)
	if err != nil {
		s.T().Fatalf("cannot initialize app: %s", err)
	}

	s.app = testApp
	s.handler = testApp.App.Routes()
}

func (s *BaseSuite) TearDownSuite() {
	if s.app != nil {
		s.app.DB.Close()
		s.app.Redis.Close()
	}
	if s.cinema != nil {
		s.cinema.Close()
	}
	if s.dbContainer != nil {
		if err := testcontainers.TerminateContainer(s.dbContainer.Container.Container); err != nil {
			log.Printf("failed to terminate container: %s", err)
		}
	}
	if s.cacheContainer != nil {
		if err := testcontainers.TerminateContainer(s.cacheContainer.Container); err != nil {
			log.Printf("failed to terminate container: %s", err)
		}
	}
}

// SetupTest gives every test a clean redis, an empty deadline table and a fresh upstream.
func (s *BaseSuite) SetupTest() {
	ctx := context.Background()

	require.NoError(s.T(), s.app.Redis.FlushAll(ctx).Err())

	_, err := s.app.DB.Exec(ctx, "TRUNCATE payment_deadlines")
	require.NoError(s.T(), err)

	s.app.Mailer.Reset()
	s.cinema.Reset()
}

// browser keeps the session cookie between requests like a web client would.
func (s *BaseSuite) newBrowser() *browser {
	return &browser{handler: s.handler}
}

type Scenario struct {
	Name             string
	Method           string
	URL              string
	Body             io.Reader
	Headers          map[string]string
	Browser          *browser
	ExpectedStatus   int
	ExpectedResponse string
	BeforeTestFunc   func(t testing.TB, app *TestApp)
	AfterTestFunc    func(t testing.TB, app *TestApp, res *http.Response)
}

func (s Scenario) Run(t *testing.T, testApp *TestApp, handler http.Handler) {
	t.Run(s.Name, func(t *testing.T) {
		b := s.Browser
		if b == nil {
			b = &browser{handler: handler}
		}

		req, err := prepareRequest(s.Method, s.URL, s.Body, s.Headers, b.cookies)
		require.NoError(t, err)

		if s.BeforeTestFunc != nil {
			s.BeforeTestFunc(t, testApp)
		}

		res := b.serve(req)
		defer res.Body.Close()

		assert.Equal(t, s.ExpectedStatus, res.StatusCode)

		if s.ExpectedResponse != "" {
			compareResponse(t, res.Body, s.ExpectedResponse)
		}

		if s.AfterTestFunc != nil {
			s.AfterTestFunc(t, testApp, res)
		}
	})
}
