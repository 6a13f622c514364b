package integration_test

import (
	"context"
	"io"
	"log"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bkarakus/cinema-booking-system/internal/app"
	"github.com/bkarakus/cinema-booking-system/internal/booking"
	"github.com/bkarakus/cinema-booking-system/internal/notifier"
	"github.com/bkarakus/cinema-booking-system/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
)

const (
	dbName         = "cinema_booking"
	dbUser         = "test_user"
	dbPassword     = "test_password"
	dbImageName    = "postgres:17-alpine"
	cacheImageName = "redis:7"
)

type TestApp struct {
	App     *app.Application
	Service *booking.Service
	DB      *pgxpool.Pool
}

type BaseSuite struct {
	suite.Suite
	app            *TestApp
	dbContainer    testcontainers.Container
	cacheContainer testcontainers.Container
	server         *httptest.Server
}

func (s *BaseSuite) SetupSuite() {
	ctx := context.Background()

	dbContainer, dsn, err := startPostgresContainer(ctx)
	s.dbContainer = dbContainer
	s.Require().NoError(err)

	cacheContainer, redisAddr, err := startRedisContainer(ctx)
	s.cacheContainer = cacheContainer
	s.Require().NoError(err)

	cfg := app.Config{
		Port: 3000,
		Env:  "test",
		DB: app.DBConfig{
			DSN:          dsn,
			MaxOpenConns: 25,
			MaxIdleTime:  2 * time.Minute,
		},
		Redis: app.RedisConfig{
			URL:          redisAddr,
			MaxOpenConns: 10,
			MaxIdleConns: 10,
			MaxIdleTime:  2 * time.Minute,
		},
		ExpiryWindow: 24 * time.Hour,
	}

	testApp, err := newTestApp(cfg)
	s.Require().NoError(err)

	s.app = testApp
	s.server = httptest.NewServer(testApp.App.Routes())
}

func (s *BaseSuite) TearDownSuite() {
	if s.server != nil {
		s.server.Close()
	}
	if s.app != nil {
		s.app.DB.Close()
	}
	for _, c := range []testcontainers.Container{s.dbContainer, s.cacheContainer} {
		if c == nil {
			continue
		}
		if err := testcontainers.TerminateContainer(c); err != nil {
			log.Printf("failed to terminate container: %s", err)
		}
	}
}

func newTestApp(cfg app.Config) (*TestApp, error) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	db, err := app.NewDatabasePool(cfg)
	if err != nil {
		return nil, err
	}

	redisClient, err := app.NewRedisClient(cfg)
	if err != nil {
		db.Close()
		return nil, err
	}

	application := app.NewApplication(cfg, logger, db, redisClient)

	service := booking.NewService(
		repository.NewPostgresBookingRepository(db),
		notifier.NewLogNotifier(logger),
		logger,
	)
	application.SetBookingService(service)

	return &TestApp{
		App:     application,
		Service: service,
		DB:      db,
	}, nil
}

type Scenario struct {
	Name             string
	Method           string
	URL              string
	Body             io.Reader
	ExpectedStatus   int
	ExpectedResponse string
	BeforeTestFunc   func(t testing.TB, app *TestApp)
	AfterTestFunc    func(t testing.TB, app *TestApp, res *http.Response)
}

func (s Scenario) Run(t *testing.T, testApp *TestApp) {
	t.Run(s.Name, func(t *testing.T) {
		req, err := prepareRequest(s.Method, s.URL, s.Body, nil)
		require.NoError(t, err)

		if s.BeforeTestFunc != nil {
			s.BeforeTestFunc(t, testApp)
		}

		rec := httptest.NewRecorder()
		testApp.App.Routes().ServeHTTP(rec, req)

		res := rec.Result()
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
