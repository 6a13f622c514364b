package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bkarakus/cinema-booking-system/internal/booking"
	"github.com/bkarakus/cinema-booking-system/internal/domain"
	"github.com/bkarakus/cinema-booking-system/internal/mailer"
	"github.com/bkarakus/cinema-booking-system/internal/notifier"
	"github.com/bkarakus/cinema-booking-system/internal/repository"
	appvalidator "github.com/bkarakus/cinema-booking-system/internal/validator"
	"github.com/bkarakus/cinema-booking-system/internal/vcs"
	"github.com/bkarakus/cinema-booking-system/internal/worker"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
)

var (
	version = vcs.Version()
)

type Application struct {
	config    Config
	logger    *slog.Logger
	db        *pgxpool.Pool
	redis     redis.UniversalClient
	validator *validator.Validate

	bookingService *booking.Service
	seatRepo       domain.SeatRepository
	showtimeRepo   domain.ShowtimeRepository
}

type Config struct {
	Port             int
	Env              string
	DB               DBConfig
	Redis            RedisConfig
	SMTP             SMTPConfig
	AMQPUrl          string
	ExpiryWindow     time.Duration
	OtelCollectorUrl string
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

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	Sender   string
}

func Run() error {
	var cfg Config

	flag.IntVar(&cfg.Port, "port", 3000, "server port")
	flag.StringVar(&cfg.Env, "env", "dev", "Environment (dev|staging|prod)")

	flag.StringVar(&cfg.DB.DSN, "db-dsn", "", "PostgreSQL DSN")
	flag.IntVar(&cfg.DB.MaxOpenConns, "db-max-open-conns", 25, "PostgreSQL max open connections")
	flag.DurationVar(&cfg.DB.MaxIdleTime, "db-max-idle-time", 15*time.Minute, "PostgreSQL max idle time for connections")

	flag.StringVar(&cfg.Redis.URL, "redis-url", "", "Redis URL")
	flag.IntVar(&cfg.Redis.MaxOpenConns, "redis-max-open-conns", 25, "Redis max open connections")
	flag.IntVar(&cfg.Redis.MaxIdleConns, "redis-max-idle-conns", 10, "Redis max idle connections")
	flag.DurationVar(&cfg.Redis.MaxIdleTime, "redis-max-idle-time", 2*time.Minute, "Redis max idle time for connections")

	flag.StringVar(&cfg.SMTP.Host, "smtp-host", "sandbox.smtp.mailtrap.io", "SMTP host")
	flag.IntVar(&cfg.SMTP.Port, "smtp-port", 2525, "SMTP port")
	flag.StringVar(&cfg.SMTP.Username, "smtp-username", "", "SMTP username")
	flag.StringVar(&cfg.SMTP.Password, "smtp-password", "", "SMTP password")
	flag.StringVar(&cfg.SMTP.Sender, "smtp-sender", "CineBook <no-reply@cinebook.example.com>", "SMTP sender")

	flag.StringVar(&cfg.AMQPUrl, "amqp-url", "", "RabbitMQ URL for booking events (optional)")

	flag.DurationVar(&cfg.ExpiryWindow, "expiry-window", 24*time.Hour, "How long an unpaid booking holds its seats")
	flag.StringVar(&cfg.OtelCollectorUrl, "otel-collector-url", "", "OpenTelemetry collector URL (optional)")

	displayVersion := flag.Bool("version", false, "Display version and exit")

	flag.Parse()

	if *displayVersion {
		fmt.Printf("Version:\t%s\n", version)
		os.Exit(0)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

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

	app := NewApplication(cfg, logger, db, redisClient)

	telemetryShutdown, err := app.initTelemetry()
	if err != nil {
		return err
	}
	defer telemetryShutdown(context.Background())

	bookingNotifier, amqpConn, err := newBookingNotifier(cfg, db, logger)
	if err != nil {
		return err
	}
	if amqpConn != nil {
		defer amqpConn.Close()
	}

	app.bookingService = booking.NewService(repository.NewPostgresBookingRepository(db), bookingNotifier, logger)

	sweeper := worker.NewSweeper(app.bookingService, logger, cfg.ExpiryWindow)
	if err := sweeper.Start(); err != nil {
		return err
	}
	defer sweeper.Stop()

	return app.run()
}

// NewApplication wires an application from already established connections.
// The booking service is attached separately so tests can inject their own
// notifier.
func NewApplication(cfg Config, logger *slog.Logger, db *pgxpool.Pool, redisClient redis.UniversalClient) *Application {
	return &Application{
		config:       cfg,
		logger:       logger,
		db:           db,
		redis:        redisClient,
		validator:    appvalidator.NewValidator(),
		seatRepo:     repository.NewPostgresSeatRepository(db),
		showtimeRepo: repository.NewPostgresShowtimeRepository(db),
	}
}

// SetBookingService attaches the booking service the handlers delegate to.
func (app *Application) SetBookingService(service *booking.Service) {
	app.bookingService = service
}

// newBookingNotifier assembles the post-reservation hand-off from what is
// configured: a RabbitMQ publisher when a broker URL is given, a direct
// confirmation email when SMTP credentials are given, and a log entry
// otherwise.
func newBookingNotifier(cfg Config, db *pgxpool.Pool, logger *slog.Logger) (domain.BookingNotifier, *amqp.Connection, error) {
	var notifiers []domain.BookingNotifier
	var amqpConn *amqp.Connection

	if cfg.AMQPUrl != "" {
		conn, err := amqp.Dial(cfg.AMQPUrl)
		if err != nil {
			return nil, nil, err
		}

		amqpConn = conn
		notifiers = append(notifiers, notifier.NewAMQPNotifier(conn))
	}

	if cfg.SMTP.Username != "" {
		smtpMailer := mailer.NewSMTPMailer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.Sender)
		directory := repository.NewPostgresUserDirectory(db)

		notifiers = append(notifiers, notifier.NewMailNotifier(smtpMailer, directory))
	}

	if len(notifiers) == 0 {
		return notifier.NewLogNotifier(logger), nil, nil
	}

	if len(notifiers) == 1 {
		return notifiers[0], amqpConn, nil
	}

	return notifier.NewMultiNotifier(notifiers...), amqpConn, nil
}

func NewRedisClient(cfg Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:            cfg.Redis.URL,
		MaxIdleConns:    cfg.Redis.MaxIdleConns,
		MaxActiveConns:  cfg.Redis.MaxOpenConns,
		ConnMaxIdleTime: cfg.Redis.MaxIdleTime,
	})

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

func (app *Application) run() error {
	srv := &http.Server{
		Addr:         fmt.Sprintf("0.0.0.0:%d", app.config.Port),
		Handler:      app.Routes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorLog:     slog.NewLogLogger(app.logger.Handler(), slog.LevelDebug),
	}

	shutdownError := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		app.logger.Info("shutting down server", "signal", s.String())

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		shutdownError <- srv.Shutdown(ctx)
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

func (app *Application) Routes() http.Handler {
	r := chi.NewRouter()

	r.NotFound(app.notFoundResponse)

	r.Use(middleware.Logger)
	r.Use(middleware.RequestID)
	r.Use(app.recoverPanic)

	r.Get("/health", app.GetHealth)

	r.Route("/bookings", func(r chi.Router) {
		r.Post("/", app.CreateBookingHandler)

		r.Route("/{bookingId}", func(r chi.Router) {
			r.Get("/", app.GetBookingHandler)
			r.Delete("/", app.CancelBookingHandler)
			r.Post("/payment/confirm", app.ConfirmPaymentHandler)
			r.Post("/payment/failure", app.PaymentFailureHandler)
		})
	})

	r.Get("/users/{userId}/bookings", app.GetUserBookingsHandler)

	r.Route("/showtimes/{showtimeId}", func(r chi.Router) {
		r.Get("/", app.GetShowtimeHandler)
		r.Get("/seats", app.GetShowtimeSeatsHandler)
	})

	return r
}
