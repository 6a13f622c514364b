// Package worker schedules the periodic expiry sweep over unpaid bookings.
package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// ExpiryService is the slice of the booking service the sweeper needs.
type ExpiryService interface {
	ExpireStaleBookings(ctx context.Context, cutoff time.Time) (int, error)
}

// Sweeper runs the expiry sweep once per day, cancelling bookings that were
// left unpaid past the expiry window and releasing their seats. Overlapping
// runs are harmless; the sweep itself is idempotent.
type Sweeper struct {
	service   ExpiryService
	logger    *slog.Logger
	window    time.Duration
	nowFunc   func() time.Time
	scheduler gocron.Scheduler
}

type Option func(*Sweeper)

// WithNowFunc replaces the sweeper clock, used by tests to pin the cutoff.
func WithNowFunc(nowFunc func() time.Time) Option {
	return func(s *Sweeper) {
		s.nowFunc = nowFunc
	}
}

func NewSweeper(service ExpiryService, logger *slog.Logger, window time.Duration, opts ...Option) *Sweeper {
	s := &Sweeper{
		service: service,
		logger:  logger,
		window:  window,
		nowFunc: time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start schedules the daily sweep shortly after midnight and runs it until
// Stop is called.
func (s *Sweeper) Start() error {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return err
	}

	_, err = scheduler.NewJob(
		gocron.DailyJob(
			1,
			gocron.NewAtTimes(
				gocron.NewAtTime(0, 5, 0),
			),
		),
		gocron.NewTask(func() {
			s.RunOnce(context.Background())
		}),
	)
	if err != nil {
		return err
	}

	s.scheduler = scheduler
	scheduler.Start()

	s.logger.Info("expiry sweeper started", "window", s.window)

	return nil
}

func (s *Sweeper) Stop() error {
	if s.scheduler == nil {
		return nil
	}

	return s.scheduler.Shutdown()
}

// RunOnce performs a single sweep with cutoff now - window.
func (s *Sweeper) RunOnce(ctx context.Context) {
	cutoff := s.nowFunc().Add(-s.window)

	count, err := s.service.ExpireStaleBookings(ctx, cutoff)
	if err != nil {
		// The candidate scan itself failed; report and wait for the next run.
		s.logger.Error("expiry sweep failed", "error", err)
		return
	}

	if count == 0 {
		s.logger.Debug("expiry sweep found no stale bookings")
		return
	}

	s.logger.Info("expiry sweep completed", "expired", count)
}
