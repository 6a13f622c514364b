package worker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type stubExpiryService struct {
	cutoffs []time.Time
	count   int
	err     error
}

func (s *stubExpiryService) ExpireStaleBookings(ctx context.Context, cutoff time.Time) (int, error) {
	s.cutoffs = append(s.cutoffs, cutoff)
	return s.count, s.err
}

func TestRunOncePassesCutoffFromWindow(t *testing.T) {
	now := time.Date(2025, time.June, 15, 0, 5, 0, 0, time.UTC)
	service := &stubExpiryService{count: 3}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	sweeper := NewSweeper(service, logger, 24*time.Hour, WithNowFunc(func() time.Time {
		return now
	}))

	sweeper.RunOnce(context.Background())

	assert.Equal(t, []time.Time{now.Add(-24 * time.Hour)}, service.cutoffs)
}

func TestRunOnceSurvivesSweepFailure(t *testing.T) {
	service := &stubExpiryService{err: errors.New("connection reset")}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	sweeper := NewSweeper(service, logger, 24*time.Hour)

	sweeper.RunOnce(context.Background())
	sweeper.RunOnce(context.Background())

	assert.Len(t, service.cutoffs, 2)
}

func TestStopWithoutStart(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sweeper := NewSweeper(&stubExpiryService{}, logger, 24*time.Hour)

	assert.NoError(t, sweeper.Stop())
}
