// Package booking implements the seat-reservation core: it owns the
// invariant that a seat is claimed by at most one non-cancelled booking per
// showtime, and the booking lifecycle around it.
package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bkarakus/cinema-booking-system/internal/domain"
	"github.com/google/uuid"
)

// ExpiryReason is recorded on bookings cancelled by the expiry sweep.
const ExpiryReason = "Payment not received within 24 hours"

type Service struct {
	bookings domain.BookingRepository
	notifier domain.BookingNotifier
	logger   *slog.Logger
	metrics  *metrics
	nowFunc  func() time.Time
}

type Option func(*Service)

// WithNowFunc replaces the service clock, used by tests to pin time.
func WithNowFunc(nowFunc func() time.Time) Option {
	return func(s *Service) {
		s.nowFunc = nowFunc
	}
}

func NewService(bookings domain.BookingRepository, notifier domain.BookingNotifier, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		bookings: bookings,
		notifier: notifier,
		logger:   logger,
		metrics:  newMetrics(),
		nowFunc:  time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Reserve atomically claims the requested seats for the showtime. Exactly one
// of two concurrent reservations for overlapping seats succeeds; the other
// receives a SeatsAlreadyBookedError listing the conflicting seats.
func (s *Service) Reserve(ctx context.Context, showtimeID, userID int, seatIDs []int, paymentMethod domain.PaymentMethod) (*domain.Booking, error) {
	if len(seatIDs) == 0 {
		return nil, domain.ErrInvalidSeatSelection
	}

	seen := make(map[int]bool, len(seatIDs))
	for _, seatID := range seatIDs {
		if seatID < 1 || seen[seatID] {
			return nil, domain.ErrInvalidSeatSelection
		}
		seen[seatID] = true
	}

	booking, err := s.bookings.Reserve(ctx, domain.ReserveParams{
		ShowtimeID:    showtimeID,
		UserID:        userID,
		SeatIDs:       seatIDs,
		PaymentMethod: paymentMethod,
		Now:           s.nowFunc(),
	})
	if err != nil {
		var conflictErr *domain.SeatsAlreadyBookedError
		if errors.As(err, &conflictErr) {
			s.metrics.seatConflicts.Add(ctx, 1)
		}

		return nil, s.mapError(err)
	}

	s.metrics.bookingsCreated.Add(ctx, 1)
	s.logger.Info("booking created",
		"booking_id", booking.ID,
		"booking_number", booking.BookingNumber,
		"showtime_id", booking.ShowtimeID,
		"seats", len(booking.Seats),
	)

	s.dispatchBookingCreated(ctx, booking)

	return booking, nil
}

// ConfirmPayment transitions a booking to active/paid. It is idempotent: a
// second confirmation of the same booking is a no-op success, so at-least-once
// delivery from a retrying payment worker is safe.
func (s *Service) ConfirmPayment(ctx context.Context, bookingID int) (*domain.Booking, error) {
	booking, err := s.bookings.ConfirmPayment(ctx, bookingID)
	if err != nil {
		return nil, s.mapError(err)
	}

	s.logger.Info("booking payment confirmed", "booking_id", booking.ID, "booking_number", booking.BookingNumber)

	return booking, nil
}

// Cancel releases a booking's seats. Cancelling a booking for a showtime that
// already started is rejected; only the expiry sweep bypasses that rule.
func (s *Service) Cancel(ctx context.Context, bookingID int, reason string, outcome domain.PaymentStatus) (*domain.Booking, error) {
	booking, err := s.bookings.Cancel(ctx, domain.CancelParams{
		BookingID:      bookingID,
		Reason:         reason,
		PaymentOutcome: outcome,
		Now:            s.nowFunc(),
	})
	if err != nil {
		return nil, s.mapError(err)
	}

	s.metrics.bookingsCancelled.Add(ctx, 1)
	s.logger.Info("booking cancelled",
		"booking_id", booking.ID,
		"booking_number", booking.BookingNumber,
		"payment_status", booking.PaymentStatus,
	)

	return booking, nil
}

func (s *Service) GetBooking(ctx context.Context, bookingID int) (*domain.Booking, error) {
	booking, err := s.bookings.GetById(ctx, bookingID)
	if err != nil {
		return nil, s.mapError(err)
	}

	return booking, nil
}

// GetUserBookings lists a user's booking history, newest first.
func (s *Service) GetUserBookings(ctx context.Context, userID int, filters domain.BookingFilters, pagination domain.Pagination) ([]domain.BookingSummary, *domain.Metadata, error) {
	summaries, metadata, err := s.bookings.GetSummariesByUserId(ctx, userID, filters, pagination)
	if err != nil {
		return nil, nil, s.mapError(err)
	}

	return summaries, metadata, nil
}

// ExpireStaleBookings cancels every booking still pending payment that was
// created at or before the cutoff, releasing its seats. A failure on one
// booking is logged and the sweep moves on; only a failing candidate scan
// aborts the sweep. Overlapping sweeps are safe: each transition is guarded
// by the booking's row lock, so a booking is expired at most once.
func (s *Service) ExpireStaleBookings(ctx context.Context, cutoff time.Time) (int, error) {
	ids, err := s.bookings.GetStaleBookingIds(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("scanning stale bookings: %w", err)
	}

	count := 0

	for _, id := range ids {
		_, err := s.bookings.Cancel(ctx, domain.CancelParams{
			BookingID:             id,
			Reason:                ExpiryReason,
			PaymentOutcome:        domain.PaymentStatusExpired,
			Now:                   s.nowFunc(),
			BypassShowtimeCheck:   true,
			RequirePendingPayment: true,
		})

		switch {
		case errors.Is(err, domain.ErrBookingAlreadyCancelled), errors.Is(err, domain.ErrBookingNotPending):
			// lost the race to a concurrent sweep, cancel, or payment
			continue
		case err != nil:
			s.logger.Error("failed to expire booking", "booking_id", id, "error", err)
			continue
		}

		s.metrics.bookingsExpired.Add(ctx, 1)
		count++
	}

	if count > 0 {
		s.logger.Info("expired stale bookings", "count", count, "cutoff", cutoff)
	}

	return count, nil
}

// dispatchBookingCreated hands the event off to the notification collaborator.
// The reservation is already committed, so a dispatch failure is logged and
// swallowed; delivery retries are the collaborator's concern.
func (s *Service) dispatchBookingCreated(ctx context.Context, booking *domain.Booking) {
	seatIDs := make([]int, len(booking.Seats))
	for i, seat := range booking.Seats {
		seatIDs[i] = seat.SeatID
	}

	event := domain.BookingCreatedEvent{
		EventID:       uuid.New().String(),
		BookingID:     booking.ID,
		BookingNumber: booking.BookingNumber,
		UserID:        booking.UserID,
		ShowtimeID:    booking.ShowtimeID,
		SeatIDs:       seatIDs,
		TotalPrice:    booking.TotalPrice,
		CreatedAt:     booking.CreatedAt,
	}

	if err := s.notifier.BookingCreated(ctx, event); err != nil {
		s.logger.Error("failed to dispatch booking created event",
			"booking_id", booking.ID,
			"event_id", event.EventID,
			"error", err,
		)
	}
}

// mapError passes the domain taxonomy through untouched and wraps anything
// else as a persistence failure, so callers never see raw storage errors.
func (s *Service) mapError(err error) error {
	switch {
	case errors.Is(err, domain.ErrRecordNotFound),
		errors.Is(err, domain.ErrBookingNotFound),
		errors.Is(err, domain.ErrInvalidSeatSelection),
		errors.Is(err, domain.ErrShowtimeNotBookable),
		errors.Is(err, domain.ErrShowtimeAlreadyStarted),
		errors.Is(err, domain.ErrBookingAlreadyCancelled),
		errors.Is(err, domain.ErrBookingNotPending):
		return err
	}

	var conflictErr *domain.SeatsAlreadyBookedError
	if errors.As(err, &conflictErr) {
		return err
	}

	return &domain.PersistenceError{Err: err}
}
