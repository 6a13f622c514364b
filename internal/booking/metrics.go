package booking

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

type metrics struct {
	bookingsCreated   metric.Int64Counter
	bookingsCancelled metric.Int64Counter
	bookingsExpired   metric.Int64Counter
	seatConflicts     metric.Int64Counter
}

// newMetrics registers the reservation counters on the global meter provider.
// With no provider configured they resolve to no-op instruments.
func newMetrics() *metrics {
	meter := otel.Meter("github.com/bkarakus/cinema-booking-system/internal/booking")

	bookingsCreated, _ := meter.Int64Counter("bookings.created",
		metric.WithDescription("Number of bookings created"))
	bookingsCancelled, _ := meter.Int64Counter("bookings.cancelled",
		metric.WithDescription("Number of bookings cancelled"))
	bookingsExpired, _ := meter.Int64Counter("bookings.expired",
		metric.WithDescription("Number of bookings expired by the sweep"))
	seatConflicts, _ := meter.Int64Counter("bookings.seat_conflicts",
		metric.WithDescription("Number of reservations rejected due to seat conflicts"))

	return &metrics{
		bookingsCreated:   bookingsCreated,
		bookingsCancelled: bookingsCancelled,
		bookingsExpired:   bookingsExpired,
		seatConflicts:     seatConflicts,
	}
}
