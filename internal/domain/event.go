package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// BookingCreatedEvent is handed off to the notification collaborator after a
// reservation commits. Delivery and retries of the resulting confirmation
// email are the collaborator's responsibility.
type BookingCreatedEvent struct {
	EventID       string          `json:"event_id"`
	BookingID     int             `json:"booking_id"`
	BookingNumber string          `json:"booking_number"`
	UserID        int             `json:"user_id"`
	ShowtimeID    int             `json:"showtime_id"`
	SeatIDs       []int           `json:"seat_ids"`
	TotalPrice    decimal.Decimal `json:"total_price"`
	CreatedAt     time.Time       `json:"created_at"`
}

type BookingNotifier interface {
	BookingCreated(ctx context.Context, event BookingCreatedEvent) error
}
