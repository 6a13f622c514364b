package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type ShowtimeStatus string

const (
	ShowtimeStatusActive   ShowtimeStatus = "active"
	ShowtimeStatusInactive ShowtimeStatus = "inactive"
)

type Showtime struct {
	ID             int
	MovieID        int
	HallID         int
	StartTime      time.Time
	EndTime        time.Time
	Price          decimal.Decimal
	TotalSeats     int
	AvailableSeats int
	Status         ShowtimeStatus
}

func (s *Showtime) IsActive() bool {
	return s.Status == ShowtimeStatusActive
}

func (s *Showtime) IsUpcoming(now time.Time) bool {
	return s.StartTime.After(now)
}

func (s *Showtime) IsFullyBooked() bool {
	return s.AvailableSeats <= 0
}

// Bookable reports whether new reservations are accepted for the showtime.
func (s *Showtime) Bookable(now time.Time) bool {
	return s.IsActive() && s.IsUpcoming(now)
}

type ShowtimeRepository interface {
	GetById(ctx context.Context, id int) (*Showtime, error)
}
