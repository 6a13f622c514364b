package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

type HallStatus string

const (
	HallStatusActive      HallStatus = "active"
	HallStatusInactive    HallStatus = "inactive"
	HallStatusMaintenance HallStatus = "maintenance"
)

type Hall struct {
	ID       int
	Name     string
	Rows     int
	Cols     int
	Capacity int
	Status   HallStatus
}

type SeatCategory string

const (
	SeatCategoryStandard SeatCategory = "standard"
	SeatCategoryPremium  SeatCategory = "premium"
	SeatCategoryVIP      SeatCategory = "vip"
)

type SeatStatus string

const (
	SeatStatusAvailable   SeatStatus = "available"
	SeatStatusUnavailable SeatStatus = "unavailable"
	SeatStatusMaintenance SeatStatus = "maintenance"
)

type Seat struct {
	ID              int
	HallID          int
	Row             int
	Col             int
	Category        SeatCategory
	Status          SeatStatus
	PriceMultiplier decimal.Decimal

	// Available is display state: true when the seat is in the bookable pool
	// and not held by a non-cancelled booking for the showtime being viewed.
	Available bool
}

// SeatMap is the seat layout of a showtime's hall with per-seat availability.
// It is read without any lock and serves display only; Reserve re-reads the
// booked set under the showtime lock before committing.
type SeatMap struct {
	ShowtimeID     int
	HallID         int
	HallName       string
	BasePrice      decimal.Decimal
	AvailableSeats int
	Seats          []Seat
}

type SeatRepository interface {
	GetSeatMapByShowtime(ctx context.Context, showtimeID int) (*SeatMap, error)
}
