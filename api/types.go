// Package api defines the request and response types of the HTTP surface.
package api

import (
	"time"

	"github.com/shopspring/decimal"
)

type CreateBookingRequest struct {
	ShowtimeID    int    `json:"showtimeId" validate:"required,min=1"`
	UserID        int    `json:"userId" validate:"required,min=1"`
	SeatIDs       []int  `json:"seatIds" validate:"required,min=1,dive,min=1"`
	PaymentMethod string `json:"paymentMethod" validate:"required,payment_method"`
}

type CancelBookingRequest struct {
	Reason string `json:"reason" validate:"max=255"`
}

type BookingSeat struct {
	SeatID   int    `json:"seatId"`
	Row      int    `json:"row"`
	Column   int    `json:"column"`
	Category string `json:"category"`
}

type BookingResponse struct {
	ID                 int             `json:"id"`
	BookingNumber      string          `json:"bookingNumber"`
	UserID             int             `json:"userId"`
	ShowtimeID         int             `json:"showtimeId"`
	Seats              []BookingSeat   `json:"seats"`
	TotalPrice         decimal.Decimal `json:"totalPrice"`
	Status             string          `json:"status"`
	PaymentStatus      string          `json:"paymentStatus"`
	PaymentMethod      string          `json:"paymentMethod"`
	CancellationReason *string         `json:"cancellationReason,omitempty"`
	CancelledAt        *time.Time      `json:"cancelledAt,omitempty"`
	CreatedAt          time.Time       `json:"createdAt"`
}

type BookingSummary struct {
	ID            int             `json:"id"`
	BookingNumber string          `json:"bookingNumber"`
	ShowtimeID    int             `json:"showtimeId"`
	ShowtimeDate  time.Time       `json:"showtimeDate"`
	SeatCount     int             `json:"seatCount"`
	TotalPrice    decimal.Decimal `json:"totalPrice"`
	Status        string          `json:"status"`
	PaymentStatus string          `json:"paymentStatus"`
	CreatedAt     time.Time       `json:"createdAt"`
}

type UserBookingsResponse struct {
	Bookings []BookingSummary `json:"bookings"`
	Metadata Metadata         `json:"metadata"`
}

type ShowtimeResponse struct {
	ID             int             `json:"id"`
	MovieID        int             `json:"movieId"`
	HallID         int             `json:"hallId"`
	StartTime      time.Time       `json:"startTime"`
	EndTime        time.Time       `json:"endTime"`
	Price          decimal.Decimal `json:"price"`
	TotalSeats     int             `json:"totalSeats"`
	AvailableSeats int             `json:"availableSeats"`
	Status         string          `json:"status"`
	Bookable       bool            `json:"bookable"`
	FullyBooked    bool            `json:"fullyBooked"`
}

type Seat struct {
	ID         int             `json:"id"`
	Row        int             `json:"row"`
	Column     int             `json:"column"`
	Category   string          `json:"category"`
	Multiplier decimal.Decimal `json:"multiplier"`
	Available  bool            `json:"available"`
}

type SeatRow struct {
	Row   int    `json:"row"`
	Seats []Seat `json:"seats"`
}

type SeatMapResponse struct {
	ShowtimeID     int             `json:"showtimeId"`
	HallID         int             `json:"hallId"`
	HallName       string          `json:"hallName"`
	BasePrice      decimal.Decimal `json:"basePrice"`
	AvailableSeats int             `json:"availableSeats"`
	SeatRows       []SeatRow       `json:"seatRows"`
}

type Metadata struct {
	CurrentPage  int `json:"currentPage"`
	FirstPage    int `json:"firstPage"`
	LastPage     int `json:"lastPage"`
	PageSize     int `json:"pageSize"`
	TotalRecords int `json:"totalRecords"`
}

type SystemInfo struct {
	Version     string `json:"version"`
	Environment string `json:"environment"`
}

type HealthcheckResponse struct {
	Status     string     `json:"status"`
	SystemInfo SystemInfo `json:"systemInfo"`
}

type ErrorResponse struct {
	Message   string    `json:"message"`
	RequestId string    `json:"requestId"`
	Timestamp time.Time `json:"timestamp"`
	// ConflictingSeatIds is set only for seat conflict errors so the client
	// can re-prompt the user with the exact seats that were taken.
	ConflictingSeatIds []int `json:"conflictingSeatIds,omitempty"`
}

type ValidationError struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
}

type ValidationErrorResponse struct {
	Message          string            `json:"message"`
	RequestId        string            `json:"requestId"`
	Timestamp        time.Time         `json:"timestamp"`
	ValidationErrors []ValidationError `json:"validationErrors"`
}
