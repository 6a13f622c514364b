package domain

import (
	"context"
	"crypto/rand"
	"time"

	"github.com/shopspring/decimal"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusActive    BookingStatus = "active"
	BookingStatusCancelled BookingStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusPaid      PaymentStatus = "paid"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusExpired   PaymentStatus = "expired"
	PaymentStatusCancelled PaymentStatus = "cancelled"
)

type PaymentMethod string

const (
	PaymentMethodCard   PaymentMethod = "card"
	PaymentMethodCash   PaymentMethod = "cash"
	PaymentMethodOnline PaymentMethod = "online"
)

type Booking struct {
	ID                 int
	UserID             int
	ShowtimeID         int
	BookingNumber      string
	Seats              []BookingSeat
	TotalPrice         decimal.Decimal
	Status             BookingStatus
	PaymentStatus      PaymentStatus
	PaymentMethod      PaymentMethod
	CancellationReason *string
	CancelledAt        *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

type BookingSeat struct {
	SeatID   int
	Row      int
	Col      int
	Category SeatCategory
}

func (b *Booking) IsCancelled() bool {
	return b.Status == BookingStatusCancelled
}

func (b *Booking) IsPaid() bool {
	return b.PaymentStatus == PaymentStatusPaid
}

// IsPendingPayment reports whether the booking is still waiting for its
// payment, which is the only state the expiry sweep may act on.
func (b *Booking) IsPendingPayment() bool {
	return b.Status == BookingStatusPending && b.PaymentStatus == PaymentStatusPending
}

const bookingNumberAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// NewBookingNumber generates a human-readable booking code of the form
// BK-XXXXXXXX. Uniqueness is enforced by the database, not here.
func NewBookingNumber() string {
	buf := make([]byte, 8)
	rand.Read(buf)

	for i := range buf {
		buf[i] = bookingNumberAlphabet[int(buf[i])%len(bookingNumberAlphabet)]
	}

	return "BK-" + string(buf)
}

// ReserveParams carries the input of a seat reservation. Now is passed in
// explicitly so the showtime-in-future check is testable with a fixed clock.
type ReserveParams struct {
	ShowtimeID    int
	UserID        int
	SeatIDs       []int
	PaymentMethod PaymentMethod
	Now           time.Time
}

// CancelParams carries the input of a booking cancellation. PaymentOutcome is
// the terminal payment status to record: cancelled for a user/admin cancel,
// failed for a payment-failure callback, expired for the sweep.
type CancelParams struct {
	BookingID      int
	Reason         string
	PaymentOutcome PaymentStatus
	Now            time.Time

	// BypassShowtimeCheck lets the expiry sweep release seats of a showtime
	// that already started. RequirePendingPayment makes the cancellation a
	// no-op unless the booking is still pending/pending, so the sweep never
	// touches a booking that was paid between the scan and the lock.
	BypassShowtimeCheck   bool
	RequirePendingPayment bool
}

type BookingFilters struct {
	Status        BookingStatus
	PaymentStatus PaymentStatus
}

type BookingSummary struct {
	ID            int
	BookingNumber string
	ShowtimeID    int
	ShowtimeDate  time.Time
	SeatCount     int
	TotalPrice    decimal.Decimal
	Status        BookingStatus
	PaymentStatus PaymentStatus
	CreatedAt     time.Time
}

type BookingRepository interface {
	Reserve(ctx context.Context, params ReserveParams) (*Booking, error)
	ConfirmPayment(ctx context.Context, bookingID int) (*Booking, error)
	Cancel(ctx context.Context, params CancelParams) (*Booking, error)
	GetById(ctx context.Context, bookingID int) (*Booking, error)
	GetStaleBookingIds(ctx context.Context, cutoff time.Time) ([]int, error)
	GetSummariesByUserId(ctx context.Context, userId int, filters BookingFilters, pagination Pagination) ([]BookingSummary, *Metadata, error)
}
