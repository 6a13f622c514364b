package domain

import (
	"errors"
	"fmt"
)

var (
	ErrRecordNotFound          = errors.New("record not found")
	ErrBookingNotFound         = errors.New("booking not found")
	ErrInvalidSeatSelection    = errors.New("one or more selected seats are not bookable for this showtime")
	ErrShowtimeNotBookable     = errors.New("showtime is not open for booking")
	ErrShowtimeAlreadyStarted  = errors.New("showtime has already started")
	ErrBookingAlreadyCancelled = errors.New("booking is already cancelled")
	ErrBookingNotPending       = errors.New("booking is no longer pending payment")
)

// SeatsAlreadyBookedError reports a reservation conflict together with the
// seat IDs that are already held by a non-cancelled booking, so the caller
// can re-prompt the user with the exact seats that were taken.
type SeatsAlreadyBookedError struct {
	SeatIDs []int
}

func (e *SeatsAlreadyBookedError) Error() string {
	return fmt.Sprintf("seat(s) already booked: %v", e.SeatIDs)
}

// PersistenceError wraps a storage-layer fault (deadlock, connection loss,
// timeout). The operation it aborted was rolled back in full.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure: %v", e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
