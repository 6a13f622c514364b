package mocks

import (
	"context"
	"time"

	"github.com/bkarakus/cinema-booking-system/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockBookingRepo struct {
	mock.Mock
	domain.BookingRepository
}

func (m *MockBookingRepo) Reserve(ctx context.Context, params domain.ReserveParams) (*domain.Booking, error) {
	args := m.Called(ctx, params)

	if booking := args.Get(0); booking != nil {
		return booking.(*domain.Booking), args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *MockBookingRepo) ConfirmPayment(ctx context.Context, bookingID int) (*domain.Booking, error) {
	args := m.Called(ctx, bookingID)

	if booking := args.Get(0); booking != nil {
		return booking.(*domain.Booking), args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *MockBookingRepo) Cancel(ctx context.Context, params domain.CancelParams) (*domain.Booking, error) {
	args := m.Called(ctx, params)

	if booking := args.Get(0); booking != nil {
		return booking.(*domain.Booking), args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *MockBookingRepo) GetById(ctx context.Context, bookingID int) (*domain.Booking, error) {
	args := m.Called(ctx, bookingID)

	if booking := args.Get(0); booking != nil {
		return booking.(*domain.Booking), args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *MockBookingRepo) GetStaleBookingIds(ctx context.Context, cutoff time.Time) ([]int, error) {
	args := m.Called(ctx, cutoff)

	if ids := args.Get(0); ids != nil {
		return ids.([]int), args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *MockBookingRepo) GetSummariesByUserId(
	ctx context.Context,
	userId int,
	filters domain.BookingFilters,
	pagination domain.Pagination) ([]domain.BookingSummary, *domain.Metadata, error) {

	args := m.Called(ctx, userId, filters, pagination)

	var summaries []domain.BookingSummary
	if s := args.Get(0); s != nil {
		summaries = s.([]domain.BookingSummary)
	}

	var metadata *domain.Metadata
	if md := args.Get(1); md != nil {
		metadata = md.(*domain.Metadata)
	}

	return summaries, metadata, args.Error(2)
}
