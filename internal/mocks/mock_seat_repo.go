package mocks

import (
	"context"

	"github.com/bkarakus/cinema-booking-system/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockSeatRepo struct {
	mock.Mock
	domain.SeatRepository
}

func (m *MockSeatRepo) GetSeatMapByShowtime(ctx context.Context, showtimeID int) (*domain.SeatMap, error) {
	args := m.Called(ctx, showtimeID)

	if seatMap := args.Get(0); seatMap != nil {
		return seatMap.(*domain.SeatMap), args.Error(1)
	}

	return nil, args.Error(1)
}

type MockShowtimeRepo struct {
	mock.Mock
	domain.ShowtimeRepository
}

func (m *MockShowtimeRepo) GetById(ctx context.Context, id int) (*domain.Showtime, error) {
	args := m.Called(ctx, id)

	if showtime := args.Get(0); showtime != nil {
		return showtime.(*domain.Showtime), args.Error(1)
	}

	return nil, args.Error(1)
}
