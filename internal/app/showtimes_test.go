package app

import (
	"net/http"
	"testing"
	"time"

	"github.com/bkarakus/cinema-booking-system/api"
	"github.com/bkarakus/cinema-booking-system/internal/domain"
	"github.com/bkarakus/cinema-booking-system/internal/mocks"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestGetShowtime(t *testing.T) {
	showtimeRepo := new(mocks.MockShowtimeRepo)

	app := newTestApplication(func(a *Application) {
		a.showtimeRepo = showtimeRepo
	})

	showtimeRepo.On("GetById", mock.Anything, 3).Return(&domain.Showtime{
		ID:             3,
		MovieID:        5,
		HallID:         2,
		StartTime:      time.Now().Add(48 * time.Hour),
		EndTime:        time.Now().Add(50 * time.Hour),
		Price:          decimal.NewFromFloat(15.00),
		TotalSeats:     100,
		AvailableSeats: 97,
		Status:         domain.ShowtimeStatusActive,
	}, nil)

	w := executeRequest(t, app, http.MethodGet, "/showtimes/3", nil)

	assert.Equal(t, http.StatusOK, w.Code)

	resp := decodeResponse[api.ShowtimeResponse](t, w)
	assert.Equal(t, 3, resp.ID)
	assert.True(t, resp.Bookable)
	assert.False(t, resp.FullyBooked)
}

func TestGetShowtimeNotFound(t *testing.T) {
	showtimeRepo := new(mocks.MockShowtimeRepo)

	app := newTestApplication(func(a *Application) {
		a.showtimeRepo = showtimeRepo
	})

	showtimeRepo.On("GetById", mock.Anything, 999).Return(nil, domain.ErrRecordNotFound)

	w := executeRequest(t, app, http.MethodGet, "/showtimes/999", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
