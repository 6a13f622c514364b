package app

import (
	"net/http"
	"time"

	"github.com/bkarakus/cinema-booking-system/api"
)

func (app *Application) GetShowtimeHandler(w http.ResponseWriter, r *http.Request) {
	showtimeId, err := app.readIDParam(r, "showtimeId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	showtime, err := app.showtimeRepo.GetById(r.Context(), showtimeId)
	if err != nil {
		app.bookingErrorResponse(w, r, err)
		return
	}

	now := time.Now()

	resp := api.ShowtimeResponse{
		ID:             showtime.ID,
		MovieID:        showtime.MovieID,
		HallID:         showtime.HallID,
		StartTime:      showtime.StartTime,
		EndTime:        showtime.EndTime,
		Price:          showtime.Price,
		TotalSeats:     showtime.TotalSeats,
		AvailableSeats: showtime.AvailableSeats,
		Status:         string(showtime.Status),
		Bookable:       showtime.Bookable(now),
		FullyBooked:    showtime.IsFullyBooked(),
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
