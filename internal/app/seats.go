package app

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/bkarakus/cinema-booking-system/api"
	"github.com/bkarakus/cinema-booking-system/internal/domain"
	"github.com/redis/go-redis/v9"
)

const seatMapCacheTTL = 5 * time.Minute

// GetShowtimeSeatsHandler returns the seat layout of a showtime's hall with
// per-seat availability. The response is cached briefly; availability shown
// here is advisory and every reservation re-checks under the showtime lock.
func (app *Application) GetShowtimeSeatsHandler(w http.ResponseWriter, r *http.Request) {
	showtimeId, err := app.readIDParam(r, "showtimeId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	cacheKey := seatMapCacheKey(showtimeId)

	cached, err := app.redis.Get(r.Context(), cacheKey).Bytes()
	if err == nil {
		var resp api.SeatMapResponse
		if err := json.Unmarshal(cached, &resp); err == nil {
			app.writeJSON(w, http.StatusOK, resp, nil)
			return
		}
	} else if err != redis.Nil {
		app.logger.Error("seat map cache read failed", "showtime_id", showtimeId, "error", err)
	}

	seatMap, err := app.seatRepo.GetSeatMapByShowtime(r.Context(), showtimeId)
	if err != nil {
		app.bookingErrorResponse(w, r, err)
		return
	}

	resp := toSeatMapResponse(seatMap)

	if data, err := json.Marshal(resp); err == nil {
		if err := app.redis.Set(r.Context(), cacheKey, data, seatMapCacheTTL).Err(); err != nil {
			app.logger.Error("seat map cache write failed", "showtime_id", showtimeId, "error", err)
		}
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// invalidateSeatMapCache drops the cached seat map after seats change hands.
// A failure only delays freshness until the TTL runs out, so it is logged and
// ignored.
func (app *Application) invalidateSeatMapCache(r *http.Request, showtimeId int) {
	err := app.redis.Del(r.Context(), seatMapCacheKey(showtimeId)).Err()
	if err != nil {
		app.logger.Error("seat map cache invalidation failed", "showtime_id", showtimeId, "error", err)
	}
}

func seatMapCacheKey(showtimeId int) string {
	return fmt.Sprintf("seatmap:%d", showtimeId)
}

func toSeatMapResponse(seatMap *domain.SeatMap) api.SeatMapResponse {
	resp := api.SeatMapResponse{
		ShowtimeID:     seatMap.ShowtimeID,
		HallID:         seatMap.HallID,
		HallName:       seatMap.HallName,
		BasePrice:      seatMap.BasePrice,
		AvailableSeats: seatMap.AvailableSeats,
		SeatRows:       []api.SeatRow{},
	}

	// Seats arrive ordered by row and column, so rows can be built in a
	// single pass.
	for _, seat := range seatMap.Seats {
		apiSeat := api.Seat{
			ID:         seat.ID,
			Row:        seat.Row,
			Column:     seat.Col,
			Category:   string(seat.Category),
			Multiplier: seat.PriceMultiplier,
			Available:  seat.Available,
		}

		n := len(resp.SeatRows)
		if n == 0 || resp.SeatRows[n-1].Row != seat.Row {
			resp.SeatRows = append(resp.SeatRows, api.SeatRow{Row: seat.Row})
			n++
		}

		resp.SeatRows[n-1].Seats = append(resp.SeatRows[n-1].Seats, apiSeat)
	}

	return resp
}
