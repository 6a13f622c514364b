package app

import (
	"net/http"

	"github.com/bkarakus/cinema-booking-system/api"
	"github.com/bkarakus/cinema-booking-system/internal/domain"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

func (app *Application) CreateBookingHandler(w http.ResponseWriter, r *http.Request) {
	var req api.CreateBookingRequest

	err := app.readJSON(w, r, &req)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(req)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	booking, err := app.bookingService.Reserve(r.Context(), req.ShowtimeID, req.UserID, req.SeatIDs, domain.PaymentMethod(req.PaymentMethod))
	if err != nil {
		app.bookingErrorResponse(w, r, err)
		return
	}

	app.invalidateSeatMapCache(r, booking.ShowtimeID)

	resp := toBookingResponse(booking)

	err = app.writeJSON(w, http.StatusCreated, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetBookingHandler(w http.ResponseWriter, r *http.Request) {
	bookingId, err := app.readIDParam(r, "bookingId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	booking, err := app.bookingService.GetBooking(r.Context(), bookingId)
	if err != nil {
		app.bookingErrorResponse(w, r, err)
		return
	}

	resp := toBookingResponse(booking)

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) ConfirmPaymentHandler(w http.ResponseWriter, r *http.Request) {
	bookingId, err := app.readIDParam(r, "bookingId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	booking, err := app.bookingService.ConfirmPayment(r.Context(), bookingId)
	if err != nil {
		app.bookingErrorResponse(w, r, err)
		return
	}

	resp := toBookingResponse(booking)

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// PaymentFailureHandler is the callback for a failed payment attempt: the
// booking is cancelled with a failed payment outcome and its seats go back on
// sale immediately instead of waiting for the expiry sweep.
func (app *Application) PaymentFailureHandler(w http.ResponseWriter, r *http.Request) {
	bookingId, err := app.readIDParam(r, "bookingId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	booking, err := app.bookingService.Cancel(r.Context(), bookingId, "Payment failed", domain.PaymentStatusFailed)
	if err != nil {
		app.bookingErrorResponse(w, r, err)
		return
	}

	app.invalidateSeatMapCache(r, booking.ShowtimeID)

	resp := toBookingResponse(booking)

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) CancelBookingHandler(w http.ResponseWriter, r *http.Request) {
	bookingId, err := app.readIDParam(r, "bookingId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var req api.CancelBookingRequest

	// The cancellation reason is optional, so an empty body is allowed.
	if r.ContentLength > 0 {
		err = app.readJSON(w, r, &req)
		if err != nil {
			app.badRequestResponse(w, r, err)
			return
		}

		err = app.validator.Struct(req)
		if err != nil {
			app.failedValidationResponse(w, r, err)
			return
		}
	}

	booking, err := app.bookingService.Cancel(r.Context(), bookingId, req.Reason, domain.PaymentStatusCancelled)
	if err != nil {
		app.bookingErrorResponse(w, r, err)
		return
	}

	app.invalidateSeatMapCache(r, booking.ShowtimeID)

	resp := toBookingResponse(booking)

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetUserBookingsHandler(w http.ResponseWriter, r *http.Request) {
	userId, err := app.readIDParam(r, "userId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	pagination := domain.Pagination{
		Page:     app.readQueryInt(r, "page", DefaultPage),
		PageSize: app.readQueryInt(r, "pageSize", DefaultPageSize),
	}

	if pagination.Page < 1 || pagination.PageSize < 1 || pagination.PageSize > MaxPageSize {
		app.errorResponse(w, r, http.StatusUnprocessableEntity, "invalid pagination parameters")
		return
	}

	filters := domain.BookingFilters{
		Status:        domain.BookingStatus(r.URL.Query().Get("status")),
		PaymentStatus: domain.PaymentStatus(r.URL.Query().Get("paymentStatus")),
	}

	summaries, metadata, err := app.bookingService.GetUserBookings(r.Context(), userId, filters, pagination)
	if err != nil {
		app.bookingErrorResponse(w, r, err)
		return
	}

	resp := api.UserBookingsResponse{
		Bookings: toBookingSummaries(summaries),
		Metadata: toApiMetadata(metadata),
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func toBookingResponse(booking *domain.Booking) api.BookingResponse {
	seats := make([]api.BookingSeat, len(booking.Seats))

	for i, seat := range booking.Seats {
		seats[i] = api.BookingSeat{
			SeatID:   seat.SeatID,
			Row:      seat.Row,
			Column:   seat.Col,
			Category: string(seat.Category),
		}
	}

	return api.BookingResponse{
		ID:                 booking.ID,
		BookingNumber:      booking.BookingNumber,
		UserID:             booking.UserID,
		ShowtimeID:         booking.ShowtimeID,
		Seats:              seats,
		TotalPrice:         booking.TotalPrice,
		Status:             string(booking.Status),
		PaymentStatus:      string(booking.PaymentStatus),
		PaymentMethod:      string(booking.PaymentMethod),
		CancellationReason: booking.CancellationReason,
		CancelledAt:        booking.CancelledAt,
		CreatedAt:          booking.CreatedAt,
	}
}

func toBookingSummaries(summaries []domain.BookingSummary) []api.BookingSummary {
	bookingSummaries := make([]api.BookingSummary, len(summaries))

	for i, v := range summaries {
		bookingSummaries[i] = api.BookingSummary{
			ID:            v.ID,
			BookingNumber: v.BookingNumber,
			ShowtimeID:    v.ShowtimeID,
			ShowtimeDate:  v.ShowtimeDate,
			SeatCount:     v.SeatCount,
			TotalPrice:    v.TotalPrice,
			Status:        string(v.Status),
			PaymentStatus: string(v.PaymentStatus),
			CreatedAt:     v.CreatedAt,
		}
	}

	return bookingSummaries
}

func toApiMetadata(metadata *domain.Metadata) api.Metadata {
	if metadata == nil {
		return api.Metadata{}
	}

	return api.Metadata{
		CurrentPage:  metadata.CurrentPage,
		FirstPage:    metadata.FirstPage,
		LastPage:     metadata.LastPage,
		PageSize:     metadata.PageSize,
		TotalRecords: metadata.TotalRecords,
	}
}
