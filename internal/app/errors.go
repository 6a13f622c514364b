package app

import (
	"errors"
	"net/http"
	"time"

	"github.com/bkarakus/cinema-booking-system/api"
	"github.com/bkarakus/cinema-booking-system/internal/domain"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	appvalidator "github.com/bkarakus/cinema-booking-system/internal/validator"
)

func (app *Application) logError(r *http.Request, err error) {
	var (
		method = r.Method
		uri    = r.URL.RequestURI()
	)

	app.logger.Error(err.Error(), "method", method, "uri", uri)
}

// The errorResponse() method is a generic helper for sending JSON-formatted error
// messages to the client with a given status code.
func (app *Application) errorResponse(w http.ResponseWriter, r *http.Request, status int, message string) {
	resp := api.ErrorResponse{
		Message:   message,
		RequestId: middleware.GetReqID(r.Context()),
		Timestamp: time.Now(),
	}

	err := app.writeJSON(w, status, resp, nil)
	if err != nil {
		app.logError(r, err)
		w.WriteHeader(500)
	}
}

func (app *Application) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logError(r, err)

	message := "The server encountered a problem and could not process your request"
	app.errorResponse(w, r, http.StatusInternalServerError, message)
}

func (app *Application) notFoundResponse(w http.ResponseWriter, r *http.Request) {
	message := "The requested resource not found"
	app.errorResponse(w, r, http.StatusNotFound, message)
}

func (app *Application) badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.errorResponse(w, r, http.StatusBadRequest, err.Error())
}

func (app *Application) failedValidationResponse(w http.ResponseWriter, r *http.Request, err error) {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		app.serverErrorResponse(w, r, err)
		return
	}

	fieldErrors := make([]api.ValidationError, len(validationErrors))
	for i, fieldError := range validationErrors {
		fieldErrors[i] = api.ValidationError{
			Field: fieldError.Field(),
			Issue: appvalidator.ValidationMessage(fieldError),
		}
	}

	resp := api.ValidationErrorResponse{
		Message:          "Request validation failed",
		RequestId:        middleware.GetReqID(r.Context()),
		Timestamp:        time.Now(),
		ValidationErrors: fieldErrors,
	}

	writeErr := app.writeJSON(w, http.StatusUnprocessableEntity, resp, nil)
	if writeErr != nil {
		app.logError(r, writeErr)
		w.WriteHeader(500)
	}
}

// seatConflictResponse reports a reservation conflict together with the exact
// seats that were taken, so the client can refresh its seat map and re-prompt.
func (app *Application) seatConflictResponse(w http.ResponseWriter, r *http.Request, conflictErr *domain.SeatsAlreadyBookedError) {
	resp := api.ErrorResponse{
		Message:            "One or more of the selected seats were just booked by someone else",
		RequestId:          middleware.GetReqID(r.Context()),
		Timestamp:          time.Now(),
		ConflictingSeatIds: conflictErr.SeatIDs,
	}

	err := app.writeJSON(w, http.StatusConflict, resp, nil)
	if err != nil {
		app.logError(r, err)
		w.WriteHeader(500)
	}
}

// bookingErrorResponse maps the booking error taxonomy onto HTTP statuses.
// Anything outside the taxonomy is treated as a server fault.
func (app *Application) bookingErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	var conflictErr *domain.SeatsAlreadyBookedError

	switch {
	case errors.As(err, &conflictErr):
		app.seatConflictResponse(w, r, conflictErr)
	case errors.Is(err, domain.ErrRecordNotFound), errors.Is(err, domain.ErrBookingNotFound):
		app.notFoundResponse(w, r)
	case errors.Is(err, domain.ErrInvalidSeatSelection):
		app.errorResponse(w, r, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, domain.ErrShowtimeNotBookable),
		errors.Is(err, domain.ErrShowtimeAlreadyStarted),
		errors.Is(err, domain.ErrBookingAlreadyCancelled),
		errors.Is(err, domain.ErrBookingNotPending):
		app.errorResponse(w, r, http.StatusConflict, err.Error())
	default:
		app.serverErrorResponse(w, r, err)
	}
}
