package app

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bkarakus/cinema-booking-system/internal/booking"
	"github.com/bkarakus/cinema-booking-system/internal/mocks"
	"github.com/bkarakus/cinema-booking-system/internal/validator"
)

var testNow = time.Date(2025, time.June, 15, 18, 0, 0, 0, time.UTC)

func newTestApplication(opts ...func(*Application)) *Application {
	app := &Application{
		config:    Config{Env: "test"},
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		validator: validator.NewValidator(),
	}

	for _, opt := range opts {
		opt(app)
	}

	return app
}

// newTestBookingService builds a real service over a mocked repository, so
// handler tests exercise the service's error mapping as well.
func newTestBookingService(repo *mocks.MockBookingRepo) *booking.Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return booking.NewService(repo, &mocks.MockNotifier{}, logger, booking.WithNowFunc(func() time.Time {
		return testNow
	}))
}

func executeRequest(t *testing.T, app *Application, method, url string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader

	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(jsonData)
	}

	r := httptest.NewRequest(method, url, reader)
	if body != nil {
		r.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	app.Routes().ServeHTTP(w, r)

	return w
}

func decodeResponse[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	if err := json.NewDecoder(w.Body).Decode(&v); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	return v
}
