package integration_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"
)

func prepareRequest(method, path string, body io.Reader, headers map[string]string) (*http.Request, error) {
	req := httptest.NewRequest(method, path, body)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req, nil
}

func compareResponse(t *testing.T, body io.Reader, expectedResponse string) {
	var actual map[string]any
	require.NoError(t, json.NewDecoder(body).Decode(&actual))

	var expected map[string]any
	require.NoError(t, json.Unmarshal([]byte(expectedResponse), &expected))

	// ignore indeterministic fields while comparing
	opts := cmpopts.IgnoreMapEntries(func(k string, _ any) bool {
		return k == "timestamp" || k == "requestId" || k == "createdAt" ||
			k == "bookingNumber" || k == "id" || k == "cancelledAt"
	})

	if diff := cmp.Diff(expected, actual, opts); diff != "" {
		t.Errorf("response mismatch (-want +got):\n%s", diff)
	}
}

// createUser inserts a user and returns its ID.
func createUser(t testing.TB, app *TestApp, name, email string) int {
	t.Helper()

	var id int
	err := app.DB.QueryRow(
		context.Background(),
		`INSERT INTO users (name, email) VALUES ($1, $2) RETURNING id`,
		name, email,
	).Scan(&id)
	require.NoError(t, err)

	return id
}

// createHallWithSeats inserts a hall with a rows x cols grid of available
// standard seats and returns the hall ID plus the seat IDs in row-major order.
func createHallWithSeats(t testing.TB, app *TestApp, name string, rows, cols int) (int, []int) {
	t.Helper()

	ctx := context.Background()

	var hallID int
	err := app.DB.QueryRow(
		ctx,
		`INSERT INTO halls (name, row_count, col_count, capacity) VALUES ($1, $2, $3, $4) RETURNING id`,
		name, rows, cols, rows*cols,
	).Scan(&hallID)
	require.NoError(t, err)

	seatIDs := make([]int, 0, rows*cols)

	for row := 1; row <= rows; row++ {
		for col := 1; col <= cols; col++ {
			var seatID int
			err := app.DB.QueryRow(
				ctx,
				`INSERT INTO seats (hall_id, seat_row, seat_col) VALUES ($1, $2, $3) RETURNING id`,
				hallID, row, col,
			).Scan(&seatID)
			require.NoError(t, err)

			seatIDs = append(seatIDs, seatID)
		}
	}

	return hallID, seatIDs
}

// createShowtime inserts a showtime over the given hall with all seats open.
func createShowtime(t testing.TB, app *TestApp, hallID, totalSeats int, startTime time.Time, price string) int {
	t.Helper()

	var id int
	err := app.DB.QueryRow(
		context.Background(),
		`INSERT INTO showtimes (movie_id, hall_id, start_time, end_time, price, total_seats, available_seats)
		 VALUES (1, $1, $2, $3, $4, $5, $5)
		 RETURNING id`,
		hallID, startTime, startTime.Add(2*time.Hour), price, totalSeats,
	).Scan(&id)
	require.NoError(t, err)

	return id
}

func availableSeats(t testing.TB, app *TestApp, showtimeID int) int {
	t.Helper()

	var n int
	err := app.DB.QueryRow(
		context.Background(),
		`SELECT available_seats FROM showtimes WHERE id = $1`,
		showtimeID,
	).Scan(&n)
	require.NoError(t, err)

	return n
}

func bookingState(t testing.TB, app *TestApp, bookingID int) (string, string) {
	t.Helper()

	var status, paymentStatus string
	err := app.DB.QueryRow(
		context.Background(),
		`SELECT status, payment_status FROM bookings WHERE id = $1`,
		bookingID,
	).Scan(&status, &paymentStatus)
	require.NoError(t, err)

	return status, paymentStatus
}

// backdateBooking rewinds a booking's created_at so it falls behind an expiry
// cutoff.
func backdateBooking(t testing.TB, app *TestApp, bookingID int, age time.Duration) {
	t.Helper()

	_, err := app.DB.Exec(
		context.Background(),
		`UPDATE bookings SET created_at = created_at - make_interval(secs => $1) WHERE id = $2`,
		age.Seconds(), bookingID,
	)
	require.NoError(t, err)
}
