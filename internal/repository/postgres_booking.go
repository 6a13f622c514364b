package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bkarakus/cinema-booking-system/internal/domain"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// Booking-number collisions are vanishingly rare, but the unique index makes
// them a hard failure, so the whole reservation transaction is retried with a
// fresh number a couple of times before giving up.
const maxBookingNumberAttempts = 3

type PostgresBookingRepository struct {
	db *pgxpool.Pool
}

func NewPostgresBookingRepository(db *pgxpool.Pool) *PostgresBookingRepository {
	return &PostgresBookingRepository{
		db: db,
	}
}

// Reserve creates a booking for the requested seats inside one transaction.
// The showtime row is locked with FOR UPDATE before the booked-seat set is
// read, so two concurrent reservations for the same showtime serialize and
// the second one observes the first one's seats. Which caller wins the lock
// is unspecified; they are only guaranteed to be mutually exclusive.
func (p *PostgresBookingRepository) Reserve(ctx context.Context, params domain.ReserveParams) (*domain.Booking, error) {
	var booking *domain.Booking

	for attempt := 0; attempt < maxBookingNumberAttempts; attempt++ {
		bookingNumber := domain.NewBookingNumber()

		err := runInTx(ctx, p.db, func(tx pgx.Tx) error {
			b, err := p.reserveInTx(ctx, tx, params, bookingNumber)
			if err != nil {
				return err
			}

			booking = b
			return nil
		})

		if isUniqueViolation(err) {
			continue
		}

		if err != nil {
			return nil, err
		}

		return booking, nil
	}

	return nil, errors.New("could not allocate a unique booking number")
}

func (p *PostgresBookingRepository) reserveInTx(
	ctx context.Context,
	tx pgx.Tx,
	params domain.ReserveParams,
	bookingNumber string) (*domain.Booking, error) {

	query := `
		SELECT id, hall_id, start_time, price, status
		FROM showtimes
		WHERE id = $1
		FOR UPDATE
	`

	var (
		showtime domain.Showtime
		price    pgtype.Numeric
	)

	err := tx.QueryRow(ctx, query, params.ShowtimeID).Scan(
		&showtime.ID,
		&showtime.HallID,
		&showtime.StartTime,
		&price,
		&showtime.Status,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	showtime.Price = numericToDecimal(price)

	if !showtime.Bookable(params.Now) {
		return nil, domain.ErrShowtimeNotBookable
	}

	seats, err := p.retrieveBookableSeats(ctx, tx, showtime.HallID, params.SeatIDs)
	if err != nil {
		return nil, err
	}

	if len(seats) != len(params.SeatIDs) {
		return nil, domain.ErrInvalidSeatSelection
	}

	conflicts, err := p.retrieveConflictingSeatIds(ctx, tx, params.ShowtimeID, params.SeatIDs)
	if err != nil {
		return nil, err
	}

	if len(conflicts) > 0 {
		return nil, &domain.SeatsAlreadyBookedError{SeatIDs: conflicts}
	}

	totalPrice := decimal.Zero
	bookingSeats := make([]domain.BookingSeat, 0, len(params.SeatIDs))

	for _, seatID := range params.SeatIDs {
		seat := seats[seatID]
		totalPrice = totalPrice.Add(showtime.Price.Mul(seat.PriceMultiplier))
		bookingSeats = append(bookingSeats, domain.BookingSeat{
			SeatID:   seat.ID,
			Row:      seat.Row,
			Col:      seat.Col,
			Category: seat.Category,
		})
	}

	booking := &domain.Booking{
		UserID:        params.UserID,
		ShowtimeID:    params.ShowtimeID,
		BookingNumber: bookingNumber,
		Seats:         bookingSeats,
		TotalPrice:    totalPrice,
		Status:        domain.BookingStatusPending,
		PaymentStatus: domain.PaymentStatusPending,
		PaymentMethod: params.PaymentMethod,
	}

	query = `
		INSERT INTO bookings (user_id, showtime_id, booking_number, total_price, status, payment_status, payment_method)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	err = tx.QueryRow(
		ctx,
		query,
		booking.UserID,
		booking.ShowtimeID,
		booking.BookingNumber,
		booking.TotalPrice,
		booking.Status,
		booking.PaymentStatus,
		booking.PaymentMethod).Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt)

	if err != nil {
		return nil, err
	}

	rows := make([][]any, 0, len(bookingSeats))
	for _, seat := range bookingSeats {
		rows = append(rows, []any{
			booking.ID,
			booking.ShowtimeID,
			seat.SeatID,
		})
	}

	_, err = tx.CopyFrom(
		ctx,
		pgx.Identifier{"booking_seats"},
		[]string{"booking_id", "showtime_id", "seat_id"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return nil, err
	}

	// The counter stays exact because it is only ever changed under the
	// showtime lock; the floor mirrors the disjointness check being the
	// actual source of truth.
	query = `
		UPDATE showtimes
		SET available_seats = GREATEST(available_seats - $1, 0), updated_at = NOW()
		WHERE id = $2
	`

	_, err = tx.Exec(ctx, query, len(bookingSeats), booking.ShowtimeID)
	if err != nil {
		return nil, err
	}

	return booking, nil
}

func (p *PostgresBookingRepository) retrieveBookableSeats(
	ctx context.Context,
	tx pgx.Tx,
	hallID int,
	seatIDs []int) (map[int]domain.Seat, error) {

	query := `
		SELECT id, seat_row, seat_col, category, price_multiplier
		FROM seats
		WHERE hall_id = $1 AND id = ANY($2) AND status = 'available'
	`

	rows, err := tx.Query(ctx, query, hallID, seatIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	seats := make(map[int]domain.Seat, len(seatIDs))

	for rows.Next() {
		var (
			seat       domain.Seat
			multiplier pgtype.Numeric
		)

		err = rows.Scan(&seat.ID, &seat.Row, &seat.Col, &seat.Category, &multiplier)
		if err != nil {
			return nil, err
		}

		seat.PriceMultiplier = numericToDecimal(multiplier)
		seats[seat.ID] = seat
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return seats, nil
}

func (p *PostgresBookingRepository) retrieveConflictingSeatIds(
	ctx context.Context,
	tx pgx.Tx,
	showtimeID int,
	seatIDs []int) ([]int, error) {

	query := `
		SELECT DISTINCT bs.seat_id
		FROM booking_seats bs
		JOIN bookings b ON bs.booking_id = b.id
		WHERE b.showtime_id = $1
			AND b.status IN ('pending', 'active')
			AND bs.seat_id = ANY($2)
		ORDER BY bs.seat_id
	`

	rows, err := tx.Query(ctx, query, showtimeID, seatIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	conflicts := make([]int, 0)

	for rows.Next() {
		var seatID int

		if err = rows.Scan(&seatID); err != nil {
			return nil, err
		}

		conflicts = append(conflicts, seatID)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return conflicts, nil
}

// ConfirmPayment transitions a pending booking to active/paid. Confirming an
// already paid booking is a no-op success, so a retrying payment worker can
// deliver the same confirmation more than once.
func (p *PostgresBookingRepository) ConfirmPayment(ctx context.Context, bookingID int) (*domain.Booking, error) {
	var booking *domain.Booking

	err := runInTx(ctx, p.db, func(tx pgx.Tx) error {
		b, err := p.lockBooking(ctx, tx, bookingID)
		if err != nil {
			return err
		}

		if b.IsCancelled() {
			return domain.ErrBookingAlreadyCancelled
		}

		if b.IsPaid() {
			booking = b
			return nil
		}

		query := `
			UPDATE bookings
			SET status = 'active', payment_status = 'paid', updated_at = NOW()
			WHERE id = $1
			RETURNING updated_at
		`

		err = tx.QueryRow(ctx, query, bookingID).Scan(&b.UpdatedAt)
		if err != nil {
			return err
		}

		b.Status = domain.BookingStatusActive
		b.PaymentStatus = domain.PaymentStatusPaid

		booking = b
		return nil
	})

	if err != nil {
		return nil, err
	}

	return booking, nil
}

// Cancel releases a booking's seats. The booking row is locked first, then
// the showtime row; the seat links are kept for audit, so the disjointness
// check above stays status-based.
func (p *PostgresBookingRepository) Cancel(ctx context.Context, params domain.CancelParams) (*domain.Booking, error) {
	var booking *domain.Booking

	err := runInTx(ctx, p.db, func(tx pgx.Tx) error {
		b, err := p.lockBooking(ctx, tx, params.BookingID)
		if err != nil {
			return err
		}

		if b.IsCancelled() {
			return domain.ErrBookingAlreadyCancelled
		}

		if params.RequirePendingPayment && !b.IsPendingPayment() {
			return domain.ErrBookingNotPending
		}

		var startTime time.Time

		query := `SELECT start_time FROM showtimes WHERE id = $1 FOR UPDATE`

		err = tx.QueryRow(ctx, query, b.ShowtimeID).Scan(&startTime)
		if err != nil {
			return err
		}

		if !params.BypassShowtimeCheck && !startTime.After(params.Now) {
			return domain.ErrShowtimeAlreadyStarted
		}

		query = `
			UPDATE bookings
			SET status = 'cancelled',
				payment_status = $1,
				cancellation_reason = $2,
				cancelled_at = $3,
				updated_at = NOW()
			WHERE id = $4
			RETURNING updated_at
		`

		err = tx.QueryRow(ctx, query, params.PaymentOutcome, params.Reason, params.Now, params.BookingID).Scan(&b.UpdatedAt)
		if err != nil {
			return err
		}

		query = `
			UPDATE showtimes
			SET available_seats = LEAST(available_seats + $1, total_seats), updated_at = NOW()
			WHERE id = $2
		`

		_, err = tx.Exec(ctx, query, len(b.Seats), b.ShowtimeID)
		if err != nil {
			return err
		}

		b.Status = domain.BookingStatusCancelled
		b.PaymentStatus = params.PaymentOutcome
		b.CancellationReason = &params.Reason
		b.CancelledAt = &params.Now

		booking = b
		return nil
	})

	if err != nil {
		return nil, err
	}

	return booking, nil
}

func (p *PostgresBookingRepository) GetById(ctx context.Context, bookingID int) (*domain.Booking, error) {
	booking, err := p.retrieveBooking(ctx, p.db, bookingID, "")
	if err != nil {
		return nil, err
	}

	return booking, nil
}

// GetStaleBookingIds returns the candidates of an expiry sweep: bookings
// still pending payment that were created at or before the cutoff. The scan
// takes no locks; each candidate is re-checked under its own lock by Cancel.
func (p *PostgresBookingRepository) GetStaleBookingIds(ctx context.Context, cutoff time.Time) ([]int, error) {
	query := `
		SELECT id
		FROM bookings
		WHERE status = 'pending' AND payment_status = 'pending' AND created_at <= $1
		ORDER BY id
	`

	rows, err := p.db.Query(ctx, query, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]int, 0)

	for rows.Next() {
		var id int

		if err = rows.Scan(&id); err != nil {
			return nil, err
		}

		ids = append(ids, id)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return ids, nil
}

func (p *PostgresBookingRepository) GetSummariesByUserId(
	ctx context.Context,
	userId int,
	filters domain.BookingFilters,
	pagination domain.Pagination) ([]domain.BookingSummary, *domain.Metadata, error) {

	query := `
		SELECT
			COUNT(*) OVER(),
			b.id,
			b.booking_number,
			b.showtime_id,
			s.start_time,
			(SELECT COUNT(*) FROM booking_seats bs WHERE bs.booking_id = b.id),
			b.total_price,
			b.status,
			b.payment_status,
			b.created_at
		FROM bookings b
		JOIN showtimes s ON b.showtime_id = s.id
		WHERE b.user_id = $1
			AND ($2 = '' OR b.status = $2)
			AND ($3 = '' OR b.payment_status = $3)
		ORDER BY b.created_at DESC, b.id DESC
		LIMIT $4 OFFSET $5
	`

	rows, err := p.db.Query(
		ctx,
		query,
		userId,
		string(filters.Status),
		string(filters.PaymentStatus),
		pagination.Limit(),
		pagination.Offset(),
	)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	summaries := make([]domain.BookingSummary, 0)
	totalRecords := 0

	for rows.Next() {
		var (
			summary domain.BookingSummary
			price   pgtype.Numeric
		)

		err = rows.Scan(
			&totalRecords,
			&summary.ID,
			&summary.BookingNumber,
			&summary.ShowtimeID,
			&summary.ShowtimeDate,
			&summary.SeatCount,
			&price,
			&summary.Status,
			&summary.PaymentStatus,
			&summary.CreatedAt,
		)
		if err != nil {
			return nil, nil, err
		}

		summary.TotalPrice = numericToDecimal(price)
		summaries = append(summaries, summary)
	}

	if err = rows.Err(); err != nil {
		return nil, nil, err
	}

	metadata := domain.NewMetadata(totalRecords, pagination.Page, pagination.PageSize)

	return summaries, metadata, nil
}

// lockBooking reads a booking with FOR UPDATE so a state transition is
// guarded against concurrent transitions of the same booking.
func (p *PostgresBookingRepository) lockBooking(ctx context.Context, tx pgx.Tx, bookingID int) (*domain.Booking, error) {
	return p.retrieveBooking(ctx, tx, bookingID, "FOR UPDATE OF b")
}

type pgxQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (p *PostgresBookingRepository) retrieveBooking(
	ctx context.Context,
	q pgxQuerier,
	bookingID int,
	lockClause string) (*domain.Booking, error) {

	query := `
		SELECT
			b.id,
			b.user_id,
			b.showtime_id,
			b.booking_number,
			b.total_price,
			b.status,
			b.payment_status,
			b.payment_method,
			b.cancellation_reason,
			b.cancelled_at,
			b.created_at,
			b.updated_at
		FROM bookings b
		WHERE b.id = $1
	` + lockClause

	var (
		booking domain.Booking
		price   pgtype.Numeric
	)

	err := q.QueryRow(ctx, query, bookingID).Scan(
		&booking.ID,
		&booking.UserID,
		&booking.ShowtimeID,
		&booking.BookingNumber,
		&price,
		&booking.Status,
		&booking.PaymentStatus,
		&booking.PaymentMethod,
		&booking.CancellationReason,
		&booking.CancelledAt,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBookingNotFound
		}

		return nil, err
	}

	booking.TotalPrice = numericToDecimal(price)

	seats, err := p.retrieveBookingSeats(ctx, q, bookingID)
	if err != nil {
		return nil, err
	}

	booking.Seats = seats

	return &booking, nil
}

func (p *PostgresBookingRepository) retrieveBookingSeats(
	ctx context.Context,
	q pgxQuerier,
	bookingID int) ([]domain.BookingSeat, error) {

	query := `
		SELECT s.id, s.seat_row, s.seat_col, s.category
		FROM booking_seats bs
		JOIN seats s ON bs.seat_id = s.id
		WHERE bs.booking_id = $1
		ORDER BY s.seat_row, s.seat_col
	`

	rows, err := q.Query(ctx, query, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	seats := make([]domain.BookingSeat, 0)

	for rows.Next() {
		var seat domain.BookingSeat

		err = rows.Scan(&seat.SeatID, &seat.Row, &seat.Col, &seat.Category)
		if err != nil {
			return nil, err
		}

		seats = append(seats, seat)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return seats, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
