package repository

import (
	"context"
	"errors"

	"github.com/bkarakus/cinema-booking-system/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresSeatRepository struct {
	db *pgxpool.Pool
}

func NewPostgresSeatRepository(db *pgxpool.Pool) *PostgresSeatRepository {
	return &PostgresSeatRepository{
		db: db,
	}
}

// GetSeatMapByShowtime reads the hall layout and the currently booked seats
// of a showtime without taking any lock. The result serves display only;
// reservation decisions are always re-validated under the showtime lock.
func (p *PostgresSeatRepository) GetSeatMapByShowtime(ctx context.Context, showtimeID int) (*domain.SeatMap, error) {
	query := `
		SELECT
			sh.id,
			h.id AS hall_id,
			h.name AS hall_name,
			sh.price,
			sh.available_seats,
			se.id AS seat_id,
			se.seat_row,
			se.seat_col,
			se.category,
			se.status,
			se.price_multiplier
		FROM showtimes sh
		JOIN halls h
			ON sh.hall_id = h.id
		JOIN seats se
			ON se.hall_id = h.id
		WHERE sh.id = $1
		ORDER BY se.seat_row, se.seat_col
	`

	rows, err := p.db.Query(ctx, query, showtimeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var seatMap domain.SeatMap

	for rows.Next() {
		var (
			seat       domain.Seat
			price      pgtype.Numeric
			multiplier pgtype.Numeric
		)

		err = rows.Scan(
			&seatMap.ShowtimeID,
			&seatMap.HallID,
			&seatMap.HallName,
			&price,
			&seatMap.AvailableSeats,
			&seat.ID,
			&seat.Row,
			&seat.Col,
			&seat.Category,
			&seat.Status,
			&multiplier,
		)
		if err != nil {
			return nil, err
		}

		seatMap.BasePrice = numericToDecimal(price)
		seat.PriceMultiplier = numericToDecimal(multiplier)
		seat.Available = seat.Status == domain.SeatStatusAvailable

		seatMap.Seats = append(seatMap.Seats, seat)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	if len(seatMap.Seats) == 0 {
		return nil, domain.ErrRecordNotFound
	}

	bookedSeatIds, err := p.retrieveBookedSeatIds(ctx, showtimeID)
	if err != nil {
		return nil, err
	}

	for i := range seatMap.Seats {
		if bookedSeatIds[seatMap.Seats[i].ID] {
			seatMap.Seats[i].Available = false
		}
	}

	return &seatMap, nil
}

func (p *PostgresSeatRepository) retrieveBookedSeatIds(ctx context.Context, showtimeID int) (map[int]bool, error) {
	query := `
		SELECT bs.seat_id
		FROM booking_seats bs
		JOIN bookings b ON bs.booking_id = b.id
		WHERE b.showtime_id = $1 AND b.status IN ('pending', 'active')
	`

	rows, err := p.db.Query(ctx, query, showtimeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookedSeatIds := make(map[int]bool)

	for rows.Next() {
		var seatID int

		if err = rows.Scan(&seatID); err != nil {
			return nil, err
		}

		bookedSeatIds[seatID] = true
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return bookedSeatIds, nil
}

type PostgresShowtimeRepository struct {
	db *pgxpool.Pool
}

func NewPostgresShowtimeRepository(db *pgxpool.Pool) *PostgresShowtimeRepository {
	return &PostgresShowtimeRepository{
		db: db,
	}
}

func (p *PostgresShowtimeRepository) GetById(ctx context.Context, id int) (*domain.Showtime, error) {
	query := `
		SELECT id, movie_id, hall_id, start_time, end_time, price, total_seats, available_seats, status
		FROM showtimes
		WHERE id = $1
	`

	var (
		showtime domain.Showtime
		price    pgtype.Numeric
	)

	err := p.db.QueryRow(ctx, query, id).Scan(
		&showtime.ID,
		&showtime.MovieID,
		&showtime.HallID,
		&showtime.StartTime,
		&showtime.EndTime,
		&price,
		&showtime.TotalSeats,
		&showtime.AvailableSeats,
		&showtime.Status,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	showtime.Price = numericToDecimal(price)

	return &showtime, nil
}
