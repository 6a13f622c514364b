package repository

import (
	"context"
	"errors"

	"github.com/bkarakus/cinema-booking-system/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresUserDirectory is a read-only lookup into the externally-owned users
// table, used by the mail notifier to resolve a recipient address.
type PostgresUserDirectory struct {
	db *pgxpool.Pool
}

func NewPostgresUserDirectory(db *pgxpool.Pool) *PostgresUserDirectory {
	return &PostgresUserDirectory{
		db: db,
	}
}

func (p *PostgresUserDirectory) EmailByUserId(ctx context.Context, userID int) (string, error) {
	var email string

	err := p.db.QueryRow(ctx, `SELECT email FROM users WHERE id = $1`, userID).Scan(&email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", domain.ErrRecordNotFound
		}

		return "", err
	}

	return email, nil
}
