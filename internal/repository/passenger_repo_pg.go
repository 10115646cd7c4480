package repository

import (
	"context"

	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PassengerRepository interface {
	// CreateAndLink inserts the passenger and attaches it to the booking
	// in one transaction.
	CreateAndLink(ctx context.Context, bookingID int64, passenger *domain.Passenger) error
	ListForBooking(ctx context.Context, bookingID int64) ([]domain.Passenger, error)
}

type PGPassengerRepository struct {
	db    *pgxpool.Pool
	retry RetryPolicy
}

func NewPassengerRepository(db *pgxpool.Pool, retry RetryPolicy) PassengerRepository {
	return &PGPassengerRepository{db: db, retry: retry}
}

func (r *PGPassengerRepository) CreateAndLink(ctx context.Context, bookingID int64, passenger *domain.Passenger) error {
	return withRetry(ctx, r.retry, func(ctx context.Context) error {
		return inTx(ctx, r.db, func(tx pgx.Tx) error {
			err := tx.QueryRow(ctx, `INSERT INTO passengers (name, passport_number, date_of_birth, special_requests)
				VALUES ($1, $2, $3, $4)
				RETURNING id, created_at`,
				passenger.Name, passenger.PassportNumber, passenger.DateOfBirth, passenger.SpecialRequests).
				Scan(&passenger.ID, &passenger.CreatedAt)
			if err != nil {
				return err
			}
			_, err = tx.Exec(ctx, `INSERT INTO booking_passengers (booking_id, passenger_id) VALUES ($1, $2)`, bookingID, passenger.ID)
			return err
		})
	})
}

func (r *PGPassengerRepository) ListForBooking(ctx context.Context, bookingID int64) ([]domain.Passenger, error) {
	rows, err := r.db.Query(ctx, `SELECT p.id, p.name, p.passport_number, p.date_of_birth, p.special_requests, p.created_at
		FROM passengers p
		JOIN booking_passengers bp ON bp.passenger_id = p.id
		WHERE bp.booking_id = $1
		ORDER BY p.id`, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	passengers := make([]domain.Passenger, 0)
	for rows.Next() {
		var p domain.Passenger
		if err := rows.Scan(&p.ID, &p.Name, &p.PassportNumber, &p.DateOfBirth, &p.SpecialRequests, &p.CreatedAt); err != nil {
			return nil, err
		}
		passengers = append(passengers, p)
	}
	return passengers, rows.Err()
}

var _ PassengerRepository = (*PGPassengerRepository)(nil)
