package repository

import (
	"context"
	"errors"

	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type FlightRepository interface {
	List(ctx context.Context) ([]domain.Flight, error)
	GetByID(ctx context.Context, id int64) (*domain.Flight, error)
	GetByNumber(ctx context.Context, number string) (*domain.Flight, error)
	Create(ctx context.Context, flight *domain.Flight) error
	Update(ctx context.Context, flight *domain.Flight) error
	// Delete removes a flight that no bookings reference. Deletion while
	// bookings exist fails with ErrFlightHasBookings.
	Delete(ctx context.Context, id int64) error
}

type PGFlightRepository struct {
	db    *pgxpool.Pool
	retry RetryPolicy
}

func NewFlightRepository(db *pgxpool.Pool, retry RetryPolicy) FlightRepository {
	return &PGFlightRepository{db: db, retry: retry}
}

const flightColumns = `id, number, origin, destination, capacity, reserved_seats, price_cents, created_at, updated_at`

func scanFlight(row pgx.Row, f *domain.Flight) error {
	return row.Scan(&f.ID, &f.Number, &f.Origin, &f.Destination, &f.Capacity, &f.ReservedSeats, &f.PriceCents, &f.CreatedAt, &f.UpdatedAt)
}

func (r *PGFlightRepository) List(ctx context.Context) ([]domain.Flight, error) {
	rows, err := r.db.Query(ctx, `SELECT `+flightColumns+` FROM flights ORDER BY number`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	flights := make([]domain.Flight, 0)
	for rows.Next() {
		var f domain.Flight
		if err := scanFlight(rows, &f); err != nil {
			return nil, err
		}
		flights = append(flights, f)
	}
	return flights, rows.Err()
}

func (r *PGFlightRepository) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	var f domain.Flight
	err := scanFlight(r.db.QueryRow(ctx, `SELECT `+flightColumns+` FROM flights WHERE id=$1`, id), &f)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrFlightNotFound
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *PGFlightRepository) GetByNumber(ctx context.Context, number string) (*domain.Flight, error) {
	var f domain.Flight
	err := scanFlight(r.db.QueryRow(ctx, `SELECT `+flightColumns+` FROM flights WHERE number=$1`, number), &f)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrFlightNotFound
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *PGFlightRepository) Create(ctx context.Context, flight *domain.Flight) error {
	err := r.db.QueryRow(ctx, `INSERT INTO flights (number, origin, destination, capacity, price_cents)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, reserved_seats, created_at, updated_at`,
		flight.Number, flight.Origin, flight.Destination, flight.Capacity, flight.PriceCents).
		Scan(&flight.ID, &flight.ReservedSeats, &flight.CreatedAt, &flight.UpdatedAt)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return domain.ErrDuplicateFlightNumber
	}
	return err
}

func (r *PGFlightRepository) Update(ctx context.Context, flight *domain.Flight) error {
	// Capacity may not shrink below the seats already reserved.
	res, err := r.db.Exec(ctx, `UPDATE flights SET origin=$2, destination=$3, capacity=$4, price_cents=$5, updated_at=now()
		WHERE id=$1 AND reserved_seats <= $4`,
		flight.ID, flight.Origin, flight.Destination, flight.Capacity, flight.PriceCents)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		var exists bool
		if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM flights WHERE id=$1)`, flight.ID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return domain.ErrFlightNotFound
		}
		return domain.ErrInsufficientCapacity
	}
	return nil
}

func (r *PGFlightRepository) Delete(ctx context.Context, id int64) error {
	return withRetry(ctx, r.retry, func(ctx context.Context) error {
		return inTx(ctx, r.db, func(tx pgx.Tx) error {
			var bookings int
			if err := tx.QueryRow(ctx, `SELECT count(*) FROM bookings WHERE flight_id=$1`, id).Scan(&bookings); err != nil {
				return err
			}
			if bookings > 0 {
				return domain.ErrFlightHasBookings
			}
			res, err := tx.Exec(ctx, `DELETE FROM flights WHERE id=$1`, id)
			if err != nil {
				return err
			}
			if res.RowsAffected() == 0 {
				return domain.ErrFlightNotFound
			}
			return nil
		})
	})
}

var _ FlightRepository = (*PGFlightRepository)(nil)
