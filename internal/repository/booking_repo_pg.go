package repository

import (
	"context"
	"errors"

	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CancelOutcome reports which flight was credited and how many seats
// came back. BookingDeleted is set on full cancellation.
type CancelOutcome struct {
	FlightID       int64
	SeatsCancelled int
	BookingDeleted bool
}

type BookingRepository interface {
	// Create reserves booking.NumSeats on the flight and inserts the
	// booking row as one durable unit.
	Create(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	ListForUser(ctx context.Context, userID int64) ([]domain.Booking, error)
	ListAll(ctx context.Context) ([]domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) (*domain.Booking, error)
	// CancelSeats releases numSeats on the ledger and shrinks or deletes
	// the booking row in the same transaction. With enforceOwner set the
	// booking must belong to ownerID.
	CancelSeats(ctx context.Context, id int64, numSeats int, ownerID int64, enforceOwner bool) (*CancelOutcome, error)
	// CancelAll deletes the booking and releases every seat it holds.
	// The seat count is resolved under the row lock, so a concurrent
	// partial cancellation cannot desynchronize the release.
	CancelAll(ctx context.Context, id int64) (*CancelOutcome, error)
	// Resize moves the booking to newNumSeats, reserving or releasing
	// the difference on the ledger.
	Resize(ctx context.Context, id int64, newNumSeats int) (*domain.Booking, error)
}

type PGBookingRepository struct {
	db     *pgxpool.Pool
	retry  RetryPolicy
	ledger seatLedger
}

func NewBookingRepository(db *pgxpool.Pool, retry RetryPolicy) BookingRepository {
	return &PGBookingRepository{db: db, retry: retry}
}

const bookingColumns = `id, reference, user_id, flight_id, num_seats, status, created_at, updated_at`

func scanBooking(row pgx.Row, b *domain.Booking) error {
	return row.Scan(&b.ID, &b.Reference, &b.UserID, &b.FlightID, &b.NumSeats, &b.Status, &b.CreatedAt, &b.UpdatedAt)
}

func (r *PGBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	return withRetry(ctx, r.retry, func(ctx context.Context) error {
		return inTx(ctx, r.db, func(tx pgx.Tx) error {
			if _, err := r.ledger.Reserve(ctx, tx, booking.FlightID, booking.NumSeats); err != nil {
				return err
			}
			booking.Status = domain.BookingStatusPending
			return tx.QueryRow(ctx, `INSERT INTO bookings (reference, user_id, flight_id, num_seats, status)
				VALUES ($1, $2, $3, $4, $5)
				RETURNING id, created_at, updated_at`,
				booking.Reference, booking.UserID, booking.FlightID, booking.NumSeats, booking.Status).
				Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt)
		})
	})
}

func (r *PGBookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	var b domain.Booking
	err := scanBooking(r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id=$1`, id), &b)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *PGBookingRepository) ListForUser(ctx context.Context, userID int64) ([]domain.Booking, error) {
	return r.list(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE user_id=$1 ORDER BY created_at`, userID)
}

func (r *PGBookingRepository) ListAll(ctx context.Context) ([]domain.Booking, error) {
	return r.list(ctx, `SELECT `+bookingColumns+` FROM bookings ORDER BY created_at`)
}

func (r *PGBookingRepository) list(ctx context.Context, query string, args ...any) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]domain.Booking, 0)
	for rows.Next() {
		var b domain.Booking
		if err := scanBooking(rows, &b); err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

func (r *PGBookingRepository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) (*domain.Booking, error) {
	var b domain.Booking
	err := scanBooking(r.db.QueryRow(ctx, `UPDATE bookings SET status=$2, updated_at=now() WHERE id=$1 RETURNING `+bookingColumns, id, status), &b)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *PGBookingRepository) CancelSeats(ctx context.Context, id int64, numSeats int, ownerID int64, enforceOwner bool) (*CancelOutcome, error) {
	var out CancelOutcome
	err := withRetry(ctx, r.retry, func(ctx context.Context) error {
		out = CancelOutcome{}
		return inTx(ctx, r.db, func(tx pgx.Tx) error {
			var (
				flightID     int64
				bookingOwner int64
				current      int
			)
			err := tx.QueryRow(ctx, `SELECT flight_id, user_id, num_seats FROM bookings WHERE id=$1 FOR UPDATE`, id).
				Scan(&flightID, &bookingOwner, &current)
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrBookingNotFound
			}
			if err != nil {
				return err
			}
			if enforceOwner && bookingOwner != ownerID {
				return domain.ErrOwnershipMismatch
			}
			if numSeats <= 0 || numSeats > current {
				return domain.ErrInvalidQuantity
			}

			if _, err := r.ledger.Release(ctx, tx, flightID, numSeats); err != nil {
				return err
			}
			if numSeats < current {
				_, err = tx.Exec(ctx, `UPDATE bookings SET num_seats = num_seats - $2, updated_at = now() WHERE id=$1`, id, numSeats)
			} else {
				out.BookingDeleted = true
				_, err = tx.Exec(ctx, `DELETE FROM bookings WHERE id=$1`, id)
			}
			if err != nil {
				return err
			}
			out.FlightID = flightID
			out.SeatsCancelled = numSeats
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *PGBookingRepository) CancelAll(ctx context.Context, id int64) (*CancelOutcome, error) {
	var out CancelOutcome
	err := withRetry(ctx, r.retry, func(ctx context.Context) error {
		out = CancelOutcome{}
		return inTx(ctx, r.db, func(tx pgx.Tx) error {
			var (
				flightID int64
				current  int
			)
			err := tx.QueryRow(ctx, `SELECT flight_id, num_seats FROM bookings WHERE id=$1 FOR UPDATE`, id).
				Scan(&flightID, &current)
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrBookingNotFound
			}
			if err != nil {
				return err
			}

			if _, err := r.ledger.Release(ctx, tx, flightID, current); err != nil {
				return err
			}
			if _, err := tx.Exec(ctx, `DELETE FROM bookings WHERE id=$1`, id); err != nil {
				return err
			}
			out = CancelOutcome{FlightID: flightID, SeatsCancelled: current, BookingDeleted: true}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *PGBookingRepository) Resize(ctx context.Context, id int64, newNumSeats int) (*domain.Booking, error) {
	if newNumSeats <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	var updated domain.Booking
	err := withRetry(ctx, r.retry, func(ctx context.Context) error {
		return inTx(ctx, r.db, func(tx pgx.Tx) error {
			var (
				flightID int64
				current  int
			)
			err := tx.QueryRow(ctx, `SELECT flight_id, num_seats FROM bookings WHERE id=$1 FOR UPDATE`, id).
				Scan(&flightID, &current)
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrBookingNotFound
			}
			if err != nil {
				return err
			}

			switch delta := newNumSeats - current; {
			case delta > 0:
				if _, err := r.ledger.Reserve(ctx, tx, flightID, delta); err != nil {
					return err
				}
			case delta < 0:
				if _, err := r.ledger.Release(ctx, tx, flightID, -delta); err != nil {
					return err
				}
			}
			return scanBooking(tx.QueryRow(ctx, `UPDATE bookings SET num_seats=$2, updated_at=now() WHERE id=$1 RETURNING `+bookingColumns, id, newNumSeats), &updated)
		})
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

var _ BookingRepository = (*PGBookingRepository)(nil)
