package repository

import (
	"context"
	"errors"

	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/jackc/pgx/v5"
)

// seatLedger keeps a flight's reserved-seat count synchronized with its
// booking rows. Adjustments run inside the caller's transaction so the
// capacity check and the increment cannot be separated by another
// writer's interleaving. The booking repository is the only caller.
type seatLedger struct{}

// Reserve commits n more seats on the flight and returns the new
// reserved count. Fails with ErrInsufficientCapacity when fewer than n
// seats remain available.
func (seatLedger) Reserve(ctx context.Context, tx pgx.Tx, flightID int64, n int) (int, error) {
	var reserved int
	err := tx.QueryRow(ctx, `UPDATE flights SET reserved_seats = reserved_seats + $2, updated_at = now() WHERE id=$1 AND capacity - reserved_seats >= $2 RETURNING reserved_seats`, flightID, n).Scan(&reserved)
	if err == nil {
		return reserved, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, err
	}
	var exists bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM flights WHERE id=$1)`, flightID).Scan(&exists); err != nil {
		return 0, err
	}
	if !exists {
		return 0, domain.ErrFlightNotFound
	}
	return 0, domain.ErrInsufficientCapacity
}

// Release returns n seats to the flight and reports the new reserved
// count. A release that would drive the count negative fails with
// ErrNegativeSeatCount; it cannot happen while the ledger matches the
// booking rows.
func (seatLedger) Release(ctx context.Context, tx pgx.Tx, flightID int64, n int) (int, error) {
	var reserved int
	err := tx.QueryRow(ctx, `UPDATE flights SET reserved_seats = reserved_seats - $2, updated_at = now() WHERE id=$1 AND reserved_seats >= $2 RETURNING reserved_seats`, flightID, n).Scan(&reserved)
	if err == nil {
		return reserved, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, err
	}
	var exists bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM flights WHERE id=$1)`, flightID).Scan(&exists); err != nil {
		return 0, err
	}
	if !exists {
		return 0, domain.ErrFlightNotFound
	}
	return 0, domain.ErrNegativeSeatCount
}
