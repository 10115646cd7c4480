package domain

import "errors"

// Failure taxonomy for the booking engine. Repositories and services
// wrap these with %w so callers can match with errors.Is; anything that
// does not match is a non-transient persistence fault.
var (
	ErrFlightNotFound  = errors.New("flight not found")
	ErrBookingNotFound = errors.New("booking not found")
	ErrUserNotFound    = errors.New("user not found")

	ErrInsufficientCapacity = errors.New("not enough available seats")
	ErrInvalidQuantity      = errors.New("invalid seat quantity")
	ErrInvalidFlight        = errors.New("invalid flight definition")
	ErrOwnershipMismatch    = errors.New("booking belongs to another user")
	ErrPermissionDenied     = errors.New("operation not permitted for role")

	ErrDuplicateFlightNumber = errors.New("flight number already exists")
	ErrFlightHasBookings     = errors.New("flight has active bookings")

	// ErrNegativeSeatCount means a release would drive a flight's
	// reserved-seat count below zero. It cannot happen while the seat
	// ledger stays consistent with the booking rows.
	ErrNegativeSeatCount = errors.New("reserved seat count would become negative")

	// ErrStorageBusy is returned once the bounded retry around a unit of
	// work has exhausted its attempts on transient lock contention.
	ErrStorageBusy = errors.New("storage busy, retries exhausted")
)
