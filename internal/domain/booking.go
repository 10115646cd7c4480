package domain

import "time"

type BookingStatus string

const (
	BookingStatusPending BookingStatus = "PENDING"
	BookingStatusPaid    BookingStatus = "PAID"
)

// Booking is a counted seat reservation on a flight. A fully cancelled
// booking is deleted, not retagged, so every persisted row is active.
type Booking struct {
	ID        int64
	Reference string
	UserID    int64
	FlightID  int64
	NumSeats  int
	Status    BookingStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}
