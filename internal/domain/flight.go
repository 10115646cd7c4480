package domain

import "time"

type Flight struct {
	ID            int64
	Number        string
	Origin        string
	Destination   string
	Capacity      int
	ReservedSeats int
	PriceCents    int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// AvailableSeats is capacity minus the seats committed to active bookings.
func (f *Flight) AvailableSeats() int {
	return f.Capacity - f.ReservedSeats
}
