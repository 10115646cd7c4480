package domain

import "time"

// Passenger is identity data attached to a booking. The booking engine
// stores and returns it but never inspects it for seat accounting.
type Passenger struct {
	ID              int64
	Name            string
	PassportNumber  string
	DateOfBirth     string
	SpecialRequests string
	CreatedAt       time.Time
}
