package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		username TEXT UNIQUE NOT NULL,
		email TEXT NOT NULL,
		phone TEXT NOT NULL DEFAULT '',
		role TEXT NOT NULL DEFAULT 'Customer'
	)`,
	`CREATE TABLE IF NOT EXISTS flights (
		id BIGSERIAL PRIMARY KEY,
		number TEXT UNIQUE NOT NULL,
		origin TEXT NOT NULL,
		destination TEXT NOT NULL,
		capacity INTEGER NOT NULL CHECK (capacity > 0),
		reserved_seats INTEGER NOT NULL DEFAULT 0 CHECK (reserved_seats >= 0 AND reserved_seats <= capacity),
		price_cents BIGINT NOT NULL DEFAULT 0 CHECK (price_cents >= 0),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS bookings (
		id BIGSERIAL PRIMARY KEY,
		reference TEXT UNIQUE NOT NULL,
		user_id BIGINT NOT NULL REFERENCES users(id),
		flight_id BIGINT NOT NULL REFERENCES flights(id),
		num_seats INTEGER NOT NULL CHECK (num_seats > 0),
		status TEXT NOT NULL DEFAULT 'PENDING',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS passengers (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		passport_number TEXT NOT NULL,
		date_of_birth TEXT NOT NULL,
		special_requests TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS booking_passengers (
		booking_id BIGINT NOT NULL REFERENCES bookings(id) ON DELETE CASCADE,
		passenger_id BIGINT NOT NULL REFERENCES passengers(id) ON DELETE CASCADE,
		PRIMARY KEY (booking_id, passenger_id)
	)`,
	// Staff accounts so agent operations work on a fresh database.
	`INSERT INTO users (username, email, phone, role)
		VALUES ('admin', 'admin@example.com', '111-111-1111', 'Administrator'),
		       ('agent', 'agent@example.com', '222-222-2222', 'Agent')
		ON CONFLICT (username) DO NOTHING`,
}

// EnsureSchema creates the tables the service needs. Safe to run on
// every start.
func EnsureSchema(ctx context.Context, db *pgxpool.Pool) error {
	for _, stmt := range schemaStatements {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
