package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Bookings persists coaching session requests in Postgres.
type Bookings struct {
	Pool *pgxpool.Pool
}

// Create inserts a booking and fills in the generated id and timestamps.
func (r Bookings) Create(ctx context.Context, b *Booking) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	if b.Status == "" {
		b.Status = BookingStatusPending
	}
	row := r.Pool.QueryRow(ctx, `
		INSERT INTO bookings (id, name, email, phone, program, scheduled_at, notes, status, order_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9, ''))
		RETURNING created_at, updated_at`,
		b.ID, b.Name, b.Email, b.Phone, b.Program, b.ScheduledAt, b.Notes, b.Status, b.OrderID,
	)
	if err := row.Scan(&b.CreatedAt, &b.UpdatedAt); err != nil {
		return fmt.Errorf("insert booking: %w", mapError(err))
	}
	return nil
}

// GetByID loads a single booking.
func (r Bookings) GetByID(ctx context.Context, id uuid.UUID) (Booking, error) {
	var b Booking
	row := r.Pool.QueryRow(ctx, `
		SELECT id, name, email, phone, program, scheduled_at, notes, status, COALESCE(order_id, ''), created_at, updated_at
		FROM bookings WHERE id = $1`, id)
	err := row.Scan(&b.ID, &b.Name, &b.Email, &b.Phone, &b.Program, &b.ScheduledAt, &b.Notes, &b.Status, &b.OrderID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return Booking{}, mapError(err)
	}
	return b, nil
}

// List returns bookings ordered by creation time, newest first.
func (r Bookings) List(ctx context.Context, limit, offset int32) ([]Booking, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.Pool.Query(ctx, `
		SELECT id, name, email, phone, program, scheduled_at, notes, status, COALESCE(order_id, ''), created_at, updated_at
		FROM bookings ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Booking
	for rows.Next() {
		var b Booking
		if err := rows.Scan(&b.ID, &b.Name, &b.Email, &b.Phone, &b.Program, &b.ScheduledAt, &b.Notes, &b.Status, &b.OrderID, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// UpdateStatus moves a booking to the given status.
func (r Bookings) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	tag, err := r.Pool.Exec(ctx, `UPDATE bookings SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ConfirmByOrder marks the booking attached to a gateway order as confirmed.
// Missing attachment is not an error: checkouts can exist without a booking.
func (r Bookings) ConfirmByOrder(ctx context.Context, orderID string) error {
	_, err := r.Pool.Exec(ctx, `UPDATE bookings SET status = $2, updated_at = now() WHERE order_id = $1`, orderID, BookingStatusConfirmed)
	return err
}

func mapError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
