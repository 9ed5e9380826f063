package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Payments persists gateway orders and their notification history.
type Payments struct {
	Pool *pgxpool.Pool
}

// Create inserts a payment row for a freshly built checkout.
func (r Payments) Create(ctx context.Context, p *Payment) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Status == "" {
		p.Status = PaymentStatusPending
	}
	row := r.Pool.QueryRow(ctx, `
		INSERT INTO payments (id, order_id, booking_id, reference, amount, currency, status, customer_name, customer_email)
		VALUES ($1, $2, $3, $4, $5::numeric, $6, $7, $8, $9)
		RETURNING created_at, updated_at`,
		p.ID, p.OrderID, p.BookingID, p.Reference, p.Amount, p.Currency, p.Status, p.CustomerName, p.CustomerEmail,
	)
	if err := row.Scan(&p.CreatedAt, &p.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicate
		}
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

// GetByOrderID loads the payment attached to a gateway order id.
func (r Payments) GetByOrderID(ctx context.Context, orderID string) (Payment, error) {
	var p Payment
	row := r.Pool.QueryRow(ctx, `
		SELECT id, order_id, booking_id, reference, amount::text, currency, status,
		       COALESCE(transaction_id, ''), customer_name, customer_email, created_at, updated_at
		FROM payments WHERE order_id = $1`, orderID)
	err := row.Scan(&p.ID, &p.OrderID, &p.BookingID, &p.Reference, &p.Amount, &p.Currency, &p.Status,
		&p.TransactionID, &p.CustomerName, &p.CustomerEmail, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return Payment{}, mapError(err)
	}
	return p, nil
}

// UpdateStatus applies a verified gateway status to the payment.
func (r Payments) UpdateStatus(ctx context.Context, orderID, status, transactionID string) error {
	tag, err := r.Pool.Exec(ctx, `
		UPDATE payments SET status = $2, transaction_id = NULLIF($3, ''), updated_at = now()
		WHERE order_id = $1`, orderID, status, transactionID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// InsertEvent appends a notification record to the payment's history.
func (r Payments) InsertEvent(ctx context.Context, paymentID uuid.UUID, status string, payload []byte) error {
	if len(payload) == 0 {
		payload = []byte("{}")
	}
	_, err := r.Pool.Exec(ctx, `
		INSERT INTO payment_events (id, payment_id, status, payload)
		VALUES ($1, $2, $3, $4)`, uuid.New(), paymentID, status, payload)
	return err
}
