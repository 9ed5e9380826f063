package repo

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("repo: not found")
	// ErrDuplicate is returned on unique constraint violations.
	ErrDuplicate = errors.New("repo: duplicate record")
)

// Booking statuses.
const (
	BookingStatusPending   = "PENDING"
	BookingStatusConfirmed = "CONFIRMED"
	BookingStatusCanceled  = "CANCELED"
)

// Payment statuses.
const (
	PaymentStatusPending = "PENDING"
	PaymentStatusPaid    = "PAID"
	PaymentStatusFailed  = "FAILED"
	PaymentStatusExpired = "EXPIRED"
)

// Booking is a coaching session request submitted through the public form.
type Booking struct {
	ID          uuid.UUID
	Name        string
	Email       string
	Phone       string
	Program     string
	ScheduledAt time.Time
	Notes       string
	Status      string
	OrderID     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Payment tracks one gateway order through its lifecycle. Amount is kept as
// the exact two-decimal string that was signed.
type Payment struct {
	ID            uuid.UUID
	OrderID       string
	BookingID     uuid.NullUUID
	Reference     string
	Amount        string
	Currency      string
	Status        string
	TransactionID string
	CustomerName  string
	CustomerEmail string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// PaymentEvent is an append-only record of every gateway notification applied
// to a payment, keeping the raw payload for reconciliation.
type PaymentEvent struct {
	ID        uuid.UUID
	PaymentID uuid.UUID
	Status    string
	Payload   []byte
	CreatedAt time.Time
}

// DomainEvent is a persisted fact emitted by the services and fanned out to
// notifiers.
type DomainEvent struct {
	ID          uuid.UUID
	Topic       string
	AggregateID uuid.UUID
	Payload     []byte
	OccurredAt  time.Time
}
