package repo

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Events persists domain events emitted by the services.
type Events struct {
	Pool *pgxpool.Pool
}

// Insert stores an event and returns it with generated fields populated.
func (r Events) Insert(ctx context.Context, topic string, aggregateID uuid.UUID, payload []byte) (DomainEvent, error) {
	ev := DomainEvent{ID: uuid.New(), Topic: topic, AggregateID: aggregateID, Payload: payload}
	if len(ev.Payload) == 0 {
		ev.Payload = []byte("{}")
	}
	row := r.Pool.QueryRow(ctx, `
		INSERT INTO domain_events (id, topic, aggregate_id, payload)
		VALUES ($1, $2, $3, $4)
		RETURNING occurred_at`, ev.ID, ev.Topic, ev.AggregateID, ev.Payload)
	if err := row.Scan(&ev.OccurredAt); err != nil {
		return DomainEvent{}, err
	}
	return ev, nil
}
