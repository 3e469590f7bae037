package postgres

import (
	"context"
	"fmt"

	"subscription-ledger/internal/core/domain"
)

// EventRepo implements ports.EventRepository. Events are written outside
// the business transaction, after it has committed.
type EventRepo struct {
	pool Pool
}

// NewEventRepo creates a new EventRepo.
func NewEventRepo(pool Pool) *EventRepo {
	return &EventRepo{pool: pool}
}

// Create inserts an event.
func (r *EventRepo) Create(ctx context.Context, evt *domain.Event) error {
	query := `INSERT INTO events (id, type, subject, data, occurred_at) VALUES ($1, $2, $3, $4, $5)`

	_, err := r.pool.Exec(ctx, query, evt.ID, string(evt.Type), evt.Subject, []byte(evt.Data), evt.OccurredAt)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}
