package rabbitmq

import (
	"context"

	"subscription-ledger/internal/core/domain"

	"github.com/rs/zerolog"
)

// LogPublisher stands in for the broker when none is configured or reachable.
// Events are still logged and persisted by the recorder.
type LogPublisher struct {
	log zerolog.Logger
}

// NewLogPublisher creates the fallback publisher.
func NewLogPublisher(log zerolog.Logger) *LogPublisher {
	return &LogPublisher{log: log}
}

// Publish logs that the event was not shipped.
func (p *LogPublisher) Publish(_ context.Context, evt *domain.Event) error {
	p.log.Debug().
		Str("event_id", evt.ID.String()).
		Str("routing_key", RoutingKey(evt.Type)).
		Msg("publish skipped")
	return nil
}

// Close is a no-op.
func (p *LogPublisher) Close() error { return nil }
