package service

import (
	"context"
	"time"

	"subscription-ledger/internal/core/domain"
	"subscription-ledger/internal/core/ports"

	"github.com/rs/zerolog"
)

const eventWriteTimeout = 5 * time.Second

type eventService struct {
	repo      ports.EventRepository
	publisher ports.EventPublisher
	notifiers []ports.EventNotifier
	log       zerolog.Logger
}

// NewEventService creates a new event recorder.
// If repo is nil, events are not persisted; if publisher is nil, they are not
// published. Notifiers see every event after it is stored.
func NewEventService(repo ports.EventRepository, publisher ports.EventPublisher, log zerolog.Logger, notifiers ...ports.EventNotifier) ports.EventRecorder {
	return &eventService{repo: repo, publisher: publisher, notifiers: notifiers, log: log}
}

// Record logs the event, then stores, publishes and fans it out to the
// notifiers. Failures are logged only; the state change the event describes
// has already committed.
func (s *eventService) Record(ctx context.Context, evt *domain.Event) {
	s.log.Info().
		Str("event_id", evt.ID.String()).
		Str("type", string(evt.Type)).
		Str("subject", evt.Subject).
		RawJSON("data", evt.Data).
		Msg("event")

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), eventWriteTimeout)
	defer cancel()

	if s.repo != nil {
		if err := s.repo.Create(ctx, evt); err != nil {
			s.log.Warn().Err(err).Str("type", string(evt.Type)).Msg("failed to persist event")
		}
	}
	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, evt); err != nil {
			s.log.Warn().Err(err).Str("type", string(evt.Type)).Msg("failed to publish event")
		}
	}
	for _, n := range s.notifiers {
		n.Notify(ctx, evt)
	}
}

// recordEvent builds and records an event. A nil recorder drops it.
func recordEvent(ctx context.Context, rec ports.EventRecorder, log zerolog.Logger, typ domain.EventType, subject string, data any, now time.Time) {
	if rec == nil {
		return
	}
	evt, err := domain.NewEvent(typ, subject, data, now)
	if err != nil {
		log.Error().Err(err).Str("type", string(typ)).Msg("failed to build event")
		return
	}
	rec.Record(ctx, evt)
}
