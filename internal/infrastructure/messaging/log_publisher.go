package messaging

import (
	"context"
	"log/slog"

	"github.com/wingcash/lending-engine/internal/domain/event"
)

// LogEventPublisher implements port.EventPublisher by logging events. It is
// the default when no Kafka brokers are configured.
type LogEventPublisher struct {
	logger *slog.Logger
}

// NewLogEventPublisher creates a logging publisher.
func NewLogEventPublisher(logger *slog.Logger) *LogEventPublisher {
	return &LogEventPublisher{logger: logger}
}

// Publish logs each domain event.
func (p *LogEventPublisher) Publish(_ context.Context, events ...event.DomainEvent) error {
	for _, evt := range events {
		p.logger.Info("domain event",
			"event_type", evt.EventType(),
			"aggregate_id", evt.AggregateID(),
			"subject_id", evt.SubjectID(),
		)
	}
	return nil
}
