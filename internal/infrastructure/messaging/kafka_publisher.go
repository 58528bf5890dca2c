package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/wingcash/lending-engine/internal/domain/event"
)

// KafkaEventPublisher implements port.EventPublisher by writing domain
// events to a Kafka topic, keyed by aggregate id so events for one loan stay
// ordered within a partition.
type KafkaEventPublisher struct {
	writer *kafkago.Writer
}

// NewKafkaEventPublisher creates a publisher targeting the given brokers and
// topic.
func NewKafkaEventPublisher(brokers []string, topic string) *KafkaEventPublisher {
	return &KafkaEventPublisher{
		writer: &kafkago.Writer{
			Addr:         kafkago.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafkago.LeastBytes{},
			BatchTimeout: 10 * time.Millisecond,
			RequiredAcks: kafkago.RequireAll,
		},
	}
}

// Publish serialises and sends domain events.
func (p *KafkaEventPublisher) Publish(ctx context.Context, events ...event.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}

	messages := make([]kafkago.Message, 0, len(events))
	for _, evt := range events {
		payload, err := json.Marshal(evt)
		if err != nil {
			return fmt.Errorf("marshal event %s: %w", evt.EventType(), err)
		}
		messages = append(messages, kafkago.Message{
			Key:   []byte(evt.AggregateID()),
			Value: payload,
			Headers: []kafkago.Header{
				{Key: "event_type", Value: []byte(evt.EventType())},
			},
		})
	}

	if err := p.writer.WriteMessages(ctx, messages...); err != nil {
		return fmt.Errorf("kafka publish: %w", err)
	}
	return nil
}

// Close closes the underlying writer.
func (p *KafkaEventPublisher) Close() error {
	return p.writer.Close()
}
