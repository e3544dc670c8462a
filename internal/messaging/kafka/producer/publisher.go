package producer

import (
	"context"
	"database/sql"

	"go-emp-mgmt/internal/messaging/kafka"

	kafkago "github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
}

func toKafkaMessage(event kafka.OutboxEvent) kafkago.Message {
	headers := []kafkago.Header{
		{Key: "event_type", Value: []byte(event.EventType)},
		{Key: "aggregate_type", Value: []byte(event.AggregateType)},
	}
	if event.RequestID != "" {
		headers = append(headers, kafkago.Header{Key: "request_id", Value: []byte(event.RequestID)})
	}
	return kafkago.Message{
		Topic:   event.Topic,
		Key:     []byte(event.AggregateID),
		Value:   event.Payload,
		Headers: headers,
	}
}

func publishEvent(ctx context.Context, writer messageWriter, event kafka.OutboxEvent) error {
	return writer.WriteMessages(ctx, toKafkaMessage(event))
}

type directPublisher struct {
	writer messageWriter
}

// NewDirectPublisher writes straight to the broker. Used when the record
// store has no SQL transaction to host an outbox row.
func NewDirectPublisher(writer *kafkago.Writer) kafka.Publisher {
	return &directPublisher{writer: writer}
}

func (p *directPublisher) Publish(ctx context.Context, _ *sql.Tx, msg kafka.Message) error {
	return publishEvent(ctx, p.writer, kafka.OutboxEvent{
		RequestID:     msg.RequestID,
		AggregateType: msg.AggregateType,
		AggregateID:   msg.AggregateID,
		EventType:     msg.EventType,
		Topic:         msg.Topic,
		Payload:       msg.Payload,
	})
}
