package kafka

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/google/uuid"
)

// Message is a domain event encoded for the wire, before it is either
// queued in the outbox or written to a broker.
type Message struct {
	Topic         string
	AggregateType string
	AggregateID   string
	EventType     string
	RequestID     string
	Payload       []byte
}

func NewMessage(topic, aggregateType, aggregateID, eventType, requestID string, event any) (Message, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return Message{}, err
	}
	return Message{
		Topic:         topic,
		AggregateType: aggregateType,
		AggregateID:   aggregateID,
		EventType:     eventType,
		RequestID:     requestID,
		Payload:       payload,
	}, nil
}

// Publisher hands a message to the event pipeline. tx is the SQL transaction
// the business write runs in; implementations without SQL ignore it.
//
//go:generate mockgen -source=publisher.go -destination=mock/publisher_mock.go -package=mock
type Publisher interface {
	Publish(ctx context.Context, tx *sql.Tx, msg Message) error
}

type outboxPublisher struct {
	repo OutboxRepository
}

// NewOutboxPublisher stores messages as pending outbox rows inside the
// caller's transaction; cmd/worker ships them later.
func NewOutboxPublisher(repo OutboxRepository) Publisher {
	return &outboxPublisher{repo: repo}
}

func (p *outboxPublisher) Publish(ctx context.Context, tx *sql.Tx, msg Message) error {
	repo := p.repo
	if tx != nil {
		repo = repo.WithTx(tx)
	}
	return repo.Create(ctx, OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     msg.RequestID,
		AggregateType: msg.AggregateType,
		AggregateID:   msg.AggregateID,
		EventType:     msg.EventType,
		Topic:         msg.Topic,
		Payload:       msg.Payload,
		Status:        OutboxStatusPending,
	})
}

type noopPublisher struct{}

func NewNoopPublisher() Publisher {
	return noopPublisher{}
}

func (noopPublisher) Publish(context.Context, *sql.Tx, Message) error {
	return nil
}
