// Package notify is the publish side of the dashboard pub/sub channel.
// Core services emit through the Emitter interface; the concrete
// implementation enqueues into the notification outbox so an event only
// becomes visible if the transaction that produced it commits.
package notify

import (
	"context"
	"database/sql"
	"encoding/json"

	"go-attendance/internal/events"
	"go-attendance/internal/messaging/kafka"
	"go-attendance/internal/shared/contextutil"

	"github.com/google/uuid"
)

type Event struct {
	Type          string // one of the events.Type* names
	AggregateType string // "attendance", "leave", "holiday"
	AggregateID   string // partition key for subscribers
	Payload       any
}

//go:generate mockgen -source=notify.go -destination=mock/notify_mock.go -package=mock
type Emitter interface {
	// Emit queues event for delivery. When tx is non-nil the enqueue
	// joins that transaction; otherwise it commits on its own.
	Emit(ctx context.Context, tx *sql.Tx, event Event) error
}

type outboxEmitter struct {
	outbox kafka.OutboxRepository
}

func NewOutboxEmitter(outbox kafka.OutboxRepository) Emitter {
	return &outboxEmitter{outbox: outbox}
}

func (e *outboxEmitter) Emit(ctx context.Context, tx *sql.Tx, event Event) error {
	payload, err := json.Marshal(event.Payload)
	if err != nil {
		return err
	}

	repo := e.outbox
	if tx != nil {
		repo = repo.WithTx(tx)
	}

	return repo.Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: event.AggregateType,
		AggregateID:   event.AggregateID,
		EventType:     event.Type,
		Topic:         events.NotificationTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

// Noop discards every event. Used in tests and in tools that do not
// carry the messaging stack.
type Noop struct{}

func (Noop) Emit(context.Context, *sql.Tx, Event) error { return nil }
