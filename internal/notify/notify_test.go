package notify

import (
	"context"
	"testing"

	"go-attendance/internal/events"
	"go-attendance/internal/messaging/kafka"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestOutboxEmitter_EmitJoinsTransaction(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()
	ctx := context.Background()

	repo := kafka.NewOutboxRepository(db)
	emitter := NewOutboxEmitter(repo)

	mock.ExpectBegin()
	tx, err := db.BeginTx(ctx, nil)
	assert.NoError(t, err)

	mock.ExpectExec("INSERT INTO notification_outbox").
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = emitter.Emit(ctx, tx, Event{
		Type:          events.TypeAttendanceChange,
		AggregateType: "attendance",
		AggregateID:   "dev@example.com",
		Payload:       events.AttendanceChangeEvent{UserEmail: "dev@example.com", Status: "PENDING"},
	})
	assert.NoError(t, err)

	// Nothing reaches the queue unless the caller commits.
	mock.ExpectRollback()
	assert.NoError(t, tx.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOutboxEmitter_EmitWithoutTransaction(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()
	ctx := context.Background()

	emitter := NewOutboxEmitter(kafka.NewOutboxRepository(db))

	mock.ExpectExec("INSERT INTO notification_outbox").
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := emitter.Emit(ctx, nil, Event{
		Type:          events.TypeHolidayChange,
		AggregateType: "holiday",
		AggregateID:   "some-id",
		Payload:       events.HolidayChangeEvent{Type: "removed", HolidayID: "some-id"},
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNoop(t *testing.T) {
	assert.NoError(t, Noop{}.Emit(context.Background(), nil, Event{}))
}
