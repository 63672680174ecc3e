package attendance

import (
	"context"
	"testing"

	"go-attendance/internal/shared/dateutil"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func txRepo(t *testing.T) (Repository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, _ := sqlmock.New()
	mock.ExpectBegin()
	tx, err := db.BeginTx(context.Background(), nil)
	assert.NoError(t, err)
	return NewRepository(nil).WithTx(tx), mock, func() { db.Close() }
}

func TestRepository_CreateIfAbsent(t *testing.T) {
	repo, mock, done := txRepo(t)
	defer done()
	ctx := context.Background()

	rec := &AttendanceRecord{
		ID:            uuid.New(),
		EmployeeID:    uuid.New(),
		EmployeeEmail: "dev@example.com",
		Date:          dateutil.Today(),
		Status:        StatusPending,
		Method:        MethodManual,
	}

	mock.ExpectExec("INSERT INTO attendance_records").
		WillReturnResult(sqlmock.NewResult(1, 1))

	inserted, err := repo.CreateIfAbsent(ctx, rec)
	assert.NoError(t, err)
	assert.True(t, inserted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_CreateIfAbsent_SlotTaken(t *testing.T) {
	repo, mock, done := txRepo(t)
	defer done()
	ctx := context.Background()

	rec := &AttendanceRecord{
		ID:         uuid.New(),
		EmployeeID: uuid.New(),
		Date:       dateutil.Today(),
		Status:     StatusPending,
		Method:     MethodManual,
	}

	// ON CONFLICT DO NOTHING reports zero affected rows for the loser.
	mock.ExpectExec("INSERT INTO attendance_records").
		WillReturnResult(sqlmock.NewResult(0, 0))

	inserted, err := repo.CreateIfAbsent(ctx, rec)
	assert.NoError(t, err)
	assert.False(t, inserted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Upsert_OverwritesOccupiedSlot(t *testing.T) {
	repo, mock, done := txRepo(t)
	defer done()
	ctx := context.Background()

	reason := "HOLIDAY"
	rec := &AttendanceRecord{
		ID:            uuid.New(),
		EmployeeID:    uuid.New(),
		EmployeeEmail: "dev@example.com",
		Date:          dateutil.Today(),
		Status:        StatusAuthorizedLeave,
		Method:        MethodLeaveSystem,
		Reason:        &reason,
	}

	// DO UPDATE path: the slot may already hold a verified row; one
	// affected row either way.
	mock.ExpectExec("INSERT INTO attendance_records").
		WillReturnResult(sqlmock.NewResult(1, 1))

	assert.NoError(t, repo.Upsert(ctx, rec))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_UpdateStatus_HonorsTransaction(t *testing.T) {
	repo, mock, done := txRepo(t)
	defer done()
	ctx := context.Background()

	id := uuid.NewString()
	mock.ExpectExec("UPDATE attendance_records").
		WithArgs(id, StatusAttended).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.UpdateStatus(ctx, id, StatusAttended))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_UpdateStatus_MissingRow(t *testing.T) {
	repo, mock, done := txRepo(t)
	defer done()
	ctx := context.Background()

	id := uuid.NewString()
	mock.ExpectExec("UPDATE attendance_records").
		WithArgs(id, StatusUnauthorizedLeave).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(ctx, id, StatusUnauthorizedLeave)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
