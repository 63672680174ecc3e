package holiday

import (
	"context"
	"database/sql"
	"testing"
	"time"

	holidayerrors "go-attendance/internal/holiday/errors"
	"go-attendance/internal/notify"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeRepo struct {
	createFn       func(ctx context.Context, h *Holiday) error
	existsByDateFn func(ctx context.Context, date time.Time) (bool, error)
	deleteFn       func(ctx context.Context, id string) error
}

func (f *fakeRepo) WithTx(tx *sql.Tx) Repository                 { return f }
func (f *fakeRepo) Create(ctx context.Context, h *Holiday) error { return f.createFn(ctx, h) }
func (f *fakeRepo) FindByID(ctx context.Context, id string) (*Holiday, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeRepo) FindByDate(ctx context.Context, date time.Time) (*Holiday, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeRepo) ExistsByDate(ctx context.Context, date time.Time) (bool, error) {
	return f.existsByDateFn(ctx, date)
}
func (f *fakeRepo) FindAll(ctx context.Context) ([]Holiday, error) { return nil, nil }
func (f *fakeRepo) Delete(ctx context.Context, id string) error    { return f.deleteFn(ctx, id) }

type fakeEmitter struct {
	events []notify.Event
}

func (f *fakeEmitter) Emit(ctx context.Context, tx *sql.Tx, event notify.Event) error {
	f.events = append(f.events, event)
	return nil
}

func TestService_Create(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()
	ctx := context.Background()

	var saved *Holiday
	repo := &fakeRepo{
		existsByDateFn: func(ctx context.Context, date time.Time) (bool, error) { return false, nil },
		createFn:       func(ctx context.Context, h *Holiday) error { saved = h; return nil },
	}
	emitter := &fakeEmitter{}
	svc := NewService(db, repo, emitter)

	mock.ExpectBegin()
	mock.ExpectCommit()

	resp, err := svc.Create(ctx, CreateHolidayRequest{Name: "Founding Day", Date: "2025-08-17"})
	assert.NoError(t, err)
	assert.Equal(t, "Founding Day", resp.Name)
	assert.Equal(t, "2025-08-17", resp.Date)

	assert.NotNil(t, saved)
	assert.Len(t, emitter.events, 1)
	assert.Equal(t, "holiday-change", emitter.events[0].Type)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Create_DuplicateDate(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()
	ctx := context.Background()

	repo := &fakeRepo{
		existsByDateFn: func(ctx context.Context, date time.Time) (bool, error) { return true, nil },
	}
	svc := NewService(db, repo, &fakeEmitter{})

	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := svc.Create(ctx, CreateHolidayRequest{Name: "Founding Day", Date: "2025-08-17"})
	assert.ErrorIs(t, err, holidayerrors.ErrHolidayExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Create_BadDate(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()
	ctx := context.Background()

	svc := NewService(db, &fakeRepo{}, &fakeEmitter{})

	_, err := svc.Create(ctx, CreateHolidayRequest{Name: "Founding Day", Date: "17/08/2025"})
	assert.ErrorIs(t, err, holidayerrors.ErrInvalidDateFormat)
}

func TestService_Delete(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()
	ctx := context.Background()

	id := uuid.NewString()
	var deleted string
	repo := &fakeRepo{
		deleteFn: func(ctx context.Context, id string) error { deleted = id; return nil },
	}
	emitter := &fakeEmitter{}
	svc := NewService(db, repo, emitter)

	mock.ExpectBegin()
	mock.ExpectCommit()

	err := svc.Delete(ctx, id)
	assert.NoError(t, err)
	assert.Equal(t, id, deleted)
	assert.Len(t, emitter.events, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Delete_NotFound(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()
	ctx := context.Background()

	repo := &fakeRepo{
		deleteFn: func(ctx context.Context, id string) error { return gorm.ErrRecordNotFound },
	}
	svc := NewService(db, repo, &fakeEmitter{})

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := svc.Delete(ctx, uuid.NewString())
	assert.ErrorIs(t, err, holidayerrors.ErrHolidayNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
