package attendance

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"go-attendance/internal/employee"
	"go-attendance/internal/notify"
	"go-attendance/internal/shared/dateutil"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	attendanceerrors "go-attendance/internal/attendance/errors"
)

type fakeRepo struct {
	createIfAbsentFn         func(ctx context.Context, rec *AttendanceRecord) (bool, error)
	upsertFn                 func(ctx context.Context, rec *AttendanceRecord) error
	findByIDFn               func(ctx context.Context, id string) (*AttendanceRecord, error)
	findByEmployeeAndDateFn  func(ctx context.Context, employeeID string, date time.Time) (*AttendanceRecord, error)
	findByEmployeeAndRangeFn func(ctx context.Context, employeeID string, from, to time.Time) ([]AttendanceRecord, error)
	findAllFn                func(ctx context.Context) ([]AttendanceRecord, error)
	updateStatusFn           func(ctx context.Context, id, status string) error
}

func (f *fakeRepo) WithTx(tx *sql.Tx) Repository { return f }
func (f *fakeRepo) CreateIfAbsent(ctx context.Context, rec *AttendanceRecord) (bool, error) {
	return f.createIfAbsentFn(ctx, rec)
}
func (f *fakeRepo) Upsert(ctx context.Context, rec *AttendanceRecord) error {
	return f.upsertFn(ctx, rec)
}
func (f *fakeRepo) FindByID(ctx context.Context, id string) (*AttendanceRecord, error) {
	return f.findByIDFn(ctx, id)
}
func (f *fakeRepo) FindByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*AttendanceRecord, error) {
	return f.findByEmployeeAndDateFn(ctx, employeeID, date)
}
func (f *fakeRepo) FindByEmployeeAndRange(ctx context.Context, employeeID string, from, to time.Time) ([]AttendanceRecord, error) {
	return f.findByEmployeeAndRangeFn(ctx, employeeID, from, to)
}
func (f *fakeRepo) FindAll(ctx context.Context) ([]AttendanceRecord, error) {
	return f.findAllFn(ctx)
}
func (f *fakeRepo) UpdateStatus(ctx context.Context, id, status string) error {
	return f.updateStatusFn(ctx, id, status)
}

type fakeEmployees struct {
	findByIDFn      func(ctx context.Context, id string) (*employee.Employee, error)
	findAllByRoleFn func(ctx context.Context, role string) ([]employee.Employee, error)
}

func (f *fakeEmployees) WithTx(tx *sql.Tx) employee.Repository           { return f }
func (f *fakeEmployees) Create(ctx context.Context, e *employee.Employee) error { return nil }
func (f *fakeEmployees) FindByID(ctx context.Context, id string) (*employee.Employee, error) {
	return f.findByIDFn(ctx, id)
}
func (f *fakeEmployees) FindByEmail(ctx context.Context, email string) (*employee.Employee, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeEmployees) FindAll(ctx context.Context) ([]employee.Employee, error) { return nil, nil }
func (f *fakeEmployees) FindAllByRole(ctx context.Context, role string) ([]employee.Employee, error) {
	return f.findAllByRoleFn(ctx, role)
}
func (f *fakeEmployees) Update(ctx context.Context, e *employee.Employee) error { return nil }
func (f *fakeEmployees) UpdateRole(ctx context.Context, id, role string) error  { return nil }
func (f *fakeEmployees) AdjustHolidayBalance(ctx context.Context, id string, delta int) error {
	return nil
}

type fakeHolidays struct {
	holidayOnFn func(ctx context.Context, date time.Time) (*HolidayInfo, error)
}

func (f *fakeHolidays) HolidayOn(ctx context.Context, date time.Time) (*HolidayInfo, error) {
	if f.holidayOnFn == nil {
		return nil, nil
	}
	return f.holidayOnFn(ctx, date)
}

type fakeLeaves struct {
	coveringFn func(ctx context.Context, employeeID string, date time.Time) (*LeaveInfo, error)
}

func (f *fakeLeaves) ApprovedLeaveCovering(ctx context.Context, employeeID string, date time.Time) (*LeaveInfo, error) {
	if f.coveringFn == nil {
		return nil, nil
	}
	return f.coveringFn(ctx, employeeID, date)
}

type fakeEmitter struct {
	events []notify.Event
	err    error
}

func (f *fakeEmitter) Emit(ctx context.Context, tx *sql.Tx, event notify.Event) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, event)
	return nil
}

func testEmployee(offDay string) *employee.Employee {
	return &employee.Employee{
		ID:     uuid.New(),
		Email:  "dev@example.com",
		Role:   employee.RoleEmployee,
		OffDay: offDay,
	}
}

func noRecord(ctx context.Context, employeeID string, date time.Time) (*AttendanceRecord, error) {
	return nil, gorm.ErrRecordNotFound
}

func emptyRange(ctx context.Context, employeeID string, from, to time.Time) ([]AttendanceRecord, error) {
	return nil, nil
}

func TestService_CheckIn(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()
	ctx := context.Background()

	emp := testEmployee("Sunday")
	var saved *AttendanceRecord

	repo := &fakeRepo{
		findByEmployeeAndDateFn: noRecord,
		createIfAbsentFn: func(ctx context.Context, rec *AttendanceRecord) (bool, error) {
			saved = rec
			return true, nil
		},
	}
	employees := &fakeEmployees{
		findByIDFn: func(ctx context.Context, id string) (*employee.Employee, error) { return emp, nil },
	}
	emitter := &fakeEmitter{}

	svc := NewService(db, repo, employees, &fakeHolidays{}, &fakeLeaves{}, emitter)

	mock.ExpectBegin()
	mock.ExpectCommit()

	resp, err := svc.CheckIn(ctx, emp.ID.String())
	assert.NoError(t, err)
	assert.Equal(t, StatusPending, resp.Status)
	assert.Equal(t, MethodManual, resp.Method)
	assert.Equal(t, emp.Email, resp.EmployeeEmail)

	assert.NotNil(t, saved)
	assert.Equal(t, dateutil.Format(dateutil.Today()), dateutil.Format(saved.Date))

	assert.Len(t, emitter.events, 1)
	assert.Equal(t, "attendance-change", emitter.events[0].Type)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_CheckIn_AlreadyMarked(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()
	ctx := context.Background()

	emp := testEmployee("Sunday")
	repo := &fakeRepo{
		findByEmployeeAndDateFn: func(ctx context.Context, employeeID string, date time.Time) (*AttendanceRecord, error) {
			return &AttendanceRecord{ID: uuid.New(), Status: StatusOffDay}, nil
		},
	}
	employees := &fakeEmployees{
		findByIDFn: func(ctx context.Context, id string) (*employee.Employee, error) { return emp, nil },
	}

	svc := NewService(db, repo, employees, &fakeHolidays{}, &fakeLeaves{}, &fakeEmitter{})

	_, err := svc.CheckIn(ctx, emp.ID.String())
	assert.ErrorIs(t, err, attendanceerrors.ErrAlreadyMarked)
}

func TestService_CheckIn_LosesInsertRace(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()
	ctx := context.Background()

	emp := testEmployee("Sunday")
	repo := &fakeRepo{
		findByEmployeeAndDateFn: noRecord,
		createIfAbsentFn: func(ctx context.Context, rec *AttendanceRecord) (bool, error) {
			return false, nil
		},
	}
	employees := &fakeEmployees{
		findByIDFn: func(ctx context.Context, id string) (*employee.Employee, error) { return emp, nil },
	}

	svc := NewService(db, repo, employees, &fakeHolidays{}, &fakeLeaves{}, &fakeEmitter{})

	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := svc.CheckIn(ctx, emp.ID.String())
	assert.ErrorIs(t, err, attendanceerrors.ErrAlreadyMarked)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Verify(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()
	ctx := context.Background()

	recordID := uuid.New()
	var updatedStatus string

	repo := &fakeRepo{
		findByIDFn: func(ctx context.Context, id string) (*AttendanceRecord, error) {
			return &AttendanceRecord{
				ID:            recordID,
				EmployeeEmail: "dev@example.com",
				Date:          dateutil.Today(),
				Status:        StatusPending,
				Method:        MethodManual,
			}, nil
		},
		updateStatusFn: func(ctx context.Context, id, status string) error {
			updatedStatus = status
			return nil
		},
	}
	emitter := &fakeEmitter{}
	svc := NewService(db, repo, &fakeEmployees{}, &fakeHolidays{}, &fakeLeaves{}, emitter)

	mock.ExpectBegin()
	mock.ExpectCommit()

	resp, err := svc.Verify(ctx, recordID.String(), StatusAttended)
	assert.NoError(t, err)
	assert.Equal(t, StatusAttended, resp.Status)
	assert.Equal(t, StatusAttended, updatedStatus)
	assert.Len(t, emitter.events, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Verify_Invalid(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()
	ctx := context.Background()

	svc := NewService(db, &fakeRepo{}, &fakeEmployees{}, &fakeHolidays{}, &fakeLeaves{}, &fakeEmitter{})

	_, err := svc.Verify(ctx, uuid.NewString(), StatusOffDay)
	assert.ErrorIs(t, err, attendanceerrors.ErrInvalidVerifyStatus)

	_, err = svc.Verify(ctx, "not-a-uuid", StatusAttended)
	assert.ErrorIs(t, err, attendanceerrors.ErrInvalidRecordID)
}

func TestService_Verify_NotFound(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()
	ctx := context.Background()

	repo := &fakeRepo{
		findByIDFn: func(ctx context.Context, id string) (*AttendanceRecord, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	svc := NewService(db, repo, &fakeEmployees{}, &fakeHolidays{}, &fakeLeaves{}, &fakeEmitter{})

	_, err := svc.Verify(ctx, uuid.NewString(), StatusAttended)
	assert.ErrorIs(t, err, attendanceerrors.ErrRecordNotFound)
}

func TestService_GetToday_ExistingRowWins(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()
	ctx := context.Background()

	// The employee's off day is today, but a pending check-in already
	// occupies the slot and must not be rewritten.
	emp := testEmployee(dateutil.WeekdayName(dateutil.Today()))
	existing := &AttendanceRecord{
		ID:         uuid.New(),
		EmployeeID: emp.ID,
		Date:       dateutil.Today(),
		Status:     StatusPending,
		Method:     MethodManual,
	}

	repo := &fakeRepo{
		findByEmployeeAndDateFn: func(ctx context.Context, employeeID string, date time.Time) (*AttendanceRecord, error) {
			return existing, nil
		},
		findByEmployeeAndRangeFn: func(ctx context.Context, employeeID string, from, to time.Time) ([]AttendanceRecord, error) {
			return []AttendanceRecord{*existing}, nil
		},
	}
	employees := &fakeEmployees{
		findByIDFn: func(ctx context.Context, id string) (*employee.Employee, error) { return emp, nil },
	}

	svc := NewService(db, repo, employees, &fakeHolidays{}, &fakeLeaves{}, &fakeEmitter{})

	resp, err := svc.GetToday(ctx, emp.ID.String())
	assert.NoError(t, err)
	assert.Equal(t, StatusPending, resp.Status)
	assert.Equal(t, 1, resp.MonthlySummary.Pending)
}

func TestService_GetToday_MaterializesOffDay(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()
	ctx := context.Background()

	emp := testEmployee(dateutil.WeekdayName(dateutil.Today()))
	var created *AttendanceRecord

	repo := &fakeRepo{
		findByEmployeeAndDateFn: noRecord,
		findByEmployeeAndRangeFn: emptyRange,
		createIfAbsentFn: func(ctx context.Context, rec *AttendanceRecord) (bool, error) {
			created = rec
			return true, nil
		},
	}
	employees := &fakeEmployees{
		findByIDFn: func(ctx context.Context, id string) (*employee.Employee, error) { return emp, nil },
	}

	svc := NewService(db, repo, employees, &fakeHolidays{}, &fakeLeaves{}, &fakeEmitter{})

	resp, err := svc.GetToday(ctx, emp.ID.String())
	assert.NoError(t, err)
	assert.Equal(t, StatusOffDay, resp.Status)

	assert.NotNil(t, created)
	assert.Equal(t, MethodAuto, created.Method)
	assert.Equal(t, ReasonWeeklyOff, *created.Reason)
}

func TestService_GetToday_MaterializesHoliday(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()
	ctx := context.Background()

	// Off day is some other weekday so the holiday rule is reached.
	emp := testEmployee(dateutil.WeekdayName(dateutil.Today().AddDate(0, 0, 1)))
	var created *AttendanceRecord

	repo := &fakeRepo{
		findByEmployeeAndDateFn: noRecord,
		findByEmployeeAndRangeFn: emptyRange,
		createIfAbsentFn: func(ctx context.Context, rec *AttendanceRecord) (bool, error) {
			created = rec
			return true, nil
		},
	}
	employees := &fakeEmployees{
		findByIDFn: func(ctx context.Context, id string) (*employee.Employee, error) { return emp, nil },
	}
	holidays := &fakeHolidays{
		holidayOnFn: func(ctx context.Context, date time.Time) (*HolidayInfo, error) {
			return &HolidayInfo{Name: "Founding Day"}, nil
		},
	}

	svc := NewService(db, repo, employees, holidays, &fakeLeaves{}, &fakeEmitter{})

	resp, err := svc.GetToday(ctx, emp.ID.String())
	assert.NoError(t, err)
	assert.Equal(t, StatusAuthorizedLeave, resp.Status)
	assert.Equal(t, "Founding Day", *created.Reason)
	assert.Equal(t, MethodAuto, created.Method)
}

func TestService_GetToday_Unmarked(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()
	ctx := context.Background()

	emp := testEmployee(dateutil.WeekdayName(dateutil.Today().AddDate(0, 0, 1)))

	created := false
	repo := &fakeRepo{
		findByEmployeeAndDateFn: noRecord,
		findByEmployeeAndRangeFn: emptyRange,
		createIfAbsentFn: func(ctx context.Context, rec *AttendanceRecord) (bool, error) {
			created = true
			return true, nil
		},
	}
	employees := &fakeEmployees{
		findByIDFn: func(ctx context.Context, id string) (*employee.Employee, error) { return emp, nil },
	}

	svc := NewService(db, repo, employees, &fakeHolidays{}, &fakeLeaves{}, &fakeEmitter{})

	resp, err := svc.GetToday(ctx, emp.ID.String())
	assert.NoError(t, err)
	assert.Equal(t, StatusNotMarked, resp.Status)
	assert.Nil(t, resp.Record)
	assert.False(t, created, "an unmarked day must not be persisted")
}

func TestService_ReconcileDate(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()
	ctx := context.Background()

	date := dateutil.Today().AddDate(0, 0, -1)

	marked := testEmployee("Sunday")
	unmarked := testEmployee("Sunday")
	broken := testEmployee("Sunday")
	// None of them has the target date as their off day.
	for _, e := range []*employee.Employee{marked, unmarked, broken} {
		e.OffDay = dateutil.WeekdayName(date.AddDate(0, 0, 1))
	}

	var created []*AttendanceRecord
	repo := &fakeRepo{
		findByEmployeeAndDateFn: func(ctx context.Context, employeeID string, d time.Time) (*AttendanceRecord, error) {
			switch employeeID {
			case marked.ID.String():
				return &AttendanceRecord{ID: uuid.New(), Status: StatusAttended}, nil
			case broken.ID.String():
				return nil, errors.New("connection reset")
			default:
				return nil, gorm.ErrRecordNotFound
			}
		},
		createIfAbsentFn: func(ctx context.Context, rec *AttendanceRecord) (bool, error) {
			created = append(created, rec)
			return true, nil
		},
	}
	employees := &fakeEmployees{
		findAllByRoleFn: func(ctx context.Context, role string) ([]employee.Employee, error) {
			assert.Equal(t, employee.RoleEmployee, role)
			return []employee.Employee{*marked, *unmarked, *broken}, nil
		},
	}
	emitter := &fakeEmitter{}

	svc := NewService(db, repo, employees, &fakeHolidays{}, &fakeLeaves{}, emitter)

	report, err := svc.ReconcileDate(ctx, date)
	assert.NoError(t, err)
	assert.Equal(t, 3, report.Processed)
	assert.Equal(t, 1, report.Created)
	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, 1, report.Failed)

	assert.Len(t, created, 1)
	assert.Equal(t, StatusUnauthorizedLeave, created[0].Status)
	assert.Equal(t, MethodAuto, created[0].Method)
	assert.Equal(t, ReasonNoCheckIn, *created[0].Reason)
	assert.Len(t, emitter.events, 1)
}

func TestService_ReconcileDate_Idempotent(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()
	ctx := context.Background()

	date := dateutil.Today().AddDate(0, 0, -1)
	emp := testEmployee(dateutil.WeekdayName(date.AddDate(0, 0, 1)))

	calls := 0
	store := map[string]*AttendanceRecord{}
	repo := &fakeRepo{
		findByEmployeeAndDateFn: func(ctx context.Context, employeeID string, d time.Time) (*AttendanceRecord, error) {
			if rec, ok := store[employeeID]; ok {
				return rec, nil
			}
			return nil, gorm.ErrRecordNotFound
		},
		createIfAbsentFn: func(ctx context.Context, rec *AttendanceRecord) (bool, error) {
			calls++
			store[rec.EmployeeID.String()] = rec
			return true, nil
		},
	}
	employees := &fakeEmployees{
		findAllByRoleFn: func(ctx context.Context, role string) ([]employee.Employee, error) {
			return []employee.Employee{*emp}, nil
		},
	}

	svc := NewService(db, repo, employees, &fakeHolidays{}, &fakeLeaves{}, &fakeEmitter{})

	first, err := svc.ReconcileDate(ctx, date)
	assert.NoError(t, err)
	assert.Equal(t, 1, first.Created)

	second, err := svc.ReconcileDate(ctx, date)
	assert.NoError(t, err)
	assert.Equal(t, 0, second.Created)
	assert.Equal(t, 1, second.Skipped)
	assert.Equal(t, 1, calls)
}
