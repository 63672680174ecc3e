package attendance

import (
	"context"
	"database/sql"
	"errors"
	"time"

	attendanceerrors "go-attendance/internal/attendance/errors"
	"go-attendance/internal/employee"
	employeeerrors "go-attendance/internal/employee/errors"
	"go-attendance/internal/events"
	"go-attendance/internal/notify"
	"go-attendance/internal/shared/contextutil"
	"go-attendance/internal/shared/dateutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=attendance_service.go -destination=mock/attendance_service_mock.go -package=mock
type Service interface {
	CheckIn(ctx context.Context, employeeID string) (AttendanceResponse, error)
	Verify(ctx context.Context, recordID, status string) (AttendanceResponse, error)
	GetToday(ctx context.Context, employeeID string) (TodayResponse, error)
	GetMonthly(ctx context.Context, employeeID string) (MonthlyResponse, error)
	GetAll(ctx context.Context) ([]AttendanceResponse, error)
	ReconcileDate(ctx context.Context, date time.Time) (ReconcileReport, error)
}

type service struct {
	db        *sql.DB
	repo      Repository
	employees employee.Repository
	holidays  HolidayLookup
	leaves    LeaveLookup
	emitter   notify.Emitter
	logger    *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	employees employee.Repository,
	holidays HolidayLookup,
	leaves LeaveLookup,
	emitter notify.Emitter,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("attendance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.service")
	}
	return &service{
		db:        db,
		repo:      repo,
		employees: employees,
		holidays:  holidays,
		leaves:    leaves,
		emitter:   emitter,
		logger:    l,
	}
}

// CheckIn records an explicit self-check-in for today. One attempt per
// calendar day: any existing row, including an auto-created off-day or
// authorized-leave row, blocks it.
func (s *service) CheckIn(ctx context.Context, employeeID string) (AttendanceResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("check-in requested",
		zap.String("request_id", rid),
		zap.String("employee_id", employeeID),
	)

	emp, err := s.findEmployee(ctx, employeeID)
	if err != nil {
		return AttendanceResponse{}, err
	}

	today := dateutil.Today()

	if _, err := s.repo.FindByEmployeeAndDate(ctx, employeeID, today); err == nil {
		s.logger.Warn("check-in rejected, day already has a record",
			zap.String("employee_id", employeeID),
			zap.String("date", dateutil.Format(today)),
		)
		return AttendanceResponse{}, attendanceerrors.ErrAlreadyMarked
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return AttendanceResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("check-in begin tx failed", zap.Error(err))
		return AttendanceResponse{}, err
	}
	defer tx.Rollback()

	rec := &AttendanceRecord{
		ID:            uuid.New(),
		EmployeeID:    emp.ID,
		EmployeeEmail: emp.Email,
		Date:          today,
		Status:        StatusPending,
		Method:        MethodManual,
	}

	// The unique index arbitrates the race with the auto-resolver; a
	// lost insert means somebody else filled the slot first.
	inserted, err := s.repo.WithTx(tx).CreateIfAbsent(ctx, rec)
	if err != nil {
		s.logger.Error("check-in persist failed", zap.Error(err))
		return AttendanceResponse{}, err
	}
	if !inserted {
		return AttendanceResponse{}, attendanceerrors.ErrAlreadyMarked
	}

	if err := s.emitAttendanceChange(ctx, tx, rid, emp.Email, StatusPending, today); err != nil {
		return AttendanceResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("check-in commit failed", zap.Error(err))
		return AttendanceResponse{}, err
	}

	s.logger.Info("check-in success",
		zap.String("employee_id", employeeID),
		zap.String("date", dateutil.Format(today)),
	)
	return mapToResponse(*rec), nil
}

// Verify settles a pending check-in. Any admin may verify any record.
func (s *service) Verify(ctx context.Context, recordID, status string) (AttendanceResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("verify requested",
		zap.String("request_id", rid),
		zap.String("record_id", recordID),
		zap.String("status", status),
	)

	if status != StatusAttended && status != StatusUnauthorizedLeave {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidVerifyStatus
	}
	if _, err := uuid.Parse(recordID); err != nil {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidRecordID
	}

	rec, err := s.repo.FindByID(ctx, recordID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AttendanceResponse{}, attendanceerrors.ErrRecordNotFound
		}
		return AttendanceResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("verify begin tx failed", zap.Error(err))
		return AttendanceResponse{}, err
	}
	defer tx.Rollback()

	if err := s.repo.WithTx(tx).UpdateStatus(ctx, recordID, status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AttendanceResponse{}, attendanceerrors.ErrRecordNotFound
		}
		s.logger.Error("verify persist failed", zap.String("record_id", recordID), zap.Error(err))
		return AttendanceResponse{}, err
	}
	rec.Status = status

	if err := s.emitAttendanceChange(ctx, tx, rid, rec.EmployeeEmail, status, rec.Date); err != nil {
		return AttendanceResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("verify commit failed", zap.Error(err))
		return AttendanceResponse{}, err
	}

	s.logger.Info("verify success",
		zap.String("record_id", recordID),
		zap.String("status", status),
	)
	return mapToResponse(*rec), nil
}

// GetToday reports the caller's status for the current day, lazily
// materializing an off-day/holiday/leave row when one is due.
func (s *service) GetToday(ctx context.Context, employeeID string) (TodayResponse, error) {
	emp, err := s.findEmployee(ctx, employeeID)
	if err != nil {
		return TodayResponse{}, err
	}

	today := dateutil.Today()

	rec, err := s.resolveDay(ctx, emp, today)
	if err != nil {
		return TodayResponse{}, err
	}

	summary, err := s.monthlySummary(ctx, employeeID, today)
	if err != nil {
		return TodayResponse{}, err
	}

	resp := TodayResponse{
		Date:           dateutil.Format(today),
		Status:         StatusNotMarked,
		MonthlySummary: summary,
	}
	if rec != nil {
		mapped := mapToResponse(*rec)
		resp.Status = rec.Status
		resp.Record = &mapped
	}
	return resp, nil
}

func (s *service) GetMonthly(ctx context.Context, employeeID string) (MonthlyResponse, error) {
	if _, err := s.findEmployee(ctx, employeeID); err != nil {
		return MonthlyResponse{}, err
	}

	today := dateutil.Today()
	first, last := dateutil.MonthBounds(today)

	records, err := s.repo.FindByEmployeeAndRange(ctx, employeeID, first, last)
	if err != nil {
		return MonthlyResponse{}, err
	}

	return MonthlyResponse{
		Records:        mapToListResponse(records),
		MonthlySummary: ComputeMonthlySummary(records),
	}, nil
}

func (s *service) GetAll(ctx context.Context) ([]AttendanceResponse, error) {
	rows, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(rows), nil
}

// resolveDay returns the ledger row for (employee, date), creating one
// when an auto rule applies. Existing rows are returned unchanged, so
// resolution is idempotent and never disturbs a pending verification.
// A nil row with nil error means the day is genuinely unmarked.
func (s *service) resolveDay(ctx context.Context, emp *employee.Employee, date time.Time) (*AttendanceRecord, error) {
	rec, err := s.repo.FindByEmployeeAndDate(ctx, emp.ID.String(), date)
	if err == nil {
		return rec, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	status, method, reason, ok, err := s.decideFor(ctx, emp.ID.String(), emp.OffDay, date)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	fresh := &AttendanceRecord{
		ID:            uuid.New(),
		EmployeeID:    emp.ID,
		EmployeeEmail: emp.Email,
		Date:          date,
		Status:        status,
		Method:        method,
		Reason:        &reason,
	}

	inserted, err := s.repo.CreateIfAbsent(ctx, fresh)
	if err != nil {
		return nil, err
	}
	if !inserted {
		// Lost the race; whatever won the slot is the answer.
		return s.repo.FindByEmployeeAndDate(ctx, emp.ID.String(), date)
	}
	return fresh, nil
}

// decideFor gathers the holiday and leave facts for a date and runs the
// shared precedence rules.
func (s *service) decideFor(ctx context.Context, employeeID, offDay string, date time.Time) (status, method, reason string, ok bool, err error) {
	hol, err := s.holidays.HolidayOn(ctx, date)
	if err != nil {
		return "", "", "", false, err
	}
	lv, err := s.leaves.ApprovedLeaveCovering(ctx, employeeID, date)
	if err != nil {
		return "", "", "", false, err
	}

	status, method, reason, ok = decideAutoStatus(offDay, date, hol, lv)
	return status, method, reason, ok, nil
}

func (s *service) monthlySummary(ctx context.Context, employeeID string, anchor time.Time) (MonthlySummary, error) {
	first, last := dateutil.MonthBounds(anchor)
	records, err := s.repo.FindByEmployeeAndRange(ctx, employeeID, first, last)
	if err != nil {
		return MonthlySummary{}, err
	}
	return ComputeMonthlySummary(records), nil
}

func (s *service) findEmployee(ctx context.Context, id string) (*employee.Employee, error) {
	emp, err := s.employees.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, employeeerrors.ErrEmployeeNotFound
		}
		return nil, err
	}
	return emp, nil
}

func (s *service) emitAttendanceChange(ctx context.Context, tx *sql.Tx, rid, email, status string, date time.Time) error {
	err := s.emitter.Emit(ctx, tx, notify.Event{
		Type:          events.TypeAttendanceChange,
		AggregateType: "attendance",
		AggregateID:   email,
		Payload: events.AttendanceChangeEvent{
			EventType:  events.TypeAttendanceChange,
			RequestID:  rid,
			UserEmail:  email,
			Status:     status,
			Date:       dateutil.Format(date),
			OccurredAt: time.Now().UTC(),
		},
	})
	if err != nil {
		s.logger.Error("enqueue attendance-change failed",
			zap.String("user_email", email),
			zap.Error(err),
		)
	}
	return err
}

func mapToResponse(rec AttendanceRecord) AttendanceResponse {
	return AttendanceResponse{
		ID:            rec.ID.String(),
		EmployeeID:    rec.EmployeeID.String(),
		EmployeeEmail: rec.EmployeeEmail,
		Date:          dateutil.Format(rec.Date),
		Status:        rec.Status,
		Method:        rec.Method,
		Reason:        rec.Reason,
	}
}

func mapToListResponse(rows []AttendanceRecord) []AttendanceResponse {
	resp := make([]AttendanceResponse, len(rows))
	for i, rec := range rows {
		resp[i] = mapToResponse(rec)
	}
	return resp
}
