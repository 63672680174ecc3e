package leave

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go-attendance/internal/attendance"
	"go-attendance/internal/employee"
	employeeerrors "go-attendance/internal/employee/errors"
	"go-attendance/internal/events"
	leaveerrors "go-attendance/internal/leave/errors"
	"go-attendance/internal/notify"
	"go-attendance/internal/shared/contextutil"
	"go-attendance/internal/shared/dateutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Submit(ctx context.Context, employeeID string, req SubmitLeaveRequest) (LeaveResponse, error)
	UpdateStatus(ctx context.Context, leaveID, status string) (LeaveResponse, error)
	GetMine(ctx context.Context, employeeID string) ([]LeaveResponse, error)
	GetAll(ctx context.Context) ([]LeaveResponse, error)
}

type service struct {
	db         *sql.DB
	repo       Repository
	employees  employee.Repository
	attendance attendance.Repository
	emitter    notify.Emitter
	logger     *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	employees employee.Repository,
	attendanceRepo attendance.Repository,
	emitter notify.Emitter,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{
		db:         db,
		repo:       repo,
		employees:  employees,
		attendance: attendanceRepo,
		emitter:    emitter,
		logger:     l,
	}
}

func (s *service) Submit(ctx context.Context, employeeID string, req SubmitLeaveRequest) (LeaveResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("submit leave requested",
		zap.String("request_id", rid),
		zap.String("employee_id", employeeID),
		zap.String("reason_type", req.ReasonType),
	)

	emp, err := s.employees.FindByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, employeeerrors.ErrEmployeeNotFound
		}
		return LeaveResponse{}, err
	}

	start, err := dateutil.Parse(req.StartDate)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidDateFormat
	}
	end, err := dateutil.Parse(req.EndDate)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidDateFormat
	}
	if end.Before(start) {
		return LeaveResponse{}, leaveerrors.ErrInvalidDateRange
	}

	lr := &LeaveRequest{
		ID:            uuid.New(),
		EmployeeID:    emp.ID,
		EmployeeEmail: emp.Email,
		EmployeeName:  emp.FullName,
		ReasonType:    req.ReasonType,
		Description:   req.Description,
		StartDate:     start,
		EndDate:       end,
		TotalDays:     dateutil.DaysInclusive(start, end),
		Status:        StatusPending,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("submit leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	if err := s.repo.WithTx(tx).Create(ctx, lr); err != nil {
		s.logger.Error("submit leave persist failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	event := notify.Event{
		Type:          events.TypeLeaveRequest,
		AggregateType: "leave",
		AggregateID:   lr.ID.String(),
		Payload: events.LeaveRequestEvent{
			EventType:    events.TypeLeaveRequest,
			RequestID:    rid,
			LeaveID:      lr.ID.String(),
			UserEmail:    lr.EmployeeEmail,
			EmployeeName: lr.EmployeeName,
			ReasonType:   lr.ReasonType,
			Description:  lr.Description,
			StartDate:    dateutil.Format(lr.StartDate),
			EndDate:      dateutil.Format(lr.EndDate),
			Status:       lr.Status,
			OccurredAt:   time.Now().UTC(),
		},
	}
	if err := s.emitter.Emit(ctx, tx, event); err != nil {
		s.logger.Error("submit leave enqueue event failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("submit leave commit failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	s.logger.Info("submit leave success",
		zap.String("leave_id", lr.ID.String()),
		zap.String("employee_id", employeeID),
		zap.Int("total_days", lr.TotalDays),
	)
	return mapToResponse(*lr), nil
}

// UpdateStatus decides a pending request. Approval, the ledger backfill
// and the holiday balance adjustment commit or roll back as one unit;
// the notification goes out only after that unit commits.
func (s *service) UpdateStatus(ctx context.Context, leaveID, status string) (LeaveResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("update leave status requested",
		zap.String("request_id", rid),
		zap.String("leave_id", leaveID),
		zap.String("status", status),
	)

	if _, err := uuid.Parse(leaveID); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveID
	}

	lr, err := s.repo.FindByID(ctx, leaveID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, err
	}
	if lr.Status != StatusPending {
		return LeaveResponse{}, leaveerrors.ErrAlreadyDecided
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update leave status begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	decided, err := s.repo.WithTx(tx).UpdateStatus(ctx, leaveID, status)
	if err != nil {
		s.logger.Error("update leave status persist failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	if !decided {
		return LeaveResponse{}, leaveerrors.ErrAlreadyDecided
	}
	lr.Status = status

	if status == StatusApproved {
		if err := s.applyApproval(ctx, tx, lr); err != nil {
			return LeaveResponse{}, err
		}
	}

	event := notify.Event{
		Type:          events.TypeLeaveStatusChange,
		AggregateType: "leave",
		AggregateID:   lr.ID.String(),
		Payload: events.LeaveStatusChangeEvent{
			EventType:  events.TypeLeaveStatusChange,
			RequestID:  rid,
			LeaveID:    lr.ID.String(),
			UserEmail:  lr.EmployeeEmail,
			Status:     lr.Status,
			OccurredAt: time.Now().UTC(),
		},
	}
	if err := s.emitter.Emit(ctx, tx, event); err != nil {
		s.logger.Error("update leave status enqueue event failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("update leave status commit failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	s.logger.Info("update leave status success",
		zap.String("leave_id", leaveID),
		zap.String("status", status),
	)
	return mapToResponse(*lr), nil
}

// applyApproval backfills the attendance ledger for every day of the
// approved range and, for paid holiday leave, deducts the balance. The
// backfill overwrites whatever already occupies a slot: an approved
// leave is the stronger fact, including over a verified check-in.
func (s *service) applyApproval(ctx context.Context, tx *sql.Tx, lr *LeaveRequest) error {
	ledger := s.attendance.WithTx(tx)
	reason := lr.ReasonType

	for _, day := range dateutil.EachDay(lr.StartDate, lr.EndDate) {
		rec := &attendance.AttendanceRecord{
			ID:            uuid.New(),
			EmployeeID:    lr.EmployeeID,
			EmployeeEmail: lr.EmployeeEmail,
			Date:          day,
			Status:        attendance.StatusAuthorizedLeave,
			Method:        attendance.MethodLeaveSystem,
			Reason:        &reason,
		}
		if err := ledger.Upsert(ctx, rec); err != nil {
			s.logger.Error("leave approval backfill failed",
				zap.String("leave_id", lr.ID.String()),
				zap.String("date", dateutil.Format(day)),
				zap.Error(err),
			)
			return err
		}
	}

	if lr.ReasonType == ReasonHoliday {
		err := s.employees.WithTx(tx).AdjustHolidayBalance(ctx, lr.EmployeeID.String(), -lr.TotalDays)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return employeeerrors.ErrEmployeeNotFound
			}
			s.logger.Error("leave approval balance deduction failed",
				zap.String("leave_id", lr.ID.String()),
				zap.Error(err),
			)
			return err
		}
	}
	return nil
}

func (s *service) GetMine(ctx context.Context, employeeID string) ([]LeaveResponse, error) {
	rows, err := s.repo.FindByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(rows), nil
}

func (s *service) GetAll(ctx context.Context) ([]LeaveResponse, error) {
	rows, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(rows), nil
}

func mapToResponse(lr LeaveRequest) LeaveResponse {
	return LeaveResponse{
		ID:            lr.ID.String(),
		EmployeeID:    lr.EmployeeID.String(),
		EmployeeEmail: lr.EmployeeEmail,
		EmployeeName:  lr.EmployeeName,
		ReasonType:    lr.ReasonType,
		Description:   lr.Description,
		StartDate:     dateutil.Format(lr.StartDate),
		EndDate:       dateutil.Format(lr.EndDate),
		TotalDays:     lr.TotalDays,
		Status:        lr.Status,
	}
}

func mapToListResponse(rows []LeaveRequest) []LeaveResponse {
	resp := make([]LeaveResponse, len(rows))
	for i, lr := range rows {
		resp[i] = mapToResponse(lr)
	}
	return resp
}
