package attendance

import (
	"context"
	"errors"
	"time"

	"go-attendance/internal/employee"
	"go-attendance/internal/shared/dateutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ReconcileReport summarizes one reconciliation pass.
type ReconcileReport struct {
	Date      string `json:"date"`
	Processed int    `json:"processed"`
	Created   int    `json:"created"`
	Skipped   int    `json:"skipped"`
	Failed    int    `json:"failed"`
}

// ReconcileDate closes the ledger for a date: every active employee
// without a row gets one. The rules of decideAutoStatus apply first;
// an employee with no rule and no check-in is booked as unauthorized
// leave. Rows that already exist are never touched, so re-running the
// pass for the same date is a no-op. One employee failing does not
// abort the rest.
func (s *service) ReconcileDate(ctx context.Context, date time.Time) (ReconcileReport, error) {
	date = dateutil.Normalize(date)
	report := ReconcileReport{Date: dateutil.Format(date)}

	staff, err := s.employees.FindAllByRole(ctx, employee.RoleEmployee)
	if err != nil {
		s.logger.Error("reconcile: loading roster failed", zap.Error(err))
		return report, err
	}

	for _, emp := range staff {
		report.Processed++

		created, err := s.reconcileEmployee(ctx, &emp, date)
		if err != nil {
			report.Failed++
			s.logger.Error("reconcile: employee failed",
				zap.String("employee_id", emp.ID.String()),
				zap.String("date", report.Date),
				zap.Error(err),
			)
			continue
		}
		if created {
			report.Created++
		} else {
			report.Skipped++
		}
	}

	s.logger.Info("reconcile pass done",
		zap.String("date", report.Date),
		zap.Int("processed", report.Processed),
		zap.Int("created", report.Created),
		zap.Int("skipped", report.Skipped),
		zap.Int("failed", report.Failed),
	)
	return report, nil
}

func (s *service) reconcileEmployee(ctx context.Context, emp *employee.Employee, date time.Time) (bool, error) {
	if _, err := s.repo.FindByEmployeeAndDate(ctx, emp.ID.String(), date); err == nil {
		return false, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	status, method, reason, ok, err := s.decideFor(ctx, emp.ID.String(), emp.OffDay, date)
	if err != nil {
		return false, err
	}
	if !ok {
		// The day ended with no excuse and no check-in.
		status, method, reason = StatusUnauthorizedLeave, MethodAuto, ReasonNoCheckIn
	}

	rec := &AttendanceRecord{
		ID:            uuid.New(),
		EmployeeID:    emp.ID,
		EmployeeEmail: emp.Email,
		Date:          date,
		Status:        status,
		Method:        method,
		Reason:        &reason,
	}

	inserted, err := s.repo.CreateIfAbsent(ctx, rec)
	if err != nil || !inserted {
		return false, err
	}

	if err := s.emitAttendanceChange(ctx, nil, "", emp.Email, status, date); err != nil {
		// The row is already booked; the notification is best effort here.
		s.logger.Warn("reconcile: enqueue event failed",
			zap.String("employee_id", emp.ID.String()),
			zap.Error(err),
		)
	}
	return true, nil
}
