package attendance

import (
	"context"
	"database/sql"
	"time"

	"go-attendance/internal/shared/dateutil"

	"gorm.io/gorm"
)

//go:generate mockgen -source=attendance_repo.go -destination=mock/attendance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	// CreateIfAbsent inserts r unless a row already holds the
	// (employee, date) slot. Returns false when the slot was taken.
	CreateIfAbsent(ctx context.Context, rec *AttendanceRecord) (bool, error)
	// Upsert writes rec, replacing status/method/reason when the slot
	// is already occupied. Last writer wins.
	Upsert(ctx context.Context, rec *AttendanceRecord) error
	FindByID(ctx context.Context, id string) (*AttendanceRecord, error)
	FindByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*AttendanceRecord, error)
	FindByEmployeeAndRange(ctx context.Context, employeeID string, from, to time.Time) ([]AttendanceRecord, error)
	FindAll(ctx context.Context) ([]AttendanceRecord, error)
	UpdateStatus(ctx context.Context, id, status string) error
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

const createIfAbsentSQL = `
INSERT INTO attendance_records (id, employee_id, employee_email, date, status, method, reason, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
ON CONFLICT (employee_id, date) DO NOTHING
`

func (r *repository) CreateIfAbsent(ctx context.Context, rec *AttendanceRecord) (bool, error) {
	args := []any{
		rec.ID, rec.EmployeeID, rec.EmployeeEmail,
		dateutil.Format(rec.Date), rec.Status, rec.Method, rec.Reason,
	}

	if r.tx != nil {
		res, err := r.tx.ExecContext(ctx, createIfAbsentSQL, args...)
		if err != nil {
			return false, err
		}
		n, err := res.RowsAffected()
		return n > 0, err
	}

	res := r.db.WithContext(ctx).Exec(
		"INSERT INTO attendance_records (id, employee_id, employee_email, date, status, method, reason, created_at, updated_at) "+
			"VALUES (?, ?, ?, ?, ?, ?, ?, NOW(), NOW()) "+
			"ON CONFLICT (employee_id, date) DO NOTHING",
		args...,
	)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

const upsertSQL = `
INSERT INTO attendance_records (id, employee_id, employee_email, date, status, method, reason, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
ON CONFLICT (employee_id, date) DO UPDATE
SET status = EXCLUDED.status,
    method = EXCLUDED.method,
    reason = EXCLUDED.reason,
    updated_at = NOW()
`

func (r *repository) Upsert(ctx context.Context, rec *AttendanceRecord) error {
	args := []any{
		rec.ID, rec.EmployeeID, rec.EmployeeEmail,
		dateutil.Format(rec.Date), rec.Status, rec.Method, rec.Reason,
	}

	if r.tx != nil {
		_, err := r.tx.ExecContext(ctx, upsertSQL, args...)
		return err
	}

	return r.db.WithContext(ctx).Exec(
		"INSERT INTO attendance_records (id, employee_id, employee_email, date, status, method, reason, created_at, updated_at) "+
			"VALUES (?, ?, ?, ?, ?, ?, ?, NOW(), NOW()) "+
			"ON CONFLICT (employee_id, date) DO UPDATE "+
			"SET status = EXCLUDED.status, method = EXCLUDED.method, reason = EXCLUDED.reason, updated_at = NOW()",
		args...,
	).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*AttendanceRecord, error) {
	var rec AttendanceRecord
	err := r.db.WithContext(ctx).First(&rec, "id = ?", id).Error
	return &rec, err
}

func (r *repository) FindByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*AttendanceRecord, error) {
	var rec AttendanceRecord
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Where("date = ?", dateutil.Format(date)).
		First(&rec).Error
	return &rec, err
}

func (r *repository) FindByEmployeeAndRange(ctx context.Context, employeeID string, from, to time.Time) ([]AttendanceRecord, error) {
	var rows []AttendanceRecord
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Where("date BETWEEN ? AND ?", dateutil.Format(from), dateutil.Format(to)).
		Order("date DESC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindAll(ctx context.Context) ([]AttendanceRecord, error) {
	var rows []AttendanceRecord
	err := r.db.WithContext(ctx).
		Order("date DESC, employee_email ASC").
		Find(&rows).Error
	return rows, err
}

const updateStatusSQL = `
UPDATE attendance_records
SET status = $2, updated_at = NOW()
WHERE id = $1
`

func (r *repository) UpdateStatus(ctx context.Context, id, status string) error {
	if r.tx != nil {
		res, err := r.tx.ExecContext(ctx, updateStatusSQL, id, status)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	}

	res := r.db.WithContext(ctx).
		Model(&AttendanceRecord{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
