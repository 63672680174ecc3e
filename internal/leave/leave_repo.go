package leave

import (
	"context"
	"database/sql"
	"time"

	"go-attendance/internal/shared/dateutil"

	"gorm.io/gorm"
)

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, lr *LeaveRequest) error
	FindByID(ctx context.Context, id string) (*LeaveRequest, error)
	FindByEmployee(ctx context.Context, employeeID string) ([]LeaveRequest, error)
	FindAll(ctx context.Context) ([]LeaveRequest, error)
	// UpdateStatus flips status only while the row is still PENDING.
	// Returns false when the row was already decided.
	UpdateStatus(ctx context.Context, id, status string) (bool, error)
	// FindApprovedCovering returns the approved leave whose date range
	// contains the given date, or gorm.ErrRecordNotFound.
	FindApprovedCovering(ctx context.Context, employeeID string, date time.Time) (*LeaveRequest, error)
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

func (r *repository) Create(ctx context.Context, lr *LeaveRequest) error {
	return r.db.WithContext(ctx).Create(lr).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*LeaveRequest, error) {
	var lr LeaveRequest
	err := r.db.WithContext(ctx).First(&lr, "id = ?", id).Error
	return &lr, err
}

func (r *repository) FindByEmployee(ctx context.Context, employeeID string) ([]LeaveRequest, error) {
	var rows []LeaveRequest
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindAll(ctx context.Context) ([]LeaveRequest, error) {
	var rows []LeaveRequest
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

const updateStatusSQL = `
UPDATE leave_requests
SET status = $2, updated_at = NOW()
WHERE id = $1 AND status = 'PENDING' AND deleted_at IS NULL
`

// The status guard lives in the WHERE clause so two admins deciding the
// same request concurrently cannot both win.
func (r *repository) UpdateStatus(ctx context.Context, id, status string) (bool, error) {
	if r.tx != nil {
		res, err := r.tx.ExecContext(ctx, updateStatusSQL, id, status)
		if err != nil {
			return false, err
		}
		n, err := res.RowsAffected()
		return n > 0, err
	}

	res := r.db.WithContext(ctx).Exec(
		"UPDATE leave_requests SET status = ?, updated_at = NOW() "+
			"WHERE id = ? AND status = 'PENDING' AND deleted_at IS NULL",
		status, id,
	)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) FindApprovedCovering(ctx context.Context, employeeID string, date time.Time) (*LeaveRequest, error) {
	var lr LeaveRequest
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Where("status = ?", StatusApproved).
		Where("start_date <= ? AND end_date >= ?", dateutil.Format(date), dateutil.Format(date)).
		First(&lr).Error
	return &lr, err
}
