package leave

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)

const (
	ReasonHoliday = "HOLIDAY"
	ReasonSick    = "SICK"
	ReasonOther   = "OTHER"
)

// LeaveRequest is an employee's petition for a contiguous block of days
// off. Employee email and name are denormalized at submission time so
// list views and notifications need no join.
type LeaveRequest struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	EmployeeID    uuid.UUID      `gorm:"type:uuid;not null;index:idx_leave_employee" json:"employee_id"`
	EmployeeEmail string         `gorm:"size:255;not null" json:"employee_email"`
	EmployeeName  string         `gorm:"size:255;not null" json:"employee_name"`
	ReasonType    string         `gorm:"size:20;not null" json:"reason_type"`
	Description   string         `gorm:"type:text" json:"description"`
	StartDate     time.Time      `gorm:"type:date;not null" json:"start_date"`
	EndDate       time.Time      `gorm:"type:date;not null" json:"end_date"`
	TotalDays     int            `gorm:"not null" json:"total_days"`
	Status        string         `gorm:"size:20;not null;default:'PENDING';index:idx_leave_status" json:"status"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

func (LeaveRequest) TableName() string {
	return "leave_requests"
}
