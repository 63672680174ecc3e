package attendance

import (
	"time"

	"github.com/google/uuid"
)

// Ledger statuses. PENDING is only ever entered through an explicit
// employee check-in; every other status is terminal.
const (
	StatusPending           = "PENDING"
	StatusAttended          = "ATTENDED"
	StatusUnauthorizedLeave = "UNAUTHORIZED_LEAVE"
	StatusOffDay            = "OFF_DAY"
	StatusAuthorizedLeave   = "AUTHORIZED_LEAVE"

	// StatusNotMarked is reported to callers when no row exists and no
	// auto rule applies. It is never persisted.
	StatusNotMarked = "NOT_MARKED"
)

// Provenance of a ledger row.
const (
	MethodManual      = "MANUAL"
	MethodAuto        = "AUTO"
	MethodLeaveSystem = "LEAVE_SYSTEM"
)

// AttendanceRecord is the authoritative statement of what happened on
// one calendar day for one employee. The (employee_id, date) unique
// index is the invariant everything else leans on: concurrent writers
// race on the index, not on reads.
type AttendanceRecord struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_attendance_employee_date"`
	EmployeeEmail string    `gorm:"type:varchar(255);not null;index"`
	Date          time.Time `gorm:"type:date;not null;uniqueIndex:uq_attendance_employee_date"`
	Status        string    `gorm:"type:varchar(30);not null"`
	Method        string    `gorm:"type:varchar(20);not null"`
	Reason        *string   `gorm:"type:text"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (AttendanceRecord) TableName() string {
	return "attendance_records"
}
