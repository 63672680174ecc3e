package employee

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RolePending  = "PENDING"
	RoleEmployee = "EMPLOYEE"
	RoleAdmin    = "ADMIN"
)

const DefaultHolidayBalance = 28

// Employee is the single identity entity: registration creates it with
// role PENDING, an admin promotes it, and the attendance ledger and
// leave registry reference it for as long as it exists. Rows are soft
// deleted so ledger history keeps a valid owner.
type Employee struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	FullName         string    `gorm:"type:varchar(255);not null"`
	Email            string    `gorm:"type:varchar(255);uniqueIndex:uq_employee_email;not null"`
	PasswordHash     string    `gorm:"column:password_hash;type:varchar(255);not null"`
	Role             string    `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	OffDay           string    `gorm:"column:off_day;type:varchar(10);not null;default:'Sunday'"`
	ProfileComplete  bool      `gorm:"not null;default:false"`
	RemainingHoliday int       `gorm:"not null;default:28"`
	Designation      *string   `gorm:"type:varchar(100)"`
	Phone            *string   `gorm:"type:varchar(30)"`
	Address          *string   `gorm:"type:text"`
	PhotoURL         *string   `gorm:"column:photo_url;type:text"`
	HourlyRate       *float64
	MonthlyRate      *float64
	CreatedAt        time.Time
	UpdatedAt        time.Time
	DeletedAt        gorm.DeletedAt `gorm:"index"`
}

func (Employee) TableName() string {
	return "employees"
}
