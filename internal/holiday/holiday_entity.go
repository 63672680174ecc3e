package holiday

import (
	"time"

	"github.com/google/uuid"
)

// Holiday is a blanket non-work day applying to every employee.
// At most one holiday exists per calendar date.
type Holiday struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name        string    `gorm:"type:varchar(255);not null"`
	Date        time.Time `gorm:"type:date;not null;uniqueIndex:uq_holiday_date"`
	Description *string   `gorm:"type:text"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Holiday) TableName() string {
	return "holidays"
}
