package holiday

import (
	"context"
	"errors"
	"time"

	"go-attendance/internal/attendance"

	"gorm.io/gorm"
)

// Lookup adapts the holiday store to the shape the attendance resolver
// consumes.
type Lookup struct {
	repo Repository
}

func NewLookup(repo Repository) *Lookup {
	return &Lookup{repo: repo}
}

func (l *Lookup) HolidayOn(ctx context.Context, date time.Time) (*attendance.HolidayInfo, error) {
	h, err := l.repo.FindByDate(ctx, date)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &attendance.HolidayInfo{Name: h.Name}, nil
}
