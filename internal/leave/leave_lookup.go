package leave

import (
	"context"
	"errors"
	"time"

	"go-attendance/internal/attendance"

	"gorm.io/gorm"
)

// Lookup adapts the leave registry to the shape the attendance resolver
// consumes.
type Lookup struct {
	repo Repository
}

func NewLookup(repo Repository) *Lookup {
	return &Lookup{repo: repo}
}

func (l *Lookup) ApprovedLeaveCovering(ctx context.Context, employeeID string, date time.Time) (*attendance.LeaveInfo, error) {
	lr, err := l.repo.FindApprovedCovering(ctx, employeeID, date)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &attendance.LeaveInfo{ReasonType: lr.ReasonType}, nil
}
