package attendance

import (
	"context"
	"time"

	"go-attendance/internal/shared/dateutil"
)

const (
	ReasonWeeklyOff = "Weekly off"
	ReasonNoCheckIn = "No check-in recorded"
)

// HolidayInfo is what the resolver needs to know about a global holiday.
type HolidayInfo struct {
	Name string
}

// LeaveInfo is what the resolver needs to know about an approved leave
// covering a date.
type LeaveInfo struct {
	ReasonType string
}

// HolidayLookup answers "is this date a global holiday". Implementations
// return nil (not an error) when no holiday exists.
type HolidayLookup interface {
	HolidayOn(ctx context.Context, date time.Time) (*HolidayInfo, error)
}

// LeaveLookup answers "does an approved leave cover this date for this
// employee". Implementations return nil when none does.
type LeaveLookup interface {
	ApprovedLeaveCovering(ctx context.Context, employeeID string, date time.Time) (*LeaveInfo, error)
}

// decideAutoStatus is the single source of the auto-classification
// precedence, shared by the lazy resolver and the daily reconciliation
// pass. Highest first:
//
//  1. the date is the employee's weekly off day
//  2. a global holiday falls on the date
//  3. an approved personal leave covers the date
//
// The weekly off day outranks a holiday because it is a structural
// property of the contract; the day is off regardless of the calendar.
// ok=false means no rule applies: the lazy path leaves the day
// unmarked, the eager path books it as unauthorized leave.
func decideAutoStatus(offDay string, date time.Time, hol *HolidayInfo, lv *LeaveInfo) (status, method, reason string, ok bool) {
	if dateutil.WeekdayName(date) == offDay {
		return StatusOffDay, MethodAuto, ReasonWeeklyOff, true
	}
	if hol != nil {
		return StatusAuthorizedLeave, MethodAuto, hol.Name, true
	}
	if lv != nil {
		return StatusAuthorizedLeave, MethodLeaveSystem, lv.ReasonType, true
	}
	return "", "", "", false
}
