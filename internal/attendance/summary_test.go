package attendance

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func recordsWith(statuses ...string) []AttendanceRecord {
	records := make([]AttendanceRecord, len(statuses))
	for i, s := range statuses {
		records[i].Status = s
	}
	return records
}

func TestComputeMonthlySummary_Buckets(t *testing.T) {
	s := ComputeMonthlySummary(recordsWith(
		StatusAttended, StatusAttended,
		StatusAuthorizedLeave,
		StatusOffDay, StatusOffDay,
		StatusUnauthorizedLeave,
		StatusPending,
	))

	assert.Equal(t, 2, s.PresentDays)
	assert.Equal(t, 1, s.AuthorizedLeave)
	assert.Equal(t, 2, s.OffDays)
	assert.Equal(t, 1, s.Unauthorized)
	assert.Equal(t, 1, s.Pending)
	// 2 present out of 4 expected working days.
	assert.Equal(t, 50, s.AttendanceRatio)
}

func TestComputeMonthlySummary_RatioRounds(t *testing.T) {
	s := ComputeMonthlySummary(recordsWith(
		StatusAttended, StatusAttended, StatusUnauthorizedLeave,
	))
	// 200/3 rounds to 67.
	assert.Equal(t, 67, s.AttendanceRatio)
}

func TestComputeMonthlySummary_ZeroDenominator(t *testing.T) {
	s := ComputeMonthlySummary(recordsWith(StatusOffDay, StatusPending))
	assert.Equal(t, 0, s.AttendanceRatio)

	empty := ComputeMonthlySummary(nil)
	assert.Equal(t, 0, empty.AttendanceRatio)
}

func TestComputeMonthlySummary_OffDaysAndPendingStayOutOfRatio(t *testing.T) {
	with := ComputeMonthlySummary(recordsWith(
		StatusAttended, StatusOffDay, StatusOffDay, StatusPending,
	))
	without := ComputeMonthlySummary(recordsWith(StatusAttended))
	assert.Equal(t, without.AttendanceRatio, with.AttendanceRatio)
	assert.Equal(t, 100, with.AttendanceRatio)
}
