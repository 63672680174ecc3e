package dateutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseAndFormatRoundTrip(t *testing.T) {
	d, err := Parse("2025-06-06")
	assert.NoError(t, err)
	assert.Equal(t, "2025-06-06", Format(d))
	assert.Equal(t, "Friday", WeekdayName(d))

	_, err = Parse("06/06/2025")
	assert.Error(t, err)
}

func TestMonthBounds(t *testing.T) {
	d, _ := Parse("2025-06-15")
	first, last := MonthBounds(d)
	assert.Equal(t, "2025-06-01", Format(first))
	assert.Equal(t, "2025-06-30", Format(last))

	feb, _ := Parse("2024-02-10")
	_, lastFeb := MonthBounds(feb)
	assert.Equal(t, "2024-02-29", Format(lastFeb))
}

func TestDaysInclusiveAndEachDay(t *testing.T) {
	start, _ := Parse("2025-07-01")
	end, _ := Parse("2025-07-03")

	assert.Equal(t, 3, DaysInclusive(start, end))
	assert.Equal(t, 1, DaysInclusive(start, start))

	days := EachDay(start, end)
	assert.Len(t, days, 3)
	assert.Equal(t, "2025-07-01", Format(days[0]))
	assert.Equal(t, "2025-07-03", Format(days[2]))

	assert.Nil(t, EachDay(end, start))
}

func TestCovers(t *testing.T) {
	start, _ := Parse("2025-07-01")
	end, _ := Parse("2025-07-03")

	assert.True(t, Covers(start, end, start))
	assert.True(t, Covers(start, end, end))
	assert.False(t, Covers(start, end, end.AddDate(0, 0, 1)))
}

func TestNormalizeDropsClockTime(t *testing.T) {
	loc := time.FixedZone("X", 7*3600)
	noon := time.Date(2025, 6, 6, 12, 30, 0, 0, loc)
	assert.Equal(t, "2025-06-06", Format(Normalize(noon)))
}
