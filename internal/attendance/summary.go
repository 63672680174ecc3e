package attendance

import "math"

// MonthlySummary aggregates one calendar month of ledger rows. It is
// derived on demand and never persisted.
type MonthlySummary struct {
	PresentDays     int `json:"presentDays"`
	AuthorizedLeave int `json:"authorizedLeave"`
	OffDays         int `json:"offDays"`
	Unauthorized    int `json:"unauthorized"`
	Pending         int `json:"pending"`
	AttendanceRatio int `json:"attendanceRatio"`
}

// ComputeMonthlySummary counts records per status bucket and derives the
// attendance ratio: presentDays over every day the employee was expected
// to work (present + authorized + unauthorized), as a whole percentage.
// Off days and pending rows stay out of the denominator.
func ComputeMonthlySummary(records []AttendanceRecord) MonthlySummary {
	var s MonthlySummary
	for _, rec := range records {
		switch rec.Status {
		case StatusAttended:
			s.PresentDays++
		case StatusAuthorizedLeave:
			s.AuthorizedLeave++
		case StatusOffDay:
			s.OffDays++
		case StatusUnauthorizedLeave:
			s.Unauthorized++
		case StatusPending:
			s.Pending++
		}
	}

	denominator := s.PresentDays + s.AuthorizedLeave + s.Unauthorized
	if denominator > 0 {
		s.AttendanceRatio = int(math.Round(100 * float64(s.PresentDays) / float64(denominator)))
	}
	return s
}
