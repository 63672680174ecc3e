package attendance

type VerifyRequest struct {
	Status string `json:"status" binding:"required,oneof=ATTENDED UNAUTHORIZED_LEAVE"`
}

type AttendanceResponse struct {
	ID            string  `json:"id"`
	EmployeeID    string  `json:"employee_id"`
	EmployeeEmail string  `json:"employee_email"`
	Date          string  `json:"date"`
	Status        string  `json:"status"`
	Method        string  `json:"method"`
	Reason        *string `json:"reason,omitempty"`
}

type TodayResponse struct {
	Date           string              `json:"date"`
	Status         string              `json:"status"`
	Record         *AttendanceResponse `json:"record,omitempty"`
	MonthlySummary MonthlySummary      `json:"monthlySummary"`
}

type MonthlyResponse struct {
	Records        []AttendanceResponse `json:"records"`
	MonthlySummary MonthlySummary       `json:"monthlySummary"`
}
