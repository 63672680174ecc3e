package leave

type SubmitLeaveRequest struct {
	ReasonType  string `json:"reason_type" binding:"required,oneof=HOLIDAY SICK OTHER"`
	Description string `json:"description" binding:"max=2000"`
	StartDate   string `json:"start_date" binding:"required"`
	EndDate     string `json:"end_date" binding:"required"`
}

type UpdateLeaveStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=APPROVED REJECTED"`
}

type LeaveResponse struct {
	ID            string `json:"id"`
	EmployeeID    string `json:"employee_id"`
	EmployeeEmail string `json:"employee_email"`
	EmployeeName  string `json:"employee_name"`
	ReasonType    string `json:"reason_type"`
	Description   string `json:"description,omitempty"`
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
	TotalDays     int    `json:"total_days"`
	Status        string `json:"status"`
}
