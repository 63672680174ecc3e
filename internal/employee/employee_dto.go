package employee

type UpdateProfileRequest struct {
	FullName    string   `json:"full_name" binding:"required"`
	OffDay      string   `json:"off_day" binding:"required,oneof=Monday Tuesday Wednesday Thursday Friday Saturday Sunday"`
	Designation *string  `json:"designation"`
	Phone       *string  `json:"phone"`
	Address     *string  `json:"address"`
	PhotoURL    *string  `json:"photo_url"`
	HourlyRate  *float64 `json:"hourly_rate"`
	MonthlyRate *float64 `json:"monthly_rate"`
}

type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=EMPLOYEE ADMIN"`
}

type EmployeeResponse struct {
	ID               string   `json:"id"`
	FullName         string   `json:"full_name"`
	Email            string   `json:"email"`
	Role             string   `json:"role"`
	OffDay           string   `json:"off_day"`
	ProfileComplete  bool     `json:"profile_complete"`
	RemainingHoliday int      `json:"remaining_holiday"`
	Designation      *string  `json:"designation,omitempty"`
	Phone            *string  `json:"phone,omitempty"`
	Address          *string  `json:"address,omitempty"`
	PhotoURL         *string  `json:"photo_url,omitempty"`
	HourlyRate       *float64 `json:"hourly_rate,omitempty"`
	MonthlyRate      *float64 `json:"monthly_rate,omitempty"`
}
