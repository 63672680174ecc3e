// Package events defines the notification payloads pushed to connected
// dashboards. Event names are part of the public contract; subscribers
// key their refresh logic on them.
package events

import "time"

const NotificationTopic = "attendance.notifications.v1"

const (
	TypeAttendanceChange  = "attendance-change"
	TypeLeaveRequest      = "leave-request"
	TypeLeaveStatusChange = "leave-status-change"
	TypeHolidayChange     = "holiday-change"
)

type AttendanceChangeEvent struct {
	EventType  string    `json:"event_type"`
	RequestID  string    `json:"request_id,omitempty"`
	UserEmail  string    `json:"userEmail"`
	Status     string    `json:"status"`
	Date       string    `json:"date,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

type LeaveRequestEvent struct {
	EventType     string    `json:"event_type"`
	RequestID     string    `json:"request_id,omitempty"`
	LeaveID       string    `json:"leaveId"`
	UserEmail     string    `json:"userEmail"`
	EmployeeName  string    `json:"employeeName"`
	ReasonType    string    `json:"reasonType"`
	Description   string    `json:"description,omitempty"`
	StartDate     string    `json:"startDate"`
	EndDate       string    `json:"endDate"`
	Status        string    `json:"status"`
	OccurredAt    time.Time `json:"occurred_at"`
}

type LeaveStatusChangeEvent struct {
	EventType  string    `json:"event_type"`
	RequestID  string    `json:"request_id,omitempty"`
	LeaveID    string    `json:"leaveId"`
	UserEmail  string    `json:"userEmail"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurred_at"`
}

type HolidayChangeEvent struct {
	EventType  string    `json:"event_type"`
	RequestID  string    `json:"request_id,omitempty"`
	Type       string    `json:"type"` // "added" or "removed"
	HolidayID  string    `json:"id"`
	Name       string    `json:"name,omitempty"`
	Date       string    `json:"date,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
