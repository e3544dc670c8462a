package events

import "time"

const (
	AttendanceMarkedTopic = "hr.attendance.marked.v1"
	AttendanceMarkedType  = "attendance_marked"
)

// AttendanceMarkedEvent is emitted after every attendance upsert. Date is the
// stored string, unparsed.
type AttendanceMarkedEvent struct {
	EventType  string    `json:"event_type"`
	RequestID  string    `json:"request_id,omitempty"`
	RecordID   string    `json:"record_id"`
	EmployeeID string    `json:"employee_id"`
	Date       string    `json:"date"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurred_at"`
}
