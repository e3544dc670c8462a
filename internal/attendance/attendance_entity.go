package attendance

import (
	"time"

	"github.com/google/uuid"
)

// Attendance is one employee's mark for one day. Date is kept exactly as the
// client sent it; EmployeeName is copied at first write and never synced.
type Attendance struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	EmployeeID   string    `gorm:"column:employee_id;type:varchar(100);not null;uniqueIndex:ux_attendances_employee_date,priority:1"`
	EmployeeName string    `gorm:"column:employee_name;type:varchar(200)"`
	Date         string    `gorm:"column:date;type:varchar(64);not null;uniqueIndex:ux_attendances_employee_date,priority:2;index"`
	Status       string    `gorm:"column:status;type:varchar(32);not null"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (Attendance) TableName() string {
	return "attendances"
}

func (a Attendance) ParsedStatus() Status {
	return ParseStatus(a.Status)
}
