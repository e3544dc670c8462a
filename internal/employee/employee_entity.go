package employee

import (
	"time"

	"github.com/google/uuid"
)

// Employee is a registered employee. EmployeeID is the business key clients
// use; it is indexed but not unique, so two records may share it.
type Employee struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeID     string    `gorm:"column:employee_id;type:varchar(100);not null;index"`
	EmployeeName   string    `gorm:"column:employee_name;not null"`
	Designation    string    `gorm:"column:designation;not null"`
	Department     string    `gorm:"column:department;not null"`
	Salary         float64   `gorm:"column:salary;not null"`
	JoiningDate    time.Time `gorm:"column:joining_date;not null"`
	DateOfBirth    string    `gorm:"column:date_of_birth;not null"`
	ActiveEmployee bool      `gorm:"column:active_employee;not null"`
	PhoneNumber    string    `gorm:"column:phone_number;not null"`
	Address        string    `gorm:"column:address;not null"`
	CreatedAt      time.Time `gorm:"column:created_at;not null;index"`
}

func (Employee) TableName() string {
	return "employees"
}
