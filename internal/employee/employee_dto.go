package employee

// CreateEmployeeRequest mirrors the registration payload. Salary and
// ActiveEmployee are pointers so that 0 and false still count as present.
type CreateEmployeeRequest struct {
	EmployeeID     string   `json:"employeeId" binding:"required"`
	EmployeeName   string   `json:"employeeName" binding:"required"`
	Designation    string   `json:"designation" binding:"required"`
	Department     string   `json:"department" binding:"required"`
	Salary         *float64 `json:"salary" binding:"required"`
	JoiningDate    string   `json:"joiningDate"`
	DateOfBirth    string   `json:"dateOfBirth" binding:"required"`
	ActiveEmployee *bool    `json:"activeEmployee" binding:"required"`
	PhoneNumber    string   `json:"phoneNumber" binding:"required"`
	Address        string   `json:"address" binding:"required"`
}

type EmployeeResponse struct {
	ID             string  `json:"id"`
	EmployeeID     string  `json:"employeeId"`
	EmployeeName   string  `json:"employeeName"`
	Designation    string  `json:"designation"`
	Department     string  `json:"department"`
	Salary         float64 `json:"salary"`
	JoiningDate    string  `json:"joiningDate"`
	DateOfBirth    string  `json:"dateOfBirth"`
	ActiveEmployee bool    `json:"activeEmployee"`
	PhoneNumber    string  `json:"phoneNumber"`
	Address        string  `json:"address"`
	CreatedAt      string  `json:"createdAt"`
}
