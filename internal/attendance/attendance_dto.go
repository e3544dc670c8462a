package attendance

type MarkAttendanceRequest struct {
	EmployeeID   string `json:"employeeId" binding:"required"`
	EmployeeName string `json:"employeeName"`
	Date         string `json:"date" binding:"required"`
	Status       string `json:"status" binding:"required"`
}

type AttendanceResponse struct {
	ID           string `json:"id"`
	EmployeeID   string `json:"employeeId"`
	EmployeeName string `json:"employeeName,omitempty"`
	Date         string `json:"date"`
	Status       string `json:"status"`
	CreatedAt    string `json:"createdAt"`
	UpdatedAt    string `json:"updatedAt"`
}
