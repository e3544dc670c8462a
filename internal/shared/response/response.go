package response

import (
	"github.com/gin-gonic/gin"
)

// MessageBody is the {message} shape used by every error response and by
// the employee creation response.
type MessageBody struct {
	Message string `json:"message"`
}

type EmployeeCreated struct {
	Message  string `json:"message"`
	Employee any    `json:"employee"`
}

type Report struct {
	Report any `json:"report"`
}

// JSON writes data as-is; list and record endpoints return bare values.
func JSON(c *gin.Context, status int, data any) {
	c.JSON(status, data)
}

// Error aborts the chain after writing the {message} body.
func Error(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, MessageBody{Message: message})
}
