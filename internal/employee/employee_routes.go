package employee

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r gin.IRoutes, handler *Handler) {
	r.POST("/addEmployee", handler.AddEmployee)
	r.GET("/employees", handler.GetEmployees)
}
