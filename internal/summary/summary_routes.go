package summary

import "github.com/gin-gonic/gin"

func RegisterRoutes(r gin.IRoutes, h *Handler) {
	r.GET("/summaryReport", h.MonthlyReport)
	r.GET("/summaryReport/export", h.Export)
}
