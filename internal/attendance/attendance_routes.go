package attendance

import "github.com/gin-gonic/gin"

func RegisterRoutes(r gin.IRoutes, h *Handler) {
	r.POST("/attendance", h.Mark)
	r.GET("/attendance", h.GetByDate)
}
