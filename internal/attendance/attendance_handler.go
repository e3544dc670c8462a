package attendance

import (
	"net/http"

	attendanceerrors "go-emp-mgmt/internal/attendance/errors"
	"go-emp-mgmt/internal/shared/apperror"
	"go-emp-mgmt/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("attendance.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error, fallback *apperror.AppError) {
	httpErr := apperror.Resolve(err, fallback)
	h.logger.Warn("attendance request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.Error(err),
	)
	response.Error(c, httpErr.Status, httpErr.Message)
}

// Mark handles POST /attendance.
func (h *Handler) Mark(c *gin.Context) {
	var req MarkAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err), attendanceerrors.ErrSubmitFailed)
		return
	}

	resp, err := h.service.Mark(c.Request.Context(), req)
	if err != nil {
		h.writeServiceError(c, err, attendanceerrors.ErrSubmitFailed)
		return
	}
	response.JSON(c, http.StatusOK, resp)
}

// GetByDate handles GET /attendance?date=D.
func (h *Handler) GetByDate(c *gin.Context) {
	date := c.Query("date")
	h.logger.Debug("http get attendance by date", zap.String("date", date))

	resp, err := h.service.GetByDate(c.Request.Context(), date)
	if err != nil {
		h.writeServiceError(c, err, attendanceerrors.ErrFetchFailed)
		return
	}
	response.JSON(c, http.StatusOK, resp)
}
