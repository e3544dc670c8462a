package summary

import (
	"fmt"
	"net/http"

	"go-emp-mgmt/internal/shared/apperror"
	"go-emp-mgmt/internal/shared/response"
	summaryerrors "go-emp-mgmt/internal/summary/errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("summary.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("summary.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error, fallback *apperror.AppError) {
	httpErr := apperror.Resolve(err, fallback)
	h.logger.Warn("summary request failed",
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.Error(err),
	)
	response.Error(c, httpErr.Status, httpErr.Message)
}

// MonthlyReport handles GET /summaryReport?month=M&year=Y.
func (h *Handler) MonthlyReport(c *gin.Context) {
	rows, err := h.service.MonthlyReport(c.Request.Context(), c.Query("month"), c.Query("year"))
	if err != nil {
		h.writeServiceError(c, err, summaryerrors.ErrReportFailed)
		return
	}
	response.JSON(c, http.StatusOK, response.Report{Report: rows})
}

// Export handles GET /summaryReport/export?month=M&year=Y.
func (h *Handler) Export(c *gin.Context) {
	month, year := c.Query("month"), c.Query("year")
	data, err := h.service.ExportReport(c.Request.Context(), month, year)
	if err != nil {
		h.writeServiceError(c, err, summaryerrors.ErrExportFailed)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exportFilename(month, year)))
	c.Data(http.StatusOK, XLSXContentType, data)
}

func exportFilename(month, year string) string {
	m, okMonth := ParseQueryInt(month)
	y, okYear := ParseQueryInt(year)
	if !okMonth || !okYear {
		return "attendance-summary.xlsx"
	}
	return fmt.Sprintf("attendance-summary-%d-%02d.xlsx", y, m)
}
