package employee

import (
	"net/http"

	employeeerrors "go-emp-mgmt/internal/employee/errors"
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
	l := zap.L().Named("employee.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error, fallback *apperror.AppError) {
	httpErr := apperror.Resolve(err, fallback)
	h.logger.Warn("employee request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.Error(err),
	)
	response.Error(c, httpErr.Status, httpErr.Message)
}

// AddEmployee handles POST /addEmployee. Every failure, validation included,
// is reported as the same 500.
func (h *Handler) AddEmployee(c *gin.Context) {
	h.logger.Debug("http add employee")

	var req CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		mapped := apperror.MapValidationError(err)
		h.logger.Warn("http add employee validation failed", zap.Error(mapped))
		h.writeServiceError(c, mapped, employeeerrors.ErrCreateFailed)
		return
	}

	resp, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		h.writeServiceError(c, err, employeeerrors.ErrCreateFailed)
		return
	}

	response.JSON(c, http.StatusCreated, response.EmployeeCreated{
		Message:  "Employee saved successfully",
		Employee: resp,
	})
}

// GetEmployees handles GET /employees.
func (h *Handler) GetEmployees(c *gin.Context) {
	h.logger.Debug("http get employees")

	resp, err := h.service.GetAll(c.Request.Context())
	if err != nil {
		h.writeServiceError(c, err, employeeerrors.ErrFetchFailed)
		return
	}

	response.JSON(c, http.StatusOK, resp)
}
