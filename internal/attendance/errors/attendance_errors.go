package attendanceerrors

import (
	"go-emp-mgmt/internal/shared/apperror"
	"net/http"
)

var (
	ErrSubmitFailed = apperror.New(
		apperror.CodeInternalError,
		"Failed to submit attendance",
		http.StatusInternalServerError,
	)
	ErrFetchFailed = apperror.New(
		apperror.CodeInternalError,
		"Failed fetching attendance",
		http.StatusInternalServerError,
	)
	ErrMissingRequiredFields = apperror.New(
		apperror.CodeInvalidInput,
		"employeeId, date and status are required",
		http.StatusBadRequest,
	)
)
