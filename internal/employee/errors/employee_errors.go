package employeeerrors

import (
	"go-emp-mgmt/internal/shared/apperror"
	"net/http"
)

var (
	ErrCreateFailed = apperror.New(
		apperror.CodeInternalError,
		"Failed to add an employee",
		http.StatusInternalServerError,
	)
	ErrFetchFailed = apperror.New(
		apperror.CodeInternalError,
		"Failed to fetch employees",
		http.StatusInternalServerError,
	)
	ErrNoEmployees = apperror.New(
		apperror.CodeNotFound,
		"No Employees Found!",
		http.StatusNotFound,
	)
	ErrInvalidJoiningDate = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid joiningDate format, expected YYYY-MM-DD or RFC3339",
		http.StatusBadRequest,
	)
	ErrMissingRequiredFields = apperror.New(
		apperror.CodeInvalidInput,
		"Missing required fields",
		http.StatusBadRequest,
	)
)
