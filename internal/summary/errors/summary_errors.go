package summaryerrors

import (
	"go-emp-mgmt/internal/shared/apperror"
	"net/http"
)

var (
	ErrReportFailed = apperror.New(
		apperror.CodeInternalError,
		"Failed fetching attendance summary report",
		http.StatusInternalServerError,
	)
	ErrExportFailed = apperror.New(
		apperror.CodeInternalError,
		"Failed exporting attendance summary report",
		http.StatusInternalServerError,
	)
)
