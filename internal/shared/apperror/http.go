package apperror

import (
	"errors"
	"net/http"
)

type HTTPError struct {
	Status  int
	Code    string
	Message string
	Details any
}

// ToHTTP resolves err to its outermost AppError. Anything else becomes a
// generic internal error so no driver message leaks to the client.
func ToHTTP(err error) HTTPError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return HTTPError{
			Status:  appErr.HTTPStatus,
			Code:    appErr.Code,
			Message: appErr.Message,
		}
	}
	return HTTPError{
		Status:  http.StatusInternalServerError,
		Code:    CodeInternalError,
		Message: ErrInternal.Message,
	}
}

// CodeOf returns the AppError code carried by err, or CodeInternalError.
func CodeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternalError
}

// Resolve decides what the client sees for err on an endpoint whose generic
// failure is fallback. Not-found errors keep their own status and message;
// validation and store failures collapse into fallback, whose message is
// fixed per endpoint.
func Resolve(err error, fallback *AppError) HTTPError {
	resolved := ToHTTP(err)
	if resolved.Code == CodeNotFound {
		return resolved
	}
	return HTTPError{
		Status:  fallback.HTTPStatus,
		Code:    resolved.Code,
		Message: fallback.Message,
	}
}
