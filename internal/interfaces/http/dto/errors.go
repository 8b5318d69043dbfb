package dto

import (
	"net/http"
	"strings"
)

// Transport-level error codes. Domain errors keep the code they were raised with.
const (
	ErrCodeInternal        = "INTERNAL_ERROR"
	ErrCodeValidation      = "VALIDATION_ERROR"
	ErrCodeBadRequest      = "BAD_REQUEST"
	ErrCodeNotFound        = "NOT_FOUND"
	ErrCodeRequestTooLarge = "REQUEST_TOO_LARGE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes.
// Codes missing here fall back to GetHTTPStatus's suffix/prefix rules.
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:        http.StatusInternalServerError,
	ErrCodeValidation:      http.StatusBadRequest,
	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeNotFound:        http.StatusNotFound,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,

	// Pricing
	"PRICE_NOT_CONFIGURED":      http.StatusBadRequest,
	"BELOW_COST_NOT_AUTHORIZED": http.StatusUnprocessableEntity,
	"NO_ACTIVE_PRICE_LIST":      http.StatusUnprocessableEntity,
	"NO_ITEMS":                  http.StatusBadRequest,

	// Lifecycle
	"INVALID_STATE":        http.StatusConflict,
	"ALREADY_ACTIVE":       http.StatusConflict,
	"ALREADY_INACTIVE":     http.StatusConflict,
	"CONCURRENCY_CONFLICT": http.StatusConflict,
}

// GetHTTPStatus returns the HTTP status for an error code.
// *_NOT_FOUND is 404 and INVALID_* is 400; anything else unknown is 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	switch {
	case strings.HasSuffix(code, "_NOT_FOUND"):
		return http.StatusNotFound
	case strings.HasPrefix(code, "INVALID_"):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
