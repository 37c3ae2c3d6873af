package dto

import (
	"net/http"
	"strings"
)

// General error codes used directly by the HTTP layer
const (
	ErrCodeBadRequest   = "VALIDATION_ERROR"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeInternal     = "INTERNAL_ERROR"
)

// errorCodeStatus maps domain error codes to HTTP status codes. Codes not
// listed here fall through to the suffix rules in HTTPStatus.
var errorCodeStatus = map[string]int{
	// Authentication
	"UNAUTHORIZED":        http.StatusUnauthorized,
	"INVALID_CREDENTIALS": http.StatusUnauthorized,
	"ACCOUNT_LOCKED":      http.StatusUnauthorized,
	"ACCOUNT_INACTIVE":    http.StatusUnauthorized,
	"COMPANY_INACTIVE":    http.StatusUnauthorized,
	"TOKEN_EXPIRED":       http.StatusUnauthorized,
	"TOKEN_INVALID":       http.StatusUnauthorized,
	"TOKEN_REVOKED":       http.StatusUnauthorized,
	"TOKEN_MAX_REFRESH":   http.StatusUnauthorized,
	"INVALID_TOKEN":       http.StatusUnauthorized,
	"INVALID_TOKEN_TYPE":  http.StatusUnauthorized,

	// Authorization
	"FORBIDDEN":             http.StatusForbidden,
	"SYSTEM_ROLE_IMMUTABLE": http.StatusForbidden,

	// Conflicts
	"CONCURRENCY_CONFLICT": http.StatusConflict,
	"SUBDOMAIN_TAKEN":      http.StatusConflict,
	"EMAIL_TAKEN":          http.StatusConflict,
	"INVOICE_NUMBER_TAKEN": http.StatusConflict,

	// Business rule violations on otherwise well-formed requests
	"PROFILE_INCOMPLETE":    http.StatusUnprocessableEntity,
	"CLIENT_INACTIVE":       http.StatusUnprocessableEntity,
	"INVOICE_NOT_EDITABLE":  http.StatusUnprocessableEntity,
	"INVOICE_NOT_DELETABLE": http.StatusUnprocessableEntity,
	"INVOICE_NOT_GENERATED": http.StatusUnprocessableEntity,
	"INVOICE_ALREADY_SENT":  http.StatusUnprocessableEntity,
	"WEAK_PASSWORD":         http.StatusUnprocessableEntity,

	// Malformed input
	"VALIDATION_ERROR":      http.StatusBadRequest,
	"FILE_TOO_LARGE":        http.StatusBadRequest,
	"UNSUPPORTED_FILE_TYPE": http.StatusBadRequest,
	"NOT_FOUND":             http.StatusNotFound,
	"INTERNAL_ERROR":        http.StatusInternalServerError,
}

// HTTPStatus resolves a domain error code to an HTTP status. Unknown codes
// are classified by their naming convention: *_NOT_FOUND maps to 404,
// *_TAKEN and *_EXISTS to 409, INVALID_* to 400. Anything else is a 500.
func HTTPStatus(code string) int {
	if status, ok := errorCodeStatus[code]; ok {
		return status
	}
	switch {
	case strings.HasSuffix(code, "_NOT_FOUND"):
		return http.StatusNotFound
	case strings.HasSuffix(code, "_TAKEN"), strings.HasSuffix(code, "_EXISTS"):
		return http.StatusConflict
	case strings.HasPrefix(code, "INVALID_"):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
