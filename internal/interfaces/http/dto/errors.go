package dto

import (
	"net/http"
	"strings"
)

// Error codes emitted by the HTTP layer itself. Domain errors carry their
// own codes and are mapped to status codes below.
const (
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "INTERNAL_ERROR"
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "BAD_REQUEST"
	// ErrCodeValidation is used when request body validation fails
	ErrCodeValidation = "VALIDATION_ERROR"
	// ErrCodeUnauthorized is used when authentication is required but missing/invalid
	ErrCodeUnauthorized = "UNAUTHORIZED"
	// ErrCodeForbidden is used when the user lacks the required role
	ErrCodeForbidden = "FORBIDDEN"
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "NOT_FOUND"
	// ErrCodeConflict is used for resource conflicts
	ErrCodeConflict = "CONFLICT"
	// ErrCodeRateLimited is used when rate limit is exceeded
	ErrCodeRateLimited = "RATE_LIMIT_EXCEEDED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes.
// Codes not listed here fall back to the INVALID_ prefix rule, then 500.
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:    http.StatusInternalServerError,
	ErrCodeBadRequest:  http.StatusBadRequest,
	ErrCodeValidation:  http.StatusBadRequest,
	ErrCodeRateLimited: http.StatusTooManyRequests,

	// Auth
	ErrCodeUnauthorized:   http.StatusUnauthorized,
	"INVALID_CREDENTIALS": http.StatusUnauthorized,
	"TOKEN_EXPIRED":       http.StatusUnauthorized,
	"INVALID_TOKEN":       http.StatusUnauthorized,
	ErrCodeForbidden:      http.StatusForbidden,

	// Missing resources
	ErrCodeNotFound:       http.StatusNotFound,
	"CART_ITEM_NOT_FOUND": http.StatusNotFound,
	"USER_NOT_FOUND":      http.StatusNotFound,

	// Password resets
	"RESET_TOKEN_EXPIRED": http.StatusBadRequest,

	// Conflicts
	ErrCodeConflict:             http.StatusConflict,
	"ALREADY_EXISTS":            http.StatusConflict,
	"EMAIL_TAKEN":               http.StatusConflict,
	"CONCURRENCY_CONFLICT":      http.StatusConflict,
	"INVALID_STATUS_TRANSITION": http.StatusConflict,
	"INVALID_STATE":             http.StatusConflict,

	// Order placement rejections
	"TOTAL_MISMATCH":     http.StatusBadRequest,
	"INSUFFICIENT_STOCK": http.StatusBadRequest,
	"EMPTY_ORDER":        http.StatusBadRequest,
	"PRICE_UNAVAILABLE":  http.StatusBadRequest,

	// Internal failures that surface as opaque 500s
	"PASSWORD_HASH_ERROR": http.StatusInternalServerError,
	"TOKEN_ISSUE_FAILED":  http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for an error code. Unmapped
// INVALID_* codes are treated as validation failures; anything else is a 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	if strings.HasPrefix(code, "INVALID_") {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
