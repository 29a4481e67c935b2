package errors

import (
	"net/http"
	"strings"
)

// ErrorCode identifies a failure category.  Codes are "<MODULE>_<NNN>".
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common codes.
const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeNotFound           ErrorCode = "COMMON_005"
	ErrCodeConflict           ErrorCode = "COMMON_006"
	ErrCodeTooManyRequests    ErrorCode = "COMMON_007"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_008"
	ErrCodeTimeout            ErrorCode = "COMMON_009"
	ErrCodeValidation         ErrorCode = "COMMON_010"
	ErrCodeSerialization      ErrorCode = "COMMON_011"
	ErrCodeDatabaseError      ErrorCode = "COMMON_012"
	ErrCodeCacheError         ErrorCode = "COMMON_013"
	ErrCodeExternalService    ErrorCode = "COMMON_014"
	ErrCodeNotImplemented     ErrorCode = "COMMON_016"
)

// Gap analysis codes.
const (
	// ErrCodeInvalidInput: the policy document cannot be analysed at all.
	ErrCodeInvalidInput ErrorCode = "GAP_001"
	// ErrCodeInternalConfiguration: a benchmark table resolved but was empty.
	// Always a bug in the static benchmark data, never a user error.
	ErrCodeInternalConfiguration ErrorCode = "GAP_002"
	ErrCodeReportNotFound        ErrorCode = "GAP_003"
	ErrCodeCatalogLoadFailed     ErrorCode = "GAP_004"
	ErrCodeEventPublishFailed    ErrorCode = "GAP_005"
)

const (
	CodeUnknown  = ErrorCode("")
	CodeOK       = ErrorCode("OK")
	CodeInternal = ErrCodeInternal
	CodeNotFound = ErrCodeNotFound
)

// ErrorCodeHTTPStatus maps codes to HTTP statuses.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeConflict:           http.StatusConflict,
	ErrCodeTooManyRequests:    http.StatusTooManyRequests,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeTimeout:            http.StatusGatewayTimeout,
	ErrCodeValidation:         http.StatusUnprocessableEntity,
	ErrCodeSerialization:      http.StatusInternalServerError,
	ErrCodeDatabaseError:      http.StatusInternalServerError,
	ErrCodeCacheError:         http.StatusInternalServerError,
	ErrCodeExternalService:    http.StatusBadGateway,
	ErrCodeNotImplemented:     http.StatusNotImplemented,

	ErrCodeInvalidInput:          http.StatusBadRequest,
	ErrCodeInternalConfiguration: http.StatusInternalServerError,
	ErrCodeReportNotFound:        http.StatusNotFound,
	ErrCodeCatalogLoadFailed:     http.StatusInternalServerError,
	ErrCodeEventPublishFailed:    http.StatusInternalServerError,
}

// ErrorCodeMessage maps codes to default messages.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:           "internal server error",
	ErrCodeBadRequest:         "bad request",
	ErrCodeNotFound:           "resource not found",
	ErrCodeConflict:           "resource conflict",
	ErrCodeTooManyRequests:    "too many requests",
	ErrCodeServiceUnavailable: "service unavailable",
	ErrCodeTimeout:            "request timeout",
	ErrCodeValidation:         "validation failed",
	ErrCodeSerialization:      "serialization failed",
	ErrCodeDatabaseError:      "database error",
	ErrCodeCacheError:         "cache error",
	ErrCodeExternalService:    "external service error",
	ErrCodeNotImplemented:     "not implemented",

	ErrCodeInvalidInput:          "policy document cannot be analysed",
	ErrCodeInternalConfiguration: "benchmark configuration is invalid",
	ErrCodeReportNotFound:        "gap report not found",
	ErrCodeCatalogLoadFailed:     "failed to load benchmark catalog",
	ErrCodeEventPublishFailed:    "failed to publish analysis event",
}

// HTTPStatusForCode returns the HTTP status for code, 500 when unmapped.
func HTTPStatusForCode(code ErrorCode) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

func DefaultMessageForCode(code ErrorCode) string {
	if msg, ok := ErrorCodeMessage[code]; ok {
		return msg
	}
	return "unknown error"
}

func IsClientError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 400 && status < 500
}

func IsServerError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 500 && status < 600
}

// ModuleForCode returns the module prefix ("GAP", "COMMON", ...).
func ModuleForCode(code ErrorCode) string {
	prefix, _, _ := strings.Cut(string(code), "_")
	if prefix == "" {
		return "UNKNOWN"
	}
	return prefix
}

//Personal.AI order the ending
