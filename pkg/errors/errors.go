// Package errors provides the structured error type shared by every layer of
// the gap-analysis service.  Domain code returns *AppError values; the HTTP
// and CLI layers map their codes to status codes and exit messages.
package errors

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

const stackDepth = 32

func captureStack(skip int) string {
	pcs := make([]uintptr, stackDepth)
	n := runtime.Callers(skip+2, pcs)
	if n == 0 {
		return ""
	}
	frames := runtime.CallersFrames(pcs[:n])
	var sb strings.Builder
	for {
		f, more := frames.Next()
		if !strings.Contains(f.File, "runtime/") {
			fmt.Fprintf(&sb, "\n\t%s:%d %s", f.File, f.Line, f.Function)
		}
		if !more {
			break
		}
	}
	return sb.String()
}

// ─────────────────────────────────────────────────────────────────────────────
// AppError
// ─────────────────────────────────────────────────────────────────────────────

// AppError carries a code, a caller-facing message and optional context.
//
//	return errors.New(errors.ErrCodeInvalidInput, "policy text must be valid UTF-8")
//	return errors.Wrap(err, errors.ErrCodeDatabaseError, "insert gap report")
type AppError struct {
	Code    ErrorCode
	Message string
	// Detail is debugging context that is safe to log.
	Detail string
	Cause  error
	// Stack is captured by the factories and never included in Error().
	Stack string
}

// Error renders "[CODE] message: detail".
func (e *AppError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Detail)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithDetail returns a copy with Detail set.  Nil-safe.
func (e *AppError) WithDetail(detail string) *AppError {
	if e == nil {
		return nil
	}
	clone := *e
	clone.Detail = detail
	return &clone
}

// WithCause returns a copy with Cause set.  Nil-safe.
func (e *AppError) WithCause(err error) *AppError {
	if e == nil {
		return nil
	}
	clone := *e
	clone.Cause = err
	return &clone
}

// ─────────────────────────────────────────────────────────────────────────────
// Factories
// ─────────────────────────────────────────────────────────────────────────────

func New(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message, Stack: captureStack(1)}
}

// Newf is New with a formatted message.
func Newf(code ErrorCode, format string, args ...interface{}) *AppError {
	return &AppError{Code: code, Message: fmt.Sprintf(format, args...), Stack: captureStack(1)}
}

// Wrap attaches err as the cause of a new AppError.  A nil err yields nil.
// CodeUnknown keeps the code of the first AppError in err's chain.
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}
	if code == CodeUnknown {
		var ae *AppError
		if errors.As(err, &ae) {
			code = ae.Code
		} else {
			code = ErrCodeInternal
		}
	}
	return &AppError{Code: code, Message: message, Cause: err, Stack: captureStack(1)}
}

// InvalidInput builds an ErrCodeInvalidInput error.
func InvalidInput(message string) *AppError {
	return &AppError{Code: ErrCodeInvalidInput, Message: message, Stack: captureStack(1)}
}

// InternalConfiguration builds an ErrCodeInternalConfiguration error.
func InternalConfiguration(message string) *AppError {
	return &AppError{Code: ErrCodeInternalConfiguration, Message: message, Stack: captureStack(1)}
}

func NotFound(message string) *AppError {
	return &AppError{Code: ErrCodeNotFound, Message: message, Stack: captureStack(1)}
}

func Internal(message string) *AppError {
	return &AppError{Code: ErrCodeInternal, Message: message, Stack: captureStack(1)}
}

// ─────────────────────────────────────────────────────────────────────────────
// Inspection
// ─────────────────────────────────────────────────────────────────────────────

// IsCode reports whether any AppError in err's chain carries code.
func IsCode(err error, code ErrorCode) bool {
	for err != nil {
		if ae, ok := err.(*AppError); ok && ae.Code == code {
			return true
		}
		err = errors.Unwrap(err)
	}
	return false
}

func IsInvalidInput(err error) bool { return IsCode(err, ErrCodeInvalidInput) }

func IsInternalConfiguration(err error) bool { return IsCode(err, ErrCodeInternalConfiguration) }

// IsNotFound matches the generic and the report-specific not-found codes.
func IsNotFound(err error) bool {
	return IsCode(err, ErrCodeNotFound) || IsCode(err, ErrCodeReportNotFound)
}

// GetCode returns the code of the outermost AppError, CodeOK for nil and
// CodeUnknown for foreign errors.
func GetCode(err error) ErrorCode {
	if err == nil {
		return CodeOK
	}
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return CodeUnknown
}

//Personal.AI order the ending
