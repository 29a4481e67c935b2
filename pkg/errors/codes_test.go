package errors

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorCode_String(t *testing.T) {
	assert.Equal(t, "GAP_001", ErrCodeInvalidInput.String())
}

func TestHTTPStatusForCode(t *testing.T) {
	tests := []struct {
		code     ErrorCode
		expected int
	}{
		{ErrCodeInternal, 500},
		{ErrCodeBadRequest, 400},
		{ErrCodeNotFound, 404},
		{ErrCodeValidation, 422},
		{ErrCodeInvalidInput, 400},
		{ErrCodeInternalConfiguration, 500},
		{ErrCodeReportNotFound, 404},
		{ErrorCode("UNKNOWN"), 500},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, HTTPStatusForCode(tt.code), tt.code)
	}
}

func TestCodeTables_Consistent(t *testing.T) {
	pattern := regexp.MustCompile(`^[A-Z]+_\d{3}$`)
	for code := range ErrorCodeHTTPStatus {
		assert.Regexp(t, pattern, string(code))
		_, ok := ErrorCodeMessage[code]
		assert.True(t, ok, "missing default message for %s", code)
	}
}

func TestClientServerClassification(t *testing.T) {
	assert.True(t, IsClientError(ErrCodeInvalidInput))
	assert.False(t, IsServerError(ErrCodeInvalidInput))
	assert.True(t, IsServerError(ErrCodeInternalConfiguration))
	assert.Equal(t, "unknown error", DefaultMessageForCode("NOPE_999"))
}

func TestModuleForCode(t *testing.T) {
	assert.Equal(t, "GAP", ModuleForCode(ErrCodeInvalidInput))
	assert.Equal(t, "COMMON", ModuleForCode(ErrCodeInternal))
	assert.Equal(t, "UNKNOWN", ModuleForCode(""))
}

//Personal.AI order the ending
