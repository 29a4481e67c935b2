package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turtacn/CoverGap-Intelligence/pkg/errors"
)

func TestNew_FieldsAreSet(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		code    errors.ErrorCode
		message string
	}{
		{"internal", errors.ErrCodeInternal, "unexpected failure"},
		{"invalid input", errors.ErrCodeInvalidInput, "policy text must be valid UTF-8"},
		{"configuration", errors.ErrCodeInternalConfiguration, "benchmark table UK/car is empty"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			ae := errors.New(tc.code, tc.message)
			require.NotNil(t, ae)
			assert.Equal(t, tc.code, ae.Code)
			assert.Equal(t, tc.message, ae.Message)
			assert.Empty(t, ae.Detail)
			assert.Nil(t, ae.Cause)
			assert.Contains(t, ae.Stack, "errors_test.go")
		})
	}
}

func TestAppError_Error(t *testing.T) {
	ae := errors.New(errors.ErrCodeReportNotFound, "gap report not found")
	assert.Equal(t, "[GAP_003] gap report not found", ae.Error())

	withDetail := ae.WithDetail("id=42")
	assert.Equal(t, "[GAP_003] gap report not found: id=42", withDetail.Error())
	assert.Empty(t, ae.Detail, "WithDetail must not mutate the receiver")
}

func TestNewf(t *testing.T) {
	ae := errors.Newf(errors.ErrCodeInternalConfiguration, "benchmark table %s/%s is empty", "UK", "car")
	assert.Equal(t, "benchmark table UK/car is empty", ae.Message)
}

func TestWrap(t *testing.T) {
	assert.Nil(t, errors.Wrap(nil, errors.ErrCodeDatabaseError, "insert"))

	root := stderrors.New("connection refused")
	wrapped := errors.Wrap(root, errors.ErrCodeDatabaseError, "insert gap report")
	require.NotNil(t, wrapped)
	assert.Equal(t, errors.ErrCodeDatabaseError, wrapped.Code)
	assert.True(t, stderrors.Is(wrapped, root))
}

func TestWrap_UnknownCodeKeepsOriginal(t *testing.T) {
	inner := errors.InvalidInput("bad text")
	outer := errors.Wrap(inner, errors.CodeUnknown, "analyze")
	assert.Equal(t, errors.ErrCodeInvalidInput, outer.Code)

	foreign := errors.Wrap(stderrors.New("x"), errors.CodeUnknown, "analyze")
	assert.Equal(t, errors.ErrCodeInternal, foreign.Code)
}

func TestWithCause_NilSafe(t *testing.T) {
	var ae *errors.AppError
	assert.Nil(t, ae.WithCause(stderrors.New("x")))
	assert.Nil(t, ae.WithDetail("x"))
}

func TestIsCode_TraversesChain(t *testing.T) {
	base := errors.InternalConfiguration("empty table")
	chained := fmt.Errorf("service: %w", errors.Wrap(base, errors.ErrCodeInternal, "analyze"))

	assert.True(t, errors.IsCode(chained, errors.ErrCodeInternal))
	assert.True(t, errors.IsInternalConfiguration(chained))
	assert.False(t, errors.IsInvalidInput(chained))
	assert.False(t, errors.IsCode(nil, errors.ErrCodeInternal))
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, errors.IsNotFound(errors.NotFound("x")))
	assert.True(t, errors.IsNotFound(errors.New(errors.ErrCodeReportNotFound, "x")))
	assert.False(t, errors.IsNotFound(errors.Internal("x")))
}

func TestGetCode(t *testing.T) {
	assert.Equal(t, errors.CodeOK, errors.GetCode(nil))
	assert.Equal(t, errors.CodeUnknown, errors.GetCode(stderrors.New("plain")))
	assert.Equal(t, errors.ErrCodeInvalidInput, errors.GetCode(fmt.Errorf("wrap: %w", errors.InvalidInput("x"))))
}

//Personal.AI order the ending
