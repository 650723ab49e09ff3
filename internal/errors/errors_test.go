package errors_test

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/ebdruplab/semactl/internal/errors"
)

func TestNewSetsCodeAndStack(t *testing.T) {
	err := apperrors.New(apperrors.CodeAPIError, "boom")

	assert.Equal(t, apperrors.CodeAPIError, err.Code)
	assert.Equal(t, "boom", err.Message)
	assert.NotEmpty(t, err.StackTrace)
	assert.False(t, err.IsUserFacing)
	assert.Contains(t, err.Error(), "API_ERROR")
}

func TestWrapNilReturnsNil(t *testing.T) {
	assert.Nil(t, apperrors.Wrap(nil, apperrors.CodeInternal, "ignored"))
}

func TestWrapPreservesExistingAppError(t *testing.T) {
	inner := apperrors.New(apperrors.CodeAuthError, "denied")

	wrapped := apperrors.Wrap(inner, apperrors.CodeAPIError, "outer")

	assert.Equal(t, apperrors.CodeAuthError, wrapped.Code)
	assert.Same(t, inner, wrapped)
}

func TestWrapPlainError(t *testing.T) {
	cause := stderrors.New("connection refused")

	wrapped := apperrors.Wrap(cause, apperrors.CodeTransportError, "request failed")

	require.NotNil(t, wrapped)
	assert.Equal(t, apperrors.CodeTransportError, wrapped.Code)
	assert.ErrorIs(t, wrapped, cause)
	assert.Contains(t, wrapped.Error(), "connection refused")
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want apperrors.Code
	}{
		{"app error", apperrors.New(apperrors.CodeResourceNotFound, "gone"), apperrors.CodeResourceNotFound},
		{"plain error", stderrors.New("plain"), apperrors.CodeUnknown},
		{"wrapped app error", apperrors.Wrap(apperrors.New(apperrors.CodeDecodeError, "bad"), apperrors.CodeInternal, "x"), apperrors.CodeDecodeError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, apperrors.GetCode(tt.err))
		})
	}
}

func TestIs(t *testing.T) {
	err := apperrors.New(apperrors.CodeConfigConflict, "conflict")

	assert.True(t, apperrors.Is(err, apperrors.CodeConfigConflict))
	assert.False(t, apperrors.Is(err, apperrors.CodeAPIError))
	assert.False(t, apperrors.Is(stderrors.New("plain"), apperrors.CodeConfigConflict))
}

func TestGetUserFacingMessageWalksChain(t *testing.T) {
	inner := apperrors.NewUserFacing(apperrors.CodeManifestValidation, "bad manifest", "fix the manifest")
	outer := &apperrors.AppError{
		Code:         apperrors.CodeInternal,
		Message:      "run failed",
		WrappedError: inner,
	}

	msg, suggestion, ok := apperrors.GetUserFacingMessage(outer)

	assert.True(t, ok)
	assert.Equal(t, "bad manifest", msg)
	assert.Equal(t, "fix the manifest", suggestion)
}

func TestGetUserFacingMessageFallback(t *testing.T) {
	msg, suggestion, ok := apperrors.GetUserFacingMessage(stderrors.New("oops"))

	assert.False(t, ok)
	assert.NotEmpty(t, msg)
	assert.NotEmpty(t, suggestion)
}
