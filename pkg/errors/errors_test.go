package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsSeesThroughWrapping(t *testing.T) {
	base := NewUnauthorizedError("")
	wrapped := fmt.Errorf("listing favorites: %w", base)

	assert.True(t, Is(wrapped, CodeUnauthorized))
	assert.False(t, Is(wrapped, CodeValidationFailed))
	assert.Equal(t, CodeUnauthorized, GetCode(wrapped))
	assert.Equal(t, CodeInternal, GetCode(stderrors.New("plain")))
}

func TestWrap(t *testing.T) {
	assert.Nil(t, Wrap(nil, "ignored"))

	app := NewValidationError("title is required")
	assert.Same(t, app, Wrap(app, "ignored"))

	cause := stderrors.New("disk full")
	wrapped := Wrap(cause, "saving session")
	require.NotNil(t, wrapped)
	assert.Equal(t, CodeInternal, wrapped.Code)
	assert.ErrorIs(t, wrapped, cause)
}

func TestFromValidator(t *testing.T) {
	type form struct {
		Email string `validate:"required,email"`
		Name  string `validate:"required,min=2"`
	}

	err := validator.New().Struct(form{Email: "nope", Name: "a"})
	require.Error(t, err)

	appErr := FromValidator(err)
	require.NotNil(t, appErr)
	assert.Equal(t, CodeValidationFailed, appErr.Code)
	assert.Contains(t, appErr.Details, "Email must be a valid email address")
	assert.Contains(t, appErr.Details, "Name must be at least 2")

	errs, ok := appErr.Metadata["validation_errors"].(ValidationErrors)
	require.True(t, ok)
	assert.Len(t, errs, 2)
}

func TestAppErrorMessage(t *testing.T) {
	err := NewRequestFailedError("ai chat", "model unavailable")
	assert.Equal(t, "REQUEST_FAILED: model unavailable (ai chat)", err.Error())

	err = NewAppError(CodeInternal, "boom", "")
	assert.Equal(t, "INTERNAL_ERROR: boom", err.Error())
}
