package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromErrorPassesTypedErrorsThrough(t *testing.T) {
	wrapped := fmt.Errorf("signup: %w", ErrAlreadySignedUp)
	appErr := FromError(wrapped)
	assert.Equal(t, ErrAlreadySignedUp.Code, appErr.Code)
	assert.Equal(t, http.StatusBadRequest, appErr.Status)
}

func TestFromErrorDefaultsToInternal(t *testing.T) {
	appErr := FromError(errors.New("boom"))
	assert.Equal(t, ErrInternal.Code, appErr.Code)
	assert.Equal(t, http.StatusInternalServerError, appErr.Status)
	assert.EqualError(t, appErr, "internal server error: boom")
}

func TestCloneKeepsIdentity(t *testing.T) {
	clone := Clone(ErrUnauthorized, "Authentication required. Only teachers can register students.")
	assert.True(t, errors.Is(clone, ErrUnauthorized))
	assert.False(t, errors.Is(clone, ErrInvalidCredentials))
	assert.Equal(t, "Authentication required", ErrUnauthorized.Message)
}
