package common

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithDetails_DoesNotMutateSentinel(t *testing.T) {
	withDetails := ErrBadRequest.WithDetails("body must be JSON")

	assert.Nil(t, ErrBadRequest.Details)
	assert.Equal(t, "body must be JSON", withDetails.Details)
	assert.True(t, errors.Is(withDetails, ErrBadRequest))
	assert.False(t, errors.Is(withDetails, ErrNotFound))
}

func TestIsAPIError_Wrapped(t *testing.T) {
	err := fmt.Errorf("handler: %w", ErrProviderFailure.WithDetails("quota"))

	apiErr, ok := IsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, "PROVIDER_ERROR", apiErr.Code)
}

func TestNewFieldAPIError(t *testing.T) {
	apiErr := NewFieldAPIError("email", "ALREADY_IN_USE", "Email already in use. Please try another one.")

	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
	assert.Equal(t, "FIELD_ERROR", apiErr.Code)
	assert.Equal(t, FieldErrorDetails{Field: "email", Code: "ALREADY_IN_USE"}, apiErr.Details)
}
