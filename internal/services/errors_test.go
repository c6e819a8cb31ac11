package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/soltixdb/rainflow/internal/analytics/rainflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceError_Error(t *testing.T) {
	err := NewServiceError(CodeInvalidSeries, "series is required")
	assert.Equal(t, "series is required", err.Error())
	assert.Nil(t, err.Details)
}

func TestNewServiceErrorWithDetails(t *testing.T) {
	err := NewServiceErrorWithDetails(CodeSeriesTooLarge, "too many values", map[string]interface{}{
		"length": 10,
		"limit":  5,
	})

	assert.Equal(t, CodeSeriesTooLarge, err.Code)
	assert.Equal(t, 10, err.Details["length"])
	assert.Equal(t, 5, err.Details["limit"])
}

func TestServiceError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("%w: nbins must be positive", rainflow.ErrInvalidConfiguration)
	err := &ServiceError{Code: CodeInvalidConfiguration, Message: cause.Error(), Err: cause}

	assert.ErrorIs(t, err, rainflow.ErrInvalidConfiguration)

	wrapped := fmt.Errorf("counts: %w", err)
	svcErr, ok := AsServiceError(wrapped)
	require.True(t, ok)
	assert.Equal(t, CodeInvalidConfiguration, svcErr.Code)

	_, ok = AsServiceError(errors.New("plain"))
	assert.False(t, ok)
}

func TestServiceError_JSON(t *testing.T) {
	err := &ServiceError{
		Code:    CodeInvalidSeries,
		Message: "bad value",
		Details: map[string]interface{}{"index": 3},
		Err:     errors.New("hidden"),
	}

	data, mErr := json.Marshal(err)
	require.NoError(t, mErr)
	assert.JSONEq(t, `{"code":"INVALID_SERIES","message":"bad value","details":{"index":3}}`, string(data))
}
