package queryir

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Message(t *testing.T) {
	err := NewInvalidParameter("bbox", "value %d is not a number", 2)
	assert.Equal(t, "INVALID_PARAMETER: bbox: value 2 is not a number", err.Error())

	err = NewNotFound("rivers")
	assert.Equal(t, `NOT_FOUND: collection "rivers" not found`, err.Error())

	cause := errors.New("connection refused")
	err = NewQueryExecutionFailed("list features", cause)
	assert.Equal(t, "QUERY_EXECUTION_FAILED: list features: connection refused", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestError_HelpersSeeThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("handler: %w", NewUnsupportedParameter("datetime", "no column"))

	assert.True(t, IsUnsupportedParameter(wrapped))
	assert.False(t, IsInvalidParameter(wrapped))
	assert.Equal(t, CodeUnsupportedParameter, CodeOf(wrapped))
	assert.Equal(t, ErrorCode(""), CodeOf(errors.New("plain")))
	assert.True(t, IsQueryExecutionFailed(NewQueryExecutionFailed("count", nil)))
}
