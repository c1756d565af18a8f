package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBusinessError_Unwrap(t *testing.T) {
	err := WrapLoanNotFound("abc")

	assert.True(t, errors.Is(err, ErrLoanNotFound))
	assert.Equal(t, ErrCodeLoanNotFound, err.Code)
	assert.Contains(t, err.Error(), "abc")
}

func TestWrapDeliveryError(t *testing.T) {
	cause := errors.New("smtp: connection refused")
	err := WrapDeliveryError("email", cause)

	assert.True(t, errors.Is(err, ErrDeliveryFailed))
	assert.True(t, errors.Is(err, cause))
	assert.Contains(t, err.Error(), "email delivery failed")
}

func TestBusinessError_WithoutCause(t *testing.T) {
	err := NewBusinessError("CODE", "message", nil)

	assert.Equal(t, "CODE: message", err.Error())
	assert.Nil(t, err.Unwrap())
}
