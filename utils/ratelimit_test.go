package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithinSMSRate(t *testing.T) {
	assert.True(t, WithinSMSRate(0, 3))
	assert.True(t, WithinSMSRate(2, 3))
	assert.False(t, WithinSMSRate(3, 3))
	assert.False(t, WithinSMSRate(4, 3))
}

func TestWithinVerifyAttempts(t *testing.T) {
	assert.True(t, WithinVerifyAttempts(0, 5))
	assert.True(t, WithinVerifyAttempts(4, 5))
	assert.False(t, WithinVerifyAttempts(5, 5))
	assert.False(t, WithinVerifyAttempts(6, 5))
}

func TestRemainingAttempts(t *testing.T) {
	assert.Equal(t, 5, RemainingAttempts(0, 5))
	assert.Equal(t, 1, RemainingAttempts(4, 5))
	assert.Equal(t, 0, RemainingAttempts(5, 5))
	assert.Equal(t, 0, RemainingAttempts(7, 5))
}
