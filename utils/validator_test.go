package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	assert.True(t, ValidateEmail("jane@example.com"))
	assert.True(t, ValidateEmail("jane.doe+portal@college.edu.ng"))
	assert.False(t, ValidateEmail("not-an-email"))
	assert.False(t, ValidateEmail("jane@"))
	assert.False(t, ValidateEmail(""))
}

func TestValidatePassword(t *testing.T) {
	ok, msg := ValidatePassword("short")
	assert.False(t, ok)
	assert.NotEmpty(t, msg)

	ok, msg = ValidatePassword("12345678")
	assert.False(t, ok)
	assert.NotEmpty(t, msg)

	ok, msg = ValidatePassword("123456789")
	assert.True(t, ok)
	assert.Empty(t, msg)
}

func TestSanitizeInput(t *testing.T) {
	assert.Equal(t, "Jane Doe", SanitizeInput("  Jane Doe  "))
	assert.Equal(t, "JaneDoe", SanitizeInput("Jane\x00Doe"))
}
