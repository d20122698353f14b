package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("user@example.com"))
	assert.NoError(t, ValidateEmail("first.last+tag@sub.example.org"))
	assert.Error(t, ValidateEmail(""))
	assert.Error(t, ValidateEmail("not-an-email"))
	assert.Error(t, ValidateEmail("missing@tld"))
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "User@example.com", NormalizeEmail("User@EXAMPLE.COM"))
	assert.Equal(t, "user@example.com", NormalizeEmail("  user@example.com "))
	assert.Equal(t, "no-at-sign", NormalizeEmail("no-at-sign"))
}

func TestValidatePassword(t *testing.T) {
	assert.Error(t, ValidatePassword("1234"), "below minimum length")
	assert.NoError(t, ValidatePassword("12345"), "exactly minimum length")
	assert.NoError(t, ValidatePassword("correct horse battery staple"))
	assert.Error(t, ValidatePassword(strings.Repeat("x", 129)))
}

func TestValidateUsername(t *testing.T) {
	assert.NoError(t, ValidateUsername(""), "blank defaults to email later")
	assert.NoError(t, ValidateUsername("mate42"))
	assert.NoError(t, ValidateUsername("user@example.com"), "email-shaped handles are allowed")
	assert.Error(t, ValidateUsername("has space"))
	assert.Error(t, ValidateUsername(strings.Repeat("x", 151)))
}
