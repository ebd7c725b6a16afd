package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("password1")
	assert.NoError(t, err)
	assert.NotEqual(t, "password1", hash)

	assert.True(t, CheckPassword(hash, "password1"))
	assert.False(t, CheckPassword(hash, "password2"))
}

func TestCheckPasswordMalformedHash(t *testing.T) {
	// garbage hash input is a mismatch, not a panic
	assert.False(t, CheckPassword("not-a-bcrypt-hash", "password1"))
	assert.False(t, CheckPassword("", "password1"))
}

func TestHashPasswordSalted(t *testing.T) {
	first, err := HashPassword("password1")
	assert.NoError(t, err)
	second, err := HashPassword("password1")
	assert.NoError(t, err)
	assert.NotEqual(t, first, second, "two hashes of the same password should differ by salt")
}
