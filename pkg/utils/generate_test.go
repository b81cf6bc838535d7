package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCode(t *testing.T) {
	code := GenerateCode(6)
	assert.Len(t, code, 6)
	for _, r := range code {
		assert.True(t, r >= '0' && r <= '9', "code must be numeric, got %q", code)
	}

	assert.Len(t, GenerateCode(4), 4)
	assert.Len(t, GenerateCode(0), 6, "non-positive length falls back to 6 digits")
	assert.Len(t, GenerateCode(-3), 6)
}

func TestGenerateRandomPassword(t *testing.T) {
	first := GenerateRandomPassword()
	second := GenerateRandomPassword()

	assert.NotEmpty(t, first)
	assert.NotEqual(t, first, second)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery staple", hash)

	assert.True(t, CheckPasswordHash("correct horse battery staple", hash))
	assert.False(t, CheckPasswordHash("wrong password", hash))
	assert.False(t, CheckPasswordHash("correct horse battery staple", "not a hash"))
}
