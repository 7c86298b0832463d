package pkg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndComparePassword(t *testing.T) {
	hash, err := HashPassword("strongpassword")
	require.NoError(t, err)
	assert.NotEqual(t, "strongpassword", hash)

	assert.NoError(t, ComparePassword(hash, "strongpassword"))
	assert.Error(t, ComparePassword(hash, "wrongpassword"))
}

func TestNewResetToken(t *testing.T) {
	token, hash, err := NewResetToken()
	require.NoError(t, err)
	assert.Len(t, token, 64)
	assert.Equal(t, HashToken(token), hash)
	assert.NotEqual(t, token, hash)

	other, _, err := NewResetToken()
	require.NoError(t, err)
	assert.NotEqual(t, token, other)
}
