package auth

import (
	"testing"
	"time"

	"github.com/arjunmehta/mockview/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestGenerateAndVerifyToken(t *testing.T) {
	maker := NewJWTMaker(testSecret)

	signed, claims, err := maker.GenerateToken("user-1", "ada@example.com", model.UserRoleCandidate, time.Minute, "")
	require.NoError(t, err)
	require.NotEmpty(t, signed)
	assert.NotEmpty(t, claims.SessionID)

	got, err := maker.VerifyToken(signed)
	require.NoError(t, err)
	assert.Equal(t, "user-1", got.UserID)
	assert.Equal(t, "ada@example.com", got.Email)
	assert.Equal(t, model.UserRoleCandidate, got.Role)
	assert.Equal(t, claims.SessionID, got.SessionID)
	assert.False(t, got.IsHR())
}

func TestVerifyTokenExpired(t *testing.T) {
	maker := NewJWTMaker(testSecret)

	signed, _, err := maker.GenerateToken("user-1", "ada@example.com", model.UserRoleCandidate, -time.Minute, "")
	require.NoError(t, err)

	_, err = maker.VerifyToken(signed)
	require.Error(t, err)
}

func TestVerifyTokenWrongSecret(t *testing.T) {
	maker := NewJWTMaker(testSecret)
	other := NewJWTMaker("ffffffffffffffffffffffffffffffff")

	signed, _, err := maker.GenerateToken("user-1", "ada@example.com", model.UserRoleHRAdmin, time.Minute, "")
	require.NoError(t, err)

	_, err = other.VerifyToken(signed)
	require.Error(t, err)
}

func TestHRRoleRoundTrip(t *testing.T) {
	maker := NewJWTMaker(testSecret)

	signed, _, err := maker.GenerateToken("user-2", "hr@example.com", model.UserRoleHRAdmin, time.Minute, "sess-1")
	require.NoError(t, err)

	got, err := maker.VerifyToken(signed)
	require.NoError(t, err)
	assert.True(t, got.IsHR())
	assert.Equal(t, "sess-1", got.SessionID)
}
