package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseToken(t *testing.T) {
	tm := NewTokenManager("test-secret", 60)

	token, claims, err := tm.GenerateToken("user-1")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.NotEmpty(t, claims.ID)

	parsed, err := tm.ParseToken(token)
	require.NoError(t, err)
	require.Equal(t, "user-1", parsed.UserID)
	require.Equal(t, claims.ID, parsed.ID)
	require.WithinDuration(t, time.Now().Add(time.Hour), parsed.ExpiresAt.Time, time.Minute)
}

func TestParseToken_RejectsWrongSecret(t *testing.T) {
	token, _, err := NewTokenManager("secret-a", 60).GenerateToken("user-1")
	require.NoError(t, err)

	_, err = NewTokenManager("secret-b", 60).ParseToken(token)
	require.Error(t, err)
}

func TestParseToken_RejectsGarbage(t *testing.T) {
	_, err := NewTokenManager("secret", 60).ParseToken("not-a-token")
	require.Error(t, err)
}

func TestNewTokenManager_DefaultsTTL(t *testing.T) {
	require.Equal(t, time.Hour, NewTokenManager("secret", 0).TTL())
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("hunter2", 4)
	require.NoError(t, err)

	require.NoError(t, ComparePassword(hash, "hunter2"))
	require.Error(t, ComparePassword(hash, "hunter3"))
}
