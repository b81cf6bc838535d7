package token

import (
	"testing"
	"time"

	"opentalk/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMaker() *Maker {
	return NewMaker(utils.JWTConfig{
		Secret:           "test-secret-key",
		AccessExpiryHrs:  24,
		RefreshExpiryHrs: 168,
		TempExpiryMins:   15,
	})
}

func TestMaker_CreatePair(t *testing.T) {
	maker := testMaker()
	userID := uuid.New()

	pair, err := maker.CreatePair(userID, "alice")
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), pair.ExpiresAt, time.Minute)

	claims, err := maker.Parse(pair.AccessToken, ScopeAccess)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, ScopeAccess, claims.Scope)

	parsed, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, userID, parsed)
}

func TestMaker_RefreshScope(t *testing.T) {
	maker := testMaker()

	pair, err := maker.CreatePair(uuid.New(), "alice")
	require.NoError(t, err)

	claims, err := maker.Parse(pair.RefreshToken, ScopeRefresh)
	require.NoError(t, err)
	assert.Equal(t, ScopeRefresh, claims.Scope)

	// A refresh token must not pass as an access token.
	_, err = maker.Parse(pair.RefreshToken, ScopeAccess)
	assert.ErrorIs(t, err, ErrWrongScope)
}

func TestMaker_TempToken(t *testing.T) {
	maker := testMaker()

	tempToken, err := maker.CreateTempToken("79990001122")
	require.NoError(t, err)

	claims, err := maker.Parse(tempToken, ScopeRegistration)
	require.NoError(t, err)
	assert.Equal(t, "79990001122", claims.Phone)
	assert.Equal(t, ScopeRegistration, claims.Scope)

	// Temp tokens must not grant API access.
	_, err = maker.Parse(tempToken, ScopeAccess)
	assert.ErrorIs(t, err, ErrWrongScope)
}

func TestMaker_WrongSecret(t *testing.T) {
	maker := testMaker()
	other := NewMaker(utils.JWTConfig{
		Secret:           "another-secret",
		AccessExpiryHrs:  24,
		RefreshExpiryHrs: 168,
		TempExpiryMins:   15,
	})

	pair, err := maker.CreatePair(uuid.New(), "alice")
	require.NoError(t, err)

	_, err = other.Parse(pair.AccessToken, ScopeAccess)
	assert.Error(t, err)
}

func TestMaker_ExpiredToken(t *testing.T) {
	maker := NewMaker(utils.JWTConfig{
		Secret:           "test-secret-key",
		AccessExpiryHrs:  0,
		RefreshExpiryHrs: 0,
		TempExpiryMins:   0,
	})

	pair, err := maker.CreatePair(uuid.New(), "alice")
	require.NoError(t, err)

	_, err = maker.Parse(pair.AccessToken, ScopeAccess)
	assert.Error(t, err)
}

func TestMaker_Garbage(t *testing.T) {
	maker := testMaker()

	_, err := maker.Parse("not-a-token", ScopeAccess)
	assert.Error(t, err)
}
