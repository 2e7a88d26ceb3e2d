package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newManager() *TokenManager {
	return NewTokenManager("access-secret", "refresh-secret", 15*time.Minute, 7*24*time.Hour)
}

func TestGeneratePairRoundTrip(t *testing.T) {
	m := newManager()

	pair, err := m.GeneratePair("user-1")
	require.NoError(t, err)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)

	claims, err := m.ParseAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)

	claims, err = m.ParseRefreshToken(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
}

func TestTokensAreNotInterchangeable(t *testing.T) {
	m := newManager()
	pair, err := m.GeneratePair("user-1")
	require.NoError(t, err)

	_, err = m.ParseAccessToken(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, err = m.ParseRefreshToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestExpiredToken(t *testing.T) {
	m := newManager()
	m.now = func() time.Time { return time.Now().Add(-time.Hour) }

	pair, err := m.GeneratePair("user-1")
	require.NoError(t, err)

	_, err = m.ParseAccessToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrTokenExpired)

	// refresh token 的效期較長，仍然有效
	_, err = m.ParseRefreshToken(pair.RefreshToken)
	assert.NoError(t, err)
}

func TestGarbageToken(t *testing.T) {
	_, err := newManager().ParseAccessToken("not-a-jwt")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestRejectsNoneAlgorithm(t *testing.T) {
	claims := Claims{UserID: "user-1", StandardClaims: jwt.StandardClaims{ExpiresAt: time.Now().Add(time.Hour).Unix()}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = newManager().ParseAccessToken(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestPairsAreUnique(t *testing.T) {
	m := newManager()
	a, err := m.GeneratePair("user-1")
	require.NoError(t, err)
	b, err := m.GeneratePair("user-1")
	require.NoError(t, err)
	assert.NotEqual(t, a.RefreshToken, b.RefreshToken)
}
