package session

import (
	"testing"
	"time"

	"github.com/akhmads/adscli/internal/client/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func modelsTokens(access, refresh string) models.Tokens {
	return models.Tokens{AccessToken: access, RefreshToken: refresh}
}

func TestTokenExpiry(t *testing.T) {
	exp := time.Now().Add(15 * time.Minute).Truncate(time.Second)
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "u1",
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("server-only-secret"))
	require.NoError(t, err)

	got, ok := tokenExpiry(signed)
	require.True(t, ok)
	assert.True(t, got.Equal(exp))

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "u1"}).SignedString([]byte("k"))
	require.NoError(t, err)
	_, ok = tokenExpiry(noExp)
	assert.False(t, ok)

	_, ok = tokenExpiry("opaque-token")
	assert.False(t, ok)

	_, ok = tokenExpiry("")
	assert.False(t, ok)
}

func TestStore_AccessTokenExpiry(t *testing.T) {
	s := NewStore(&fakeAuthAPI{}, nil, nil)
	_, ok := s.AccessTokenExpiry()
	assert.False(t, ok)
}
