package auth

import (
	"encoding/hex"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crateapp/crate-server/internal/domain"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$"))

	ok, err := VerifyPassword(hash, "correct horse battery staple")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword(hash, "wrong password")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashPasswordRejectsBadInput(t *testing.T) {
	_, err := HashPassword("")
	assert.Error(t, err)

	_, err = HashPassword(strings.Repeat("x", 2000))
	assert.Error(t, err)
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	ok, err := VerifyPassword("not-a-hash", "anything")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashPasswordSaltsDiffer(t *testing.T) {
	h1, err := HashPassword("same")
	require.NoError(t, err)
	h2, err := HashPassword("same")
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
}

func testKeyHex() string {
	return strings.Repeat("ab", 32)
}

func TestAccessTokenRoundTrip(t *testing.T) {
	svc, err := NewTokenService(testKeyHex(), 15*time.Minute, 30*24*time.Hour)
	require.NoError(t, err)

	user := &domain.User{
		Entity:  domain.Entity{ID: "user-1"},
		Email:   "a@example.com",
		IsAdmin: true,
	}

	token, err := svc.GenerateAccessToken(user)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(token, "v4.local."))

	claims, err := svc.VerifyAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "a@example.com", claims.Email)
	assert.True(t, claims.IsAdmin)
	assert.Equal(t, "user-1", claims.Subject)
}

func TestVerifyAccessTokenWrongKey(t *testing.T) {
	svc1, err := NewTokenService(testKeyHex(), time.Minute, time.Hour)
	require.NoError(t, err)
	svc2, err := NewTokenService(strings.Repeat("cd", 32), time.Minute, time.Hour)
	require.NoError(t, err)

	token, err := svc1.GenerateAccessToken(&domain.User{Entity: domain.Entity{ID: "user-1"}})
	require.NoError(t, err)

	_, err = svc2.VerifyAccessToken(token)
	assert.Error(t, err)
}

func TestVerifyAccessTokenExpired(t *testing.T) {
	svc, err := NewTokenService(testKeyHex(), -time.Minute, time.Hour)
	require.NoError(t, err)

	token, err := svc.GenerateAccessToken(&domain.User{Entity: domain.Entity{ID: "user-1"}})
	require.NoError(t, err)

	_, err = svc.VerifyAccessToken(token)
	assert.Error(t, err)
}

func TestNewTokenServiceRejectsBadKey(t *testing.T) {
	_, err := NewTokenService("too-short", time.Minute, time.Hour)
	assert.Error(t, err)

	_, err = NewTokenService(strings.Repeat("zz", 32), time.Minute, time.Hour)
	assert.Error(t, err)
}

func TestRefreshTokenHashing(t *testing.T) {
	svc, err := NewTokenService(testKeyHex(), time.Minute, time.Hour)
	require.NoError(t, err)

	t1, err := svc.GenerateRefreshToken()
	require.NoError(t, err)
	t2, err := svc.GenerateRefreshToken()
	require.NoError(t, err)
	assert.NotEqual(t, t1, t2)

	h := HashRefreshToken(t1)
	assert.Equal(t, HashRefreshToken(t1), h)
	assert.NotEqual(t, HashRefreshToken(t2), h)
	assert.NotContains(t, h, t1)
	// SHA-256 hex digest.
	assert.Len(t, h, 64)
}

func TestLoadOrGenerateKey(t *testing.T) {
	dir := t.TempDir()

	key1, err := LoadOrGenerateKey(dir)
	require.NoError(t, err)
	assert.Len(t, key1, 64)
	_, err = hex.DecodeString(key1)
	require.NoError(t, err)

	// Second call loads the same key.
	key2, err := LoadOrGenerateKey(dir)
	require.NoError(t, err)
	assert.Equal(t, key1, key2)
}
