package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crateapp/crate-server/internal/auth"
	"github.com/crateapp/crate-server/internal/errors"
)

const testKeyHex = "abababababababababababababababababababababababababababababababab"

func setupAuth(t *testing.T) *AuthService {
	t.Helper()

	tokens, err := auth.NewTokenService(testKeyHex, 15*time.Minute, 30*24*time.Hour)
	require.NoError(t, err)
	return NewAuthService(setupStore(t), tokens, testLogger())
}

func setupInput() SetupInput {
	return SetupInput{
		Email:    "admin@example.com",
		Password: "correct horse battery",
		Name:     "Admin",
	}
}

func TestAuthSetup(t *testing.T) {
	svc := setupAuth(t)
	ctx := context.Background()

	required, err := svc.SetupRequired(ctx)
	require.NoError(t, err)
	assert.True(t, required)

	result, err := svc.Setup(ctx, setupInput())
	require.NoError(t, err)
	assert.True(t, result.User.IsAdmin)
	assert.True(t, strings.HasPrefix(result.AccessToken, "v4.local."))
	assert.NotEmpty(t, result.RefreshToken)

	required, err = svc.SetupRequired(ctx)
	require.NoError(t, err)
	assert.False(t, required)

	// Second setup attempt is rejected.
	_, err = svc.Setup(ctx, setupInput())
	assert.True(t, errors.Is(err, errors.ErrConflict), "got %v", err)
}

func TestAuthLogin(t *testing.T) {
	svc := setupAuth(t)
	ctx := context.Background()

	_, err := svc.Setup(ctx, setupInput())
	require.NoError(t, err)

	result, err := svc.Login(ctx, LoginInput{
		Email:     "admin@example.com",
		Password:  "correct horse battery",
		UserAgent: "crate-test/1.0",
	})
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", result.User.Email)
	assert.Equal(t, int64(900), result.ExpiresIn)

	// Wrong password and unknown email produce the same error.
	_, err = svc.Login(ctx, LoginInput{Email: "admin@example.com", Password: "nope nope nope"})
	assert.True(t, errors.Is(err, errors.ErrInvalidCredentials), "got %v", err)
	_, err = svc.Login(ctx, LoginInput{Email: "ghost@example.com", Password: "whatever pass"})
	assert.True(t, errors.Is(err, errors.ErrInvalidCredentials), "got %v", err)
}

func TestAuthRefreshRotation(t *testing.T) {
	svc := setupAuth(t)
	ctx := context.Background()

	first, err := svc.Setup(ctx, setupInput())
	require.NoError(t, err)

	second, err := svc.Refresh(ctx, RefreshInput{RefreshToken: first.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	// The rotated-out token no longer works.
	_, err = svc.Refresh(ctx, RefreshInput{RefreshToken: first.RefreshToken})
	assert.True(t, errors.Is(err, errors.ErrUnauthorized), "got %v", err)

	// The fresh one does.
	_, err = svc.Refresh(ctx, RefreshInput{RefreshToken: second.RefreshToken})
	assert.NoError(t, err)
}

func TestAuthLogout(t *testing.T) {
	svc := setupAuth(t)
	ctx := context.Background()

	result, err := svc.Setup(ctx, setupInput())
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, result.RefreshToken))

	_, err = svc.Refresh(ctx, RefreshInput{RefreshToken: result.RefreshToken})
	assert.True(t, errors.Is(err, errors.ErrUnauthorized), "got %v", err)

	// Logging out an already-revoked token is a no-op.
	assert.NoError(t, svc.Logout(ctx, result.RefreshToken))
}

func TestAuthLogoutAll(t *testing.T) {
	svc := setupAuth(t)
	ctx := context.Background()

	setup, err := svc.Setup(ctx, setupInput())
	require.NoError(t, err)
	login, err := svc.Login(ctx, LoginInput{Email: "admin@example.com", Password: "correct horse battery"})
	require.NoError(t, err)

	require.NoError(t, svc.LogoutAll(ctx, setup.User.ID))

	for _, token := range []string{setup.RefreshToken, login.RefreshToken} {
		_, err := svc.Refresh(ctx, RefreshInput{RefreshToken: token})
		assert.True(t, errors.Is(err, errors.ErrUnauthorized), "got %v", err)
	}
}

func TestAuthVerify(t *testing.T) {
	svc := setupAuth(t)
	ctx := context.Background()

	result, err := svc.Setup(ctx, setupInput())
	require.NoError(t, err)

	user, claims, err := svc.Verify(ctx, result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, user.ID)
	assert.Equal(t, result.User.ID, claims.UserID)
	assert.True(t, claims.IsAdmin)

	_, _, err = svc.Verify(ctx, "v4.local.garbage")
	assert.True(t, errors.Is(err, errors.ErrUnauthorized), "got %v", err)
}

func TestAuthSetupValidation(t *testing.T) {
	svc := setupAuth(t)
	ctx := context.Background()

	in := setupInput()
	in.Password = "short"
	_, err := svc.Setup(ctx, in)
	assert.True(t, errors.Is(err, errors.ErrValidation), "got %v", err)

	in = setupInput()
	in.Email = "not-an-email"
	_, err = svc.Setup(ctx, in)
	assert.True(t, errors.Is(err, errors.ErrValidation), "got %v", err)
}
