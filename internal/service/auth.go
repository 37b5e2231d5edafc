package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/crateapp/crate-server/internal/auth"
	"github.com/crateapp/crate-server/internal/domain"
	"github.com/crateapp/crate-server/internal/errors"
	"github.com/crateapp/crate-server/internal/id"
	"github.com/crateapp/crate-server/internal/store"
	"github.com/crateapp/crate-server/internal/validation"
)

// AuthService handles account setup, login, and token lifecycle.
type AuthService struct {
	store     store.Store
	tokens    *auth.TokenService
	logger    *slog.Logger
	validator *validation.Validator
}

// NewAuthService creates a new authentication service.
func NewAuthService(store store.Store, tokens *auth.TokenService, logger *slog.Logger) *AuthService {
	return &AuthService{
		store:     store,
		tokens:    tokens,
		logger:    logger,
		validator: validation.New(),
	}
}

// SetupInput contains the initial admin user creation data.
type SetupInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=1024"`
	Name     string `json:"name" validate:"required,max=200"`
}

// LoginInput contains user credentials plus the client user agent.
type LoginInput struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
	UserAgent string `json:"-"`
}

// RefreshInput carries the opaque refresh token presented by the client.
type RefreshInput struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
	UserAgent    string `json:"-"`
}

// AuthResult contains the authenticated user and its token pair.
type AuthResult struct {
	User         *domain.User `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresIn    int64        `json:"expires_in"`
}

// SetupRequired reports whether the server still needs its first admin.
func (s *AuthService) SetupRequired(ctx context.Context) (bool, error) {
	count, err := s.store.CountUsers(ctx)
	if err != nil {
		return false, fmt.Errorf("count users: %w", err)
	}
	return count == 0, nil
}

// Setup creates the first user as an admin. It can only run once, before
// any users exist.
func (s *AuthService) Setup(ctx context.Context, input SetupInput) (*AuthResult, error) {
	if err := s.validator.Validate(input); err != nil {
		return nil, err
	}

	required, err := s.SetupRequired(ctx)
	if err != nil {
		return nil, err
	}
	if !required {
		return nil, errors.Conflict("server is already set up")
	}

	passwordHash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	userID, err := id.Generate("user")
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Entity:       domain.Entity{ID: userID},
		Email:        input.Email,
		Name:         input.Name,
		PasswordHash: passwordHash,
		IsAdmin:      true,
	}
	user.InitTimestamps()

	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, errors.AlreadyExists("email already in use")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("setup complete", "user_id", userID, "email", user.Email)
	return s.issueTokens(ctx, user, "")
}

// Login authenticates a user and opens a new refresh session.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	if err := s.validator.Validate(input); err != nil {
		return nil, err
	}

	user, err := s.store.GetUserByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Don't leak whether the email exists.
			return nil, errors.InvalidCredentials("invalid email or password")
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	valid, err := auth.VerifyPassword(user.PasswordHash, input.Password)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !valid {
		return nil, errors.InvalidCredentials("invalid email or password")
	}

	s.logger.Info("user logged in", "user_id", user.ID)
	return s.issueTokens(ctx, user, input.UserAgent)
}

// Refresh exchanges a refresh token for a fresh token pair. The presented
// token is rotated; the old value stops working immediately.
func (s *AuthService) Refresh(ctx context.Context, input RefreshInput) (*AuthResult, error) {
	if err := s.validator.Validate(input); err != nil {
		return nil, err
	}

	session, err := s.store.GetSessionByRefreshToken(ctx, auth.HashRefreshToken(input.RefreshToken))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errors.Unauthorized("invalid refresh token")
		}
		return nil, fmt.Errorf("lookup session: %w", err)
	}

	if session.Expired(time.Now()) {
		_ = s.store.DeleteSession(ctx, session.ID)
		return nil, errors.TokenExpired("refresh token expired")
	}

	user, err := s.store.GetUser(ctx, session.UserID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	accessToken, err := s.tokens.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}
	refreshToken, err := s.tokens.GenerateRefreshToken()
	if err != nil {
		return nil, err
	}

	session.RefreshTokenHash = auth.HashRefreshToken(refreshToken)
	session.ExpiresAt = time.Now().Add(s.tokens.RefreshTokenDuration())
	if input.UserAgent != "" {
		session.UserAgent = input.UserAgent
	}
	session.Touch()
	if err := s.store.UpdateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("rotate session: %w", err)
	}

	return &AuthResult{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.tokens.AccessTokenDuration().Seconds()),
	}, nil
}

// Logout revokes the session identified by the refresh token. An unknown
// token is not an error; logout is idempotent.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	session, err := s.store.GetSessionByRefreshToken(ctx, auth.HashRefreshToken(refreshToken))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("lookup session: %w", err)
	}
	return s.store.DeleteSession(ctx, session.ID)
}

// LogoutAll revokes every session belonging to the user.
func (s *AuthService) LogoutAll(ctx context.Context, userID string) error {
	return s.store.DeleteUserSessions(ctx, userID)
}

// Verify validates an access token and loads the user it names.
// Used by the request authentication middleware.
func (s *AuthService) Verify(ctx context.Context, tokenString string) (*domain.User, *auth.AccessClaims, error) {
	claims, err := s.tokens.VerifyAccessToken(tokenString)
	if err != nil {
		return nil, nil, errors.Unauthorized("invalid token").WithCause(err)
	}

	user, err := s.store.GetUser(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil, errors.Unauthorized("user no longer exists")
		}
		return nil, nil, fmt.Errorf("get user: %w", err)
	}
	return user, claims, nil
}

// PruneSessions deletes expired sessions and returns how many went away.
func (s *AuthService) PruneSessions(ctx context.Context) (int, error) {
	return s.store.DeleteExpiredSessions(ctx)
}

// issueTokens creates a token pair for the user and persists the refresh
// session.
func (s *AuthService) issueTokens(ctx context.Context, user *domain.User, userAgent string) (*AuthResult, error) {
	accessToken, err := s.tokens.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}
	refreshToken, err := s.tokens.GenerateRefreshToken()
	if err != nil {
		return nil, err
	}

	sessionID, err := id.Generate("session")
	if err != nil {
		return nil, err
	}
	session := &domain.Session{
		Entity:           domain.Entity{ID: sessionID},
		UserID:           user.ID,
		RefreshTokenHash: auth.HashRefreshToken(refreshToken),
		UserAgent:        userAgent,
		ExpiresAt:        time.Now().Add(s.tokens.RefreshTokenDuration()),
	}
	session.InitTimestamps()
	if err := s.store.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	return &AuthResult{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.tokens.AccessTokenDuration().Seconds()),
	}, nil
}
