package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/placementportal/internal/app/models"
	"github.com/yigit/placementportal/internal/app/models/dto"
	"github.com/yigit/placementportal/internal/pkg/apperrors"
	"github.com/yigit/placementportal/internal/pkg/auth"
	"github.com/yigit/placementportal/internal/pkg/email"
	"github.com/yigit/placementportal/internal/pkg/ratelimit"
)

// ResetTokenTTL is how long a password reset link stays valid
const ResetTokenTTL = 30 * time.Minute

// UserStore is the persistence the auth service needs
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateRole(ctx context.Context, id int64, role models.Role) error
	SetResetToken(ctx context.Context, id int64, tokenHash string, expires time.Time) error
	ClearResetToken(ctx context.Context, id int64) error
	ResetPassword(ctx context.Context, tokenHash, passwordHash string, now time.Time) (int64, error)
}

// TokenIssuer signs access tokens
type TokenIssuer interface {
	GenerateToken(userID int64) (string, time.Time, error)
}

// AuthService defines the interface for account operations
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
	Me(ctx context.Context, userID int64) (*models.User, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, rawToken, newPassword string) error
	MakeAdmin(ctx context.Context, userID int64) error
}

// AuthConfig holds the settings of the auth service
type AuthConfig struct {
	FrontendURL string
}

type authServiceImpl struct {
	users   UserStore
	tokens  TokenIssuer
	hasher  *auth.PasswordHasher
	mailer  email.Sender
	limiter ratelimit.Limiter
	config  AuthConfig
	now     func() time.Time
	logger  zerolog.Logger

	// dummyHash is compared against when the email is unknown so that both
	// login failure paths cost one bcrypt comparison.
	dummyHash string
}

// NewAuthService creates a new AuthService. limiter may be nil.
func NewAuthService(
	users UserStore,
	tokens TokenIssuer,
	hasher *auth.PasswordHasher,
	mailer email.Sender,
	limiter ratelimit.Limiter,
	config AuthConfig,
	logger zerolog.Logger,
) AuthService {
	if limiter == nil {
		limiter = ratelimit.Noop{}
	}
	dummy, err := hasher.Hash("placeholder-password")
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to prepare dummy password hash")
	}
	return &authServiceImpl{
		users:   users,
		tokens:  tokens,
		hasher:  hasher,
		mailer:  mailer,
		limiter: limiter,
		config:  config,
		now:     time.Now,
		logger:  logger,

		dummyHash: dummy,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *authServiceImpl) authResponse(user *models.User, message string) (*dto.AuthResponse, error) {
	token, expiresAt, err := s.tokens.GenerateToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("error generating token: %w", err)
	}

	return &dto.AuthResponse{
		Message:   message,
		Token:     token,
		ExpiresIn: int64(time.Until(expiresAt).Seconds()),
		User:      dto.NewUserResponse(user),
	}, nil
}

// Register creates a user with the user role and signs them in
func (s *authServiceImpl) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	name := strings.TrimSpace(req.Name)
	if len([]rune(name)) < 2 {
		return nil, fmt.Errorf("%w: name must be at least 2 characters", apperrors.ErrValidationFailed)
	}
	if len(req.Password) < 6 {
		return nil, fmt.Errorf("%w: password must be at least 6 characters", apperrors.ErrValidationFailed)
	}

	hashed, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		Name:     name,
		Email:    normalizeEmail(req.Email),
		Password: hashed,
		Role:     models.RoleUser,
	}
	if handle := strings.TrimSpace(req.LeetcodeUsername); handle != "" {
		user.LeetcodeUsername = &handle
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrEmailAlreadyExists) {
			return nil, apperrors.NewCustomError(apperrors.ErrEmailAlreadyExists, "User already exists")
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	s.logger.Info().Int64("userID", user.ID).Msg("User registered")
	return s.authResponse(user, "User registered successfully")
}

// Login verifies credentials. Unknown email and wrong password are
// indistinguishable to the caller.
func (s *authServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			s.hasher.Check(s.dummyHash, req.Password)
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}

	if !s.hasher.Check(user.Password, req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	return s.authResponse(user, "Login successful")
}

// Me returns the profile of the authenticated user
func (s *authServiceImpl) Me(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}
	return user, nil
}

// ForgotPassword stores a hashed reset token and emails the raw one
func (s *authServiceImpl) ForgotPassword(ctx context.Context, emailAddr string) error {
	emailAddr = normalizeEmail(emailAddr)

	allowed, err := s.limiter.Allow(ctx, emailAddr)
	if err != nil {
		// Redis trouble must not lock users out of password recovery
		s.logger.Warn().Err(err).Msg("Forgot-password rate limiter unavailable")
	} else if !allowed {
		return apperrors.ErrRateLimited
	}

	user, err := s.users.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return apperrors.NewCustomError(apperrors.ErrUserNotFound, "No account with that email")
		}
		return fmt.Errorf("error loading user: %w", err)
	}

	raw, hashed, err := auth.GenerateResetToken()
	if err != nil {
		return fmt.Errorf("error generating reset token: %w", err)
	}

	if err := s.users.SetResetToken(ctx, user.ID, hashed, s.now().Add(ResetTokenTTL)); err != nil {
		return fmt.Errorf("error storing reset token: %w", err)
	}

	resetURL := strings.TrimRight(s.config.FrontendURL, "/") + "/reset-password/" + url.PathEscape(raw)
	if err := s.mailer.Send(ctx, email.PasswordResetMessage(user.Email, user.Name, resetURL)); err != nil {
		if clearErr := s.users.ClearResetToken(ctx, user.ID); clearErr != nil {
			s.logger.Error().Err(clearErr).Int64("userID", user.ID).Msg("Failed to clear reset token")
		}
		return fmt.Errorf("%w: sending reset email: %v", apperrors.ErrCollaboratorFailed, err)
	}

	s.logger.Info().Int64("userID", user.ID).Msg("Password reset email sent")
	return nil
}

// ResetPassword sets a new password for the holder of a valid reset token
func (s *authServiceImpl) ResetPassword(ctx context.Context, rawToken, newPassword string) error {
	if len(newPassword) < 6 {
		return fmt.Errorf("%w: password must be at least 6 characters", apperrors.ErrValidationFailed)
	}
	if strings.TrimSpace(rawToken) == "" {
		return apperrors.ErrInvalidPasswordResetToken
	}

	hashed, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}

	userID, err := s.users.ResetPassword(ctx, auth.HashResetToken(rawToken), hashed, s.now())
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidPasswordResetToken) {
			return apperrors.ErrInvalidPasswordResetToken
		}
		return fmt.Errorf("error resetting password: %w", err)
	}

	s.logger.Info().Int64("userID", userID).Msg("Password reset")
	return nil
}

// MakeAdmin grants the admin role
func (s *authServiceImpl) MakeAdmin(ctx context.Context, userID int64) error {
	if userID <= 0 {
		return fmt.Errorf("%w: invalid user ID", apperrors.ErrValidationFailed)
	}
	if err := s.users.UpdateRole(ctx, userID, models.RoleAdmin); err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return apperrors.ErrUserNotFound
		}
		return fmt.Errorf("error promoting user: %w", err)
	}

	s.logger.Info().Int64("userID", userID).Msg("User promoted to admin")
	return nil
}
