package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/yigit/placementportal/internal/app/models"
	"github.com/yigit/placementportal/internal/pkg/apperrors"
	pkgauth "github.com/yigit/placementportal/internal/pkg/auth"
	"github.com/yigit/placementportal/internal/pkg/logger"
)

// UserLookup loads users by id
type UserLookup interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

// TokenValidator parses access tokens
type TokenValidator interface {
	ValidateToken(tokenString string) (*pkgauth.Claims, error)
}

// AuthorizationService resolves the caller behind a token and decides what
// they may do. The user is loaded on every call, so deleted users and role
// changes take effect immediately.
type AuthorizationService struct {
	users  UserLookup
	tokens TokenValidator
}

// NewAuthorizationService creates a new AuthorizationService
func NewAuthorizationService(users UserLookup, tokens TokenValidator) *AuthorizationService {
	return &AuthorizationService{
		users:  users,
		tokens: tokens,
	}
}

// Authenticate validates token and returns the live user it belongs to
func (s *AuthorizationService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		if errors.Is(err, pkgauth.ErrExpiredToken) {
			return nil, apperrors.ErrTokenExpired
		}
		return nil, apperrors.ErrTokenInvalid
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.NewCustomError(apperrors.ErrUnauthorized, "User no longer exists")
		}
		logger.Error().Err(err).Int64("userID", claims.UserID).Msg("Error loading user during authentication")
		return nil, fmt.Errorf("error loading user: %w", err)
	}
	return user, nil
}

// AuthorizeAdmin returns a forbidden error unless user is an admin
func (s *AuthorizationService) AuthorizeAdmin(user *models.User) error {
	if !user.IsAdmin() {
		return apperrors.NewForbiddenError("Admin access required")
	}
	return nil
}
