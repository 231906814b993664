package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/placementportal/internal/app/models"
	"github.com/yigit/placementportal/internal/pkg/apperrors"
	"github.com/yigit/placementportal/internal/pkg/profilescraper"
)

// ProfileService defines the interface for public coding profiles
type ProfileService interface {
	GetProfile(ctx context.Context, username string) (*profilescraper.Profile, error)
	GetOwnProfile(ctx context.Context, userID int64) (*profilescraper.Profile, error)
}

type profileServiceImpl struct {
	users   UserLookup
	scraper profilescraper.Scraper
	logger  zerolog.Logger
}

// UserLookup loads users by id
type UserLookup interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

// NewProfileService creates a new ProfileService
func NewProfileService(users UserLookup, scraper profilescraper.Scraper, logger zerolog.Logger) ProfileService {
	return &profileServiceImpl{
		users:   users,
		scraper: scraper,
		logger:  logger,
	}
}

// GetProfile scrapes the public profile of username
func (s *profileServiceImpl) GetProfile(ctx context.Context, username string) (*profilescraper.Profile, error) {
	profile, err := s.scraper.Scrape(ctx, strings.TrimSpace(username))
	if err != nil {
		switch {
		case errors.Is(err, profilescraper.ErrInvalidUsername):
			return nil, fmt.Errorf("%w: invalid username", apperrors.ErrValidationFailed)
		case errors.Is(err, profilescraper.ErrProfileNotFound):
			return nil, apperrors.NewResourceNotFoundError("Profile not found")
		}
		s.logger.Error().Err(err).Str("username", username).Msg("Profile scrape failed")
		return nil, fmt.Errorf("%w: profile scraper: %v", apperrors.ErrCollaboratorFailed, err)
	}
	return profile, nil
}

// GetOwnProfile scrapes the profile linked to userID's stored username
func (s *profileServiceImpl) GetOwnProfile(ctx context.Context, userID int64) (*profilescraper.Profile, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.LeetcodeUsername == nil || strings.TrimSpace(*user.LeetcodeUsername) == "" {
		return nil, apperrors.NewBadRequestError("No LeetCode username set for this account")
	}
	return s.GetProfile(ctx, *user.LeetcodeUsername)
}
