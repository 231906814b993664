package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/placementportal/internal/app/models"
	"github.com/yigit/placementportal/internal/app/models/dto"
	"github.com/yigit/placementportal/internal/pkg/apperrors"
)

// SessionStore is the session persistence the scheduler needs
type SessionStore interface {
	Create(ctx context.Context, s *models.Session) error
	ListUpcoming(ctx context.Context, now time.Time) ([]models.Session, error)
	GetUpcomingByID(ctx context.Context, id int64, now time.Time) (*models.Session, error)
	Update(ctx context.Context, s *models.Session, now time.Time) error
	Delete(ctx context.Context, id int64) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// SessionService defines the interface for scheduled sessions. Sessions are
// only visible while their start time lies in the future.
type SessionService interface {
	Create(ctx context.Context, req *dto.SessionRequest, createdBy int64) (*models.Session, error)
	List(ctx context.Context) ([]models.Session, error)
	Get(ctx context.Context, id int64) (*models.Session, error)
	Update(ctx context.Context, id int64, req *dto.SessionRequest) (*models.Session, error)
	Delete(ctx context.Context, id int64) error
	PurgeExpired(ctx context.Context) (int64, error)
}

type sessionServiceImpl struct {
	sessions SessionStore
	now      func() time.Time
	logger   zerolog.Logger
}

// NewSessionService creates a new SessionService
func NewSessionService(sessions SessionStore, logger zerolog.Logger) SessionService {
	return &sessionServiceImpl{
		sessions: sessions,
		now:      time.Now,
		logger:   logger,
	}
}

func sessionFromRequest(req *dto.SessionRequest) (*models.Session, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", apperrors.ErrValidationFailed)
	}
	if strings.TrimSpace(req.MeetLink) == "" {
		return nil, fmt.Errorf("%w: meet link is required", apperrors.ErrValidationFailed)
	}
	if req.DateTime.IsZero() {
		return nil, fmt.Errorf("%w: date and time are required", apperrors.ErrValidationFailed)
	}
	return &models.Session{
		Title:       title,
		Description: req.Description,
		MeetLink:    strings.TrimSpace(req.MeetLink),
		DateTime:    req.DateTime,
	}, nil
}

// Create schedules a session. A start time in the past is accepted and the
// session is simply never listed.
func (s *sessionServiceImpl) Create(ctx context.Context, req *dto.SessionRequest, createdBy int64) (*models.Session, error) {
	session, err := sessionFromRequest(req)
	if err != nil {
		return nil, err
	}
	session.CreatedBy = &createdBy

	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("sessionID", session.ID).Time("dateTime", session.DateTime).Msg("Session created")
	return session, nil
}

// List returns upcoming sessions, soonest first
func (s *sessionServiceImpl) List(ctx context.Context) ([]models.Session, error) {
	return s.sessions.ListUpcoming(ctx, s.now())
}

// Get returns an upcoming session; past sessions are not found
func (s *sessionServiceImpl) Get(ctx context.Context, id int64) (*models.Session, error) {
	return s.sessions.GetUpcomingByID(ctx, id, s.now())
}

// Update replaces the fields of an upcoming session
func (s *sessionServiceImpl) Update(ctx context.Context, id int64, req *dto.SessionRequest) (*models.Session, error) {
	session, err := sessionFromRequest(req)
	if err != nil {
		return nil, err
	}
	session.ID = id

	if err := s.sessions.Update(ctx, session, s.now()); err != nil {
		return nil, err
	}
	return session, nil
}

// Delete removes a session
func (s *sessionServiceImpl) Delete(ctx context.Context, id int64) error {
	if err := s.sessions.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("sessionID", id).Msg("Session deleted")
	return nil
}

// PurgeExpired deletes every session that has already started
func (s *sessionServiceImpl) PurgeExpired(ctx context.Context) (int64, error) {
	n, err := s.sessions.DeleteExpired(ctx, s.now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Info().Int64("count", n).Msg("Expired sessions removed")
	}
	return n, nil
}

// SessionReaper periodically purges expired sessions
type SessionReaper struct {
	sessions SessionService
	interval time.Duration
	logger   zerolog.Logger
}

// NewSessionReaper creates a new SessionReaper
func NewSessionReaper(sessions SessionService, interval time.Duration, logger zerolog.Logger) *SessionReaper {
	if interval <= 0 {
		interval = time.Minute
	}
	return &SessionReaper{
		sessions: sessions,
		interval: interval,
		logger:   logger,
	}
}

// Run purges once immediately and then on every tick until ctx is done.
// Purge failures are logged and retried on the next tick.
func (r *SessionReaper) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		if _, err := r.sessions.PurgeExpired(ctx); err != nil && ctx.Err() == nil {
			r.logger.Error().Err(err).Msg("Failed to purge expired sessions")
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
