package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/placementportal/internal/app/models"
	"github.com/yigit/placementportal/internal/app/models/dto"
	"github.com/yigit/placementportal/internal/pkg/apperrors"
)

// MarqueeEventType tags marquee change events
const MarqueeEventType = "marquee"

// MarqueeStore is the marquee persistence the service needs
type MarqueeStore interface {
	Create(ctx context.Context, m *models.Marquee) error
	GetActive(ctx context.Context) (*models.Marquee, error)
	List(ctx context.Context) ([]models.Marquee, error)
	Update(ctx context.Context, id int64, text *string, isActive *bool) (*models.Marquee, error)
	Delete(ctx context.Context, id int64) error
}

// Broadcaster pushes a value to every live subscriber
type Broadcaster interface {
	Broadcast(ctx context.Context, v interface{}) error
}

// MarqueeService defines the interface for the announcement banner
type MarqueeService interface {
	Create(ctx context.Context, text string, createdBy int64) (*models.Marquee, error)
	GetActive(ctx context.Context) (*models.Marquee, error)
	List(ctx context.Context) ([]models.Marquee, error)
	Update(ctx context.Context, id int64, req *dto.UpdateMarqueeRequest) (*models.Marquee, error)
	Delete(ctx context.Context, id int64) error
	Snapshot(ctx context.Context) (interface{}, error)
}

type marqueeServiceImpl struct {
	marquees    MarqueeStore
	broadcaster Broadcaster
	logger      zerolog.Logger
}

// NewMarqueeService creates a new MarqueeService. broadcaster may be nil.
func NewMarqueeService(marquees MarqueeStore, broadcaster Broadcaster, logger zerolog.Logger) MarqueeService {
	return &marqueeServiceImpl{
		marquees:    marquees,
		broadcaster: broadcaster,
		logger:      logger,
	}
}

// Create publishes text as the only active marquee
func (s *marqueeServiceImpl) Create(ctx context.Context, text string, createdBy int64) (*models.Marquee, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: text is required", apperrors.ErrValidationFailed)
	}

	m := &models.Marquee{Text: text, CreatedBy: &createdBy}
	if err := s.marquees.Create(ctx, m); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("marqueeID", m.ID).Msg("Marquee published")
	s.publish(ctx)
	return m, nil
}

// GetActive returns the active marquee
func (s *marqueeServiceImpl) GetActive(ctx context.Context) (*models.Marquee, error) {
	return s.marquees.GetActive(ctx)
}

// List returns all marquees, newest first
func (s *marqueeServiceImpl) List(ctx context.Context) ([]models.Marquee, error) {
	return s.marquees.List(ctx)
}

// Update edits a marquee; activating it deactivates every other one
func (s *marqueeServiceImpl) Update(ctx context.Context, id int64, req *dto.UpdateMarqueeRequest) (*models.Marquee, error) {
	text := req.Text
	if text != nil {
		trimmed := strings.TrimSpace(*text)
		if trimmed == "" {
			return nil, fmt.Errorf("%w: text must not be empty", apperrors.ErrValidationFailed)
		}
		text = &trimmed
	}

	m, err := s.marquees.Update(ctx, id, text, req.IsActive)
	if err != nil {
		return nil, err
	}

	s.publish(ctx)
	return m, nil
}

// Delete removes a marquee
func (s *marqueeServiceImpl) Delete(ctx context.Context, id int64) error {
	if err := s.marquees.Delete(ctx, id); err != nil {
		return err
	}
	s.publish(ctx)
	return nil
}

// Snapshot returns the event describing the current banner, sent to new
// subscribers on connect.
func (s *marqueeServiceImpl) Snapshot(ctx context.Context) (interface{}, error) {
	return s.event(ctx)
}

func (s *marqueeServiceImpl) event(ctx context.Context) (dto.MarqueeEvent, error) {
	active, err := s.marquees.GetActive(ctx)
	if err != nil {
		if errors.Is(err, apperrors.ErrMarqueeNotFound) {
			return dto.MarqueeEvent{Type: MarqueeEventType}, nil
		}
		return dto.MarqueeEvent{}, err
	}
	return dto.MarqueeEvent{Type: MarqueeEventType, Marquee: active}, nil
}

// publish pushes the current banner to subscribers. Failures only affect
// live clients and are logged.
func (s *marqueeServiceImpl) publish(ctx context.Context) {
	if s.broadcaster == nil {
		return
	}

	ev, err := s.event(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Failed to load active marquee for broadcast")
		return
	}
	if err := s.broadcaster.Broadcast(ctx, ev); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to broadcast marquee change")
	}
}
