package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/placementportal/internal/app/models"
	"github.com/yigit/placementportal/internal/db"
	"github.com/yigit/placementportal/internal/pkg/apperrors"
)

var sessionColumns = []string{"id", "title", "description", "meet_link", "date_time", "created_by", "created_at", "updated_at"}

// SessionRepository handles session database operations. Every read takes
// the current time and hides sessions that already started.
type SessionRepository struct {
	db db.DBTX
	sb squirrel.StatementBuilderType
}

// NewSessionRepository creates a new SessionRepository
func NewSessionRepository(conn db.DBTX) *SessionRepository {
	return &SessionRepository{
		db: conn,
		sb: statementBuilder(),
	}
}

// Create inserts a session
func (r *SessionRepository) Create(ctx context.Context, s *models.Session) error {
	sql, args, err := r.sb.Insert("sessions").
		Columns("title", "description", "meet_link", "date_time", "created_by").
		Values(s.Title, s.Description, s.MeetLink, s.DateTime, s.CreatedBy).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create session query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return fmt.Errorf("error creating session: %w", err)
	}
	return nil
}

// ListUpcoming returns sessions scheduled after now, soonest first
func (r *SessionRepository) ListUpcoming(ctx context.Context, now time.Time) ([]models.Session, error) {
	b := r.sb.Select(sessionColumns...).
		From("sessions").
		Where(squirrel.Gt{"date_time": now}).
		OrderBy("date_time ASC", "id ASC")

	sessions := []models.Session{}
	if err := selectAll(ctx, r.db, &sessions, b); err != nil {
		return nil, fmt.Errorf("error listing sessions: %w", err)
	}
	return sessions, nil
}

// GetUpcomingByID retrieves a session that has not started yet
func (r *SessionRepository) GetUpcomingByID(ctx context.Context, id int64, now time.Time) (*models.Session, error) {
	var s models.Session
	b := r.sb.Select(sessionColumns...).
		From("sessions").
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Gt{"date_time": now}).
		Limit(1)
	if err := getOne(ctx, r.db, &s, b); err != nil {
		if isNoRows(err) {
			return nil, apperrors.ErrSessionNotFound
		}
		return nil, fmt.Errorf("error getting session: %w", err)
	}
	return &s, nil
}

// Update replaces the editable fields of a session that has not started yet
func (r *SessionRepository) Update(ctx context.Context, s *models.Session, now time.Time) error {
	sql, args, err := r.sb.Update("sessions").
		Set("title", s.Title).
		Set("description", s.Description).
		Set("meet_link", s.MeetLink).
		Set("date_time", s.DateTime).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": s.ID}).
		Where(squirrel.Gt{"date_time": now}).
		Suffix("RETURNING created_by, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update session query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&s.CreatedBy, &s.CreatedAt, &s.UpdatedAt); err != nil {
		if isNoRows(err) {
			return apperrors.ErrSessionNotFound
		}
		return fmt.Errorf("error updating session: %w", err)
	}
	return nil
}

// Delete removes a session
func (r *SessionRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("sessions").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete session query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error deleting session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrSessionNotFound
	}
	return nil
}

// DeleteExpired purges sessions whose start time is not after now
func (r *SessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	sql, args, err := r.sb.Delete("sessions").Where(squirrel.LtOrEq{"date_time": now}).ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build delete expired sessions query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("error deleting expired sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}
