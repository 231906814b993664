package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/placementportal/internal/app/models"
	"github.com/yigit/placementportal/internal/db"
	"github.com/yigit/placementportal/internal/pkg/apperrors"
)

// marqueeLockKey serializes writers that change which marquee is active
const marqueeLockKey int64 = 0x6d61727175656521

var marqueeColumns = []string{"id", "text", "is_active", "created_by", "created_at", "updated_at"}

// MarqueeRepository handles marquee database operations
type MarqueeRepository struct {
	db db.DBTX
	sb squirrel.StatementBuilderType
}

// NewMarqueeRepository creates a new MarqueeRepository
func NewMarqueeRepository(conn db.DBTX) *MarqueeRepository {
	return &MarqueeRepository{
		db: conn,
		sb: statementBuilder(),
	}
}

// lockAndDeactivate takes the marquee lock for the transaction and clears the
// active flag on every marquee except keepID.
func (r *MarqueeRepository) lockAndDeactivate(ctx context.Context, tx pgx.Tx, keepID int64) error {
	if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock($1)", marqueeLockKey); err != nil {
		return fmt.Errorf("error locking marquees: %w", err)
	}

	sql, args, err := r.sb.Update("marquees").
		Set("is_active", false).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"is_active": true}).
		Where(squirrel.NotEq{"id": keepID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build deactivate marquees query: %w", err)
	}
	if _, err := tx.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error deactivating marquees: %w", err)
	}
	return nil
}

// Create deactivates every marquee and inserts m as the only active one
func (r *MarqueeRepository) Create(ctx context.Context, m *models.Marquee) error {
	m.IsActive = true
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		if err := r.lockAndDeactivate(ctx, tx, 0); err != nil {
			return err
		}

		sql, args, err := r.sb.Insert("marquees").
			Columns("text", "is_active", "created_by").
			Values(m.Text, true, m.CreatedBy).
			Suffix("RETURNING id, created_at, updated_at").
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build create marquee query: %w", err)
		}
		if err := tx.QueryRow(ctx, sql, args...).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return fmt.Errorf("error creating marquee: %w", err)
		}
		return nil
	})
}

// GetActive returns the most recently created active marquee
func (r *MarqueeRepository) GetActive(ctx context.Context) (*models.Marquee, error) {
	var m models.Marquee
	b := r.sb.Select(marqueeColumns...).
		From("marquees").
		Where(squirrel.Eq{"is_active": true}).
		OrderBy("created_at DESC", "id DESC").
		Limit(1)
	if err := getOne(ctx, r.db, &m, b); err != nil {
		if isNoRows(err) {
			return nil, apperrors.ErrMarqueeNotFound
		}
		return nil, fmt.Errorf("error getting active marquee: %w", err)
	}
	return &m, nil
}

// GetByID retrieves a marquee by ID
func (r *MarqueeRepository) GetByID(ctx context.Context, id int64) (*models.Marquee, error) {
	var m models.Marquee
	if err := getOne(ctx, r.db, &m, r.sb.Select(marqueeColumns...).From("marquees").Where(squirrel.Eq{"id": id}).Limit(1)); err != nil {
		if isNoRows(err) {
			return nil, apperrors.ErrMarqueeNotFound
		}
		return nil, fmt.Errorf("error getting marquee: %w", err)
	}
	return &m, nil
}

// List returns every marquee, newest first
func (r *MarqueeRepository) List(ctx context.Context) ([]models.Marquee, error) {
	marquees := []models.Marquee{}
	b := r.sb.Select(marqueeColumns...).From("marquees").OrderBy("created_at DESC", "id DESC")
	if err := selectAll(ctx, r.db, &marquees, b); err != nil {
		return nil, fmt.Errorf("error listing marquees: %w", err)
	}
	return marquees, nil
}

// Update changes text and/or active flag. Activating a marquee deactivates
// all others in the same transaction.
func (r *MarqueeRepository) Update(ctx context.Context, id int64, text *string, isActive *bool) (*models.Marquee, error) {
	var m models.Marquee
	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		if isActive != nil && *isActive {
			if err := r.lockAndDeactivate(ctx, tx, id); err != nil {
				return err
			}
		}

		b := r.sb.Update("marquees").Set("updated_at", squirrel.Expr("NOW()"))
		if text != nil {
			b = b.Set("text", *text)
		}
		if isActive != nil {
			b = b.Set("is_active", *isActive)
		}
		b = b.Where(squirrel.Eq{"id": id}).Suffix("RETURNING " + joinColumns(marqueeColumns))

		return getOne(ctx, tx, &m, b)
	})
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.ErrMarqueeNotFound
		}
		return nil, fmt.Errorf("error updating marquee: %w", err)
	}
	return &m, nil
}

// Delete removes a marquee
func (r *MarqueeRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("marquees").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete marquee query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error deleting marquee: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrMarqueeNotFound
	}
	return nil
}
