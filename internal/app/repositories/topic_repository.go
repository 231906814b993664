package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/placementportal/internal/app/models"
	"github.com/yigit/placementportal/internal/db"
	"github.com/yigit/placementportal/internal/pkg/apperrors"
	"github.com/yigit/placementportal/internal/pkg/dberrors"
	"github.com/yigit/placementportal/internal/pkg/logger"
)

// topicNameKey is the only unique constraint on topics; slugs may repeat
const topicNameKey = "topics_name_key"

var topicColumns = []string{"id", "name", "slug", "description", "display_order", "created_at", "updated_at"}

// TopicRepository handles DSA topic database operations
type TopicRepository struct {
	db db.DBTX
	sb squirrel.StatementBuilderType
}

// NewTopicRepository creates a new TopicRepository
func NewTopicRepository(conn db.DBTX) *TopicRepository {
	return &TopicRepository{
		db: conn,
		sb: statementBuilder(),
	}
}

// Create inserts a topic. Names are unique.
func (r *TopicRepository) Create(ctx context.Context, topic *models.Topic) error {
	sql, args, err := r.sb.Insert("topics").
		Columns("name", "slug", "description", "display_order").
		Values(topic.Name, topic.Slug, topic.Description, topic.DisplayOrder).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create topic query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&topic.ID, &topic.CreatedAt, &topic.UpdatedAt)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, topicNameKey) {
			return apperrors.ErrTopicAlreadyExists
		}
		logger.Error().Err(err).Str("name", topic.Name).Msg("Error creating topic")
		return fmt.Errorf("error creating topic: %w", err)
	}
	return nil
}

// List returns every topic by display order
func (r *TopicRepository) List(ctx context.Context) ([]models.Topic, error) {
	topics := []models.Topic{}
	err := selectAll(ctx, r.db, &topics, r.sb.Select(topicColumns...).From("topics").OrderBy("display_order ASC", "id ASC"))
	if err != nil {
		return nil, fmt.Errorf("error listing topics: %w", err)
	}
	return topics, nil
}

// GetByID retrieves a topic by ID
func (r *TopicRepository) GetByID(ctx context.Context, id int64) (*models.Topic, error) {
	return r.getBy(ctx, squirrel.Eq{"id": id})
}

func (r *TopicRepository) getBy(ctx context.Context, where squirrel.Eq) (*models.Topic, error) {
	var topic models.Topic
	if err := getOne(ctx, r.db, &topic, r.sb.Select(topicColumns...).From("topics").Where(where).Limit(1)); err != nil {
		if isNoRows(err) {
			return nil, apperrors.ErrTopicNotFound
		}
		return nil, fmt.Errorf("error getting topic: %w", err)
	}
	return &topic, nil
}

// Update writes name, slug, description and order of an existing topic
func (r *TopicRepository) Update(ctx context.Context, topic *models.Topic) error {
	sql, args, err := r.sb.Update("topics").
		Set("name", topic.Name).
		Set("slug", topic.Slug).
		Set("description", topic.Description).
		Set("display_order", topic.DisplayOrder).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": topic.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update topic query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&topic.UpdatedAt); err != nil {
		switch {
		case isNoRows(err):
			return apperrors.ErrTopicNotFound
		case dberrors.IsDuplicateConstraintError(err, topicNameKey):
			return apperrors.ErrTopicAlreadyExists
		}
		return fmt.Errorf("error updating topic: %w", err)
	}
	return nil
}

// Delete removes a topic and, by cascade, its questions
func (r *TopicRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("topics").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete topic query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error deleting topic: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrTopicNotFound
	}
	return nil
}
