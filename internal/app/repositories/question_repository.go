package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/placementportal/internal/app/models"
	"github.com/yigit/placementportal/internal/db"
	"github.com/yigit/placementportal/internal/pkg/apperrors"
	"github.com/yigit/placementportal/internal/pkg/dberrors"
	"github.com/yigit/placementportal/internal/pkg/logger"
)

// difficultyOrder sorts Easy < Medium < Hard
const difficultyOrder = "CASE q.difficulty WHEN 'Easy' THEN 1 WHEN 'Medium' THEN 2 ELSE 3 END"

var questionColumns = []string{
	"q.id", "q.topic_id", "t.name AS topic_name", "q.title", "q.difficulty", "q.link",
	"q.platform", "q.article_link", "q.practice_link", "q.created_at", "q.updated_at",
}

// toggleStarSQL removes the star if present, otherwise adds it. It reports
// whether a row was removed and whether one was inserted; neither means a
// concurrent toggle inserted the star after this statement's snapshot.
const toggleStarSQL = `
WITH removed AS (
	DELETE FROM question_stars WHERE question_id = $1 AND user_id = $2
	RETURNING question_id
), inserted AS (
	INSERT INTO question_stars (question_id, user_id)
	SELECT $1::bigint, $2::bigint
	WHERE NOT EXISTS (SELECT 1 FROM removed)
	ON CONFLICT (question_id, user_id) DO NOTHING
	RETURNING question_id
)
SELECT EXISTS (SELECT 1 FROM removed), EXISTS (SELECT 1 FROM inserted)`

// toggleStarAttempts bounds reruns of toggleStarSQL under concurrent toggles
const toggleStarAttempts = 3

// markSolvedSQL records a solve once and returns the solve time, new or
// existing. The no-op update locks and returns a row committed concurrently.
const markSolvedSQL = `
INSERT INTO question_solves (question_id, user_id) VALUES ($1, $2)
ON CONFLICT (question_id, user_id) DO UPDATE SET solved_at = question_solves.solved_at
RETURNING solved_at`

// QuestionRepository handles questions and the per-user notes, stars and solves
type QuestionRepository struct {
	db db.DBTX
	sb squirrel.StatementBuilderType
}

// NewQuestionRepository creates a new QuestionRepository
func NewQuestionRepository(conn db.DBTX) *QuestionRepository {
	return &QuestionRepository{
		db: conn,
		sb: statementBuilder(),
	}
}

func (r *QuestionRepository) insert(ctx context.Context, conn db.DBTX, q *models.Question) error {
	sql, args, err := r.sb.Insert("questions").
		Columns("topic_id", "title", "difficulty", "link", "platform", "article_link", "practice_link").
		Values(q.TopicID, q.Title, q.Difficulty, q.Link, q.Platform, q.ArticleLink, q.PracticeLink).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create question query: %w", err)
	}

	if err := conn.QueryRow(ctx, sql, args...).Scan(&q.ID, &q.CreatedAt, &q.UpdatedAt); err != nil {
		if dberrors.IsForeignKeyError(err, "") {
			return apperrors.ErrTopicNotFound
		}
		return fmt.Errorf("error creating question: %w", err)
	}
	return nil
}

// Create inserts one question
func (r *QuestionRepository) Create(ctx context.Context, q *models.Question) error {
	return r.insert(ctx, r.db, q)
}

// BulkCreate inserts all questions in one transaction; either all rows are
// stored or none.
func (r *QuestionRepository) BulkCreate(ctx context.Context, questions []*models.Question) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		for i, q := range questions {
			if err := r.insert(ctx, tx, q); err != nil {
				logger.Error().Err(err).Int("index", i).Str("title", q.Title).Msg("Bulk question insert failed")
				return err
			}
		}
		return nil
	})
}

// GetByID retrieves a question with its topic name
func (r *QuestionRepository) GetByID(ctx context.Context, id int64) (*models.Question, error) {
	var q models.Question
	err := getOne(ctx, r.db, &q, r.sb.Select(questionColumns...).
		From("questions q").
		Join("topics t ON t.id = q.topic_id").
		Where(squirrel.Eq{"q.id": id}).
		Limit(1))
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.ErrQuestionNotFound
		}
		return nil, fmt.Errorf("error getting question: %w", err)
	}
	return &q, nil
}

// ListByTopicForUser returns the questions of a topic with userID's star and
// solve state, ordered by difficulty then id. Notes are not loaded.
func (r *QuestionRepository) ListByTopicForUser(ctx context.Context, topicID, userID int64) ([]models.QuestionState, error) {
	cols := append(append([]string{}, questionColumns...), "(st.user_id IS NOT NULL) AS is_starred", "sv.solved_at")
	b := r.sb.Select(cols...).
		From("questions q").
		Join("topics t ON t.id = q.topic_id").
		LeftJoin("question_stars st ON st.question_id = q.id AND st.user_id = ?", userID).
		LeftJoin("question_solves sv ON sv.question_id = q.id AND sv.user_id = ?", userID).
		Where(squirrel.Eq{"q.topic_id": topicID}).
		OrderBy(difficultyOrder, "q.id ASC")

	questions := []models.QuestionState{}
	if err := selectAll(ctx, r.db, &questions, b); err != nil {
		return nil, fmt.Errorf("error listing questions: %w", err)
	}
	return questions, nil
}

// NotesForUser returns userID's notes on the given questions, oldest first
func (r *QuestionRepository) NotesForUser(ctx context.Context, questionIDs []int64, userID int64) ([]models.Note, error) {
	notes := []models.Note{}
	if len(questionIDs) == 0 {
		return notes, nil
	}

	b := r.sb.Select("id", "question_id", "user_id", "content", "created_at").
		From("question_notes").
		Where(squirrel.Eq{"question_id": questionIDs, "user_id": userID}).
		OrderBy("created_at ASC", "id ASC")
	if err := selectAll(ctx, r.db, &notes, b); err != nil {
		return nil, fmt.Errorf("error listing notes: %w", err)
	}
	return notes, nil
}

// AddNote appends a note
func (r *QuestionRepository) AddNote(ctx context.Context, note *models.Note) error {
	sql, args, err := r.sb.Insert("question_notes").
		Columns("question_id", "user_id", "content").
		Values(note.QuestionID, note.UserID, note.Content).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build add note query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&note.ID, &note.CreatedAt); err != nil {
		if dberrors.IsForeignKeyError(err, "") {
			return apperrors.ErrQuestionNotFound
		}
		return fmt.Errorf("error adding note: %w", err)
	}
	return nil
}

// ToggleStar flips userID's star on a question and returns the resulting
// state. A run that lost an insert race is repeated so the concurrent star is
// removed, as if the two toggles ran one after the other.
func (r *QuestionRepository) ToggleStar(ctx context.Context, questionID, userID int64) (bool, error) {
	for attempt := 0; attempt < toggleStarAttempts; attempt++ {
		var removed, inserted bool
		if err := r.db.QueryRow(ctx, toggleStarSQL, questionID, userID).Scan(&removed, &inserted); err != nil {
			if dberrors.IsForeignKeyError(err, "") {
				return false, apperrors.ErrQuestionNotFound
			}
			return false, fmt.Errorf("error toggling star: %w", err)
		}
		if removed || inserted {
			return inserted, nil
		}
	}
	return false, fmt.Errorf("error toggling star: no change after %d attempts", toggleStarAttempts)
}

// MarkSolved records that userID solved the question. Repeated calls keep the
// first solve time.
func (r *QuestionRepository) MarkSolved(ctx context.Context, questionID, userID int64) (time.Time, error) {
	var solvedAt time.Time
	if err := r.db.QueryRow(ctx, markSolvedSQL, questionID, userID).Scan(&solvedAt); err != nil {
		if dberrors.IsForeignKeyError(err, "") {
			return time.Time{}, apperrors.ErrQuestionNotFound
		}
		return time.Time{}, fmt.Errorf("error marking solved: %w", err)
	}
	return solvedAt, nil
}

// UnmarkSolved removes userID's solve; absent solves are ignored
func (r *QuestionRepository) UnmarkSolved(ctx context.Context, questionID, userID int64) error {
	sql, args, err := r.sb.Delete("question_solves").
		Where(squirrel.Eq{"question_id": questionID, "user_id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build unmark solved query: %w", err)
	}
	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error unmarking solved: %w", err)
	}
	return nil
}

// ProgressByTopic counts questions and userID's solves per topic in a single
// grouped query. Topics without questions report zero totals.
func (r *QuestionRepository) ProgressByTopic(ctx context.Context, userID int64) ([]models.TopicProgress, error) {
	b := r.sb.Select("t.id AS topic_id", "t.name AS topic", "COUNT(q.id) AS total", "COUNT(s.question_id) AS solved").
		From("topics t").
		LeftJoin("questions q ON q.topic_id = t.id").
		LeftJoin("question_solves s ON s.question_id = q.id AND s.user_id = ?", userID).
		GroupBy("t.id", "t.name", "t.display_order").
		OrderBy("t.display_order ASC", "t.id ASC")

	progress := []models.TopicProgress{}
	if err := selectAll(ctx, r.db, &progress, b); err != nil {
		return nil, fmt.Errorf("error computing progress: %w", err)
	}
	return progress, nil
}
