package repositories

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/placementportal/internal/app/models"
	"github.com/yigit/placementportal/internal/pkg/apperrors"
)

func TestQuestionRepository_ToggleStar(t *testing.T) {
	toggleRows := func(removed, inserted bool) *pgxmock.Rows {
		return pgxmock.NewRows([]string{"removed", "inserted"}).AddRow(removed, inserted)
	}

	tests := []struct {
		name        string
		setup       func(mock pgxmock.PgxPoolIface)
		wantStarred bool
		wantErr     error
	}{
		{
			name: "star added",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`WITH removed AS`).
					WithArgs(int64(10), int64(2)).
					WillReturnRows(toggleRows(false, true))
			},
			wantStarred: true,
		},
		{
			name: "star removed",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`WITH removed AS`).
					WithArgs(int64(10), int64(2)).
					WillReturnRows(toggleRows(true, false))
			},
			wantStarred: false,
		},
		{
			name: "concurrent star is removed on rerun",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`WITH removed AS`).
					WithArgs(int64(10), int64(2)).
					WillReturnRows(toggleRows(false, false))
				mock.ExpectQuery(`WITH removed AS`).
					WithArgs(int64(10), int64(2)).
					WillReturnRows(toggleRows(true, false))
			},
			wantStarred: false,
		},
		{
			name: "unknown question",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`WITH removed AS`).
					WithArgs(int64(10), int64(2)).
					WillReturnError(&pgconn.PgError{Code: "23503"})
			},
			wantErr: apperrors.ErrQuestionNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := newMockPool(t)
			tt.setup(mock)

			starred, err := NewQuestionRepository(mock).ToggleStar(context.Background(), 10, 2)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantStarred, starred)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestQuestionRepository_ToggleStarGivesUpAfterRepeatedRaces(t *testing.T) {
	mock := newMockPool(t)
	for i := 0; i < toggleStarAttempts; i++ {
		mock.ExpectQuery(`WITH removed AS`).
			WithArgs(int64(10), int64(2)).
			WillReturnRows(pgxmock.NewRows([]string{"removed", "inserted"}).AddRow(false, false))
	}

	_, err := NewQuestionRepository(mock).ToggleStar(context.Background(), 10, 2)
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuestionRepository_MarkSolvedKeepsFirstSolveTime(t *testing.T) {
	mock := newMockPool(t)
	first := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	// the conflict branch must still return a row, including one committed
	// by a concurrent request after this statement started
	for i := 0; i < 2; i++ {
		mock.ExpectQuery(`(?s)INSERT INTO question_solves.*ON CONFLICT \(question_id, user_id\) DO UPDATE SET solved_at = question_solves\.solved_at\s+RETURNING solved_at`).
			WithArgs(int64(10), int64(2)).
			WillReturnRows(pgxmock.NewRows([]string{"solved_at"}).AddRow(first))
	}

	repo := NewQuestionRepository(mock)
	a, err := repo.MarkSolved(context.Background(), 10, 2)
	require.NoError(t, err)
	b, err := repo.MarkSolved(context.Background(), 10, 2)
	require.NoError(t, err)

	assert.Equal(t, first, a)
	assert.Equal(t, a, b)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuestionRepository_MarkSolvedUnknownQuestion(t *testing.T) {
	mock := newMockPool(t)
	mock.ExpectQuery(`INSERT INTO question_solves`).
		WithArgs(int64(99), int64(2)).
		WillReturnError(&pgconn.PgError{Code: "23503"})

	_, err := NewQuestionRepository(mock).MarkSolved(context.Background(), 99, 2)
	assert.ErrorIs(t, err, apperrors.ErrQuestionNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuestionRepository_ProgressByTopic(t *testing.T) {
	mock := newMockPool(t)
	rows := pgxmock.NewRows([]string{"topic_id", "topic", "total", "solved"}).
		AddRow(int64(1), "Arrays", 4, 3).
		AddRow(int64(2), "Graphs", 0, 0)
	mock.ExpectQuery(regexp.QuoteMeta(`COUNT(q.id) AS total, COUNT(s.question_id) AS solved FROM topics t`)).
		WithArgs(int64(5)).
		WillReturnRows(rows)

	progress, err := NewQuestionRepository(mock).ProgressByTopic(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, progress, 2)
	assert.Equal(t, models.TopicProgress{TopicID: 1, Topic: "Arrays", Total: 4, Solved: 3}, progress[0])
	assert.Equal(t, 0, progress[1].Total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuestionRepository_ListByTopicForUser(t *testing.T) {
	mock := newMockPool(t)
	now := time.Now()
	solved := now.Add(-time.Hour)

	cols := []string{
		"id", "topic_id", "topic_name", "title", "difficulty", "link", "platform",
		"article_link", "practice_link", "created_at", "updated_at", "is_starred", "solved_at",
	}
	rows := pgxmock.NewRows(cols).
		AddRow(int64(1), int64(3), "Arrays", "Two Sum", models.DifficultyEasy, "#", "LeetCode", "#", "#", now, now, true, &solved).
		AddRow(int64(2), int64(3), "Arrays", "Trapping Rain Water", models.DifficultyHard, "#", "LeetCode", "#", "#", now, now, false, (*time.Time)(nil))

	mock.ExpectQuery(regexp.QuoteMeta(`ORDER BY CASE q.difficulty WHEN 'Easy' THEN 1`)).
		WithArgs(int64(9), int64(9), int64(3)).
		WillReturnRows(rows)

	questions, err := NewQuestionRepository(mock).ListByTopicForUser(context.Background(), 3, 9)
	require.NoError(t, err)
	require.Len(t, questions, 2)

	assert.Equal(t, "Arrays", questions[0].TopicName)
	assert.True(t, questions[0].IsStarred)
	assert.True(t, questions[0].IsSolved())
	assert.False(t, questions[1].IsStarred)
	assert.False(t, questions[1].IsSolved())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuestionRepository_BulkCreateRollsBackOnFailure(t *testing.T) {
	mock := newMockPool(t)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO questions`).
		WithArgs(int64(3), "Two Sum", models.DifficultyEasy, "#", "LeetCode", "#", "#").
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(1), now, now))
	mock.ExpectQuery(`INSERT INTO questions`).
		WithArgs(int64(3), "3Sum", models.DifficultyMedium, "#", "LeetCode", "#", "#").
		WillReturnError(&pgconn.PgError{Code: "23503"})
	mock.ExpectRollback()

	questions := []*models.Question{
		{TopicID: 3, Title: "Two Sum", Difficulty: models.DifficultyEasy, Link: "#", Platform: "LeetCode", ArticleLink: "#", PracticeLink: "#"},
		{TopicID: 3, Title: "3Sum", Difficulty: models.DifficultyMedium, Link: "#", Platform: "LeetCode", ArticleLink: "#", PracticeLink: "#"},
	}
	err := NewQuestionRepository(mock).BulkCreate(context.Background(), questions)

	assert.ErrorIs(t, err, apperrors.ErrTopicNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuestionRepository_NotesForUserSkipsEmptyInput(t *testing.T) {
	mock := newMockPool(t)

	notes, err := NewQuestionRepository(mock).NotesForUser(context.Background(), nil, 1)
	require.NoError(t, err)
	assert.Empty(t, notes)
	assert.NoError(t, mock.ExpectationsWereMet())
}
