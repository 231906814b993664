package repositories

import (
	"context"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/placementportal/internal/app/models"
	"github.com/yigit/placementportal/internal/pkg/apperrors"
)

func TestMarqueeRepository_CreateDeactivatesOthersInTransaction(t *testing.T) {
	mock := newMockPool(t)
	now := time.Now()
	admin := int64(1)

	mock.ExpectBegin()
	mock.ExpectExec(`SELECT pg_advisory_xact_lock`).
		WithArgs(marqueeLockKey).
		WillReturnResult(pgxmock.NewResult("SELECT", 1))
	mock.ExpectExec(`UPDATE marquees SET is_active = \$1`).
		WithArgs(false, true, int64(0)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectQuery(`INSERT INTO marquees`).
		WithArgs("Drive on Friday", true, &admin).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(5), now, now))
	mock.ExpectCommit()

	m := &models.Marquee{Text: "Drive on Friday", CreatedBy: &admin}
	require.NoError(t, NewMarqueeRepository(mock).Create(context.Background(), m))

	assert.Equal(t, int64(5), m.ID)
	assert.True(t, m.IsActive)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarqueeRepository_GetActive(t *testing.T) {
	t.Run("returns newest active", func(t *testing.T) {
		mock := newMockPool(t)
		now := time.Now()
		mock.ExpectQuery(`SELECT .* FROM marquees WHERE is_active = \$1 ORDER BY created_at DESC`).
			WithArgs(true).
			WillReturnRows(pgxmock.NewRows(marqueeColumns).AddRow(int64(5), "Drive on Friday", true, nil, now, now))

		m, err := NewMarqueeRepository(mock).GetActive(context.Background())
		require.NoError(t, err)
		assert.Equal(t, int64(5), m.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("none active", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectQuery(`SELECT .* FROM marquees`).
			WithArgs(true).
			WillReturnRows(pgxmock.NewRows(marqueeColumns))

		_, err := NewMarqueeRepository(mock).GetActive(context.Background())
		assert.ErrorIs(t, err, apperrors.ErrMarqueeNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestMarqueeRepository_UpdateActivateLocksFirst(t *testing.T) {
	mock := newMockPool(t)
	now := time.Now()
	active := true

	mock.ExpectBegin()
	mock.ExpectExec(`SELECT pg_advisory_xact_lock`).
		WithArgs(marqueeLockKey).
		WillReturnResult(pgxmock.NewResult("SELECT", 1))
	mock.ExpectExec(`UPDATE marquees SET is_active = \$1`).
		WithArgs(false, true, int64(3)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectQuery(`UPDATE marquees SET updated_at = NOW\(\), is_active = \$1 WHERE id = \$2 RETURNING`).
		WithArgs(true, int64(3)).
		WillReturnRows(pgxmock.NewRows(marqueeColumns).AddRow(int64(3), "Old banner", true, nil, now, now))
	mock.ExpectCommit()

	m, err := NewMarqueeRepository(mock).Update(context.Background(), 3, nil, &active)
	require.NoError(t, err)
	assert.True(t, m.IsActive)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarqueeRepository_Delete(t *testing.T) {
	mock := newMockPool(t)
	mock.ExpectExec(`DELETE FROM marquees WHERE id = \$1`).
		WithArgs(int64(9)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := NewMarqueeRepository(mock).Delete(context.Background(), 9)
	assert.ErrorIs(t, err, apperrors.ErrMarqueeNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
