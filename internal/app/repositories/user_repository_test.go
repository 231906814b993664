package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/placementportal/internal/app/models"
	"github.com/yigit/placementportal/internal/pkg/apperrors"
)

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func TestUserRepository_Create(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name    string
		setup   func(mock pgxmock.PgxPoolIface)
		wantErr error
	}{
		{
			name: "created",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`INSERT INTO users`).
					WithArgs("Asha", "asha@college.edu", "hash", models.RoleUser, pgxmock.AnyArg()).
					WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(7), now, now))
			},
		},
		{
			name: "duplicate email",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`INSERT INTO users`).
					WithArgs("Asha", "asha@college.edu", "hash", models.RoleUser, pgxmock.AnyArg()).
					WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: usersEmailConstraint})
			},
			wantErr: apperrors.ErrEmailAlreadyExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := newMockPool(t)
			tt.setup(mock)
			repo := NewUserRepository(mock)

			user := &models.User{Name: "Asha", Email: "asha@college.edu", Password: "hash", Role: models.RoleUser}
			err := repo.Create(context.Background(), user)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, int64(7), user.ID)
				assert.Equal(t, now, user.CreatedAt)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_GetByEmail(t *testing.T) {
	now := time.Now()
	leetcode := "asha_codes"

	t.Run("found", func(t *testing.T) {
		mock := newMockPool(t)
		rows := pgxmock.NewRows(userColumns).
			AddRow(int64(1), "Asha", "asha@college.edu", "hash", models.RoleAdmin, &leetcode, nil, nil, now, now)
		mock.ExpectQuery(`SELECT .* FROM users WHERE email = \$1`).
			WithArgs("asha@college.edu").
			WillReturnRows(rows)

		user, err := NewUserRepository(mock).GetByEmail(context.Background(), "asha@college.edu")
		require.NoError(t, err)
		assert.Equal(t, int64(1), user.ID)
		assert.Equal(t, models.RoleAdmin, user.Role)
		require.NotNil(t, user.LeetcodeUsername)
		assert.Equal(t, "asha_codes", *user.LeetcodeUsername)
		assert.Nil(t, user.ResetPasswordToken)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectQuery(`SELECT .* FROM users`).
			WithArgs("ghost@college.edu").
			WillReturnRows(pgxmock.NewRows(userColumns))

		_, err := NewUserRepository(mock).GetByEmail(context.Background(), "ghost@college.edu")
		assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUserRepository_UpdateRole(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		wantErr  error
	}{
		{name: "promoted", affected: 1},
		{name: "missing user", affected: 0, wantErr: apperrors.ErrUserNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := newMockPool(t)
			mock.ExpectExec(`UPDATE users SET role = \$1`).
				WithArgs(models.RoleAdmin, int64(3)).
				WillReturnResult(pgxmock.NewResult("UPDATE", tt.affected))

			err := NewUserRepository(mock).UpdateRole(context.Background(), 3, models.RoleAdmin)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_ResetPassword(t *testing.T) {
	now := time.Now()

	t.Run("valid token", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectQuery(`UPDATE users SET password = \$1.*reset_password_expires > \$\d RETURNING id`).
			WithArgs("newhash", nil, nil, "tokenhash", now).
			WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(4)))

		id, err := NewUserRepository(mock).ResetPassword(context.Background(), "tokenhash", "newhash", now)
		require.NoError(t, err)
		assert.Equal(t, int64(4), id)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("expired or unknown token", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectQuery(`UPDATE users SET password`).
			WithArgs("newhash", nil, nil, "tokenhash", now).
			WillReturnError(pgx.ErrNoRows)

		_, err := NewUserRepository(mock).ResetPassword(context.Background(), "tokenhash", "newhash", now)
		assert.ErrorIs(t, err, apperrors.ErrInvalidPasswordResetToken)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
