package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/placementportal/internal/app/models"
	"github.com/yigit/placementportal/internal/db"
	"github.com/yigit/placementportal/internal/pkg/apperrors"
	"github.com/yigit/placementportal/internal/pkg/dberrors"
	"github.com/yigit/placementportal/internal/pkg/logger"
)

const usersEmailConstraint = "users_email_key"

var userColumns = []string{
	"id", "name", "email", "password", "role", "leetcode_username",
	"reset_password_token", "reset_password_expires", "created_at", "updated_at",
}

// UserRepository handles user database operations
type UserRepository struct {
	db db.DBTX
	sb squirrel.StatementBuilderType
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(conn db.DBTX) *UserRepository {
	return &UserRepository{
		db: conn,
		sb: statementBuilder(),
	}
}

// Create inserts a user and fills its ID and timestamps
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	sql, args, err := r.sb.Insert("users").
		Columns("name", "email", "password", "role", "leetcode_username").
		Values(user.Name, user.Email, user.Password, user.Role, user.LeetcodeUsername).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create user query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, usersEmailConstraint) {
			return apperrors.ErrEmailAlreadyExists
		}
		logger.Error().Err(err).Str("email", user.Email).Msg("Error creating user")
		return fmt.Errorf("error creating user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return r.getBy(ctx, squirrel.Eq{"id": id})
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getBy(ctx, squirrel.Eq{"email": email})
}

func (r *UserRepository) getBy(ctx context.Context, where squirrel.Eq) (*models.User, error) {
	var user models.User
	err := getOne(ctx, r.db, &user, r.sb.Select(userColumns...).From("users").Where(where).Limit(1))
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error getting user: %w", err)
	}
	return &user, nil
}

// UpdateRole sets the role of a user
func (r *UserRepository) UpdateRole(ctx context.Context, id int64, role models.Role) error {
	sql, args, err := r.sb.Update("users").
		Set("role", role).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update role query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating role: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// SetResetToken stores the hashed reset token and its expiry
func (r *UserRepository) SetResetToken(ctx context.Context, id int64, tokenHash string, expires time.Time) error {
	sql, args, err := r.sb.Update("users").
		Set("reset_password_token", tokenHash).
		Set("reset_password_expires", expires).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build set reset token query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error storing reset token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// ResetPassword replaces the password of the user holding an unexpired reset
// token with the given hash and clears the token in the same statement.
func (r *UserRepository) ResetPassword(ctx context.Context, tokenHash, passwordHash string, now time.Time) (int64, error) {
	sql, args, err := r.sb.Update("users").
		Set("password", passwordHash).
		Set("reset_password_token", nil).
		Set("reset_password_expires", nil).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"reset_password_token": tokenHash}).
		Where(squirrel.Gt{"reset_password_expires": now}).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build reset password query: %w", err)
	}

	var id int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		if isNoRows(err) {
			return 0, apperrors.ErrInvalidPasswordResetToken
		}
		return 0, fmt.Errorf("error resetting password: %w", err)
	}
	return id, nil
}

// ClearResetToken removes any pending reset token of the user
func (r *UserRepository) ClearResetToken(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Update("users").
		Set("reset_password_token", nil).
		Set("reset_password_expires", nil).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build clear reset token query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error clearing reset token: %w", err)
	}
	return nil
}
