package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/placementportal/internal/app/models"
	"github.com/yigit/placementportal/internal/app/models/dto"
	"github.com/yigit/placementportal/internal/pkg/apperrors"
	"github.com/yigit/placementportal/internal/pkg/auth"
	"golang.org/x/crypto/bcrypt"
)

func newTestAuthService(users UserStore, mailer *mockSender, limiter mockLimiter) *authServiceImpl {
	svc := NewAuthService(
		users,
		mockTokenIssuer{},
		auth.NewPasswordHasher(bcrypt.MinCost),
		mailer,
		limiter,
		AuthConfig{FrontendURL: "http://localhost:5173/"},
		zerolog.Nop(),
	)
	return svc.(*authServiceImpl)
}

func TestAuthService_Register(t *testing.T) {
	t.Parallel()

	t.Run("creates user with user role", func(t *testing.T) {
		t.Parallel()
		var stored *models.User
		users := &mockUserStore{
			CreateFunc: func(_ context.Context, user *models.User) error {
				user.ID = 7
				stored = user
				return nil
			},
		}
		svc := newTestAuthService(users, &mockSender{}, mockLimiter{allowed: true})

		resp, err := svc.Register(context.Background(), &dto.RegisterRequest{
			Name:             "  Asha Rao ",
			Email:            "Asha@College.edu",
			Password:         "secret1",
			LeetcodeUsername: "asha_codes",
		})
		require.NoError(t, err)

		assert.Equal(t, "signed-token", resp.Token)
		assert.Equal(t, int64(7), resp.User.ID)
		assert.Equal(t, models.RoleUser, stored.Role)
		assert.Equal(t, "asha@college.edu", stored.Email)
		assert.Equal(t, "Asha Rao", stored.Name)
		assert.NotEqual(t, "secret1", stored.Password)
		require.NotNil(t, stored.LeetcodeUsername)
		assert.Equal(t, "asha_codes", *stored.LeetcodeUsername)
	})

	t.Run("duplicate email", func(t *testing.T) {
		t.Parallel()
		users := &mockUserStore{
			CreateFunc: func(context.Context, *models.User) error { return apperrors.ErrEmailAlreadyExists },
		}
		svc := newTestAuthService(users, &mockSender{}, mockLimiter{allowed: true})

		_, err := svc.Register(context.Background(), &dto.RegisterRequest{Name: "Asha", Email: "a@b.co", Password: "secret1"})
		assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)
	})

	t.Run("short password", func(t *testing.T) {
		t.Parallel()
		svc := newTestAuthService(&mockUserStore{}, &mockSender{}, mockLimiter{allowed: true})

		_, err := svc.Register(context.Background(), &dto.RegisterRequest{Name: "Asha", Email: "a@b.co", Password: "12345"})
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})
}

func TestAuthService_LoginFailuresAreIndistinguishable(t *testing.T) {
	t.Parallel()

	hasher := auth.NewPasswordHasher(bcrypt.MinCost)
	hash, err := hasher.Hash("right-password")
	require.NoError(t, err)

	users := &mockUserStore{
		GetByEmailFunc: func(_ context.Context, email string) (*models.User, error) {
			if email == "known@college.edu" {
				return &models.User{ID: 1, Email: email, Password: hash, Role: models.RoleUser}, nil
			}
			return nil, apperrors.ErrUserNotFound
		},
	}
	svc := newTestAuthService(users, &mockSender{}, mockLimiter{allowed: true})

	_, unknownErr := svc.Login(context.Background(), &dto.LoginRequest{Email: "nobody@college.edu", Password: "x"})
	_, wrongErr := svc.Login(context.Background(), &dto.LoginRequest{Email: "known@college.edu", Password: "wrong"})

	assert.ErrorIs(t, unknownErr, apperrors.ErrInvalidCredentials)
	assert.ErrorIs(t, wrongErr, apperrors.ErrInvalidCredentials)
	assert.Equal(t, unknownErr.Error(), wrongErr.Error())

	resp, err := svc.Login(context.Background(), &dto.LoginRequest{Email: " KNOWN@college.edu", Password: "right-password"})
	require.NoError(t, err)
	assert.Equal(t, "Login successful", resp.Message)
}

func TestAuthService_ForgotPassword(t *testing.T) {
	t.Parallel()

	user := &models.User{ID: 3, Name: "Asha", Email: "asha@college.edu"}
	lookup := func(_ context.Context, email string) (*models.User, error) {
		if email == user.Email {
			return user, nil
		}
		return nil, apperrors.ErrUserNotFound
	}

	t.Run("stores hash and mails raw token", func(t *testing.T) {
		t.Parallel()
		var storedHash string
		var expires time.Time
		users := &mockUserStore{
			GetByEmailFunc: lookup,
			SetResetTokenFunc: func(_ context.Context, id int64, tokenHash string, exp time.Time) error {
				storedHash, expires = tokenHash, exp
				return nil
			},
		}
		mailer := &mockSender{}
		svc := newTestAuthService(users, mailer, mockLimiter{allowed: true})
		now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
		svc.now = func() time.Time { return now }

		require.NoError(t, svc.ForgotPassword(context.Background(), "Asha@College.edu"))
		require.Len(t, mailer.sent, 1)

		const prefix = "http://localhost:5173/reset-password/"
		idx := strings.Index(mailer.sent[0].Text, prefix)
		require.GreaterOrEqual(t, idx, 0)
		raw := strings.Fields(mailer.sent[0].Text[idx+len(prefix):])[0]

		assert.Len(t, raw, 64)
		assert.Equal(t, auth.HashResetToken(raw), storedHash)
		assert.NotEqual(t, raw, storedHash)
		assert.Equal(t, now.Add(ResetTokenTTL), expires)
	})

	t.Run("unknown email", func(t *testing.T) {
		t.Parallel()
		svc := newTestAuthService(&mockUserStore{GetByEmailFunc: lookup}, &mockSender{}, mockLimiter{allowed: true})

		err := svc.ForgotPassword(context.Background(), "ghost@college.edu")
		assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	})

	t.Run("rate limited", func(t *testing.T) {
		t.Parallel()
		svc := newTestAuthService(&mockUserStore{GetByEmailFunc: lookup}, &mockSender{}, mockLimiter{allowed: false})

		err := svc.ForgotPassword(context.Background(), user.Email)
		assert.ErrorIs(t, err, apperrors.ErrRateLimited)
	})

	t.Run("limiter outage does not block", func(t *testing.T) {
		t.Parallel()
		users := &mockUserStore{
			GetByEmailFunc:    lookup,
			SetResetTokenFunc: func(context.Context, int64, string, time.Time) error { return nil },
		}
		mailer := &mockSender{}
		svc := newTestAuthService(users, mailer, mockLimiter{err: errors.New("redis down")})

		require.NoError(t, svc.ForgotPassword(context.Background(), user.Email))
		assert.Len(t, mailer.sent, 1)
	})

	t.Run("mail failure clears token", func(t *testing.T) {
		t.Parallel()
		cleared := false
		users := &mockUserStore{
			GetByEmailFunc:      lookup,
			SetResetTokenFunc:   func(context.Context, int64, string, time.Time) error { return nil },
			ClearResetTokenFunc: func(context.Context, int64) error { cleared = true; return nil },
		}
		svc := newTestAuthService(users, &mockSender{err: errors.New("smtp down")}, mockLimiter{allowed: true})

		err := svc.ForgotPassword(context.Background(), user.Email)
		assert.ErrorIs(t, err, apperrors.ErrCollaboratorFailed)
		assert.True(t, cleared)
	})
}

func TestAuthService_ResetPassword(t *testing.T) {
	t.Parallel()

	raw := strings.Repeat("ab", 32)

	t.Run("valid token", func(t *testing.T) {
		t.Parallel()
		var gotHash, gotPassword string
		users := &mockUserStore{
			ResetPasswordFunc: func(_ context.Context, tokenHash, passwordHash string, _ time.Time) (int64, error) {
				gotHash, gotPassword = tokenHash, passwordHash
				return 3, nil
			},
		}
		svc := newTestAuthService(users, &mockSender{}, mockLimiter{allowed: true})

		require.NoError(t, svc.ResetPassword(context.Background(), raw, "new-secret"))
		assert.Equal(t, auth.HashResetToken(raw), gotHash)
		assert.True(t, svc.hasher.Check(gotPassword, "new-secret"))
	})

	t.Run("expired or unknown token", func(t *testing.T) {
		t.Parallel()
		users := &mockUserStore{
			ResetPasswordFunc: func(context.Context, string, string, time.Time) (int64, error) {
				return 0, apperrors.ErrInvalidPasswordResetToken
			},
		}
		svc := newTestAuthService(users, &mockSender{}, mockLimiter{allowed: true})

		err := svc.ResetPassword(context.Background(), raw, "new-secret")
		assert.ErrorIs(t, err, apperrors.ErrInvalidPasswordResetToken)
	})

	t.Run("short password", func(t *testing.T) {
		t.Parallel()
		svc := newTestAuthService(&mockUserStore{}, &mockSender{}, mockLimiter{allowed: true})

		err := svc.ResetPassword(context.Background(), raw, "123")
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})
}

func TestAuthService_MakeAdmin(t *testing.T) {
	t.Parallel()

	var promoted int64
	users := &mockUserStore{
		UpdateRoleFunc: func(_ context.Context, id int64, role models.Role) error {
			if id != 4 {
				return apperrors.ErrUserNotFound
			}
			assert.Equal(t, models.RoleAdmin, role)
			promoted = id
			return nil
		},
	}
	svc := newTestAuthService(users, &mockSender{}, mockLimiter{allowed: true})

	require.NoError(t, svc.MakeAdmin(context.Background(), 4))
	assert.Equal(t, int64(4), promoted)
	assert.ErrorIs(t, svc.MakeAdmin(context.Background(), 5), apperrors.ErrUserNotFound)
}
