package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/placementportal/internal/app/models"
	"github.com/yigit/placementportal/internal/app/models/dto"
	"github.com/yigit/placementportal/internal/pkg/apperrors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type errorBody struct {
	Success bool             `json:"success"`
	Error   *dto.ErrorDetail `json:"error"`
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotNil(t, body.Error)
	return body
}

type recordingReporter struct {
	reported []error
}

func (r *recordingReporter) Report(_ context.Context, err error, _ map[string]interface{}) {
	r.reported = append(r.reported, err)
}

func (r *recordingReporter) Close() error { return nil }

func TestHandleAPIError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantCode    dto.ErrorCode
		wantMessage string
	}{
		{"validation", fmt.Errorf("%w: name must be at least 2 characters", apperrors.ErrValidationFailed), 400, dto.ErrorCodeValidationFailed, "Validation failed"},
		{"bad request", apperrors.NewBadRequestError("No LeetCode username set"), 400, dto.ErrorCodeValidationFailed, "No LeetCode username set"},
		{"reset token", apperrors.ErrInvalidPasswordResetToken, 400, dto.ErrorCodeInvalidResetToken, "Invalid or expired reset token"},
		{"credentials", apperrors.ErrInvalidCredentials, 401, dto.ErrorCodeInvalidCredentials, "Invalid credentials"},
		{"expired", apperrors.ErrTokenExpired, 401, dto.ErrorCodeExpiredToken, "Token expired"},
		{"deleted user", apperrors.NewCustomError(apperrors.ErrUnauthorized, "User no longer exists"), 401, dto.ErrorCodeUnauthorized, "User no longer exists"},
		{"forbidden", apperrors.NewForbiddenError("Admin access required"), 403, dto.ErrorCodeForbidden, "Admin access required"},
		{"topic missing", apperrors.ErrTopicNotFound, 404, dto.ErrorCodeResourceNotFound, "Topic not found"},
		{"no marquee", apperrors.ErrMarqueeNotFound, 404, dto.ErrorCodeResourceNotFound, "No active marquee found"},
		{"email taken", apperrors.NewCustomError(apperrors.ErrEmailAlreadyExists, "User already exists"), 409, dto.ErrorCodeResourceAlreadyExists, "User already exists"},
		{"topic taken", apperrors.ErrTopicAlreadyExists, 409, dto.ErrorCodeResourceAlreadyExists, "Topic already exists"},
		{"rate limited", apperrors.ErrRateLimited, 429, dto.ErrorCodeRateLimited, "Too many requests, try again later"},
		{"collaborator", fmt.Errorf("%w: connection refused", apperrors.ErrCollaboratorFailed), 500, dto.ErrorCodeExternalServiceError, "External service unavailable"},
		{"unknown", errors.New("pq: relation does not exist"), 500, dto.ErrorCodeInternalServer, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reporter := &recordingReporter{}
			SetErrorReporter(reporter)
			defer SetErrorReporter(nil)

			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			HandleAPIError(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			body := decodeError(t, w)
			assert.False(t, body.Success)
			assert.Equal(t, tt.wantCode, body.Error.Code)
			assert.Equal(t, tt.wantMessage, body.Error.Message)

			if tt.wantStatus >= 500 {
				assert.Len(t, reporter.reported, 1)
				assert.NotContains(t, w.Body.String(), tt.err.Error())
			} else {
				assert.Empty(t, reporter.reported)
			}
		})
	}
}

type stubAuthorizer struct {
	users map[string]*models.User
}

func (s stubAuthorizer) Authenticate(_ context.Context, token string) (*models.User, error) {
	if u, ok := s.users[token]; ok {
		return u, nil
	}
	return nil, apperrors.ErrTokenInvalid
}

func (stubAuthorizer) AuthorizeAdmin(user *models.User) error {
	if !user.IsAdmin() {
		return apperrors.NewForbiddenError("Admin access required")
	}
	return nil
}

func newAuthRouter() *gin.Engine {
	m := NewAuthMiddleware(stubAuthorizer{users: map[string]*models.User{
		"user-token":  {ID: 1, Role: models.RoleUser},
		"admin-token": {ID: 2, Role: models.RoleAdmin},
	}})

	r := gin.New()
	r.GET("/me", m.JWTAuth(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": CurrentUserID(c), "role": c.GetString(RoleKey)})
	})
	r.GET("/admin", m.JWTAuth(), m.AdminRequired(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	r.GET("/ws", m.SocketAuth(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": CurrentUserID(c)})
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	r := newAuthRouter()

	tests := []struct {
		name       string
		path       string
		header     string
		wantStatus int
		wantCode   dto.ErrorCode
	}{
		{name: "missing token", path: "/me", wantStatus: 401, wantCode: dto.ErrorCodeTokenNotFound},
		{name: "bad token", path: "/me", header: "Bearer nope", wantStatus: 401, wantCode: dto.ErrorCodeInvalidToken},
		{name: "empty bearer", path: "/me", header: "Bearer ", wantStatus: 401, wantCode: dto.ErrorCodeInvalidToken},
		{name: "user", path: "/me", header: "Bearer user-token", wantStatus: 200},
		{name: "query token on api route", path: "/me?token=user-token", wantStatus: 401, wantCode: dto.ErrorCodeTokenNotFound},
		{name: "query admin token on admin route", path: "/admin?token=admin-token", wantStatus: 401, wantCode: dto.ErrorCodeTokenNotFound},
		{name: "query token on socket route", path: "/ws?token=user-token", wantStatus: 200},
		{name: "header on socket route", path: "/ws", header: "Bearer user-token", wantStatus: 200},
		{name: "missing token on socket route", path: "/ws", wantStatus: 401, wantCode: dto.ErrorCodeTokenNotFound},
		{name: "user on admin route", path: "/admin", header: "Bearer user-token", wantStatus: 403, wantCode: dto.ErrorCodeForbidden},
		{name: "admin", path: "/admin", header: "Bearer admin-token", wantStatus: 204},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, decodeError(t, w).Error.Code)
			}
		})
	}
}

func TestRecoveryAndRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogger(zerolog.Nop()), Recovery())
	r.GET("/panic", func(*gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotEmpty(t, w.Header().Get(RequestIDKey))
	assert.Equal(t, dto.ErrorCodeInternalServer, decodeError(t, w).Error.Code)
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"http://localhost:5173/"}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	preflight := httptest.NewRequest(http.MethodOptions, "/x", nil)
	preflight.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, preflight)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))

	foreign := httptest.NewRequest(http.MethodGet, "/x", nil)
	foreign.Header.Set("Origin", "http://evil.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, foreign)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
