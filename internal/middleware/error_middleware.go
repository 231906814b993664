package middleware

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"

	"github.com/gin-gonic/gin"
	"github.com/yigit/placementportal/internal/app/models/dto"
	"github.com/yigit/placementportal/internal/pkg/apperrors"
	"github.com/yigit/placementportal/internal/pkg/logger"
	"github.com/yigit/placementportal/internal/pkg/reporting"
)

var errorReporter atomic.Value

// SetErrorReporter sets where unexpected errors are reported besides the log
func SetErrorReporter(r reporting.Reporter) {
	if r == nil {
		r = reporting.Nop{}
	}
	errorReporter.Store(&r)
}

func currentReporter() reporting.Reporter {
	if r, ok := errorReporter.Load().(*reporting.Reporter); ok {
		return *r
	}
	return reporting.Nop{}
}

type errorMapping struct {
	status  int
	code    dto.ErrorCode
	message string
}

// classify maps an error to its HTTP status, code and default message
func classify(err error) errorMapping {
	switch {
	case errors.Is(err, apperrors.ErrValidationFailed), errors.Is(err, apperrors.ErrBadRequest):
		return errorMapping{http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Validation failed"}
	case errors.Is(err, apperrors.ErrInvalidPasswordResetToken):
		return errorMapping{http.StatusBadRequest, dto.ErrorCodeInvalidResetToken, "Invalid or expired reset token"}

	case errors.Is(err, apperrors.ErrInvalidCredentials):
		return errorMapping{http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, "Invalid credentials"}
	case errors.Is(err, apperrors.ErrTokenExpired):
		return errorMapping{http.StatusUnauthorized, dto.ErrorCodeExpiredToken, "Token expired"}
	case errors.Is(err, apperrors.ErrTokenInvalid):
		return errorMapping{http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Invalid token"}
	case errors.Is(err, apperrors.ErrTokenNotFound):
		return errorMapping{http.StatusUnauthorized, dto.ErrorCodeTokenNotFound, "Authentication required"}
	case errors.Is(err, apperrors.ErrUnauthorized):
		return errorMapping{http.StatusUnauthorized, dto.ErrorCodeUnauthorized, "Not authorized"}

	case errors.Is(err, apperrors.ErrPermissionDenied):
		return errorMapping{http.StatusForbidden, dto.ErrorCodeForbidden, "Permission denied"}

	case apperrors.Is(err, apperrors.ErrResourceNotFound,
		apperrors.ErrUserNotFound, apperrors.ErrTopicNotFound, apperrors.ErrQuestionNotFound,
		apperrors.ErrCompanyNotFound, apperrors.ErrSessionNotFound, apperrors.ErrMarqueeNotFound):
		return errorMapping{http.StatusNotFound, dto.ErrorCodeResourceNotFound, notFoundMessage(err)}

	case apperrors.Is(err, apperrors.ErrConflict, apperrors.ErrEmailAlreadyExists, apperrors.ErrTopicAlreadyExists):
		return errorMapping{http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, conflictMessage(err)}

	case errors.Is(err, apperrors.ErrRateLimited):
		return errorMapping{http.StatusTooManyRequests, dto.ErrorCodeRateLimited, "Too many requests, try again later"}

	case errors.Is(err, apperrors.ErrCollaboratorFailed):
		return errorMapping{http.StatusInternalServerError, dto.ErrorCodeExternalServiceError, "External service unavailable"}
	}
	return errorMapping{http.StatusInternalServerError, dto.ErrorCodeInternalServer, "Internal server error"}
}

func notFoundMessage(err error) string {
	switch {
	case errors.Is(err, apperrors.ErrUserNotFound):
		return "User not found"
	case errors.Is(err, apperrors.ErrTopicNotFound):
		return "Topic not found"
	case errors.Is(err, apperrors.ErrQuestionNotFound):
		return "Question not found"
	case errors.Is(err, apperrors.ErrCompanyNotFound):
		return "Company not found"
	case errors.Is(err, apperrors.ErrSessionNotFound):
		return "Session not found"
	case errors.Is(err, apperrors.ErrMarqueeNotFound):
		return "No active marquee found"
	}
	return "Resource not found"
}

func conflictMessage(err error) string {
	switch {
	case errors.Is(err, apperrors.ErrEmailAlreadyExists):
		return "User already exists"
	case errors.Is(err, apperrors.ErrTopicAlreadyExists):
		return "Topic already exists"
	}
	return "Resource already exists"
}

// HandleAPIError writes the error envelope for err. Client errors carry their
// message; server errors are logged and reported and answered generically.
func HandleAPIError(c *gin.Context, err error) {
	m := classify(err)
	detail := dto.NewErrorDetail(m.code, m.message)

	if m.status >= http.StatusInternalServerError {
		logger.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Str("requestId", c.GetString(RequestIDKey)).
			Msg("Request failed")
		currentReporter().Report(context.WithoutCancel(c.Request.Context()), err, map[string]interface{}{
			"method":    c.Request.Method,
			"path":      c.FullPath(),
			"requestId": c.GetString(RequestIDKey),
		})
		c.AbortWithStatusJSON(m.status, dto.NewErrorResponse(detail))
		return
	}

	var custom *apperrors.CustomError
	switch {
	case errors.As(err, &custom) && custom.Message != "":
		detail.Message = custom.Message
		if custom.Details != nil {
			detail.WithDetails(custom.Details)
		}
	case err.Error() != "" && !isBareSentinel(err):
		detail.WithDetails(err.Error())
	}

	c.AbortWithStatusJSON(m.status, dto.NewErrorResponse(detail))
}

// isBareSentinel reports whether err carries no context beyond its sentinel
func isBareSentinel(err error) bool {
	return errors.Unwrap(err) == nil
}
