package middleware

import (
	"errors"
	"net/http"

	"github.com/Asus75000/sae-prof/internal/app/models/dto"
	"github.com/Asus75000/sae-prof/internal/pkg/apperrors"
	pkgauth "github.com/Asus75000/sae-prof/internal/pkg/auth"
	"github.com/Asus75000/sae-prof/internal/pkg/logger"
	"github.com/gin-gonic/gin"
)

// --- Central Error Handling ---

// HandleAPIError maps an application error to its HTTP status and error envelope
func HandleAPIError(c *gin.Context, err error) {
	status, detail := errorDetailFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Msg("Unhandled error")
	}
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(detail))
}

func errorDetailFor(err error) (int, *dto.ErrorDetail) {
	var verr *apperrors.ValidationError
	if errors.As(err, &verr) {
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Validation failed").
			WithDetails(verr.Errors)
	}

	message := messageOf(err)
	switch {
	case errors.Is(err, apperrors.ErrValidationFailed):
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Validation failed")
	case errors.Is(err, apperrors.ErrBadRequest):
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeBadRequest, message)

	case errors.Is(err, apperrors.ErrInvalidCredentials):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeInvalidCredentials, "Invalid email or password")
	case errors.Is(err, apperrors.ErrTokenExpired), errors.Is(err, pkgauth.ErrExpiredToken):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeExpiredToken, "Token expired")
	case errors.Is(err, apperrors.ErrTokenInvalid), errors.Is(err, pkgauth.ErrInvalidToken),
		errors.Is(err, pkgauth.ErrInvalidFormat):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeInvalidToken, "Invalid token")
	case errors.Is(err, apperrors.ErrUnauthenticated):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeUnauthorized, message)

	case errors.Is(err, apperrors.ErrTooManyAttempts):
		return http.StatusTooManyRequests, dto.NewErrorDetail(dto.ErrorCodeTooManyAttempts, message).
			WithSeverity(dto.ErrorSeverityWarning).
			WithDetails(detailsOf(err))

	case errors.Is(err, apperrors.ErrPermissionDenied):
		return http.StatusForbidden, dto.NewErrorDetail(dto.ErrorCodeForbidden, message)

	case errors.Is(err, apperrors.ErrResourceNotFound):
		return http.StatusNotFound, dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, message)

	case errors.Is(err, apperrors.ErrCategoryInUse):
		return http.StatusConflict, dto.NewErrorDetail(dto.ErrorCodeResourceInUse, message).
			WithDetails(detailsOf(err))
	case errors.Is(err, apperrors.ErrEmailAlreadyExists):
		// do not confirm which address is registered
		return http.StatusConflict, dto.NewErrorDetail(dto.ErrorCodeConflict, "This account cannot be created.")
	case errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict, dto.NewErrorDetail(dto.ErrorCodeConflict, message)

	case errors.Is(err, apperrors.ErrInvalidState):
		return http.StatusUnprocessableEntity, dto.NewErrorDetail(dto.ErrorCodeInvalidState, message)

	default:
		return http.StatusInternalServerError, dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error").
			WithSeverity(dto.ErrorSeverityCritical)
	}
}

// messageOf returns the message of the outermost CustomError, or the error text itself
func messageOf(err error) string {
	var cerr *apperrors.CustomError
	if errors.As(err, &cerr) && cerr.Message != "" {
		return cerr.Message
	}
	return err.Error()
}

func detailsOf(err error) interface{} {
	var cerr *apperrors.CustomError
	if errors.As(err, &cerr) && len(cerr.Details) > 0 {
		return cerr.Details
	}
	return nil
}
