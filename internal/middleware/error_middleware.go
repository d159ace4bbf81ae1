package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/secchub/secchub-backend/internal/app/models/dto"
	"github.com/secchub/secchub-backend/internal/pkg/apperrors"
	"github.com/secchub/secchub-backend/internal/pkg/logger"
)

// HandleAPIError maps service errors onto the standard error envelope.
// There is exactly one way for an operation to fail for a given reason,
// and each reason maps to exactly one code here.
func HandleAPIError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrBadRequest):
		respond(c, http.StatusBadRequest, dto.ErrorCodeValidationFailed, err)
	case errors.Is(err, apperrors.ErrDuplicateClass):
		respond(c, http.StatusConflict, dto.ErrorCodeDuplicateClass, err)
	case errors.Is(err, apperrors.ErrScheduleConflict):
		respond(c, http.StatusConflict, dto.ErrorCodeScheduleConflict, err)
	case errors.Is(err, apperrors.ErrTargetSemesterNotEmpty):
		respond(c, http.StatusConflict, dto.ErrorCodeTargetNotEmpty, err)
	case errors.Is(err, apperrors.ErrEmailAlreadyExists):
		respond(c, http.StatusConflict, dto.ErrorCodeResourceConflict, err)
	case errors.Is(err, apperrors.ErrClassNotFound),
		errors.Is(err, apperrors.ErrScheduleNotFound),
		errors.Is(err, apperrors.ErrCourseNotFound),
		errors.Is(err, apperrors.ErrSemesterNotFound),
		errors.Is(err, apperrors.ErrSectionNotFound),
		errors.Is(err, apperrors.ErrClassroomNotFound),
		errors.Is(err, apperrors.ErrUserNotFound),
		errors.Is(err, apperrors.ErrNotFound):
		respond(c, http.StatusNotFound, dto.ErrorCodeResourceNotFound, err)
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		respond(c, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, err)
	case errors.Is(err, apperrors.ErrTokenExpired):
		respond(c, http.StatusUnauthorized, dto.ErrorCodeExpiredToken, err)
	case errors.Is(err, apperrors.ErrTokenInvalid):
		respond(c, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, err)
	case errors.Is(err, apperrors.ErrPermissionDenied):
		respond(c, http.StatusForbidden, dto.ErrorCodeUnauthorized, err)
	case errors.Is(err, apperrors.ErrAuthzLookupFailed):
		logger.Error().Err(err).Str("path", c.FullPath()).Msg("Scope resolution failed")
		respond(c, http.StatusInternalServerError, dto.ErrorCodeAuthzLookup, apperrors.ErrAuthzLookupFailed)
	default:
		// The message stays opaque, but structured details such as the
		// copied-class prefix of a failed duplication still go out.
		logger.Error().Err(err).Str("path", c.FullPath()).Msg("Unhandled service error")
		detail := dto.NewErrorDetail(dto.ErrorCodeInternalServer, apperrors.ErrInternal.Error())
		if details := errorDetails(err); details != nil {
			detail = detail.WithDetails(details)
		}
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(detail))
	}
}

func respond(c *gin.Context, status int, code dto.ErrorCode, err error) {
	detail := dto.NewErrorDetail(code, err.Error())
	if details := errorDetails(err); details != nil {
		detail = detail.WithDetails(details)
	}
	c.JSON(status, dto.NewErrorResponse(detail))
}

// errorDetails pulls the structured context off a CustomError, if any.
func errorDetails(err error) map[string]interface{} {
	var custom *apperrors.CustomError
	if errors.As(err, &custom) {
		return custom.Details
	}
	return nil
}
