package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/learnhub/internal/app/models/dto"
	"github.com/yigit/learnhub/internal/pkg/apperrors"
	"github.com/yigit/learnhub/internal/pkg/dberrors"
	"github.com/yigit/learnhub/internal/pkg/logger"
)

func codeFor(status int) dto.ErrorCode {
	switch status {
	case http.StatusUnauthorized:
		return dto.ErrorCodeUnauthorized
	case http.StatusForbidden:
		return dto.ErrorCodeForbidden
	case http.StatusNotFound:
		return dto.ErrorCodeResourceNotFound
	case http.StatusConflict:
		return dto.ErrorCodeResourceAlreadyExists
	case http.StatusTooManyRequests:
		return dto.ErrorCodeTooManyRequests
	}
	if status >= http.StatusInternalServerError {
		return dto.ErrorCodeInternalServer
	}
	return dto.ErrorCodeValidationFailed
}

// classify turns any error into the status, code and message sent to the client
func classify(err error) (int, dto.ErrorCode, string) {
	var (
		appErr       *apperrors.AppError
		validation   validator.ValidationErrors
		numErr       *strconv.NumError
		syntaxErr    *json.SyntaxError
		unmarshalErr *json.UnmarshalTypeError
		tooLarge     *http.MaxBytesError
	)

	switch {
	case errors.As(err, &appErr):
		return appErr.StatusCode, codeFor(appErr.StatusCode), appErr.Message
	case errors.Is(err, apperrors.ErrTokenExpired):
		return http.StatusBadRequest, dto.ErrorCodeExpiredToken, "Json Web Token is expired, try again"
	case errors.Is(err, apperrors.ErrTokenInvalid):
		return http.StatusBadRequest, dto.ErrorCodeInvalidToken, "Json Web Token is invalid, try again"
	case errors.As(err, &validation):
		return http.StatusBadRequest, dto.ErrorCodeValidationFailed, formatValidationError(validation[0])
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge, dto.ErrorCodeValidationFailed, "Request body too large"
	case errors.As(err, &syntaxErr), errors.As(err, &unmarshalErr),
		errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Invalid request body"
	case errors.As(err, &numErr), dberrors.IsInvalidInput(err):
		return http.StatusBadRequest, dto.ErrorCodeResourceInvalid, "Resource not found. Invalid: id"
	case errors.Is(err, pgx.ErrNoRows), errors.Is(err, apperrors.ErrResourceNotFound):
		return http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Resource not found"
	}

	if field, ok := dberrors.DuplicateField(err); ok {
		return http.StatusBadRequest, dto.ErrorCodeResourceAlreadyExists, fmt.Sprintf("Duplicate %s entered", field)
	}
	return http.StatusInternalServerError, dto.ErrorCodeInternalServer, "Internal server error"
}

// HandleAPIError writes the error envelope for err and aborts the request
func HandleAPIError(c *gin.Context, err error) {
	status, code, message := classify(err)
	if status >= http.StatusInternalServerError {
		logger.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("Unhandled error")
	}
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(code, message))
}

// NoRoute answers requests that match no route
func NoRoute(c *gin.Context) {
	HandleAPIError(c, apperrors.NewNotFoundError(fmt.Sprintf("Can't find %s on this server!", c.Request.URL.Path)))
}

// Recovery turns panics into a 500 error envelope
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.Error().
			Interface("panic", recovered).
			Str("path", c.Request.URL.Path).
			Msg("Recovered from panic")
		c.AbortWithStatusJSON(http.StatusInternalServerError,
			dto.NewErrorResponse(dto.ErrorCodeInternalServer, "Internal server error"))
	})
}
