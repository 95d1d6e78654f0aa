package cerror

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"fleet-api/pkg/jwt_generator"
)

func NewError(httpStatusCode int, logMessage string, logFields ...zapcore.Field) *CustomError {
	return &CustomError{
		HttpStatusCode: httpStatusCode,
		Kind:           kindOf(httpStatusCode),
		LogMessage:     logMessage,
		LogSeverity:    zapcore.ErrorLevel,
		LogFields:      logFields,
	}
}

func (cerr *CustomError) SetSeverity(severity zapcore.Level) *CustomError {
	cerr.LogSeverity = severity
	return cerr
}

func (cerr *CustomError) SetKind(kind Kind) *CustomError {
	cerr.Kind = kind
	return cerr
}

func (cerr *CustomError) SetDetails(details map[string]string) *CustomError {
	cerr.Details = details
	return cerr
}

// From converts any error returned by a handler into a CustomError.
func From(err error) *CustomError {
	var cerr *CustomError
	if errors.As(err, &cerr) {
		return cerr
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return NewError(fiberErr.Code, strings.ToLower(fiberErr.Message)).
			SetSeverity(zapcore.WarnLevel)
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		return FromValidation(validationErrors)
	}

	if mongo.IsDuplicateKeyError(err) {
		return NewError(fiber.StatusBadRequest, "resource already exists", zap.Error(err)).
			SetKind(KindConflict).
			SetSeverity(zapcore.WarnLevel)
	}

	if errors.Is(err, jwt_generator.ErrTokenExpired) {
		return NewError(fiber.StatusUnauthorized, "token expired").
			SetSeverity(zapcore.WarnLevel)
	}

	if errors.Is(err, jwt_generator.ErrTokenInvalid) {
		return NewError(fiber.StatusUnauthorized, "invalid token").
			SetSeverity(zapcore.WarnLevel)
	}

	return NewError(fiber.StatusInternalServerError, MessageInternal, zap.Error(err))
}

// FromValidation builds a ValidationFailed error whose details map each
// offending field to the rule it broke.
func FromValidation(err error) *CustomError {
	details := map[string]string{}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, fieldError := range validationErrors {
			rule := fieldError.Tag()
			if fieldError.Param() != "" {
				rule = rule + "=" + fieldError.Param()
			}
			details[lowerFirst(fieldError.Field())] = rule
		}
	}

	return NewError(fiber.StatusBadRequest, MessageValidationFailed, zap.Error(err)).
		SetKind(KindValidationFailed).
		SetSeverity(zapcore.WarnLevel).
		SetDetails(details)
}

func kindOf(httpStatusCode int) Kind {
	switch {
	case httpStatusCode == fiber.StatusUnauthorized:
		return KindUnauthenticated
	case httpStatusCode == fiber.StatusForbidden:
		return KindForbidden
	case httpStatusCode == fiber.StatusNotFound:
		return KindNotFound
	case httpStatusCode == fiber.StatusConflict:
		return KindConflict
	case httpStatusCode == fiber.StatusTooManyRequests:
		return KindTooManyRequests
	case httpStatusCode >= 400 && httpStatusCode < 500:
		return KindValidationFailed
	default:
		return KindInternal
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

// IsKind reports whether err is a CustomError of the given kind.
func IsKind(err error, kind Kind) bool {
	var cerr *CustomError
	return errors.As(err, &cerr) && cerr.Kind == kind
}
