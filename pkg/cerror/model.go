package cerror

import (
	"go.uber.org/zap/zapcore"
)

type Kind string

const (
	KindUnauthenticated  Kind = "UNAUTHENTICATED"
	KindForbidden        Kind = "FORBIDDEN"
	KindNotFound         Kind = "NOT_FOUND"
	KindConflict         Kind = "CONFLICT"
	KindValidationFailed Kind = "VALIDATION_FAILED"
	KindTooManyRequests  Kind = "TOO_MANY_REQUESTS"
	KindInternal         Kind = "INTERNAL"
)

type CustomError struct {
	HttpStatusCode int               `json:"httpStatus"`
	Kind           Kind              `json:"kind"`
	LogMessage     string            `json:"message"`
	LogSeverity    zapcore.Level     `json:"-"`
	LogFields      []zapcore.Field   `json:"-"`
	Details        map[string]string `json:"details,omitempty"`
}

func (cerr *CustomError) Error() string {
	return cerr.LogMessage
}
