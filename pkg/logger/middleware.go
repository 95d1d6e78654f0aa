package logger

import (
	"context"
	"sync"

	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const HeaderRequestId = "X-Request-Id"

var (
	fallbackOnce   sync.Once
	fallbackLogger *zap.SugaredLogger
)

// Middleware stores a request scoped logger in the fiber locals. Fiber locals
// live on the fasthttp request context, so FromContext(ctx.Context()) finds it.
func Middleware(log *zap.SugaredLogger) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		requestId := ctx.Get(HeaderRequestId)
		if requestId == "" {
			requestId = uuid.New().String()
		}
		ctx.Set(HeaderRequestId, requestId)

		requestLog := log.With(
			zap.String("requestId", requestId),
			zap.String("method", ctx.Method()),
			zap.String("path", ctx.Path()),
		)
		ctx.Locals(ContextKey, requestLog)

		return ctx.Next()
	}
}

func FromContext(ctx context.Context) *zap.SugaredLogger {
	log, isOk := ctx.Value(ContextKey).(*zap.SugaredLogger)
	if !isOk {
		log = fallback()
	}

	lambdaCtx, isOk := lambdacontext.FromContext(ctx)
	if isOk {
		log = log.With(zap.String("awsRequestId", lambdaCtx.AwsRequestID))
	}

	return log
}

func InjectContext(ctx context.Context, log *zap.SugaredLogger) context.Context {
	return context.WithValue(ctx, ContextKey, log) //nolint:staticcheck
}

func fallback() *zap.SugaredLogger {
	fallbackOnce.Do(func() {
		l, err := zap.NewProduction()
		if err != nil {
			l = zap.NewNop()
		}
		fallbackLogger = l.Sugar()
	})
	return fallbackLogger
}
