//go:build unit

package logger

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestInjectContext(t *testing.T) {
	ctx := context.Background()

	logProd, err := zap.NewProduction()
	require.NoError(t, err)

	log := logProd.Sugar()
	defer log.Sync()

	ctx = InjectContext(ctx, log)

	logFromCtx := ctx.Value(ContextKey).(*zap.SugaredLogger)
	assert.NotNil(t, logFromCtx)
}

func TestFromContext(t *testing.T) {
	t.Run("happy path", func(t *testing.T) {
		logProd, err := zap.NewProduction()
		require.NoError(t, err)

		log := logProd.Sugar()
		defer log.Sync()

		ctx := InjectContext(context.Background(), log)

		assert.Same(t, log, FromContext(ctx))
	})

	t.Run("when context has no logger should return fallback logger", func(t *testing.T) {
		logFromCtx := FromContext(context.Background())

		assert.NotNil(t, logFromCtx)
	})
}

func TestMiddleware(t *testing.T) {
	t.Run("should expose request logger to handlers and echo request id", func(t *testing.T) {
		logProd, err := zap.NewProduction()
		require.NoError(t, err)

		var found bool
		app := fiber.New()
		app.Use(Middleware(logProd.Sugar()))
		app.Get("/ping", func(ctx *fiber.Ctx) error {
			_, found = ctx.Context().Value(ContextKey).(*zap.SugaredLogger)
			return ctx.SendStatus(fiber.StatusNoContent)
		})

		req := httptest.NewRequest(fiber.MethodGet, "/ping", nil)
		req.Header.Set(HeaderRequestId, "req-1")
		resp, err := app.Test(req)
		require.NoError(t, err)

		assert.True(t, found)
		assert.Equal(t, "req-1", resp.Header.Get(HeaderRequestId))
	})

	t.Run("should generate request id when header is absent", func(t *testing.T) {
		app := fiber.New()
		app.Use(Middleware(zap.NewNop().Sugar()))
		app.Get("/ping", func(ctx *fiber.Ctx) error {
			return ctx.SendStatus(fiber.StatusNoContent)
		})

		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/ping", nil))
		require.NoError(t, err)

		assert.NotEmpty(t, resp.Header.Get(HeaderRequestId))
	})
}
