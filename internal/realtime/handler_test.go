//go:build unit

package realtime

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleet-api/internal/identity"
	"fleet-api/pkg/cerror"
	"fleet-api/pkg/jwt_generator"
	"fleet-api/pkg/server"
)

type stubVerifier struct {
	tokens map[string]*identity.Document
	seen   []string
}

func (v *stubVerifier) Identify(_ context.Context, rawToken string) (*identity.Document, error) {
	v.seen = append(v.seen, rawToken)
	document, ok := v.tokens[rawToken]
	if !ok {
		return nil, jwt_generator.ErrTokenInvalid
	}
	return document, nil
}

func TestNewHandler(t *testing.T) {
	realtimeHandler := NewHandler(nil, nil)

	assert.Implements(t, (*server.Handler)(nil), realtimeHandler)
}

func TestHandler_Handshake(t *testing.T) {
	mockController := gomock.NewController(t)
	defer mockController.Finish()

	newApp := func(verifier IdentityVerifier) *fiber.App {
		app := fiber.New(fiber.Config{
			ErrorHandler: cerror.Middleware,
		})
		NewHandler(newTestHub(mockController), verifier).RegisterRoutes(app)
		return app
	}

	t.Run("plain request needs an upgrade", func(t *testing.T) {
		verifier := &stubVerifier{}

		resp, err := newApp(verifier).Test(httptest.NewRequest(fiber.MethodGet, "/ws", nil))

		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUpgradeRequired, resp.StatusCode)
		assert.Empty(t, verifier.seen)
	})

	t.Run("upgrade without token is rejected before verification", func(t *testing.T) {
		verifier := &stubVerifier{}
		req := httptest.NewRequest(fiber.MethodGet, "/ws", nil)
		req.Header.Set(fiber.HeaderConnection, "Upgrade")
		req.Header.Set(fiber.HeaderUpgrade, "websocket")

		resp, err := newApp(verifier).Test(req)

		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
		assert.Empty(t, verifier.seen)
	})

	t.Run("invalid query token is rejected", func(t *testing.T) {
		verifier := &stubVerifier{}
		req := httptest.NewRequest(fiber.MethodGet, "/ws?token=forged", nil)
		req.Header.Set(fiber.HeaderConnection, "Upgrade")
		req.Header.Set(fiber.HeaderUpgrade, "websocket")

		resp, err := newApp(verifier).Test(req)

		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, []string{"forged"}, verifier.seen)
	})

	t.Run("bearer header wins over query token", func(t *testing.T) {
		verifier := &stubVerifier{}
		req := httptest.NewRequest(fiber.MethodGet, "/ws?token=from-query", nil)
		req.Header.Set(fiber.HeaderConnection, "Upgrade")
		req.Header.Set(fiber.HeaderUpgrade, "websocket")
		req.Header.Set(fiber.HeaderAuthorization, "Bearer from-header")

		resp, err := newApp(verifier).Test(req)

		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, []string{"from-header"}, verifier.seen)
	})
}
