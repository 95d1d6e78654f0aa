//go:build unit

package guard

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleet-api/internal/auth"
	"fleet-api/internal/identity"
	"fleet-api/pkg/cerror"
	"fleet-api/pkg/config"
	"fleet-api/pkg/jwt_generator"
	"fleet-api/pkg/response"
)

var TestJwtConfig = config.JwtConfig{
	AccessSecret:  []byte("access-secret"),
	RefreshSecret: []byte("refresh-secret"),
	AccessTtl:     15 * time.Minute,
	RefreshTtl:    7 * 24 * time.Hour,
}

type testEnv struct {
	app          *fiber.App
	repository   *identity.MockRepository
	jwtGenerator jwt_generator.JwtGenerator
}

func newTestEnv(t *testing.T, mockController *gomock.Controller) *testEnv {
	jwtGenerator, err := jwt_generator.NewJwtGenerator(TestJwtConfig)
	require.NoError(t, err)
	repository := identity.NewMockRepository(mockController)

	app := fiber.New(fiber.Config{
		ErrorHandler: cerror.Middleware,
	})
	NewHandler(auth.NewGate(jwtGenerator, repository)).RegisterRoutes(app)

	return &testEnv{app: app, repository: repository, jwtGenerator: jwtGenerator}
}

func (e *testEnv) tokenFor(t *testing.T, role identity.Role) string {
	document := &identity.Document{Id: "user-" + string(role), Role: role, IsActive: true}
	e.repository.EXPECT().FindIdentityWithId(gomock.Any(), document.Id).Return(document, nil).AnyTimes()

	token, err := e.jwtGenerator.GenerateAccessToken(document.Id, string(role))
	require.NoError(t, err)
	return token
}

func (e *testEnv) do(t *testing.T, method, path, token string) (*response.Body, int) {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := e.app.Test(req)
	require.NoError(t, err)

	var body response.Body
	raw, _ := io.ReadAll(resp.Body)
	require.NoError(t, json.Unmarshal(raw, &body))
	return &body, resp.StatusCode
}

func TestGuard_RequiresToken(t *testing.T) {
	mockController := gomock.NewController(t)
	defer mockController.Finish()

	env := newTestEnv(t, mockController)
	env.repository.EXPECT().FindIdentityWithId(gomock.Any(), gomock.Any()).Times(0)

	for _, prefix := range Prefixes {
		body, status := env.do(t, fiber.MethodGet, "/api/"+prefix, "")

		assert.Equal(t, fiber.StatusUnauthorized, status, prefix)
		assert.False(t, body.Success)
	}

	_, status := env.do(t, fiber.MethodGet, "/api/customers/42", "not-a-token")
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestGuard_Roles(t *testing.T) {
	mockController := gomock.NewController(t)
	defer mockController.Finish()

	env := newTestEnv(t, mockController)
	admin := env.tokenFor(t, identity.RoleAdmin)
	manager := env.tokenFor(t, identity.RoleManager)
	driver := env.tokenFor(t, identity.RoleDriver)

	testCases := []struct {
		name           string
		method         string
		path           string
		token          string
		expectedStatus int
	}{
		{"driver reads orders", fiber.MethodGet, "/api/orders", driver, fiber.StatusNotFound},
		{"driver creates order", fiber.MethodPost, "/api/orders", driver, fiber.StatusForbidden},
		{"manager creates order", fiber.MethodPost, "/api/orders", manager, fiber.StatusNotFound},
		{"manager deletes trip", fiber.MethodDelete, "/api/trips/7", manager, fiber.StatusNotFound},
		{"manager updates billing", fiber.MethodPut, "/api/billing/1", manager, fiber.StatusForbidden},
		{"manager reads billing", fiber.MethodGet, "/api/billing", manager, fiber.StatusNotFound},
		{"admin updates settings", fiber.MethodPatch, "/api/settings", admin, fiber.StatusNotFound},
		{"driver posts expense", fiber.MethodPost, "/api/expenses", driver, fiber.StatusForbidden},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			body, status := env.do(t, testCase.method, testCase.path, testCase.token)

			assert.Equal(t, testCase.expectedStatus, status)
			if status == fiber.StatusNotFound {
				assert.Equal(t, cerror.MessageRouteNotFound, body.Message)
			}
		})
	}
}

func TestGuard_UnknownRoute(t *testing.T) {
	mockController := gomock.NewController(t)
	defer mockController.Finish()

	env := newTestEnv(t, mockController)

	body, status := env.do(t, fiber.MethodGet, "/api/unknown", "")

	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, cerror.MessageRouteNotFound, body.Message)
}

func TestMutationRoles(t *testing.T) {
	assert.Equal(t, []identity.Role{identity.RoleAdmin}, MutationRoles("budgets"))
	assert.Equal(t, []identity.Role{identity.RoleAdmin, identity.RoleManager}, MutationRoles("fleet"))
}
