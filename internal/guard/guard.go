package guard

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap/zapcore"

	"fleet-api/internal/identity"
	"fleet-api/pkg/cerror"
	"fleet-api/pkg/server"
)

// Prefixes are the domain route groups served behind the gate.
var Prefixes = []string{
	"customers", "fleet", "orders", "shipments", "routes", "inventory", "billing", "attendance",
	"analytics", "profile", "settings", "categories", "expenses", "budgets", "trips", "drivers",
}

var adminOnly = map[string]bool{
	"billing":  true,
	"settings": true,
	"budgets":  true,
	"expenses": true,
}

type handler struct {
	gate identity.Gate
}

// NewHandler mounts the domain prefixes and the catch-all route-not-found
// responder, so it must be registered after every other handler.
func NewHandler(gate identity.Gate) server.Handler {
	return &handler{
		gate: gate,
	}
}

func (h *handler) RegisterRoutes(app *fiber.App) {
	for _, prefix := range Prefixes {
		app.Use("/api/"+prefix, h.gate.Authenticate(), h.authorizeMutations(MutationRoles(prefix)...), RouteNotFound)
	}
	app.Use(RouteNotFound)
}

// MutationRoles lists the roles allowed to change resources under prefix.
func MutationRoles(prefix string) []identity.Role {
	if adminOnly[prefix] {
		return []identity.Role{identity.RoleAdmin}
	}
	return []identity.Role{identity.RoleAdmin, identity.RoleManager}
}

func (h *handler) authorizeMutations(roles ...identity.Role) fiber.Handler {
	authorize := h.gate.Authorize(roles...)

	return func(ctx *fiber.Ctx) error {
		switch ctx.Method() {
		case fiber.MethodPost, fiber.MethodPut, fiber.MethodPatch, fiber.MethodDelete:
			return authorize(ctx)
		default:
			return ctx.Next()
		}
	}
}

func RouteNotFound(ctx *fiber.Ctx) error {
	return cerror.NewError(fiber.StatusNotFound, cerror.MessageRouteNotFound).
		SetSeverity(zapcore.WarnLevel)
}
