package identity

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"fleet-api/pkg/logger"
	"fleet-api/pkg/request"
	"fleet-api/pkg/response"
	"fleet-api/pkg/server"
)

type handler struct {
	identityService Service
	gate            Gate
	rateLimiter     fiber.Handler
}

// NewHandler mounts /api/auth and /api/users. A nil rateLimiter disables
// limiting on the credential routes.
func NewHandler(identityService Service, gate Gate, rateLimiter fiber.Handler) server.Handler {
	if rateLimiter == nil {
		rateLimiter = func(ctx *fiber.Ctx) error {
			return ctx.Next()
		}
	}

	return &handler{
		identityService: identityService,
		gate:            gate,
		rateLimiter:     rateLimiter,
	}
}

func (h *handler) RegisterRoutes(app *fiber.App) {
	auth := app.Group("/api/auth")
	auth.Post("/register", h.rateLimiter, h.Register)
	auth.Post("/login", h.rateLimiter, h.Login)
	auth.Post("/refresh-token", h.RefreshToken)
	auth.Post("/forgot-password", h.rateLimiter, h.ForgotPassword)
	auth.Post("/reset-password", h.rateLimiter, h.ResetPassword)
	auth.Post("/logout", h.gate.Authenticate(), h.Logout)
	auth.Get("/me", h.gate.Authenticate(), h.Me)

	users := app.Group("/api/users", h.gate.Authenticate(), h.gate.Authorize(RoleAdmin))
	users.Post("/", h.CreateIdentity)
	users.Patch("/:userId/status", h.SetStatus)
}

func (h *handler) Register(ctx *fiber.Ctx) error {
	log := logger.FromContext(ctx.Context()).
		With(zap.String("eventName", "register"))

	var payload RegisterPayload
	if err := request.ParseBody(ctx, &payload); err != nil {
		return err
	}

	authResponse, err := h.identityService.Register(ctx.Context(), &payload)
	if err != nil {
		return err
	}

	log.Info(logger.EventFinishedSuccessfully)
	return response.Created(ctx, "user registered successfully", authResponse)
}

func (h *handler) Login(ctx *fiber.Ctx) error {
	log := logger.FromContext(ctx.Context()).
		With(zap.String("eventName", "login"))

	var payload LoginPayload
	if err := request.ParseBody(ctx, &payload); err != nil {
		return err
	}

	authResponse, err := h.identityService.Login(ctx.Context(), &payload)
	if err != nil {
		return err
	}

	log.Info(logger.EventFinishedSuccessfully)
	return response.OK(ctx, "login successful", authResponse)
}

func (h *handler) RefreshToken(ctx *fiber.Ctx) error {
	log := logger.FromContext(ctx.Context()).
		With(zap.String("eventName", "refreshToken"))

	var payload RefreshTokenPayload
	if err := request.ParseBody(ctx, &payload); err != nil {
		return err
	}

	accessToken, err := h.identityService.RefreshAccessToken(ctx.Context(), payload.RefreshToken)
	if err != nil {
		return err
	}

	log.Info(logger.EventFinishedSuccessfully)
	return response.OK(ctx, "token refreshed successfully", AccessTokenResponse{
		AccessToken: accessToken,
	})
}

func (h *handler) Logout(ctx *fiber.Ctx) error {
	log := logger.FromContext(ctx.Context()).
		With(zap.String("eventName", "logout"))

	current, err := RequireCurrentIdentity(ctx)
	if err != nil {
		return err
	}

	err = h.identityService.Logout(ctx.Context(), current.Id)
	if err != nil {
		return err
	}

	log.Info(logger.EventFinishedSuccessfully)
	return response.OK(ctx, "logout successful", nil)
}

func (h *handler) Me(ctx *fiber.Ctx) error {
	log := logger.FromContext(ctx.Context()).
		With(zap.String("eventName", "me"))

	current, err := RequireCurrentIdentity(ctx)
	if err != nil {
		return err
	}

	document, err := h.identityService.Me(ctx.Context(), current.Id)
	if err != nil {
		return err
	}

	log.Info(logger.EventFinishedSuccessfully)
	return response.OK(ctx, "user retrieved successfully", document)
}

func (h *handler) ForgotPassword(ctx *fiber.Ctx) error {
	log := logger.FromContext(ctx.Context()).
		With(zap.String("eventName", "forgotPassword"))

	var payload ForgotPasswordPayload
	if err := request.ParseBody(ctx, &payload); err != nil {
		return err
	}

	resetToken, err := h.identityService.ForgotPassword(ctx.Context(), payload.Email)
	if err != nil {
		return err
	}

	log.Info(logger.EventFinishedSuccessfully)
	return response.OK(ctx, "password reset token generated", ResetTokenResponse{
		ResetToken: resetToken,
	})
}

func (h *handler) ResetPassword(ctx *fiber.Ctx) error {
	log := logger.FromContext(ctx.Context()).
		With(zap.String("eventName", "resetPassword"))

	var payload ResetPasswordPayload
	if err := request.ParseBody(ctx, &payload); err != nil {
		return err
	}

	err := h.identityService.ResetPassword(ctx.Context(), &payload)
	if err != nil {
		return err
	}

	log.Info(logger.EventFinishedSuccessfully)
	return response.OK(ctx, "password reset successful", nil)
}

func (h *handler) CreateIdentity(ctx *fiber.Ctx) error {
	log := logger.FromContext(ctx.Context()).
		With(zap.String("eventName", "createUser"))

	var payload CreateIdentityPayload
	if err := request.ParseBody(ctx, &payload); err != nil {
		return err
	}

	document, err := h.identityService.CreateIdentity(ctx.Context(), &payload)
	if err != nil {
		return err
	}

	log.Info(logger.EventFinishedSuccessfully)
	return response.Created(ctx, "user created successfully", document)
}

func (h *handler) SetStatus(ctx *fiber.Ctx) error {
	log := logger.FromContext(ctx.Context()).
		With(zap.String("eventName", "setUserStatus"))

	current, err := RequireCurrentIdentity(ctx)
	if err != nil {
		return err
	}

	var payload StatusPayload
	if err := request.ParseBody(ctx, &payload); err != nil {
		return err
	}

	document, err := h.identityService.SetActive(ctx.Context(), current.Id, ctx.Params("userId"), *payload.IsActive)
	if err != nil {
		return err
	}

	log.Info(logger.EventFinishedSuccessfully)
	return response.OK(ctx, "user status updated successfully", document)
}
