package notification

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"fleet-api/internal/identity"
	"fleet-api/pkg/logger"
	"fleet-api/pkg/response"
	"fleet-api/pkg/server"
)

type handler struct {
	notificationService Service
	gate                identity.Gate
}

func NewHandler(notificationService Service, gate identity.Gate) server.Handler {
	return &handler{
		notificationService: notificationService,
		gate:                gate,
	}
}

func (h *handler) RegisterRoutes(app *fiber.App) {
	group := app.Group("/api/notifications", h.gate.Authenticate())
	group.Get("/", h.List)
	group.Patch("/read-all", h.MarkAllRead)
	group.Patch("/:notificationId/read", h.MarkRead)
	group.Delete("/:notificationId", h.Delete)
}

func (h *handler) List(ctx *fiber.Ctx) error {
	log := logger.FromContext(ctx.Context()).
		With(zap.String("eventName", "listNotifications"))

	current, err := identity.RequireCurrentIdentity(ctx)
	if err != nil {
		return err
	}

	result, err := h.notificationService.List(ctx.Context(), current.Id, ctx.QueryBool("unreadOnly", false))
	if err != nil {
		return err
	}

	log.Info(logger.EventFinishedSuccessfully)
	return response.OK(ctx, "notifications retrieved successfully", result)
}

func (h *handler) MarkRead(ctx *fiber.Ctx) error {
	log := logger.FromContext(ctx.Context()).
		With(zap.String("eventName", "markNotificationRead"))

	current, err := identity.RequireCurrentIdentity(ctx)
	if err != nil {
		return err
	}

	err = h.notificationService.MarkRead(ctx.Context(), current.Id, ctx.Params("notificationId"))
	if err != nil {
		return err
	}

	log.Info(logger.EventFinishedSuccessfully)
	return response.OK(ctx, "notification marked as read", nil)
}

func (h *handler) MarkAllRead(ctx *fiber.Ctx) error {
	log := logger.FromContext(ctx.Context()).
		With(zap.String("eventName", "markAllNotificationsRead"))

	current, err := identity.RequireCurrentIdentity(ctx)
	if err != nil {
		return err
	}

	result, err := h.notificationService.MarkAllRead(ctx.Context(), current.Id)
	if err != nil {
		return err
	}

	log.Info(logger.EventFinishedSuccessfully)
	return response.OK(ctx, "all notifications marked as read", result)
}

func (h *handler) Delete(ctx *fiber.Ctx) error {
	log := logger.FromContext(ctx.Context()).
		With(zap.String("eventName", "deleteNotification"))

	current, err := identity.RequireCurrentIdentity(ctx)
	if err != nil {
		return err
	}

	err = h.notificationService.Delete(ctx.Context(), current.Id, ctx.Params("notificationId"))
	if err != nil {
		return err
	}

	log.Info(logger.EventFinishedSuccessfully)
	return response.OK(ctx, "notification deleted successfully", nil)
}
