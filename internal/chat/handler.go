package chat

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"fleet-api/internal/identity"
	"fleet-api/pkg/logger"
	"fleet-api/pkg/request"
	"fleet-api/pkg/response"
	"fleet-api/pkg/server"
)

// Broadcaster delivers an event to every live connection joined to a
// conversation room.
type Broadcaster interface {
	PublishToConversation(conversationId, event string, data interface{})
}

type PresenceReader interface {
	Statuses(ctx context.Context, identityIds []string) (map[string]string, error)
}

type handler struct {
	chatService    Service
	gate           identity.Gate
	broadcaster    Broadcaster
	presenceReader PresenceReader
}

func NewHandler(
	chatService Service,
	gate identity.Gate,
	broadcaster Broadcaster,
	presenceReader PresenceReader,
) server.Handler {
	return &handler{
		chatService:    chatService,
		gate:           gate,
		broadcaster:    broadcaster,
		presenceReader: presenceReader,
	}
}

func (h *handler) RegisterRoutes(app *fiber.App) {
	group := app.Group("/api/chat", h.gate.Authenticate())
	group.Get("/conversations", h.ListConversations)
	group.Post("/conversations", h.CreateConversation)
	group.Get("/conversations/:conversationId/messages", h.ListMessages)
	group.Patch("/conversations/:conversationId/read", h.MarkRead)
	group.Post("/messages", h.SendMessage)
	group.Delete("/messages/:messageId", h.DeleteMessage)
	group.Get("/presence", h.Presence)
}

func (h *handler) ListConversations(ctx *fiber.Ctx) error {
	log := logger.FromContext(ctx.Context()).
		With(zap.String("eventName", "listConversations"))

	current, err := identity.RequireCurrentIdentity(ctx)
	if err != nil {
		return err
	}

	conversations, err := h.chatService.ListConversations(ctx.Context(), current.Id)
	if err != nil {
		return err
	}

	log.Info(logger.EventFinishedSuccessfully)
	return response.OK(ctx, "conversations retrieved successfully", conversations)
}

func (h *handler) CreateConversation(ctx *fiber.Ctx) error {
	log := logger.FromContext(ctx.Context()).
		With(zap.String("eventName", "createConversation"))

	current, err := identity.RequireCurrentIdentity(ctx)
	if err != nil {
		return err
	}

	var payload CreateConversationPayload
	if err := request.ParseBody(ctx, &payload); err != nil {
		return err
	}

	conversation, created, err := h.chatService.CreateConversation(ctx.Context(), current.Id, &payload)
	if err != nil {
		return err
	}

	log.Info(logger.EventFinishedSuccessfully)
	if !created {
		return response.OK(ctx, MessageConversationExists, conversation)
	}
	return response.Created(ctx, "conversation created successfully", conversation)
}

func (h *handler) ListMessages(ctx *fiber.Ctx) error {
	log := logger.FromContext(ctx.Context()).
		With(zap.String("eventName", "listMessages"))

	current, err := identity.RequireCurrentIdentity(ctx)
	if err != nil {
		return err
	}

	page, err := h.chatService.ListMessages(
		ctx.Context(),
		current.Id,
		ctx.Params("conversationId"),
		ctx.QueryInt("page", 1),
		ctx.QueryInt("limit", DefaultPageLimit),
	)
	if err != nil {
		return err
	}

	log.Info(logger.EventFinishedSuccessfully)
	return response.OK(ctx, "messages retrieved successfully", page)
}

func (h *handler) SendMessage(ctx *fiber.Ctx) error {
	log := logger.FromContext(ctx.Context()).
		With(zap.String("eventName", "sendMessage"))

	current, err := identity.RequireCurrentIdentity(ctx)
	if err != nil {
		return err
	}

	var payload SendMessagePayload
	if err := request.ParseBody(ctx, &payload); err != nil {
		return err
	}

	message, err := h.chatService.SendMessage(ctx.Context(), current, &payload)
	if err != nil {
		return err
	}

	h.broadcaster.PublishToConversation(message.ConversationId, EventNewMessage, message)

	log.Info(logger.EventFinishedSuccessfully)
	return response.Created(ctx, "message sent successfully", message)
}

func (h *handler) MarkRead(ctx *fiber.Ctx) error {
	log := logger.FromContext(ctx.Context()).
		With(zap.String("eventName", "markRead"))

	current, err := identity.RequireCurrentIdentity(ctx)
	if err != nil {
		return err
	}

	var payload MarkReadPayload
	if err := request.ParseBody(ctx, &payload); err != nil {
		return err
	}

	result, err := h.chatService.MarkRead(ctx.Context(), current.Id, ctx.Params("conversationId"), payload.MessageIds)
	if err != nil {
		return err
	}

	h.broadcaster.PublishToConversation(result.ConversationId, EventMessagesRead, result)

	log.Info(logger.EventFinishedSuccessfully)
	return response.OK(ctx, "messages marked as read", result)
}

func (h *handler) DeleteMessage(ctx *fiber.Ctx) error {
	log := logger.FromContext(ctx.Context()).
		With(zap.String("eventName", "deleteMessage"))

	current, err := identity.RequireCurrentIdentity(ctx)
	if err != nil {
		return err
	}

	result, err := h.chatService.DeleteMessage(ctx.Context(), current.Id, ctx.Params("messageId"))
	if err != nil {
		return err
	}

	h.broadcaster.PublishToConversation(result.ConversationId, EventMessageDeleted, result)

	log.Info(logger.EventFinishedSuccessfully)
	return response.OK(ctx, "message deleted successfully", result)
}

func (h *handler) Presence(ctx *fiber.Ctx) error {
	log := logger.FromContext(ctx.Context()).
		With(zap.String("eventName", "presence"))

	identityIds := []string{}
	for _, identityId := range strings.Split(ctx.Query("userIds"), ",") {
		if identityId = strings.TrimSpace(identityId); identityId != "" {
			identityIds = append(identityIds, identityId)
		}
	}

	statuses, err := h.presenceReader.Statuses(ctx.Context(), identityIds)
	if err != nil {
		return err
	}

	log.Info(logger.EventFinishedSuccessfully)
	return response.OK(ctx, "presence retrieved successfully", statuses)
}
