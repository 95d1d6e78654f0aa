package realtime

import (
	"context"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"fleet-api/internal/chat"
	"fleet-api/pkg/cerror"
	"fleet-api/pkg/logger"
)

type Hub interface {
	Connect(ctx context.Context, client *Client)
	Disconnect(ctx context.Context, client *Client)
	Dispatch(ctx context.Context, client *Client, frame []byte)
	PublishToConversation(conversationId, event string, data interface{})
	PublishToIdentity(identityId, event string, data interface{})
	Broadcast(event string, data interface{})
}

type hub struct {
	registry      *Registry
	chatService   chat.Service
	presenceStore PresenceStore
	log           *zap.SugaredLogger
}

func NewHub(registry *Registry, chatService chat.Service, presenceStore PresenceStore, log *zap.SugaredLogger) Hub {
	return &hub{
		registry:      registry,
		chatService:   chatService,
		presenceStore: presenceStore,
		log:           log,
	}
}

// Connect registers the client and joins it to its private identity room.
func (h *hub) Connect(ctx context.Context, client *Client) {
	h.registry.Register(client)
	h.registry.Join(IdentityRoom(client.Identity.Id), client)

	if err := h.presenceStore.SetStatus(ctx, client.Identity.Id, StatusOnline); err != nil {
		logger.FromContext(ctx).Warnw("presence was not updated", zap.Error(err))
	}
}

// Disconnect removes the client from every room. The identity goes offline
// with its last connection.
func (h *hub) Disconnect(ctx context.Context, client *Client) {
	last := h.registry.Unregister(client)
	client.Close()
	if !last {
		return
	}

	identityId := client.Identity.Id
	if err := h.presenceStore.SetStatus(ctx, identityId, StatusOffline); err != nil {
		logger.FromContext(ctx).Warnw("presence was not updated", zap.Error(err))
	}
	h.Broadcast(EventUserStatusChanged, StatusChanged{UserId: identityId, Status: StatusOffline})
}

// Dispatch handles one inbound frame. Failures are reported to the sending
// client only.
func (h *hub) Dispatch(ctx context.Context, client *Client, frame []byte) {
	var envelope Envelope
	if err := json.Unmarshal(frame, &envelope); err != nil || envelope.Event == "" {
		h.sendError(client, MessageMalformedEvent, "")
		return
	}

	log := logger.FromContext(ctx).With(zap.String("eventName", envelope.Event))
	ctx = logger.InjectContext(ctx, log)

	defer func() {
		if recovered := recover(); recovered != nil {
			log.Errorw("event handler panicked", zap.Any("panic", recovered))
			h.sendError(client, cerror.MessageInternal, "")
		}
	}()

	switch envelope.Event {
	case EventJoinConversation:
		h.joinConversation(ctx, client, envelope.Data)
	case EventLeaveConversation:
		h.leaveConversation(client, envelope.Data)
	case EventSendMessage:
		h.sendMessage(ctx, client, envelope.Data)
	case EventTyping:
		h.typing(client, envelope.Data, EventUserTyping)
	case EventStopTyping:
		h.typing(client, envelope.Data, EventUserStopTyping)
	case EventMarkRead:
		h.markRead(ctx, client, envelope.Data)
	case EventUpdateStatus:
		h.updateStatus(ctx, client, envelope.Data)
	default:
		h.sendError(client, MessageUnknownEvent, "")
	}
}

func (h *hub) PublishToConversation(conversationId, event string, data interface{}) {
	h.deliver(h.registry.Room(ConversationRoom(conversationId)), nil, event, data)
}

func (h *hub) PublishToIdentity(identityId, event string, data interface{}) {
	h.deliver(h.registry.Room(IdentityRoom(identityId)), nil, event, data)
}

func (h *hub) Broadcast(event string, data interface{}) {
	h.deliver(h.registry.All(), nil, event, data)
}

func (h *hub) joinConversation(ctx context.Context, client *Client, data json.RawMessage) {
	conversationId, ok := conversationIdOf(data)
	if !ok {
		h.sendError(client, MessageMalformedEvent, "")
		return
	}

	_, err := h.chatService.JoinConversation(ctx, client.Identity.Id, conversationId)
	if err != nil {
		h.sendError(client, errorMessage(ctx, err), "")
		return
	}

	h.registry.Join(ConversationRoom(conversationId), client)
	h.sendTo(client, EventJoinedConversation, ConversationRef{ConversationId: conversationId})
}

func (h *hub) leaveConversation(client *Client, data json.RawMessage) {
	conversationId, ok := conversationIdOf(data)
	if !ok {
		h.sendError(client, MessageMalformedEvent, "")
		return
	}

	h.registry.Leave(ConversationRoom(conversationId), client)
}

// sendMessage persists first. Nothing is broadcast when persistence fails.
func (h *hub) sendMessage(ctx context.Context, client *Client, data json.RawMessage) {
	var payload chat.SendMessagePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		h.sendError(client, MessageMalformedEvent, "")
		return
	}

	message, err := h.chatService.SendMessage(ctx, client.Identity, &payload)
	if err != nil {
		h.sendError(client, errorMessage(ctx, err), payload.TempId)
		return
	}

	h.PublishToConversation(message.ConversationId, chat.EventNewMessage, message)
	h.sendTo(client, EventMessageSent, MessageSent{TempId: payload.TempId, Message: message})
}

func (h *hub) typing(client *Client, data json.RawMessage, event string) {
	conversationId, ok := conversationIdOf(data)
	if !ok {
		h.sendError(client, MessageMalformedEvent, "")
		return
	}

	room := ConversationRoom(conversationId)
	if !h.registry.InRoom(room, client) {
		h.sendError(client, MessageNotJoined, "")
		return
	}

	notice := UserTyping{UserId: client.Identity.Id, ConversationId: conversationId}
	if event == EventUserTyping {
		notice.UserName = client.Identity.Name
	}
	h.deliver(h.registry.Room(room), client, event, notice)
}

func (h *hub) markRead(ctx context.Context, client *Client, data json.RawMessage) {
	var payload chat.MarkReadPayload
	if err := json.Unmarshal(data, &payload); err != nil || payload.ConversationId == "" {
		h.sendError(client, MessageMalformedEvent, "")
		return
	}

	result, err := h.chatService.MarkRead(ctx, client.Identity.Id, payload.ConversationId, payload.MessageIds)
	if err != nil {
		h.sendError(client, errorMessage(ctx, err), "")
		return
	}

	h.deliver(h.registry.Room(ConversationRoom(result.ConversationId)), client, chat.EventMessagesRead, result)
}

func (h *hub) updateStatus(ctx context.Context, client *Client, data json.RawMessage) {
	status, ok := statusOf(data)
	if !ok || !status.Valid() {
		h.sendError(client, MessageInvalidStatus, "")
		return
	}

	if err := h.presenceStore.SetStatus(ctx, client.Identity.Id, status); err != nil {
		logger.FromContext(ctx).Warnw("presence was not updated", zap.Error(err))
	}
	h.Broadcast(EventUserStatusChanged, StatusChanged{UserId: client.Identity.Id, Status: status})
}

func (h *hub) sendTo(client *Client, event string, data interface{}) {
	h.deliver([]*Client{client}, nil, event, data)
}

func (h *hub) sendError(client *Client, message, tempId string) {
	h.sendTo(client, EventMessageError, MessageError{Error: message, TempId: tempId})
}

// deliver encodes the event once. A client whose buffer is full is closed.
func (h *hub) deliver(clients []*Client, exclude *Client, event string, data interface{}) {
	if len(clients) == 0 {
		return
	}

	frame, err := json.Marshal(outbound{Event: event, Data: data})
	if err != nil {
		h.log.Errorw("event was not encoded", zap.String("event", event), zap.Error(err))
		return
	}

	for _, client := range clients {
		if client == exclude {
			continue
		}
		if !client.Send(frame) {
			h.log.Warnw("dropping slow connection",
				zap.String("userId", client.Identity.Id),
				zap.String("connectionId", client.Id),
			)
			client.Close()
		}
	}
}

// errorMessage keeps internal details out of client frames.
func errorMessage(ctx context.Context, err error) string {
	cerr := cerror.From(err)
	if cerr.Kind == cerror.KindInternal {
		logger.FromContext(ctx).Errorw(cerr.LogMessage, zap.Error(err))
		return cerror.MessageInternal
	}
	return cerr.LogMessage
}

// conversationIdOf accepts both a bare id and {"conversationId": id}.
func conversationIdOf(data json.RawMessage) (string, bool) {
	var conversationId string
	if err := json.Unmarshal(data, &conversationId); err == nil {
		return conversationId, conversationId != ""
	}

	var ref ConversationRef
	if err := json.Unmarshal(data, &ref); err == nil {
		return ref.ConversationId, ref.ConversationId != ""
	}

	return "", false
}

func statusOf(data json.RawMessage) (Status, bool) {
	var status Status
	if err := json.Unmarshal(data, &status); err == nil {
		return status, true
	}

	var wrapped struct {
		Status Status `json:"status"`
	}
	if err := json.Unmarshal(data, &wrapped); err == nil {
		return wrapped.Status, true
	}

	return "", false
}
