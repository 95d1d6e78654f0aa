package chat

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"fleet-api/internal/identity"
	"fleet-api/pkg/broker"
	"fleet-api/pkg/cerror"
	"fleet-api/pkg/logger"
	"fleet-api/pkg/request"
	"fleet-api/pkg/storage"
)

const (
	DefaultPageLimit = 50
	MaxPageLimit     = 100
	MaxPage          = math.MaxInt32
	previewLength    = 100
	PublishTimeout   = 2 * time.Second

	MessageBodyRequired        = "message or attachment is required"
	MessageNotParticipant      = "you are not a participant in this conversation"
	MessageOnlySenderCanDelete = "you can only delete your own messages"
	MessageConversationExists  = "conversation already exists"
	MessageGroupNameRequired   = "group conversations need a name"
	MessageTooFewParticipants  = "a conversation needs at least one other participant"
	MessageDirectTwoOnly       = "direct conversations have exactly two participants"
	MessageUnknownParticipant  = "unknown or inactive participant"
	MessageForeignAttachment   = "attachment was uploaded by another user"
)

type IdentityFinder interface {
	FindIdentitiesWithIds(ctx context.Context, identityIds []string) ([]identity.Document, error)
}

type Service interface {
	ListConversations(ctx context.Context, identityId string) ([]Conversation, error)
	CreateConversation(ctx context.Context, creatorId string, payload *CreateConversationPayload) (*Conversation, bool, error)
	JoinConversation(ctx context.Context, identityId, conversationId string) (*Conversation, error)
	SendMessage(ctx context.Context, sender *identity.Document, payload *SendMessagePayload) (*Message, error)
	ListMessages(ctx context.Context, identityId, conversationId string, page, limit int) (*MessagePage, error)
	MarkRead(ctx context.Context, readerId, conversationId string, messageIds []string) (*ReadResult, error)
	DeleteMessage(ctx context.Context, identityId, messageId string) (*DeletedResult, error)
}

type service struct {
	chatRepository  Repository
	identityFinder  IdentityFinder
	attachmentStore storage.AttachmentStore
	publisher       broker.Publisher
	queue           string
	publishTimeout  time.Duration
	now             func() time.Time
}

func NewService(
	chatRepository Repository,
	identityFinder IdentityFinder,
	attachmentStore storage.AttachmentStore,
	publisher broker.Publisher,
	queue string,
) Service {
	if publisher == nil {
		publisher = broker.NewNopPublisher()
	}

	return &service{
		chatRepository:  chatRepository,
		identityFinder:  identityFinder,
		attachmentStore: attachmentStore,
		publisher:       publisher,
		queue:           queue,
		publishTimeout:  PublishTimeout,
		now:             time.Now,
	}
}

func (s *service) ListConversations(ctx context.Context, identityId string) ([]Conversation, error) {
	return s.chatRepository.FindConversationsOfParticipant(ctx, identityId)
}

// CreateConversation returns created=false when the direct conversation for
// the pair already existed.
func (s *service) CreateConversation(
	ctx context.Context,
	creatorId string,
	payload *CreateConversationPayload,
) (*Conversation, bool, error) {
	if err := request.Validate(payload); err != nil {
		return nil, false, err
	}

	participants := uniqueParticipants(creatorId, payload.ParticipantIds)
	if len(participants) < 2 {
		return nil, false, validationError(MessageTooFewParticipants, "participantIds", "min=1")
	}

	name := strings.TrimSpace(payload.Name)
	if payload.IsGroup && name == "" {
		return nil, false, validationError(MessageGroupNameRequired, "name", "required")
	}
	if !payload.IsGroup && len(participants) != 2 {
		return nil, false, validationError(MessageDirectTwoOnly, "participantIds", "len=1")
	}

	if err := s.ensureParticipantsExist(ctx, participants[1:]); err != nil {
		return nil, false, err
	}

	now := s.now().UTC()
	conversation := &Conversation{
		Id:           uuid.New().String(),
		Name:         name,
		Type:         ConversationGroup,
		Participants: participants,
		CreatedBy:    creatorId,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if payload.IsGroup {
		if err := s.chatRepository.InsertConversation(ctx, conversation); err != nil {
			return nil, false, err
		}
		return conversation, true, nil
	}

	conversation.Type = ConversationDirect
	conversation.PairKey = PairKey(participants[0], participants[1])

	existing, err := s.chatRepository.FindDirectConversation(ctx, conversation.PairKey)
	if err == nil {
		return existing, false, nil
	}
	if !cerror.IsKind(err, cerror.KindNotFound) {
		return nil, false, err
	}

	err = s.chatRepository.InsertConversation(ctx, conversation)
	if errors.Is(err, ErrDirectConversationExists) {
		existing, err = s.chatRepository.FindDirectConversation(ctx, conversation.PairKey)
		if err != nil {
			return nil, false, err
		}
		return existing, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	return conversation, true, nil
}

func (s *service) JoinConversation(ctx context.Context, identityId, conversationId string) (*Conversation, error) {
	return s.participantConversation(ctx, identityId, conversationId)
}

// SendMessage persists the message and moves the conversation pointer. Live
// delivery is left to the caller. The broker event is best effort and never
// holds the send longer than publishTimeout.
func (s *service) SendMessage(
	ctx context.Context,
	sender *identity.Document,
	payload *SendMessagePayload,
) (*Message, error) {
	if err := request.Validate(payload); err != nil {
		return nil, err
	}

	body := strings.TrimSpace(payload.Message)
	if body == "" && payload.Attachment == nil {
		return nil, validationError(MessageBodyRequired, "message", "required_without=attachment")
	}

	if payload.Attachment != nil && !s.attachmentUsableBy(payload.Attachment.Url, sender.Id) {
		return nil, cerror.NewError(
			fiber.StatusForbidden,
			MessageForeignAttachment,
			zap.String("userId", sender.Id),
			zap.String("attachmentUrl", payload.Attachment.Url),
		).SetSeverity(zapcore.WarnLevel)
	}

	conversation, err := s.participantConversation(ctx, sender.Id, payload.ConversationId)
	if err != nil {
		return nil, err
	}

	message := &Message{
		Id:             uuid.New().String(),
		ConversationId: conversation.Id,
		SenderId:       sender.Id,
		SenderName:     sender.Name,
		Body:           body,
		Type:           messageType(payload),
		Attachment:     payload.Attachment,
		ReadBy:         []ReadReceipt{},
		CreatedAt:      s.now().UTC(),
	}

	if err = s.chatRepository.InsertMessage(ctx, message); err != nil {
		return nil, err
	}

	log := logger.FromContext(ctx)
	err = s.chatRepository.UpdateLastMessage(ctx, conversation.Id, message.Id, message.CreatedAt)
	if err != nil {
		log.Warnw("conversation pointer was not updated",
			zap.String("conversationId", conversation.Id),
			zap.String("messageId", message.Id),
			zap.Error(err),
		)
	}

	event := MessageCreatedEvent{
		MessageId:      message.Id,
		ConversationId: conversation.Id,
		SenderId:       sender.Id,
		SenderName:     sender.Name,
		RecipientIds:   conversation.Recipients(sender.Id),
		Preview:        preview(message),
		CreatedAt:      message.CreatedAt,
	}
	publishCtx, cancel := context.WithTimeout(ctx, s.publishTimeout)
	err = s.publisher.Publish(publishCtx, s.queue, event)
	cancel()
	if err != nil {
		log.Warnw("message created event was not published",
			zap.String("messageId", message.Id),
			zap.Error(err),
		)
	}

	return message, nil
}

func (s *service) ListMessages(
	ctx context.Context,
	identityId, conversationId string,
	page, limit int,
) (*MessagePage, error) {
	if page < 1 {
		page = 1
	}
	if page > MaxPage {
		page = MaxPage
	}
	if limit < 1 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}

	if _, err := s.participantConversation(ctx, identityId, conversationId); err != nil {
		return nil, err
	}

	messages, total, err := s.chatRepository.FindMessages(ctx, conversationId, page, limit)
	if err != nil {
		return nil, err
	}

	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	return &MessagePage{
		Messages: messages,
		Pagination: Pagination{
			Total: total,
			Page:  page,
			Limit: limit,
			Pages: int(math.Ceil(float64(total) / float64(limit))),
		},
	}, nil
}

func (s *service) MarkRead(
	ctx context.Context,
	readerId, conversationId string,
	messageIds []string,
) (*ReadResult, error) {
	if len(messageIds) == 0 {
		return nil, validationError("messageIds are required", "messageIds", "required")
	}

	if _, err := s.participantConversation(ctx, readerId, conversationId); err != nil {
		return nil, err
	}

	readAt := s.now().UTC()
	err := s.chatRepository.MarkRead(ctx, conversationId, readerId, messageIds, readAt)
	if err != nil {
		return nil, err
	}

	return &ReadResult{
		ConversationId: conversationId,
		MessageIds:     messageIds,
		ReadBy:         readerId,
		ReadAt:         readAt,
	}, nil
}

// DeleteMessage soft deletes a message of the caller and removes its
// attachment file when the sender uploaded it to the local store.
func (s *service) DeleteMessage(ctx context.Context, identityId, messageId string) (*DeletedResult, error) {
	message, err := s.chatRepository.FindMessageWithId(ctx, messageId)
	if err != nil {
		return nil, err
	}

	if message.SenderId != identityId {
		return nil, cerror.NewError(
			fiber.StatusForbidden,
			MessageOnlySenderCanDelete,
			zap.String("messageId", messageId),
			zap.String("userId", identityId),
		).SetSeverity(zapcore.WarnLevel)
	}

	if err = s.chatRepository.SoftDeleteMessage(ctx, messageId, s.now().UTC()); err != nil {
		return nil, err
	}

	if message.Attachment != nil && s.attachmentStore != nil &&
		s.attachmentStore.OwnedBy(message.Attachment.Url, message.SenderId) {
		if err = s.attachmentStore.Remove(ctx, message.Attachment.Url); err != nil {
			logger.FromContext(ctx).Warnw("attachment file was not removed",
				zap.String("messageId", messageId),
				zap.Error(err),
			)
		}
	}

	return &DeletedResult{
		MessageId:      message.Id,
		ConversationId: message.ConversationId,
	}, nil
}

// attachmentUsableBy accepts remote urls and local uploads from the sender's
// own folder.
func (s *service) attachmentUsableBy(url, senderId string) bool {
	if s.attachmentStore == nil || !s.attachmentStore.Owns(url) {
		return true
	}
	return s.attachmentStore.OwnedBy(url, senderId)
}

func (s *service) participantConversation(
	ctx context.Context,
	identityId, conversationId string,
) (*Conversation, error) {
	conversation, err := s.chatRepository.FindConversationWithId(ctx, conversationId)
	if err != nil {
		return nil, err
	}

	if !conversation.IsActive {
		return nil, cerror.NewError(
			fiber.StatusNotFound,
			MessageConversationNotFound,
			zap.String("conversationId", conversationId),
		).SetSeverity(zapcore.WarnLevel)
	}

	if !conversation.HasParticipant(identityId) {
		return nil, cerror.NewError(
			fiber.StatusForbidden,
			MessageNotParticipant,
			zap.String("conversationId", conversationId),
			zap.String("userId", identityId),
		).SetSeverity(zapcore.WarnLevel)
	}

	return conversation, nil
}

func (s *service) ensureParticipantsExist(ctx context.Context, identityIds []string) error {
	documents, err := s.identityFinder.FindIdentitiesWithIds(ctx, identityIds)
	if err != nil {
		return err
	}

	active := 0
	for _, document := range documents {
		if document.IsActive {
			active++
		}
	}
	if active != len(identityIds) {
		return validationError(MessageUnknownParticipant, "participantIds", "exists")
	}

	return nil
}

// uniqueParticipants puts the creator first and drops blanks and repeats.
func uniqueParticipants(creatorId string, identityIds []string) []string {
	seen := map[string]bool{creatorId: true}
	participants := []string{creatorId}
	for _, identityId := range identityIds {
		identityId = strings.TrimSpace(identityId)
		if identityId == "" || seen[identityId] {
			continue
		}
		seen[identityId] = true
		participants = append(participants, identityId)
	}
	return participants
}

func messageType(payload *SendMessagePayload) MessageType {
	if payload.Type != "" {
		return payload.Type
	}
	if payload.Attachment == nil {
		return MessageText
	}
	if strings.HasPrefix(payload.Attachment.ContentType, "image/") {
		return MessageImage
	}
	return MessageFile
}

func preview(message *Message) string {
	if message.Body == "" {
		return "sent an attachment"
	}
	if utf8.RuneCountInString(message.Body) <= previewLength {
		return message.Body
	}
	return string([]rune(message.Body)[:previewLength]) + "..."
}

func validationError(message, field, rule string) error {
	return cerror.NewError(fiber.StatusBadRequest, message).
		SetKind(cerror.KindValidationFailed).
		SetSeverity(zapcore.WarnLevel).
		SetDetails(map[string]string{field: rule})
}
