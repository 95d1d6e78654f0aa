package notification

import (
	"context"
	"time"

	"github.com/google/uuid"

	"fleet-api/internal/chat"
)

const listLimit = 50

// Pusher delivers an event to every live connection of one identity.
type Pusher interface {
	PublishToIdentity(identityId, event string, data interface{})
}

type Service interface {
	List(ctx context.Context, recipientId string, unreadOnly bool) (*ListResult, error)
	MarkRead(ctx context.Context, recipientId, notificationId string) error
	MarkAllRead(ctx context.Context, recipientId string) (*ReadAllResult, error)
	Delete(ctx context.Context, recipientId, notificationId string) error
	NotifyMessageCreated(ctx context.Context, event *chat.MessageCreatedEvent) ([]Document, error)
}

type service struct {
	notificationRepository Repository
	pusher                 Pusher
	now                    func() time.Time
}

func NewService(notificationRepository Repository, pusher Pusher) Service {
	return &service{
		notificationRepository: notificationRepository,
		pusher:                 pusher,
		now:                    time.Now,
	}
}

func (s *service) List(ctx context.Context, recipientId string, unreadOnly bool) (*ListResult, error) {
	documents, err := s.notificationRepository.FindNotifications(ctx, recipientId, unreadOnly, listLimit)
	if err != nil {
		return nil, err
	}

	unreadCount, err := s.notificationRepository.CountUnread(ctx, recipientId)
	if err != nil {
		return nil, err
	}

	return &ListResult{
		Notifications: documents,
		UnreadCount:   unreadCount,
	}, nil
}

func (s *service) MarkRead(ctx context.Context, recipientId, notificationId string) error {
	return s.notificationRepository.MarkRead(ctx, recipientId, notificationId, s.now().UTC())
}

func (s *service) MarkAllRead(ctx context.Context, recipientId string) (*ReadAllResult, error) {
	updated, err := s.notificationRepository.MarkAllRead(ctx, recipientId, s.now().UTC())
	if err != nil {
		return nil, err
	}

	return &ReadAllResult{Updated: updated}, nil
}

func (s *service) Delete(ctx context.Context, recipientId, notificationId string) error {
	return s.notificationRepository.DeleteNotification(ctx, recipientId, notificationId)
}

// NotifyMessageCreated stores one notification per recipient, then pushes
// each to the recipient's private room.
func (s *service) NotifyMessageCreated(ctx context.Context, event *chat.MessageCreatedEvent) ([]Document, error) {
	now := s.now().UTC()
	documents := make([]Document, 0, len(event.RecipientIds))
	for _, recipientId := range event.RecipientIds {
		if recipientId == "" || recipientId == event.SenderId {
			continue
		}
		documents = append(documents, Document{
			Id:          uuid.New().String(),
			RecipientId: recipientId,
			Type:        TypeMessageReceived,
			Title:       "New message from " + event.SenderName,
			Message:     event.Preview,
			Priority:    PriorityMedium,
			Data: map[string]interface{}{
				"conversationId": event.ConversationId,
				"messageId":      event.MessageId,
				"senderId":       event.SenderId,
			},
			CreatedAt: now,
		})
	}

	if err := s.notificationRepository.InsertNotifications(ctx, documents); err != nil {
		return nil, err
	}

	for i := range documents {
		s.pusher.PublishToIdentity(documents[i].RecipientId, EventNotification, documents[i])
	}

	return documents, nil
}
