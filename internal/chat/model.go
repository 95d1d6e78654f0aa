package chat

import (
	"sort"
	"strings"
	"time"
)

const (
	EventNewMessage     = "new_message"
	EventMessagesRead   = "messages_read"
	EventMessageDeleted = "message_deleted"
)

type ConversationType string

const (
	ConversationDirect ConversationType = "direct"
	ConversationGroup  ConversationType = "group"
)

type MessageType string

const (
	MessageText     MessageType = "text"
	MessageImage    MessageType = "image"
	MessageFile     MessageType = "file"
	MessageLocation MessageType = "location"
	MessageSystem   MessageType = "system"
)

func (t MessageType) Valid() bool {
	switch t {
	case MessageText, MessageImage, MessageFile, MessageLocation, MessageSystem:
		return true
	}
	return false
}

type Conversation struct {
	Id            string           `bson:"_id" json:"id"`
	Name          string           `bson:"name,omitempty" json:"name,omitempty"`
	Type          ConversationType `bson:"type" json:"type"`
	Participants  []string         `bson:"participants" json:"participants"`
	PairKey       string           `bson:"pairKey,omitempty" json:"-"`
	CreatedBy     string           `bson:"createdBy" json:"createdBy"`
	LastMessageId string           `bson:"lastMessageId,omitempty" json:"lastMessageId,omitempty"`
	LastMessageAt *time.Time       `bson:"lastMessageAt,omitempty" json:"lastMessageAt,omitempty"`
	IsActive      bool             `bson:"isActive" json:"isActive"`
	CreatedAt     time.Time        `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time        `bson:"updatedAt" json:"updatedAt"`
}

func (c *Conversation) HasParticipant(identityId string) bool {
	for _, participant := range c.Participants {
		if participant == identityId {
			return true
		}
	}
	return false
}

// Recipients are all participants except the sender.
func (c *Conversation) Recipients(senderId string) []string {
	recipients := make([]string, 0, len(c.Participants))
	for _, participant := range c.Participants {
		if participant != senderId {
			recipients = append(recipients, participant)
		}
	}
	return recipients
}

type Attachment struct {
	Url         string `bson:"url" json:"url" validate:"required,uri"`
	ContentType string `bson:"contentType,omitempty" json:"contentType,omitempty" validate:"max=255"`
	Name        string `bson:"name,omitempty" json:"name,omitempty" validate:"max=255"`
	Size        int64  `bson:"size,omitempty" json:"size,omitempty" validate:"gte=0"`
}

type ReadReceipt struct {
	ReaderId string    `bson:"readerId" json:"readerId"`
	ReadAt   time.Time `bson:"readAt" json:"readAt"`
}

type Message struct {
	Id             string        `bson:"_id" json:"id"`
	ConversationId string        `bson:"conversationId" json:"conversationId"`
	SenderId       string        `bson:"senderId" json:"senderId"`
	SenderName     string        `bson:"senderName,omitempty" json:"senderName,omitempty"`
	Body           string        `bson:"body" json:"message"`
	Type           MessageType   `bson:"type" json:"type"`
	Attachment     *Attachment   `bson:"attachment,omitempty" json:"attachment,omitempty"`
	ReadBy         []ReadReceipt `bson:"readBy" json:"readBy"`
	Deleted        bool          `bson:"deleted" json:"deleted"`
	DeletedAt      *time.Time    `bson:"deletedAt,omitempty" json:"deletedAt,omitempty"`
	CreatedAt      time.Time     `bson:"createdAt" json:"createdAt"`
}

type SendMessagePayload struct {
	ConversationId string      `json:"conversationId" validate:"required"`
	Message        string      `json:"message" validate:"max=5000"`
	Type           MessageType `json:"type" validate:"omitempty,oneof=text image file location system"`
	TempId         string      `json:"tempId,omitempty"`
	Attachment     *Attachment `json:"attachment,omitempty" validate:"omitempty"`
}

type CreateConversationPayload struct {
	ParticipantIds []string `json:"participantIds" validate:"required,min=1,dive,required"`
	Name           string   `json:"name" validate:"max=100"`
	IsGroup        bool     `json:"isGroup"`
}

type MarkReadPayload struct {
	ConversationId string   `json:"conversationId"`
	MessageIds     []string `json:"messageIds" validate:"required,min=1,dive,required"`
}

type Pagination struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Pages int   `json:"pages"`
}

type MessagePage struct {
	Messages   []Message  `json:"messages"`
	Pagination Pagination `json:"pagination"`
}

type ReadResult struct {
	ConversationId string    `json:"conversationId"`
	MessageIds     []string  `json:"messageIds"`
	ReadBy         string    `json:"readBy"`
	ReadAt         time.Time `json:"readAt"`
}

type DeletedResult struct {
	MessageId      string `json:"messageId"`
	ConversationId string `json:"conversationId"`
}

// MessageCreatedEvent is published to the broker after a message is stored.
type MessageCreatedEvent struct {
	MessageId      string    `json:"messageId"`
	ConversationId string    `json:"conversationId"`
	SenderId       string    `json:"senderId"`
	SenderName     string    `json:"senderName"`
	RecipientIds   []string  `json:"recipientIds"`
	Preview        string    `json:"preview"`
	CreatedAt      time.Time `json:"createdAt"`
}

// PairKey identifies the direct conversation between two identities
// independent of their order.
func PairKey(first, second string) string {
	pair := []string{first, second}
	sort.Strings(pair)
	return strings.Join(pair, ":")
}
