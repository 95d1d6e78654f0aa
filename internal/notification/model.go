package notification

import "time"

const EventNotification = "notification"

type Type string

const (
	TypeMessageReceived Type = "message-received"
	TypeSystemAlert     Type = "system-alert"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

type Document struct {
	Id          string                 `bson:"_id" json:"id"`
	RecipientId string                 `bson:"recipientId" json:"recipientId"`
	Type        Type                   `bson:"type" json:"type"`
	Title       string                 `bson:"title" json:"title"`
	Message     string                 `bson:"message" json:"message"`
	Priority    Priority               `bson:"priority" json:"priority"`
	Data        map[string]interface{} `bson:"data,omitempty" json:"data,omitempty"`
	IsRead      bool                   `bson:"isRead" json:"isRead"`
	ReadAt      *time.Time             `bson:"readAt,omitempty" json:"readAt,omitempty"`
	CreatedAt   time.Time              `bson:"createdAt" json:"createdAt"`
}

type ListResult struct {
	Notifications []Document `json:"notifications"`
	UnreadCount   int64      `json:"unreadCount"`
}

type ReadAllResult struct {
	Updated int64 `json:"updated"`
}
