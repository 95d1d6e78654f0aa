package realtime

import (
	"github.com/goccy/go-json"

	"fleet-api/internal/chat"
)

const (
	EventJoinConversation  = "join_conversation"
	EventLeaveConversation = "leave_conversation"
	EventSendMessage       = "send_message"
	EventTyping            = "typing"
	EventStopTyping        = "stop_typing"
	EventMarkRead          = "mark_read"
	EventUpdateStatus      = "update_status"

	EventJoinedConversation = "joined_conversation"
	EventMessageSent        = "message_sent"
	EventMessageError       = "message_error"
	EventUserTyping         = "user_typing"
	EventUserStopTyping     = "user_stop_typing"
	EventUserStatusChanged  = "user_status_changed"

	MessageUnknownEvent   = "unknown event"
	MessageMalformedEvent = "malformed event"
	MessageInvalidStatus  = "status must be one of online, away, busy, offline"
	MessageNotJoined      = "join the conversation first"
)

type Status string

const (
	StatusOnline  Status = "online"
	StatusAway    Status = "away"
	StatusBusy    Status = "busy"
	StatusOffline Status = "offline"
)

func (s Status) Valid() bool {
	switch s {
	case StatusOnline, StatusAway, StatusBusy, StatusOffline:
		return true
	}
	return false
}

// Envelope is the frame format in both directions.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type outbound struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

type ConversationRef struct {
	ConversationId string `json:"conversationId"`
}

type MessageError struct {
	Error  string `json:"error"`
	TempId string `json:"tempId,omitempty"`
}

type MessageSent struct {
	TempId  string        `json:"tempId,omitempty"`
	Message *chat.Message `json:"message"`
}

type UserTyping struct {
	UserId         string `json:"userId"`
	UserName       string `json:"userName,omitempty"`
	ConversationId string `json:"conversationId"`
}

type StatusChanged struct {
	UserId string `json:"userId"`
	Status Status `json:"status"`
}

func ConversationRoom(conversationId string) string {
	return "conversation:" + conversationId
}

func IdentityRoom(identityId string) string {
	return "user:" + identityId
}
