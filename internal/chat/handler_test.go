//go:build unit

package chat

import (
	"bytes"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleet-api/internal/identity"
	"fleet-api/pkg/cerror"
	"fleet-api/pkg/response"
	"fleet-api/pkg/server"
)

type stubGate struct {
	current *identity.Document
}

func (g *stubGate) Authenticate() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if g.current == nil {
			return cerror.NewError(fiber.StatusUnauthorized, cerror.MessageNotAuthorized)
		}
		ctx.Locals(identity.LocalsKey, g.current)
		return ctx.Next()
	}
}

func (g *stubGate) Authorize(...identity.Role) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		return ctx.Next()
	}
}

type handlerDeps struct {
	service     *MockService
	broadcaster *MockBroadcaster
	presence    *MockPresenceReader
}

func newTestApp(mockController *gomock.Controller, current *identity.Document) (*fiber.App, *handlerDeps) {
	deps := &handlerDeps{
		service:     NewMockService(mockController),
		broadcaster: NewMockBroadcaster(mockController),
		presence:    NewMockPresenceReader(mockController),
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: cerror.Middleware,
	})
	NewHandler(deps.service, &stubGate{current: current}, deps.broadcaster, deps.presence).RegisterRoutes(app)
	return app, deps
}

func doJson(t *testing.T, app *fiber.App, method, path string, body interface{}) (*response.Body, int) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req)
	require.NoError(t, err)

	var responseBody response.Body
	raw, _ := io.ReadAll(resp.Body)
	require.NoError(t, json.Unmarshal(raw, &responseBody))

	return &responseBody, resp.StatusCode
}

func TestNewHandler(t *testing.T) {
	chatHandler := NewHandler(nil, nil, nil, nil)

	assert.Implements(t, (*server.Handler)(nil), chatHandler)
}

func TestHandler_Unauthenticated(t *testing.T) {
	mockController := gomock.NewController(t)
	defer mockController.Finish()

	app, _ := newTestApp(mockController, nil)

	body, status := doJson(t, app, fiber.MethodGet, "/api/chat/conversations", nil)

	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.False(t, body.Success)
}

func TestHandler_CreateConversation(t *testing.T) {
	mockController := gomock.NewController(t)
	defer mockController.Finish()

	payload := CreateConversationPayload{ParticipantIds: []string{TestRecipientId}}

	t.Run("new conversation returns 201", func(t *testing.T) {
		app, deps := newTestApp(mockController, newTestSender())
		deps.service.EXPECT().CreateConversation(gomock.Any(), TestSenderId, &payload).
			Return(newTestConversation(), true, nil)

		body, status := doJson(t, app, fiber.MethodPost, "/api/chat/conversations", payload)

		assert.Equal(t, fiber.StatusCreated, status)
		assert.True(t, body.Success)
		assert.NotContains(t, body.Data.(map[string]interface{}), "pairKey")
	})

	t.Run("existing conversation returns 200", func(t *testing.T) {
		app, deps := newTestApp(mockController, newTestSender())
		deps.service.EXPECT().CreateConversation(gomock.Any(), TestSenderId, &payload).
			Return(newTestConversation(), false, nil)

		body, status := doJson(t, app, fiber.MethodPost, "/api/chat/conversations", payload)

		assert.Equal(t, fiber.StatusOK, status)
		assert.Equal(t, MessageConversationExists, body.Message)
	})

	t.Run("when participants are missing should return 400", func(t *testing.T) {
		app, _ := newTestApp(mockController, newTestSender())

		body, status := doJson(t, app, fiber.MethodPost, "/api/chat/conversations", CreateConversationPayload{})

		assert.Equal(t, fiber.StatusBadRequest, status)
		assert.Contains(t, body.Errors, "participantIds")
	})
}

func TestHandler_SendMessage(t *testing.T) {
	mockController := gomock.NewController(t)
	defer mockController.Finish()

	payload := SendMessagePayload{ConversationId: TestConversationId, Message: "Loaded at dock 4"}

	t.Run("happy path broadcasts to the conversation", func(t *testing.T) {
		app, deps := newTestApp(mockController, newTestSender())
		message := &Message{Id: TestMessageId, ConversationId: TestConversationId, SenderId: TestSenderId, Body: payload.Message}
		deps.service.EXPECT().SendMessage(gomock.Any(), gomock.Any(), &payload).Return(message, nil)
		deps.broadcaster.EXPECT().PublishToConversation(TestConversationId, EventNewMessage, message)

		body, status := doJson(t, app, fiber.MethodPost, "/api/chat/messages", payload)

		assert.Equal(t, fiber.StatusCreated, status)
		assert.Equal(t, payload.Message, body.Data.(map[string]interface{})["message"])
	})

	t.Run("when service fails nothing is broadcast", func(t *testing.T) {
		app, deps := newTestApp(mockController, newTestSender())
		deps.service.EXPECT().SendMessage(gomock.Any(), gomock.Any(), &payload).
			Return(nil, cerror.NewError(fiber.StatusForbidden, MessageNotParticipant))
		deps.broadcaster.EXPECT().PublishToConversation(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		body, status := doJson(t, app, fiber.MethodPost, "/api/chat/messages", payload)

		assert.Equal(t, fiber.StatusForbidden, status)
		assert.Equal(t, MessageNotParticipant, body.Message)
	})
}

func TestHandler_ListMessages(t *testing.T) {
	mockController := gomock.NewController(t)
	defer mockController.Finish()

	app, deps := newTestApp(mockController, newTestSender())
	deps.service.EXPECT().ListMessages(gomock.Any(), TestSenderId, TestConversationId, 3, 20).
		Return(&MessagePage{Messages: []Message{}, Pagination: Pagination{Page: 3, Limit: 20}}, nil)

	body, status := doJson(t, app, fiber.MethodGet,
		"/api/chat/conversations/"+TestConversationId+"/messages?page=3&limit=20", nil)

	assert.Equal(t, fiber.StatusOK, status)
	assert.True(t, body.Success)
}

func TestHandler_MarkRead(t *testing.T) {
	mockController := gomock.NewController(t)
	defer mockController.Finish()

	app, deps := newTestApp(mockController, newTestSender())
	result := &ReadResult{ConversationId: TestConversationId, MessageIds: []string{TestMessageId}, ReadBy: TestSenderId}
	deps.service.EXPECT().MarkRead(gomock.Any(), TestSenderId, TestConversationId, []string{TestMessageId}).Return(result, nil)
	deps.broadcaster.EXPECT().PublishToConversation(TestConversationId, EventMessagesRead, result)

	_, status := doJson(t, app, fiber.MethodPatch, "/api/chat/conversations/"+TestConversationId+"/read",
		MarkReadPayload{MessageIds: []string{TestMessageId}})

	assert.Equal(t, fiber.StatusOK, status)
}

func TestHandler_DeleteMessage(t *testing.T) {
	mockController := gomock.NewController(t)
	defer mockController.Finish()

	t.Run("happy path emits message_deleted", func(t *testing.T) {
		app, deps := newTestApp(mockController, newTestSender())
		result := &DeletedResult{MessageId: TestMessageId, ConversationId: TestConversationId}
		deps.service.EXPECT().DeleteMessage(gomock.Any(), TestSenderId, TestMessageId).Return(result, nil)
		deps.broadcaster.EXPECT().PublishToConversation(TestConversationId, EventMessageDeleted, result)

		_, status := doJson(t, app, fiber.MethodDelete, "/api/chat/messages/"+TestMessageId, nil)

		assert.Equal(t, fiber.StatusOK, status)
	})

	t.Run("when caller is not the sender should return 403", func(t *testing.T) {
		app, deps := newTestApp(mockController, newTestSender())
		deps.service.EXPECT().DeleteMessage(gomock.Any(), TestSenderId, TestMessageId).
			Return(nil, cerror.NewError(fiber.StatusForbidden, MessageOnlySenderCanDelete))

		body, status := doJson(t, app, fiber.MethodDelete, "/api/chat/messages/"+TestMessageId, nil)

		assert.Equal(t, fiber.StatusForbidden, status)
		assert.Equal(t, MessageOnlySenderCanDelete, body.Message)
	})
}

func TestHandler_Presence(t *testing.T) {
	mockController := gomock.NewController(t)
	defer mockController.Finish()

	app, deps := newTestApp(mockController, newTestSender())
	deps.presence.EXPECT().Statuses(gomock.Any(), []string{TestRecipientId, TestOutsiderId}).
		Return(map[string]string{TestRecipientId: "online", TestOutsiderId: "offline"}, nil)

	body, status := doJson(t, app, fiber.MethodGet,
		"/api/chat/presence?userIds="+TestRecipientId+",,"+TestOutsiderId, nil)

	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "online", body.Data.(map[string]interface{})[TestRecipientId])
}
