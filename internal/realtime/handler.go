package realtime

import (
	"context"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"fleet-api/internal/auth"
	"fleet-api/internal/identity"
	"fleet-api/pkg/cerror"
	"fleet-api/pkg/logger"
	"fleet-api/pkg/server"
)

const (
	localsIdentity = "realtime.identity"
	localsLogger   = "realtime.logger"

	MessageUpgradeRequired = "websocket upgrade required"
)

type IdentityVerifier interface {
	Identify(ctx context.Context, rawToken string) (*identity.Document, error)
}

type handler struct {
	hub      Hub
	verifier IdentityVerifier
}

func NewHandler(hub Hub, verifier IdentityVerifier) server.Handler {
	return &handler{
		hub:      hub,
		verifier: verifier,
	}
}

func (h *handler) RegisterRoutes(app *fiber.App) {
	app.Get("/ws", h.Handshake, websocket.New(h.Serve))
}

// Handshake authenticates before the upgrade so a rejected client never gets
// a connection.
func (h *handler) Handshake(ctx *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(ctx) {
		return cerror.NewError(fiber.StatusUpgradeRequired, MessageUpgradeRequired).
			SetSeverity(zapcore.WarnLevel)
	}

	rawToken, ok := auth.BearerToken(ctx.Get(fiber.HeaderAuthorization))
	if !ok {
		rawToken = ctx.Query("token")
	}
	if rawToken == "" {
		return cerror.NewError(fiber.StatusUnauthorized, cerror.MessageNotAuthorized).
			SetSeverity(zapcore.WarnLevel)
	}

	document, err := h.verifier.Identify(ctx.Context(), rawToken)
	if err != nil {
		return err
	}

	ctx.Locals(localsIdentity, document)
	ctx.Locals(localsLogger, logger.FromContext(ctx.Context()).With(zap.String("userId", document.Id)))
	return ctx.Next()
}

// Serve runs for the lifetime of one upgraded connection.
func (h *handler) Serve(conn *websocket.Conn) {
	document, ok := conn.Locals(localsIdentity).(*identity.Document)
	if !ok {
		_ = conn.Close()
		return
	}

	log, ok := conn.Locals(localsLogger).(*zap.SugaredLogger)
	if !ok {
		log = logger.FromContext(context.Background())
	}
	ctx := logger.InjectContext(context.Background(), log)

	client := NewClient(document)
	h.hub.Connect(ctx, client)
	log.Infow("connection opened", zap.String("connectionId", client.Id))

	written := make(chan struct{})
	go func() {
		writePump(client, conn)
		close(written)
	}()
	readPump(ctx, h.hub, client, conn)

	h.hub.Disconnect(ctx, client)
	<-written
	log.Infow("connection closed", zap.String("connectionId", client.Id))
}
