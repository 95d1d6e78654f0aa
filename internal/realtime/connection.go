package realtime

import (
	"context"
	"time"

	"github.com/gofiber/contrib/websocket"
	"go.uber.org/zap"

	"fleet-api/pkg/logger"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	maxMessageSize = 64 * 1024
)

// readPump processes the client's frames one at a time until the connection
// fails or the client is closed.
func readPump(ctx context.Context, hub Hub, client *Client, conn *websocket.Conn) {
	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		messageType, frame, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.FromContext(ctx).Warnw("connection closed unexpectedly", zap.Error(err))
			}
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}

		select {
		case <-client.Done():
			return
		default:
		}

		hub.Dispatch(ctx, client, frame)
	}
}

// writePump is the only writer of conn. It closes conn when the client is
// closed, which also unblocks readPump.
func writePump(client *Client, conn *websocket.Conn) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = conn.Close()
	}()

	for {
		select {
		case frame := <-client.Outbox():
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				client.Close()
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				client.Close()
				return
			}
		case <-client.Done():
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}
