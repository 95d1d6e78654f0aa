package notification

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"fleet-api/internal/chat"
	"fleet-api/pkg/broker"
	"fleet-api/pkg/logger"
)

// NewMessageCreatedHandler turns broker deliveries into notifications.
// Malformed bodies are reported as broker.ErrMalformed so the delivery is
// dropped; storage failures put it back on the queue.
func NewMessageCreatedHandler(notificationService Service) broker.DeliveryHandler {
	return func(ctx context.Context, body []byte) error {
		var event chat.MessageCreatedEvent
		if err := json.Unmarshal(body, &event); err != nil {
			return fmt.Errorf("%w: decode message created event: %v", broker.ErrMalformed, err)
		}
		if event.MessageId == "" || event.ConversationId == "" {
			return fmt.Errorf("%w: message created event is missing ids", broker.ErrMalformed)
		}

		documents, err := notificationService.NotifyMessageCreated(ctx, &event)
		if err != nil {
			return err
		}

		logger.FromContext(ctx).Debugw("notifications created",
			zap.String("messageId", event.MessageId),
			zap.Int("count", len(documents)),
		)
		return nil
	}
}
