package broker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"fleet-api/pkg/logger"
)

const defaultPrefetch = 50

// ErrMalformed marks deliveries that can never be processed.
var ErrMalformed = errors.New("malformed delivery")

// DeliveryHandler processes one message body. Errors wrapping ErrMalformed
// drop the delivery; any other error puts it back on the queue.
type DeliveryHandler func(ctx context.Context, body []byte) error

type Consumer interface {
	Consume(ctx context.Context, queue string, handler DeliveryHandler) error
}

type consumer struct {
	url        string
	prefetch   int
	newBackOff func() backoff.BackOff
}

func NewConsumer(url string) Consumer {
	return &consumer{
		url:      url,
		prefetch: defaultPrefetch,
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = time.Second
			b.MaxInterval = 30 * time.Second
			b.MaxElapsedTime = 0
			return b
		},
	}
}

// Consume blocks until ctx is cancelled, reconnecting with exponential backoff
// whenever the connection or the delivery channel goes away.
func (c *consumer) Consume(ctx context.Context, queue string, handler DeliveryHandler) error {
	log := logger.FromContext(ctx).With(zap.String("queue", queue))

	operation := func() error {
		err := c.consumeOnce(ctx, queue, handler)
		if ctx.Err() != nil {
			return backoff.Permanent(ctx.Err())
		}
		return err
	}

	notify := func(err error, wait time.Duration) {
		log.Warnw("consumer disconnected, reconnecting",
			zap.Error(err),
			zap.Duration("retryIn", wait),
		)
	}

	err := backoff.RetryNotify(operation, backoff.WithContext(c.newBackOff(), ctx), notify)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}

	return err
}

func (c *consumer) consumeOnce(ctx context.Context, queue string, handler DeliveryHandler) error {
	conn, err := amqp.Dial(c.url)
	if err != nil {
		return fmt.Errorf("dial broker: %w", err)
	}
	defer conn.Close() //nolint:errcheck

	channel, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer channel.Close() //nolint:errcheck

	if err := channel.Qos(c.prefetch, 0, false); err != nil {
		return fmt.Errorf("set qos: %w", err)
	}

	_, err = channel.QueueDeclare(queue, true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	deliveries, err := channel.Consume(queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	logger.FromContext(ctx).Infow("consumer started", zap.String("queue", queue))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case delivery, ok := <-deliveries:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			handleDelivery(ctx, delivery, handler)
		}
	}
}

func handleDelivery(ctx context.Context, delivery amqp.Delivery, handler DeliveryHandler) {
	log := logger.FromContext(ctx)

	if err := handler(ctx, delivery.Body); err != nil {
		requeue := !errors.Is(err, ErrMalformed)
		log.Warnw("delivery rejected", zap.Bool("requeue", requeue), zap.Error(err))
		if nackErr := delivery.Nack(false, requeue); nackErr != nil {
			log.Errorw("failed to nack delivery", zap.Error(nackErr))
		}
		return
	}

	if err := delivery.Ack(false); err != nil {
		log.Errorw("failed to ack delivery", zap.Error(err))
	}
}
