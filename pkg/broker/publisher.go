package broker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/goccy/go-json"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"fleet-api/pkg/logger"
)

const (
	defaultOutboxSize = 1024
	deliverTimeout    = 5 * time.Second
)

var (
	ErrPublisherClosed = errors.New("publisher is closed")
	ErrOutboxFull      = errors.New("publisher outbox is full")
)

type Publisher interface {
	Publish(ctx context.Context, queue string, payload interface{}) error
	Close() error
}

// session is the part of a broker connection the publisher writes through.
type session interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	IsClosed() bool
	Close() error
}

type amqpSession struct {
	*amqp.Channel
	conn *amqp.Connection
}

func (s amqpSession) IsClosed() bool {
	return s.conn.IsClosed() || s.Channel.IsClosed()
}

func (s amqpSession) Close() error {
	_ = s.Channel.Close()
	return s.conn.Close()
}

func dialSession(url string) (session, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial broker: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("channel open: %w", err)
	}

	return amqpSession{Channel: channel, conn: conn}, nil
}

type outgoing struct {
	queue string
	body  []byte
}

// publisher queues messages in memory and writes them from a single
// goroutine, which owns the session and re-dials it with backoff.
type publisher struct {
	dial       func() (session, error)
	newBackOff func() backoff.BackOff
	outbox     chan outgoing
	ctx        context.Context
	cancel     context.CancelFunc
	stopped    chan struct{}

	session  session
	declared map[string]bool
}

// NewPublisher dials the broker once so a wrong url fails at startup. Later
// connection loss is repaired in the background.
func NewPublisher(ctx context.Context, url string) (Publisher, error) {
	dial := func() (session, error) {
		return dialSession(url)
	}

	current, err := dial()
	if err != nil {
		return nil, err
	}

	return newPublisher(ctx, dial, current, defaultOutboxSize), nil
}

func newPublisher(ctx context.Context, dial func() (session, error), current session, outboxSize int) *publisher {
	ctx, cancel := context.WithCancel(ctx)
	p := &publisher{
		dial: dial,
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 500 * time.Millisecond
			b.MaxInterval = 30 * time.Second
			b.MaxElapsedTime = 0
			return b
		},
		outbox:   make(chan outgoing, outboxSize),
		ctx:      ctx,
		cancel:   cancel,
		stopped:  make(chan struct{}),
		session:  current,
		declared: map[string]bool{},
	}
	go p.run()

	return p
}

// Publish never waits for the broker. It fails only when the payload cannot
// be encoded, the outbox is full or the publisher is closed.
func (p *publisher) Publish(_ context.Context, queue string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	if p.ctx.Err() != nil {
		return ErrPublisherClosed
	}

	select {
	case p.outbox <- outgoing{queue: queue, body: body}:
		return nil
	default:
		return ErrOutboxFull
	}
}

// Close stops the writer. Queued messages are written once more if the
// session is still up, without retrying.
func (p *publisher) Close() error {
	p.cancel()
	<-p.stopped
	return nil
}

func (p *publisher) run() {
	defer close(p.stopped)
	log := logger.FromContext(p.ctx)

	for {
		select {
		case <-p.ctx.Done():
			p.flush()
			p.closeSession()
			return
		case message := <-p.outbox:
			notify := func(err error, wait time.Duration) {
				log.Warnw("publish failed, retrying",
					zap.String("queue", message.queue),
					zap.Error(err),
					zap.Duration("retryIn", wait),
				)
			}
			err := backoff.RetryNotify(func() error {
				return p.deliver(message)
			}, backoff.WithContext(p.newBackOff(), p.ctx), notify)
			if err != nil {
				log.Errorw("message dropped", zap.String("queue", message.queue), zap.Error(err))
			}
		}
	}
}

func (p *publisher) flush() {
	log := logger.FromContext(p.ctx)
	for {
		select {
		case message := <-p.outbox:
			if p.session == nil || p.session.IsClosed() {
				log.Errorw("message dropped on close, broker unavailable", zap.String("queue", message.queue))
				continue
			}
			if err := p.deliver(message); err != nil {
				log.Errorw("message dropped on close", zap.String("queue", message.queue), zap.Error(err))
			}
		default:
			return
		}
	}
}

func (p *publisher) deliver(message outgoing) error {
	if p.session == nil || p.session.IsClosed() {
		p.closeSession()
		current, err := p.dial()
		if err != nil {
			return err
		}
		p.session = current
		p.declared = map[string]bool{}
	}

	if !p.declared[message.queue] {
		_, err := p.session.QueueDeclare(message.queue, true, false, false, false, nil)
		if err != nil {
			p.closeSession()
			return fmt.Errorf("queue declare: %w", err)
		}
		p.declared[message.queue] = true
	}

	ctx, cancel := context.WithTimeout(context.Background(), deliverTimeout)
	defer cancel()

	err := p.session.PublishWithContext(ctx,
		"",
		message.queue,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Body:         message.body,
		},
	)
	if err != nil {
		p.closeSession()
		return fmt.Errorf("publish: %w", err)
	}

	return nil
}

func (p *publisher) closeSession() {
	if p.session != nil {
		_ = p.session.Close()
		p.session = nil
	}
}

type nopPublisher struct{}

// NewNopPublisher is used when no broker is configured.
func NewNopPublisher() Publisher {
	return nopPublisher{}
}

func (nopPublisher) Publish(context.Context, string, interface{}) error {
	return nil
}

func (nopPublisher) Close() error {
	return nil
}
