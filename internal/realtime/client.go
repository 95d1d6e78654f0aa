package realtime

import (
	"sync"

	"github.com/google/uuid"

	"fleet-api/internal/identity"
)

const sendBufferSize = 256

// Client is one live connection of an identity.
type Client struct {
	Id       string
	Identity *identity.Document

	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

func NewClient(document *identity.Document) *Client {
	return &Client{
		Id:       uuid.New().String(),
		Identity: document,
		send:     make(chan []byte, sendBufferSize),
		done:     make(chan struct{}),
	}
}

// Send queues a frame without blocking. It reports false when the client is
// closed or its buffer is full.
func (c *Client) Send(frame []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}

	select {
	case c.send <- frame:
		return true
	default:
		return false
	}
}

func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
	})
}

func (c *Client) Done() <-chan struct{} {
	return c.done
}

func (c *Client) Outbox() <-chan []byte {
	return c.send
}
