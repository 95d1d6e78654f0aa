//go:build unit

package realtime

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"fleet-api/internal/identity"
)

func TestRegistry(t *testing.T) {
	registry := NewRegistry()
	driver := &identity.Document{Id: "driver"}

	phone := NewClient(driver)
	tablet := NewClient(driver)

	assert.True(t, registry.Register(phone))
	assert.False(t, registry.Register(tablet))
	assert.True(t, registry.IsOnline("driver"))
	assert.Len(t, registry.Connections("driver"), 2)

	registry.Join("conversation:1", phone)
	registry.Join("conversation:1", tablet)
	assert.True(t, registry.InRoom("conversation:1", phone))
	assert.Len(t, registry.Room("conversation:1"), 2)

	registry.Leave("conversation:1", tablet)
	assert.False(t, registry.InRoom("conversation:1", tablet))
	registry.Leave("conversation:404", tablet)

	assert.False(t, registry.Unregister(phone))
	assert.Empty(t, registry.Room("conversation:1"))
	assert.True(t, registry.Unregister(tablet))
	assert.False(t, registry.IsOnline("driver"))
	assert.Empty(t, registry.All())

	t.Run("unknown clients are ignored", func(t *testing.T) {
		stranger := NewClient(&identity.Document{Id: "stranger"})

		registry.Join("conversation:1", stranger)

		assert.False(t, registry.InRoom("conversation:1", stranger))
		assert.False(t, registry.Unregister(stranger))
	})
}

func TestClient_Send(t *testing.T) {
	client := NewClient(&identity.Document{Id: "driver"})

	for i := 0; i < sendBufferSize; i++ {
		assert.True(t, client.Send([]byte("{}")))
	}
	assert.False(t, client.Send([]byte("{}")))

	client.Close()
	client.Close()
	assert.False(t, client.Send([]byte("{}")))
}
