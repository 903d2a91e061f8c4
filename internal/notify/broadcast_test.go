package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const testTenant = "550e8400-e29b-41d4-a716-446655440000"

func TestBroadcast_PublishIsSynchronous(t *testing.T) {
	b := NewBroadcast()

	var banner, strip bool
	b.Subscribe(func(_ string, closed bool) { banner = closed })
	b.Subscribe(func(_ string, closed bool) { strip = closed })

	b.Publish(testTenant, true)

	// Оба потребителя видят новое состояние уже к возврату Publish
	assert.True(t, banner)
	assert.True(t, strip)

	b.Publish(testTenant, false)
	assert.False(t, banner)
	assert.False(t, strip)
}

func TestBroadcast_StateMemoized(t *testing.T) {
	b := NewBroadcast()

	_, known := b.State(testTenant)
	assert.False(t, known)

	b.Publish(testTenant, true)
	closed, known := b.State(testTenant)
	assert.True(t, known)
	assert.True(t, closed)

	_, known = b.State("another-tenant")
	assert.False(t, known)
}

func TestBroadcast_Unsubscribe(t *testing.T) {
	b := NewBroadcast()

	var calls int
	unsubscribe := b.Subscribe(func(_ string, _ bool) { calls++ })

	b.Publish(testTenant, true)
	unsubscribe()
	b.Publish(testTenant, false)

	assert.Equal(t, 1, calls)
}
