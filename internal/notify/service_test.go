package notify

import (
	"testing"
	"time"

	kafkax "github.com/aminekb/bebeshop/internal/kafka"
	"github.com/aminekb/bebeshop/internal/orders"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envelope(eventType string, payload any) orders.Envelope {
	return orders.Envelope{
		EventID:    "ev-1",
		EventType:  eventType,
		OccurredAt: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
		Payload:    kafkax.MustMarshal(payload),
	}
}

func TestNoteFromEnvelope(t *testing.T) {
	t.Run("order created", func(t *testing.T) {
		env := envelope(orders.EventOrderCreated, orders.OrderCreatedPayload{
			OrderID: "o-1", TotalCents: 120000,
		})
		note, ok := noteFromEnvelope(env)
		require.True(t, ok)
		assert.Equal(t, "order_created", note.Kind)
		assert.Equal(t, "o-1", note.OrderID)
		assert.Equal(t, env.OccurredAt, note.At)
	})

	t.Run("status changed", func(t *testing.T) {
		env := envelope(orders.EventOrderStatusChanged, orders.OrderStatusChangedPayload{
			OrderID: "o-2", From: orders.StatusPending, To: orders.StatusConfirmed,
		})
		note, ok := noteFromEnvelope(env)
		require.True(t, ok)
		assert.Equal(t, "order_status_changed", note.Kind)
		assert.Equal(t, orders.StatusConfirmed, note.Status)
	})

	t.Run("unknown event skipped", func(t *testing.T) {
		env := envelope("SomethingElse", map[string]string{"x": "y"})
		_, ok := noteFromEnvelope(env)
		assert.False(t, ok)
	})

	t.Run("garbage payload skipped", func(t *testing.T) {
		env := orders.Envelope{EventType: orders.EventOrderCreated, Payload: []byte(`"not an object"`)}
		_, ok := noteFromEnvelope(env)
		assert.False(t, ok)
	})
}
