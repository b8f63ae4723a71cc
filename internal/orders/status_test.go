package orders

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	active := []Status{StatusPending, StatusConfirmed, StatusPreparing, StatusShipped}

	t.Run("cancelled reachable from any non-terminal state", func(t *testing.T) {
		for _, from := range active {
			assert.True(t, CanTransition(from, StatusCancelled), "from %s", from)
		}
		assert.False(t, CanTransition(StatusDelivered, StatusCancelled))
	})

	t.Run("cancelled reversible to any active state", func(t *testing.T) {
		for _, to := range append(active, StatusDelivered) {
			assert.True(t, CanTransition(StatusCancelled, to), "to %s", to)
		}
	})

	t.Run("delivered is terminal", func(t *testing.T) {
		for s := range validNext {
			if s == StatusDelivered {
				continue
			}
			assert.False(t, CanTransition(StatusDelivered, s), "to %s", s)
		}
	})

	t.Run("repeating the current status is accepted", func(t *testing.T) {
		for s := range validNext {
			assert.True(t, CanTransition(s, s), "%s", s)
		}
		assert.False(t, CanTransition("returned", "returned"), "unknown status stays rejected")
	})

	t.Run("active states move freely", func(t *testing.T) {
		assert.True(t, CanTransition(StatusShipped, StatusPending))
		assert.True(t, CanTransition(StatusPending, StatusDelivered))
	})
}

func TestStockSideEffects(t *testing.T) {
	assert.True(t, RestoresStock(StatusConfirmed, StatusCancelled))
	assert.True(t, ReservesStock(StatusCancelled, StatusConfirmed))

	// everything with the same endpoint classification is a no-op
	assert.False(t, RestoresStock(StatusPending, StatusShipped))
	assert.False(t, ReservesStock(StatusPending, StatusShipped))
	assert.False(t, RestoresStock(StatusCancelled, StatusCancelled))
	assert.False(t, ReservesStock(StatusCancelled, StatusCancelled))
}

func TestValid(t *testing.T) {
	for _, s := range []Status{StatusPending, StatusConfirmed, StatusPreparing, StatusShipped, StatusDelivered, StatusCancelled} {
		assert.True(t, Valid(s))
	}
	assert.False(t, Valid("returned"))
	assert.False(t, Valid(""))
}
