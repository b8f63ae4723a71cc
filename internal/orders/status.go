package orders

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusPreparing Status = "preparing"
	StatusShipped   Status = "shipped"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

// Staff may move an order freely between the active states (skipping or
// rewinding steps), cancel it from any non-terminal state, and revive a
// cancelled order into any active state. delivered is terminal. Writing
// the current status again is accepted and changes nothing.
var validNext = map[Status]map[Status]bool{
	StatusPending:   {StatusConfirmed: true, StatusPreparing: true, StatusShipped: true, StatusDelivered: true, StatusCancelled: true},
	StatusConfirmed: {StatusPending: true, StatusPreparing: true, StatusShipped: true, StatusDelivered: true, StatusCancelled: true},
	StatusPreparing: {StatusPending: true, StatusConfirmed: true, StatusShipped: true, StatusDelivered: true, StatusCancelled: true},
	StatusShipped:   {StatusPending: true, StatusConfirmed: true, StatusPreparing: true, StatusDelivered: true, StatusCancelled: true},
	StatusDelivered: {},
	StatusCancelled: {StatusPending: true, StatusConfirmed: true, StatusPreparing: true, StatusShipped: true, StatusDelivered: true},
}

func Valid(s Status) bool {
	_, ok := validNext[s]
	return ok
}

func CanTransition(from, to Status) bool {
	if from == to {
		return Valid(from)
	}
	return validNext[from][to]
}

// RestoresStock reports whether the transition puts inventory back on the
// shelf; ReservesStock whether it takes it off again. Every other move is a
// no-op for inventory.
func RestoresStock(from, to Status) bool {
	return to == StatusCancelled && from != StatusCancelled
}

func ReservesStock(from, to Status) bool {
	return from == StatusCancelled && to != StatusCancelled
}
