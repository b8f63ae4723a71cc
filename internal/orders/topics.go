package orders

const (
	TopicOrderCreated       = "shop.order.created"
	TopicOrderStatusChanged = "shop.order.status_changed"
)

// Partition key = order_id so every event of one order keeps its ordering.
func PartitionKey(orderID string) []byte { return []byte(orderID) }
