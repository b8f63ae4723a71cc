package orders

import (
	"encoding/json"
	"time"
)

const (
	EventOrderCreated       = "OrderCreated"
	EventOrderStatusChanged = "OrderStatusChanged"
	EventOrderDeleted       = "OrderDeleted"
)

type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // order_id
	Payload       json.RawMessage `json:"payload"`
}

type ItemQty struct {
	ProductID string `json:"product_id"`
	Qty       int    `json:"qty"`
	Color     string `json:"color,omitempty"`
}

type OrderCreatedPayload struct {
	OrderID      string    `json:"order_id"`
	ExternalID   string    `json:"external_id"`
	CustomerName string    `json:"customer_name"`
	WilayaCode   int       `json:"wilaya_code"`
	Items        []ItemQty `json:"items"`
	TotalCents   int       `json:"total_cents"`
}

type OrderStatusChangedPayload struct {
	OrderID string `json:"order_id"`
	From    Status `json:"from"`
	To      Status `json:"to"`
}

type OrderDeletedPayload struct {
	OrderID string `json:"order_id"`
	Status  Status `json:"status"` // status at deletion time
}
