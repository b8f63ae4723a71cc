package orders

import (
	"time"

	"github.com/aminekb/bebeshop/internal/shipping"
)

type Order struct {
	ID            string                `json:"id"`
	ExternalID    string                `json:"external_id"`
	CustomerName  string                `json:"customer_name"`
	Phone         string                `json:"phone"`
	WilayaCode    int                   `json:"wilaya_code"`
	Address       string                `json:"address"`
	DeliveryType  shipping.DeliveryType `json:"delivery_type"`
	Status        Status                `json:"status"`
	CouponCode    string                `json:"coupon_code,omitempty"`
	SubtotalCents int                   `json:"subtotal_cents"`
	DiscountCents int                   `json:"discount_cents"`
	ShippingCents int                   `json:"shipping_cents"`
	TotalCents    int                   `json:"total_cents"`
	Note          string                `json:"note,omitempty"`
	Items         []OrderItem           `json:"items,omitempty"`
	CreatedAt     time.Time             `json:"created_at"`
	UpdatedAt     time.Time             `json:"updated_at"`
}

// OrderItem is immutable once the order exists; there are no partial
// quantity edits, only whole-order status changes and deletion.
type OrderItem struct {
	ID         int64  `json:"id"`
	OrderID    string `json:"order_id"`
	ProductID  string `json:"product_id"`
	Qty        int    `json:"qty"`
	PriceCents int    `json:"price_cents"`
	Color      string `json:"color,omitempty"` // empty when the product has no color variant
}
