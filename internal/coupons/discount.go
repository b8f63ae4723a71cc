package coupons

import "github.com/shopspring/decimal"

// Discount is the amount the coupon takes off the given subtotal, in
// centimes. Percent coupons round half-up to the nearest centime and the
// result is always clamped to the subtotal.
func Discount(c Coupon, subtotalCents int) int {
	var d int
	switch c.Kind {
	case KindPercent:
		d = int(decimal.NewFromInt(int64(subtotalCents)).
			Mul(decimal.NewFromInt(int64(c.Value))).
			Div(decimal.NewFromInt(100)).
			Round(0).IntPart())
	case KindFixed:
		d = c.Value
	}
	if d < 0 {
		d = 0
	}
	if d > subtotalCents {
		d = subtotalCents
	}
	return d
}
