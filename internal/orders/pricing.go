package orders

// Subtotal sums qty*price over the items. Prices always come from the
// products table at checkout time, never from the client.
func Subtotal(items []OrderItem) int {
	total := 0
	for _, it := range items {
		total += it.Qty * it.PriceCents
	}
	return total
}

// Totals clamps the discount to the subtotal and adds the shipping tariff.
func Totals(subtotalCents, discountCents, shippingCents int) (discount, total int) {
	if discountCents < 0 {
		discountCents = 0
	}
	if discountCents > subtotalCents {
		discountCents = subtotalCents
	}
	return discountCents, subtotalCents - discountCents + shippingCents
}
