package orders

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRestockReserveRoundTrip(t *testing.T) {
	// product A: stock 10, no variants; order takes qty 3 off at checkout
	it := OrderItem{ProductID: "a", Qty: 3}
	pc := productCounters{Stock: 7, Sold: 0}

	cancelled := restock(pc, it)
	assert.Equal(t, 10, cancelled.Stock)
	assert.Equal(t, -3, cancelled.Sold)

	revived := reserve(cancelled, it)
	assert.Equal(t, pc, revived)
}

func TestRestockVariant(t *testing.T) {
	// product B: 5 total split {red: 2, blue: 3}; item {qty 2, color red}
	it := OrderItem{ProductID: "b", Qty: 2, Color: "red"}
	pc := productCounters{Stock: 3, Sold: 0, Colors: map[string]int{"red": 2, "blue": 3}}

	cancelled := restock(pc, it)
	assert.Equal(t, 5, cancelled.Stock)
	assert.Equal(t, 4, cancelled.Colors["red"])
	assert.Equal(t, 3, cancelled.Colors["blue"])

	revived := reserve(cancelled, it)
	assert.Equal(t, 3, revived.Stock)
	assert.Equal(t, 2, revived.Colors["red"])
}

func TestReserveFloorsVariantAtZero(t *testing.T) {
	it := OrderItem{ProductID: "b", Qty: 5, Color: "red"}
	pc := productCounters{Stock: 10, Sold: 0, Colors: map[string]int{"red": 2}}

	out := reserve(pc, it)
	assert.Equal(t, 5, out.Stock, "aggregate is not floored")
	assert.Equal(t, 0, out.Colors["red"], "variant never goes negative")
}

func TestVariantUntouchedWithoutColorMap(t *testing.T) {
	// item names a color but the product tracks no per-color stock
	it := OrderItem{ProductID: "c", Qty: 2, Color: "red"}
	pc := productCounters{Stock: 4, Sold: 0}

	out := restock(pc, it)
	assert.Equal(t, 6, out.Stock)
	assert.Nil(t, out.Colors)
}

func TestCartStockTake(t *testing.T) {
	// product B: stock 2; cart holds {qty 2, red} and {qty 2, blue}
	s := cartStock{"b": 2}

	avail, ok := s.take("b", 2)
	assert.True(t, ok)
	assert.Equal(t, 2, avail)

	// the second line sees what the first one left, not the shelf count
	avail, ok = s.take("b", 2)
	assert.False(t, ok)
	assert.Equal(t, 0, avail)
}

func TestCartStockTakeIndependentProducts(t *testing.T) {
	s := cartStock{"a": 5, "b": 1}

	_, ok := s.take("a", 3)
	assert.True(t, ok)
	_, ok = s.take("b", 1)
	assert.True(t, ok)

	avail, ok := s.take("a", 3)
	assert.False(t, ok)
	assert.Equal(t, 2, avail)

	_, ok = s.take("unknown", 1)
	assert.False(t, ok)
}

func TestRestockMissingVariantEntry(t *testing.T) {
	// entry absent from the map counts as zero before incrementing
	it := OrderItem{ProductID: "b", Qty: 2, Color: "green"}
	pc := productCounters{Stock: 3, Sold: 1, Colors: map[string]int{"red": 2}}

	out := restock(pc, it)
	assert.Equal(t, 2, out.Colors["green"])
	assert.Equal(t, -1, out.Sold)
}
