package shipping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsCoverAllWilayas(t *testing.T) {
	rates := Defaults()
	require.Len(t, rates, 58)

	seen := map[int]bool{}
	for _, r := range rates {
		assert.False(t, seen[r.WilayaCode], "duplicate code %d", r.WilayaCode)
		seen[r.WilayaCode] = true
		assert.GreaterOrEqual(t, r.WilayaCode, 1)
		assert.LessOrEqual(t, r.WilayaCode, 58)
		assert.NotEmpty(t, r.NameAr)
		assert.Greater(t, r.HomeCents, 0)
		assert.Greater(t, r.DeskCents, 0)
		assert.GreaterOrEqual(t, r.HomeCents, r.DeskCents, "home delivery costs at least as much as the desk")
	}
}

func TestDefaultTariffZones(t *testing.T) {
	home, desk := defaultTariff(16) // Alger, coast
	assert.Equal(t, 50000, home)
	assert.Equal(t, 35000, desk)

	home, desk = defaultTariff(17) // Djelfa, highlands
	assert.Equal(t, 70000, home)
	assert.Equal(t, 45000, desk)

	home, desk = defaultTariff(11) // Tamanrasset, deep south
	assert.Equal(t, 100000, home)
	assert.Equal(t, 60000, desk)
}

func TestPriceFor(t *testing.T) {
	r := Rate{HomeCents: 70000, DeskCents: 45000}
	assert.Equal(t, 70000, r.PriceFor(DeliveryHome))
	assert.Equal(t, 45000, r.PriceFor(DeliveryDesk))
}

func TestDeliveryTypeValid(t *testing.T) {
	assert.True(t, DeliveryHome.Valid())
	assert.True(t, DeliveryDesk.Valid())
	assert.False(t, DeliveryType("drone").Valid())
	assert.False(t, DeliveryType("").Valid())
}
