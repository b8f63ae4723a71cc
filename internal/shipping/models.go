package shipping

// DeliveryType selects which of the two tariffs applies to an order.
type DeliveryType string

const (
	DeliveryHome DeliveryType = "home" // courier to the customer's address
	DeliveryDesk DeliveryType = "desk" // pickup at the carrier's stop desk
)

func (t DeliveryType) Valid() bool {
	return t == DeliveryHome || t == DeliveryDesk
}

// Rate holds the two delivery tariffs for one wilaya, in centimes.
type Rate struct {
	WilayaCode int    `json:"wilaya_code"`
	NameAr     string `json:"name_ar"`
	NameFr     string `json:"name_fr"`
	HomeCents  int    `json:"home_cents"`
	DeskCents  int    `json:"desk_cents"`
}

func (r Rate) PriceFor(t DeliveryType) int {
	if t == DeliveryDesk {
		return r.DeskCents
	}
	return r.HomeCents
}
