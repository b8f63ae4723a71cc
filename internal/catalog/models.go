package catalog

import "time"

// Product is a storefront article. Names and descriptions are bilingual
// (Arabic first, French second). ColorStock is nil for products without a
// color variant; when present it maps a color label to the quantity on hand
// for that color.
type Product struct {
	ID            string         `json:"id"`
	SKU           string         `json:"sku"`
	NameAr        string         `json:"name_ar"`
	NameFr        string         `json:"name_fr"`
	DescriptionAr string         `json:"description_ar,omitempty"`
	DescriptionFr string         `json:"description_fr,omitempty"`
	Category      string         `json:"category"`
	Brand         string         `json:"brand,omitempty"`
	PriceCents    int            `json:"price_cents"`
	OldPriceCents int            `json:"old_price_cents,omitempty"`
	Stock         int            `json:"stock"`
	Sold          int            `json:"sold"`
	ColorStock    map[string]int `json:"color_stock,omitempty"`
	Images        []string       `json:"images,omitempty"`
	Active        bool           `json:"active"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}
