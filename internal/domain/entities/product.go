package entities

import "time"

// Product is a catalog projection used for order line lookups.
//
// Storage model (DynamoDB):
//   - PK: id
//
// TaxRate is already normalized at the ingestion boundary from the legacy
// taxRate/gstRate/tax fallback chain.
type Product struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	SKU       string    `json:"sku,omitempty"`
	HSNCode   string    `json:"hsn_code,omitempty"`
	Unit      string    `json:"unit,omitempty"`
	Price     float64   `json:"price"`
	TaxRate   float64   `json:"tax_rate"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
