package entities

import "time"

// Address is the canonical postal shape. Upstream payloads arrive with varying
// field names (street vs street_address etc.); request DTOs normalize into
// this shape once so the GST split only ever reads Address.State.
type Address struct {
	Street  string `json:"street,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Pincode string `json:"pincode,omitempty"`
}

// Customer is a buyer projection used for lookups and the interstate check.
//
// Storage model (DynamoDB):
//   - PK: id
type Customer struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	GSTIN     string    `json:"gstin,omitempty"`
	Billing   Address   `json:"billing"`
	Shipping  Address   `json:"shipping"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
