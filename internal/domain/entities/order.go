package entities

import "time"

// Order is an order or a negotiable quotation persisted in DynamoDB.
//
// Storage model (DynamoDB):
//   - PK: id
//   - GSI1 (order_number-index): order_number
//
// Monetary representation:
//   - Unit prices are tax-inclusive; the pricing package reverse-derives base
//     price and tax per line.
//   - TotalAmount is always reconcilable as sum(base) + sum(tax) + shipping -
//     discount, rounded to whole currency units.

type Order struct {
	ID            string      `json:"id"`
	OrderNumber   string      `json:"order_number"`
	LegacyOrderID string      `json:"legacy_order_id,omitempty"`
	IsQuotation   bool        `json:"is_quotation"`
	Status        OrderStatus `json:"status"`
	Items         []OrderItem `json:"items"`
	ShippingCost  float64     `json:"shipping_cost"`
	Discount      float64     `json:"discount"`
	TotalAmount   float64     `json:"total_amount"`
	Notes         string      `json:"notes,omitempty"`
	CustomerID    string      `json:"customer_id"`

	// GeneratedInvoiceKinds records which invoice types have already been
	// produced for this order, so the status watcher stays idempotent across
	// repeated passes. Carried on the order record itself rather than in
	// component-local state.
	GeneratedInvoiceKinds []InvoiceType `json:"generated_invoice_kinds,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OrderItem is one line of an order. TargetPrice is the customer-proposed unit
// price, QuotedPrice the seller-proposed one; both are optional.
type OrderItem struct {
	ProductID   string   `json:"product_id"`
	ProductName string   `json:"product_name,omitempty"`
	HSNCode     string   `json:"hsn_code,omitempty"`
	Unit        string   `json:"unit,omitempty"`
	Quantity    int      `json:"quantity"`
	Price       float64  `json:"price"`
	TargetPrice *float64 `json:"target_price,omitempty"`
	QuotedPrice *float64 `json:"quoted_price,omitempty"`
	TaxRate     float64  `json:"tax_rate"`
}

// EffectiveUnitPrice resolves the unit price precedence: quoted price wins,
// then target price, then the catalog price.
func (it OrderItem) EffectiveUnitPrice() float64 {
	if it.QuotedPrice != nil {
		return *it.QuotedPrice
	}
	if it.TargetPrice != nil {
		return *it.TargetPrice
	}
	return it.Price
}

// NeedsAdminAction reports whether the quotation is waiting on a staff
// decision (accept / reject / send quote).
func (o Order) NeedsAdminAction() bool {
	return o.IsQuotation && (o.Status == StatusQuoteRequested || o.Status == StatusNegotiation)
}

// HasGeneratedInvoice reports whether an invoice of the given type was already
// produced for this order.
func (o Order) HasGeneratedInvoice(t InvoiceType) bool {
	for _, k := range o.GeneratedInvoiceKinds {
		if k == t {
			return true
		}
	}
	return false
}

// MarkInvoiceGenerated records the invoice type in the generated set. No-op if
// already present.
func (o *Order) MarkInvoiceGenerated(t InvoiceType) {
	if o.HasGeneratedInvoice(t) {
		return
	}
	o.GeneratedInvoiceKinds = append(o.GeneratedInvoiceKinds, t)
}
