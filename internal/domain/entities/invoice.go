package entities

import "time"

// InvoiceType distinguishes the preliminary proforma bill from the final
// GST-compliant tax invoice.

type InvoiceType string

const (
	InvoiceTypeProforma InvoiceType = "proforma"
	InvoiceTypeTax      InvoiceType = "tax"
)

func (t InvoiceType) Valid() bool {
	return t == InvoiceTypeProforma || t == InvoiceTypeTax
}

// NumberPrefix is the deterministic invoice-number prefix per type.
func (t InvoiceType) NumberPrefix() string {
	if t == InvoiceTypeTax {
		return "TI-"
	}
	return "PI-"
}

// InvoiceNumberFor derives the stable invoice number for an order. Regenerating
// an invoice of the same type yields the same number.
func InvoiceNumberFor(t InvoiceType, orderNumber string) string {
	return t.NumberPrefix() + orderNumber
}

// Eligible reports whether an invoice of this type may exist for an order in
// the given status. Proforma opens at order_booked; tax invoice opens at paid.
// The tax-invoice eligibility set is a strict subset of the proforma set, so a
// tax invoice never exists without a proforma being possible.
func (t InvoiceType) Eligible(s OrderStatus) bool {
	idx := s.FulfillmentIndex()
	if idx < 0 {
		return false
	}
	switch t {
	case InvoiceTypeProforma:
		return idx >= StatusOrderBooked.FulfillmentIndex()
	case InvoiceTypeTax:
		return idx >= StatusPaid.FulfillmentIndex()
	}
	return false
}

// Invoice is derived from an order and never mutated after creation. At most
// one invoice per type exists per order; the invoice number is the storage PK
// so a conditional put enforces that.
type Invoice struct {
	InvoiceNumber string        `json:"invoice_number"`
	Type          InvoiceType   `json:"type"`
	OrderID       string        `json:"order_id"`
	OrderNumber   string        `json:"order_number"`
	CustomerID    string        `json:"customer_id"`
	PlaceOfSupply string        `json:"place_of_supply,omitempty"`
	Interstate    bool          `json:"interstate"`
	Items         []InvoiceItem `json:"items"`
	Subtotal      float64       `json:"subtotal"`
	CGST          float64       `json:"cgst"`
	SGST          float64       `json:"sgst"`
	IGST          float64       `json:"igst"`
	ShippingCost  float64       `json:"shipping_cost"`
	Discount      float64       `json:"discount"`
	RoundOff      float64       `json:"round_off"`
	GrandTotal    float64       `json:"grand_total"`
	IssuedAt      time.Time     `json:"issued_at"`
}

// InvoiceItem carries the tax breakup of one order line. Rate is the tax-
// exclusive unit price; TaxableValue = Qty * Rate.
type InvoiceItem struct {
	ProductID     string  `json:"product_id"`
	ProductName   string  `json:"product_name,omitempty"`
	HSNCode       string  `json:"hsn_code,omitempty"`
	Unit          string  `json:"unit,omitempty"`
	Qty           int     `json:"qty"`
	Rate          float64 `json:"rate"`
	TaxableValue  float64 `json:"taxable_value"`
	TaxPercentage float64 `json:"tax_percentage"`
	TaxAmount     float64 `json:"tax_amount"`
}
