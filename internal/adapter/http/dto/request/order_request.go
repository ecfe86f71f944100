package request

import (
	"errors"
	"strings"

	"b2bdesk/internal/domain/entities"
)

var (
	ErrInvalidLineQuantity = errors.New("invalid line quantity")
)

// OrderItemRequest is one requested line. Legacy storefront payloads carry the
// tax rate under taxRate, gstRate or tax; ResolveTaxRate applies the fallback
// chain once here so the rest of the system only sees tax_rate.
type OrderItemRequest struct {
	ProductID   string   `json:"product_id" binding:"required"`
	ProductName string   `json:"product_name"`
	HSNCode     string   `json:"hsn_code"`
	Unit        string   `json:"unit"`
	Quantity    int      `json:"quantity" binding:"required"`
	Price       float64  `json:"price"`
	TargetPrice *float64 `json:"target_price"`

	TaxRate       *float64 `json:"tax_rate"`
	LegacyTaxRate *float64 `json:"taxRate"`
	LegacyGSTRate *float64 `json:"gstRate"`
	LegacyTax     *float64 `json:"tax"`
}

func (r OrderItemRequest) ResolveTaxRate() float64 {
	for _, v := range []*float64{r.TaxRate, r.LegacyTaxRate, r.LegacyGSTRate, r.LegacyTax} {
		if v != nil {
			return *v
		}
	}
	return 0
}

// OrderCreateRequest creates an order, or a quotation when is_quotation is
// set. legacy_order_id links records migrated from the previous system.
type OrderCreateRequest struct {
	CustomerID    string             `json:"customer_id"`
	LegacyOrderID string             `json:"legacy_order_id"`
	IsQuotation   bool               `json:"is_quotation"`
	Items         []OrderItemRequest `json:"items" binding:"required"`
	ShippingCost  float64            `json:"shipping_cost"`
	Discount      float64            `json:"discount"`
	Note          string             `json:"note"`
}

func (r OrderCreateRequest) ToEntity() (entities.Order, error) {
	items := make([]entities.OrderItem, 0, len(r.Items))
	for _, it := range r.Items {
		if it.Quantity <= 0 {
			return entities.Order{}, ErrInvalidLineQuantity
		}
		items = append(items, entities.OrderItem{
			ProductID:   strings.TrimSpace(it.ProductID),
			ProductName: strings.TrimSpace(it.ProductName),
			HSNCode:     strings.TrimSpace(it.HSNCode),
			Unit:        strings.TrimSpace(it.Unit),
			Quantity:    it.Quantity,
			Price:       it.Price,
			TargetPrice: it.TargetPrice,
			TaxRate:     it.ResolveTaxRate(),
		})
	}

	return entities.Order{
		CustomerID:    strings.TrimSpace(r.CustomerID),
		LegacyOrderID: strings.TrimSpace(r.LegacyOrderID),
		IsQuotation:   r.IsQuotation,
		Items:         items,
		ShippingCost:  r.ShippingCost,
		Discount:      r.Discount,
	}, nil
}

// OrderUpdateRequest edits the non-workflow fields. The note is appended to
// the order's journal; existing notes are never overwritten.
type OrderUpdateRequest struct {
	Note         string   `json:"note"`
	ShippingCost *float64 `json:"shipping_cost"`
	Discount     *float64 `json:"discount"`
}

// ItemPriceRequest carries one per-line price for send-quote and
// counter-offer actions.
type ItemPriceRequest struct {
	ProductID string  `json:"product_id" binding:"required"`
	Price     float64 `json:"price" binding:"required"`
}

// QuoteActionRequest covers accept/reject style actions: an optional note or
// rejection reason for the journal.
type QuoteActionRequest struct {
	Note string `json:"note"`
}

// QuotePricesRequest covers send-quote and counter-offer: per-line prices
// plus an optional note.
type QuotePricesRequest struct {
	Prices []ItemPriceRequest `json:"prices"`
	Note   string             `json:"note"`
}

// StatusUpdateRequest moves an order to a target status. Legacy uppercase
// aliases (PENDING, DISPATCHED, ...) are accepted and canonicalized.
type StatusUpdateRequest struct {
	Status string `json:"status" binding:"required"`
	Note   string `json:"note"`
}

// ResolveStatus canonicalizes the requested status. ok is false when the
// value is neither canonical nor a known legacy alias.
func (r StatusUpdateRequest) ResolveStatus() (entities.OrderStatus, bool) {
	return entities.MapStatusOK(r.Status)
}
