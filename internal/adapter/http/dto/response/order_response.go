package response

import (
	"time"

	"b2bdesk/internal/domain/entities"
)

type OrderItemResponse struct {
	ProductID      string   `json:"product_id"`
	ProductName    string   `json:"product_name,omitempty"`
	HSNCode        string   `json:"hsn_code,omitempty"`
	Unit           string   `json:"unit,omitempty"`
	Quantity       int      `json:"quantity"`
	Price          float64  `json:"price"`
	TargetPrice    *float64 `json:"target_price,omitempty"`
	QuotedPrice    *float64 `json:"quoted_price,omitempty"`
	EffectivePrice float64  `json:"effective_price"`
	TaxRate        float64  `json:"tax_rate"`
}

type NoteResponse struct {
	Timestamp string `json:"timestamp"`
	Status    string `json:"status"`
	Text      string `json:"text"`
}

type OrderResponse struct {
	ID               string              `json:"id"`
	OrderNumber      string              `json:"order_number"`
	LegacyOrderID    string              `json:"legacy_order_id,omitempty"`
	IsQuotation      bool                `json:"is_quotation"`
	Status           string              `json:"status"`
	StatusLabel      string              `json:"status_label"`
	NeedsAdminAction bool                `json:"needs_admin_action"`
	Items            []OrderItemResponse `json:"items"`
	ShippingCost     float64             `json:"shipping_cost"`
	Discount         float64             `json:"discount"`
	TotalAmount      float64             `json:"total_amount"`
	Notes            []NoteResponse      `json:"notes"`
	CustomerID       string              `json:"customer_id,omitempty"`
	Invoices         []string            `json:"invoices,omitempty"`
	CreatedAt        time.Time           `json:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at"`
}

func FromOrder(o entities.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, OrderItemResponse{
			ProductID:      it.ProductID,
			ProductName:    it.ProductName,
			HSNCode:        it.HSNCode,
			Unit:           it.Unit,
			Quantity:       it.Quantity,
			Price:          it.Price,
			TargetPrice:    it.TargetPrice,
			QuotedPrice:    it.QuotedPrice,
			EffectivePrice: it.EffectiveUnitPrice(),
			TaxRate:        it.TaxRate,
		})
	}

	entries := entities.ParseNotes(o.Notes)
	notes := make([]NoteResponse, 0, len(entries))
	for _, n := range entries {
		notes = append(notes, NoteResponse{
			Timestamp: n.Timestamp,
			Status:    n.Status,
			Text:      n.Text,
		})
	}

	invoices := make([]string, 0, len(o.GeneratedInvoiceKinds))
	for _, k := range o.GeneratedInvoiceKinds {
		invoices = append(invoices, entities.InvoiceNumberFor(k, o.OrderNumber))
	}

	return OrderResponse{
		ID:               o.ID,
		OrderNumber:      o.OrderNumber,
		LegacyOrderID:    o.LegacyOrderID,
		IsQuotation:      o.IsQuotation,
		Status:           string(o.Status),
		StatusLabel:      o.Status.Label(),
		NeedsAdminAction: o.NeedsAdminAction(),
		Items:            items,
		ShippingCost:     o.ShippingCost,
		Discount:         o.Discount,
		TotalAmount:      o.TotalAmount,
		Notes:            notes,
		CustomerID:       o.CustomerID,
		Invoices:         invoices,
		CreatedAt:        o.CreatedAt,
		UpdatedAt:        o.UpdatedAt,
	}
}

func FromOrders(orders []entities.Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, FromOrder(o))
	}
	return out
}
