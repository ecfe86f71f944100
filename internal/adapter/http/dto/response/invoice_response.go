package response

import (
	"time"

	"b2bdesk/internal/domain/entities"
)

type InvoiceItemResponse struct {
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

type InvoiceResponse struct {
	InvoiceNumber string                `json:"invoice_number"`
	Type          string                `json:"type"`
	OrderID       string                `json:"order_id"`
	OrderNumber   string                `json:"order_number"`
	CustomerID    string                `json:"customer_id,omitempty"`
	PlaceOfSupply string                `json:"place_of_supply,omitempty"`
	Interstate    bool                  `json:"interstate"`
	Items         []InvoiceItemResponse `json:"items"`
	Subtotal      float64               `json:"subtotal"`
	CGST          float64               `json:"cgst"`
	SGST          float64               `json:"sgst"`
	IGST          float64               `json:"igst"`
	ShippingCost  float64               `json:"shipping_cost"`
	Discount      float64               `json:"discount"`
	RoundOff      float64               `json:"round_off"`
	GrandTotal    float64               `json:"grand_total"`
	IssuedAt      time.Time             `json:"issued_at"`
}

func FromInvoice(inv entities.Invoice) InvoiceResponse {
	items := make([]InvoiceItemResponse, 0, len(inv.Items))
	for _, it := range inv.Items {
		items = append(items, InvoiceItemResponse{
			ProductID:     it.ProductID,
			ProductName:   it.ProductName,
			HSNCode:       it.HSNCode,
			Unit:          it.Unit,
			Qty:           it.Qty,
			Rate:          it.Rate,
			TaxableValue:  it.TaxableValue,
			TaxPercentage: it.TaxPercentage,
			TaxAmount:     it.TaxAmount,
		})
	}

	return InvoiceResponse{
		InvoiceNumber: inv.InvoiceNumber,
		Type:          string(inv.Type),
		OrderID:       inv.OrderID,
		OrderNumber:   inv.OrderNumber,
		CustomerID:    inv.CustomerID,
		PlaceOfSupply: inv.PlaceOfSupply,
		Interstate:    inv.Interstate,
		Items:         items,
		Subtotal:      inv.Subtotal,
		CGST:          inv.CGST,
		SGST:          inv.SGST,
		IGST:          inv.IGST,
		ShippingCost:  inv.ShippingCost,
		Discount:      inv.Discount,
		RoundOff:      inv.RoundOff,
		GrandTotal:    inv.GrandTotal,
		IssuedAt:      inv.IssuedAt,
	}
}

func FromInvoices(invoices []entities.Invoice) []InvoiceResponse {
	out := make([]InvoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		out = append(out, FromInvoice(inv))
	}
	return out
}
