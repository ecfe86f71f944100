package repository

import (
	"testing"
	"time"

	"b2bdesk/internal/domain/entities"
)

func TestFromOrderItem(t *testing.T) {
	t.Run("should canonicalize legacy uppercase status on rehydration", func(t *testing.T) {
		it := orderItem{
			ID:            "ord-legacy-1",
			OrderNumber:   "ORD-AB12CD34",
			LegacyOrderID: "OLD-7781",
			Status:        "DISPATCHED",
			Items: []orderLineItem{{
				ProductID: "prod-1",
				Quantity:  4,
				Price:     "118",
				TaxRate:   "18",
			}},
		}

		o := fromOrderItem(it)

		if o.Status != entities.StatusShipped {
			t.Fatalf("expected status %q, got %q", entities.StatusShipped, o.Status)
		}
		if o.Status.FulfillmentIndex() < 0 {
			t.Fatalf("expected shipped to sit in the fulfillment sequence, got index %d", o.Status.FulfillmentIndex())
		}
		if !o.Status.CanAdvanceTo(entities.StatusDelivered) {
			t.Fatalf("expected rehydrated order to advance shipped -> delivered")
		}
	})

	t.Run("should canonicalize legacy quotation status", func(t *testing.T) {
		it := orderItem{
			ID:          "ord-legacy-2",
			IsQuotation: true,
			Status:      "ACCEPTED",
		}

		o := fromOrderItem(it)

		if o.Status != entities.StatusOrderBooked {
			t.Fatalf("expected status %q, got %q", entities.StatusOrderBooked, o.Status)
		}
	})

	t.Run("should map unknown stored status to processing", func(t *testing.T) {
		o := fromOrderItem(orderItem{ID: "ord-legacy-3", Status: "SOMETHING_ELSE"})

		if o.Status != entities.StatusProcessing {
			t.Fatalf("expected status %q, got %q", entities.StatusProcessing, o.Status)
		}
	})

	t.Run("should round-trip a canonical order through the storage model", func(t *testing.T) {
		target := 110.0
		in := entities.Order{
			ID:          "ord-1",
			OrderNumber: "ORD-AB12CD34",
			IsQuotation: true,
			Status:      entities.StatusQuoteRequested,
			Items: []entities.OrderItem{{
				ProductID:   "prod-1",
				ProductName: "Copper Wire 8mm Coil",
				HSNCode:     "7408",
				Unit:        "kg",
				Quantity:    10,
				Price:       118,
				TargetPrice: &target,
				TaxRate:     18,
			}},
			ShippingCost:          50,
			Discount:              0,
			TotalAmount:           1230,
			Notes:                 "some journal text",
			CustomerID:            "cust-1",
			GeneratedInvoiceKinds: []entities.InvoiceType{entities.InvoiceTypeProforma},
			CreatedAt:             time.Date(2026, 2, 3, 10, 30, 0, 0, time.UTC),
			UpdatedAt:             time.Date(2026, 2, 3, 11, 0, 0, 0, time.UTC),
		}

		out := fromOrderItem(toOrderItem(in))

		if out.Status != in.Status {
			t.Fatalf("expected status %q, got %q", in.Status, out.Status)
		}
		if len(out.Items) != 1 {
			t.Fatalf("expected 1 line item, got %d", len(out.Items))
		}
		if out.Items[0].Price != 118 || out.Items[0].TaxRate != 18 {
			t.Fatalf("unexpected line money values: price=%v taxRate=%v", out.Items[0].Price, out.Items[0].TaxRate)
		}
		if out.Items[0].TargetPrice == nil || *out.Items[0].TargetPrice != 110 {
			t.Fatalf("expected target price 110, got %v", out.Items[0].TargetPrice)
		}
		if out.TotalAmount != 1230 {
			t.Fatalf("expected total 1230, got %v", out.TotalAmount)
		}
		if len(out.GeneratedInvoiceKinds) != 1 || out.GeneratedInvoiceKinds[0] != entities.InvoiceTypeProforma {
			t.Fatalf("unexpected generated invoice kinds: %v", out.GeneratedInvoiceKinds)
		}
		if !out.CreatedAt.Equal(in.CreatedAt) || !out.UpdatedAt.Equal(in.UpdatedAt) {
			t.Fatalf("timestamps did not survive the round trip: %v / %v", out.CreatedAt, out.UpdatedAt)
		}
	})
}
