package entities

import "testing"

func TestMapStatus(t *testing.T) {
	t.Run("canonical values map to themselves", func(t *testing.T) {
		for s := range canonicalStatuses {
			if got := MapStatus(string(s)); got != s {
				t.Fatalf("expected %s, got %s", s, got)
			}
		}
	})

	t.Run("legacy uppercase values", func(t *testing.T) {
		cases := map[string]OrderStatus{
			"PENDING":     StatusQuoteRequested,
			"ACCEPTED":    StatusOrderBooked,
			"NEGOTIATING": StatusNegotiation,
			"QUOTED":      StatusQuoteSent,
			"DISPATCHED":  StatusShipped,
			"CANCELED":    StatusCancelled,
		}
		for raw, want := range cases {
			if got := MapStatus(raw); got != want {
				t.Fatalf("MapStatus(%q): expected %s, got %s", raw, want, got)
			}
		}
	})

	t.Run("whitespace and case tolerated", func(t *testing.T) {
		if got := MapStatus("  Negotiation "); got != StatusNegotiation {
			t.Fatalf("expected negotiation, got %s", got)
		}
	})

	t.Run("unknown falls back to processing", func(t *testing.T) {
		if got := MapStatus("bogus_value"); got != StatusProcessing {
			t.Fatalf("expected processing, got %s", got)
		}
		if _, ok := MapStatusOK("bogus_value"); ok {
			t.Fatalf("expected unmapped value to be reported")
		}
	})

	t.Run("totality over every known input", func(t *testing.T) {
		inputs := make([]string, 0, len(canonicalStatuses)+len(legacyStatuses))
		for s := range canonicalStatuses {
			inputs = append(inputs, string(s))
		}
		for raw := range legacyStatuses {
			inputs = append(inputs, raw)
		}
		for _, raw := range inputs {
			got, ok := MapStatusOK(raw)
			if !ok {
				t.Fatalf("expected %q to be recognized", raw)
			}
			if !isCanonical(got) {
				t.Fatalf("MapStatus(%q) returned non-canonical %s", raw, got)
			}
		}
	})
}

func TestOrderStatus_Regimes(t *testing.T) {
	if !StatusQuoteRequested.IsNegotiation() || StatusOrderBooked.IsNegotiation() {
		t.Fatalf("negotiation regime misclassified")
	}
	if !StatusShipped.IsFulfillment() || StatusRejected.IsFulfillment() {
		t.Fatalf("fulfillment regime misclassified")
	}
	for _, s := range []OrderStatus{StatusCancelled, StatusRejected, StatusReturned, StatusRefunded} {
		if !s.IsTerminal() {
			t.Fatalf("expected %s to be terminal", s)
		}
	}
	if StatusOnHold.IsTerminal() || StatusOnHold.IsFulfillment() {
		t.Fatalf("on_hold belongs to no regime")
	}
}

func TestOrderStatus_CanAdvanceTo(t *testing.T) {
	t.Run("forward moves allowed, skips included", func(t *testing.T) {
		if !StatusOrderBooked.CanAdvanceTo(StatusProcessing) {
			t.Fatalf("expected order_booked -> processing")
		}
		if !StatusOrderBooked.CanAdvanceTo(StatusShipped) {
			t.Fatalf("expected order_booked -> shipped (skipping intermediates)")
		}
		if !StatusShipped.CanAdvanceTo(StatusDelivered) {
			t.Fatalf("expected shipped -> delivered")
		}
	})

	t.Run("backward and lateral moves rejected", func(t *testing.T) {
		if StatusShipped.CanAdvanceTo(StatusProcessing) {
			t.Fatalf("backward move must be rejected")
		}
		if StatusProcessing.CanAdvanceTo(StatusProcessing) {
			t.Fatalf("self move must be rejected")
		}
		if StatusQuoteRequested.CanAdvanceTo(StatusShipped) {
			t.Fatalf("negotiation statuses cannot advance directly")
		}
	})

	t.Run("on hold round trip", func(t *testing.T) {
		if !StatusProcessing.CanAdvanceTo(StatusOnHold) {
			t.Fatalf("expected processing -> on_hold")
		}
		if !StatusOnHold.CanAdvanceTo(StatusProcessing) {
			t.Fatalf("expected on_hold -> processing")
		}
		if StatusOnHold.CanAdvanceTo(StatusRejected) {
			t.Fatalf("on_hold may only resume into fulfillment")
		}
	})
}

func TestOrderStatus_Label(t *testing.T) {
	if got := StatusQuoteSent.Label(); got != "Quote Sent" {
		t.Fatalf("expected Quote Sent, got %q", got)
	}
	if got := StatusPaid.Label(); got != "Paid" {
		t.Fatalf("expected Paid, got %q", got)
	}
}
