package entities

import "strings"

// OrderStatus is the canonical status vocabulary shared by orders and quotations.
//
// Domain notes:
//   - Backends and imports emit a mix of legacy uppercase enum names and
//     canonical lowercase values; MapStatus normalizes both.
//   - Statuses partition into three regimes: negotiation (quotations only),
//     fulfillment, and terminal.

type OrderStatus string

const (
	StatusQuoteRequested OrderStatus = "quote_requested"
	StatusQuoteSent      OrderStatus = "quote_sent"
	StatusNegotiation    OrderStatus = "negotiation"
	StatusOrderBooked    OrderStatus = "order_booked"
	StatusConfirmed      OrderStatus = "confirmed"
	StatusPaymentPending OrderStatus = "payment_pending"
	StatusPaid           OrderStatus = "paid"
	StatusProcessing     OrderStatus = "processing"
	StatusPacked         OrderStatus = "packed"
	StatusShipped        OrderStatus = "shipped"
	StatusDelivered      OrderStatus = "delivered"
	StatusCompleted      OrderStatus = "completed"
	StatusCancelled      OrderStatus = "cancelled"
	StatusRejected       OrderStatus = "rejected"
	StatusReturned       OrderStatus = "returned"
	StatusRefunded       OrderStatus = "refunded"
	StatusOnHold         OrderStatus = "on_hold"
)

var canonicalStatuses = map[OrderStatus]struct{}{
	StatusQuoteRequested: {},
	StatusQuoteSent:      {},
	StatusNegotiation:    {},
	StatusOrderBooked:    {},
	StatusConfirmed:      {},
	StatusPaymentPending: {},
	StatusPaid:           {},
	StatusProcessing:     {},
	StatusPacked:         {},
	StatusShipped:        {},
	StatusDelivered:      {},
	StatusCompleted:      {},
	StatusCancelled:      {},
	StatusRejected:       {},
	StatusReturned:       {},
	StatusRefunded:       {},
	StatusOnHold:         {},
}

// legacyStatuses maps historical uppercase enum names still present in old
// records and upstream exports.
var legacyStatuses = map[string]OrderStatus{
	"PENDING":         StatusQuoteRequested,
	"QUOTE_REQUESTED": StatusQuoteRequested,
	"QUOTED":          StatusQuoteSent,
	"QUOTE_SENT":      StatusQuoteSent,
	"NEGOTIATING":     StatusNegotiation,
	"NEGOTIATION":     StatusNegotiation,
	"ACCEPTED":        StatusOrderBooked,
	"ORDER_BOOKED":    StatusOrderBooked,
	"BOOKED":          StatusOrderBooked,
	"CONFIRMED":       StatusConfirmed,
	"PAYMENT_PENDING": StatusPaymentPending,
	"PAID":            StatusPaid,
	"PROCESSING":      StatusProcessing,
	"IN_PROGRESS":     StatusProcessing,
	"PACKED":          StatusPacked,
	"SHIPPED":         StatusShipped,
	"DISPATCHED":      StatusShipped,
	"DELIVERED":       StatusDelivered,
	"COMPLETED":       StatusCompleted,
	"CANCELLED":       StatusCancelled,
	"CANCELED":        StatusCancelled,
	"REJECTED":        StatusRejected,
	"RETURNED":        StatusReturned,
	"REFUNDED":        StatusRefunded,
	"ON_HOLD":         StatusOnHold,
	"HOLD":            StatusOnHold,
}

// MapStatusOK maps any raw backend status value to the canonical vocabulary.
// The boolean reports whether the input was recognized; ingestion boundaries
// use it to log unmapped values instead of masking them.
func MapStatusOK(raw string) (OrderStatus, bool) {
	trimmed := strings.TrimSpace(raw)
	if s := OrderStatus(strings.ToLower(trimmed)); isCanonical(s) {
		return s, true
	}
	if s, ok := legacyStatuses[strings.ToUpper(trimmed)]; ok {
		return s, true
	}
	return StatusProcessing, false
}

// MapStatus is the total mapping used on read paths. Unrecognized values fall
// back to processing to keep legacy records displayable.
func MapStatus(raw string) OrderStatus {
	s, _ := MapStatusOK(raw)
	return s
}

func isCanonical(s OrderStatus) bool {
	_, ok := canonicalStatuses[s]
	return ok
}

// fulfillmentSequence orders the fulfillment regime. Forward moves may skip
// intermediate entries (an order can jump order_booked -> shipped).
var fulfillmentSequence = []OrderStatus{
	StatusOrderBooked,
	StatusConfirmed,
	StatusPaymentPending,
	StatusPaid,
	StatusProcessing,
	StatusPacked,
	StatusShipped,
	StatusDelivered,
	StatusCompleted,
}

// FulfillmentIndex returns the position of s in the fulfillment sequence, or
// -1 when s is outside the fulfillment regime.
func (s OrderStatus) FulfillmentIndex() int {
	for i, fs := range fulfillmentSequence {
		if fs == s {
			return i
		}
	}
	return -1
}

// IsNegotiation reports whether s belongs to the quotation negotiation regime.
func (s OrderStatus) IsNegotiation() bool {
	return s == StatusQuoteRequested || s == StatusQuoteSent || s == StatusNegotiation
}

// IsFulfillment reports whether s belongs to the fulfillment regime.
func (s OrderStatus) IsFulfillment() bool {
	return s.FulfillmentIndex() >= 0
}

// IsTerminal reports whether s is a terminal status.
func (s OrderStatus) IsTerminal() bool {
	switch s {
	case StatusCancelled, StatusRejected, StatusReturned, StatusRefunded:
		return true
	}
	return false
}

// CanAdvanceTo reports whether a direct staff status update from s to target
// is legal: forward-only moves within the fulfillment sequence, plus moves
// between a fulfillment status and on_hold.
func (s OrderStatus) CanAdvanceTo(target OrderStatus) bool {
	if s == StatusOnHold {
		return target.IsFulfillment()
	}
	from := s.FulfillmentIndex()
	if from < 0 {
		return false
	}
	if target == StatusOnHold {
		return true
	}
	to := target.FulfillmentIndex()
	return to > from
}

// Label renders a status as a title-case display label ("quote_sent" ->
// "Quote Sent"), the form used in note journal headers.
func (s OrderStatus) Label() string {
	parts := strings.Split(string(s), "_")
	for i, p := range parts {
		if p == "" {
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, " ")
}
