package entities

import "time"

// StatusChangedEvent is emitted after every committed order status transition.
type StatusChangedEvent struct {
	OrderID     string      `json:"order_id"`
	OrderNumber string      `json:"order_number"`
	From        OrderStatus `json:"from"`
	To          OrderStatus `json:"to"`
	At          time.Time   `json:"at"`
}
