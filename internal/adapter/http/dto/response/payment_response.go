package response

import (
	"time"

	"b2bdesk/internal/domain/entities"
)

type PaymentResponse struct {
	PaymentID string    `json:"payment_id"`
	ID        string    `json:"id"`
	OrderID   string    `json:"order_id"`
	Date      time.Time `json:"date"`
	Status    string    `json:"status"`
	Amount    float64   `json:"amount"`

	ProviderPayloadRaw string                 `json:"provider_payload_raw,omitempty"`
	ProviderPayload    map[string]interface{} `json:"provider_payload,omitempty"`
}

func FromPayment(p entities.Payment) PaymentResponse {
	return PaymentResponse{
		PaymentID:          p.ID,
		ID:                 p.ID,
		OrderID:            p.OrderID,
		Date:               p.Date,
		Status:             string(p.Status),
		Amount:             p.Amount,
		ProviderPayloadRaw: string(p.ProviderPayloadRaw),
		ProviderPayload:    p.ProviderPayload,
	}
}

func FromPayments(payments []entities.Payment) []PaymentResponse {
	out := make([]PaymentResponse, 0, len(payments))
	for _, p := range payments {
		out = append(out, FromPayment(p))
	}
	return out
}
