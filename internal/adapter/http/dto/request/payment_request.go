package request

import "encoding/json"

// PaymentCreateRequest is the payload for the charge-an-order route.
//
// provider_payload is stored as-is (raw JSON) to support varying payment
// gateway schemas; mp_payload is the pre-rename alias still sent by older
// clients.

type PaymentCreateRequest struct {
	ProviderPayload json.RawMessage `json:"provider_payload"`
	MPPayload       json.RawMessage `json:"mp_payload"`
}

func (r PaymentCreateRequest) ResolvePayload() json.RawMessage {
	if len(r.ProviderPayload) > 0 {
		return r.ProviderPayload
	}
	return r.MPPayload
}
