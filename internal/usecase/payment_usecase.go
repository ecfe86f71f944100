package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"b2bdesk/internal/domain/entities"
	"b2bdesk/internal/infrastructure/logger"
	"b2bdesk/internal/usecase/interfaces"
)

var (
	ErrPaymentNotFound                = errors.New("payment not found")
	ErrInvalidPaymentOrderID          = errors.New("invalid order_id")
	ErrInvalidProviderPayload         = errors.New("invalid payment provider payload")
	ErrOrderNotPayable                = errors.New("order status does not allow payment")
	ErrPaymentGatewayBadRequest       = errors.New("payment gateway bad request")
	ErrPaymentGatewayUnauthorized     = errors.New("payment gateway unauthorized")
	ErrPaymentGatewayInvalidUsers     = errors.New("payment gateway invalid users involved")
	ErrPaymentGatewayCustomerNotFound = errors.New("payment gateway customer not found")
)

var paymentLog = logger.WithComponent("payment-usecase")

// IPaymentUseCase encapsulates the "charge an order and record the payment"
// behavior. A successful charge advances the order to paid, which in turn
// makes the tax invoice due.

type IPaymentUseCase interface {
	CreateAndApprove(ctx context.Context, orderID string, providerPayload json.RawMessage) (entities.Payment, error)
	GetByID(ctx context.Context, id string) (entities.Payment, error)
	ListByOrderID(ctx context.Context, orderID string) ([]entities.Payment, error)
}

type PaymentUseCase struct {
	repo    interfaces.IPaymentRepository
	orders  IOrderUseCase
	gateway interfaces.IPaymentGateway
}

var _ IPaymentUseCase = (*PaymentUseCase)(nil)

func NewPaymentUseCase(repo interfaces.IPaymentRepository, orders IOrderUseCase, gateway interfaces.IPaymentGateway) *PaymentUseCase {
	return &PaymentUseCase{repo: repo, orders: orders, gateway: gateway}
}

func (u *PaymentUseCase) CreateAndApprove(ctx context.Context, orderID string, providerPayload json.RawMessage) (entities.Payment, error) {
	paymentLog.Info().Str("order_id", orderID).Int("payload_len", len(providerPayload)).Msg("create-and-approve start")
	mockMode := isPaymentGatewayMockEnabled()
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return entities.Payment{}, ErrInvalidPaymentOrderID
	}
	if len(providerPayload) == 0 || !json.Valid(providerPayload) {
		if !mockMode {
			paymentLog.Warn().Str("order_id", orderID).Msg("invalid provider payload")
			return entities.Payment{}, ErrInvalidProviderPayload
		}
		providerPayload = json.RawMessage("{}")
	}
	if u.gateway == nil {
		return entities.Payment{}, errors.New("payment gateway not configured")
	}
	if u.orders == nil {
		return entities.Payment{}, errors.New("order usecase not configured")
	}

	o, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return entities.Payment{}, err
	}
	if !mockMode && !orderPayable(o.Status) {
		paymentLog.Warn().Str("order_id", orderID).Str("status", string(o.Status)).Msg("order not payable")
		return entities.Payment{}, ErrOrderNotPayable
	}
	paymentLog.Info().Str("order_id", orderID).Str("status", string(o.Status)).Float64("amount", o.TotalAmount).Msg("order loaded")

	// Ensure basic linkage with the order when the caller didn't provide it.
	// Mercado Pago uses external_reference to help reconcile events.
	var reqMap map[string]any
	if err := json.Unmarshal(providerPayload, &reqMap); err == nil {
		if !mockMode && !hasNonEmptyString(reqMap, "payment_method_id") {
			return entities.Payment{}, ErrInvalidProviderPayload
		}
		if !mockMode {
			normalizeSandboxPayerFromUserID(reqMap)
			ensurePayerDefaults(reqMap)
			if !hasPayer(reqMap) {
				return entities.Payment{}, ErrInvalidProviderPayload
			}
		}

		if _, ok := reqMap["external_reference"]; !ok {
			reqMap["external_reference"] = orderID
		}
		if _, ok := reqMap["description"]; !ok {
			reqMap["description"] = fmt.Sprintf("Order %s", o.OrderNumber)
		}

		// The source of truth for amount is the order grand total in DB.
		reqMap["transaction_amount"] = o.TotalAmount
		if b, err := json.Marshal(reqMap); err == nil {
			providerPayload = b
		}
	}

	providerPaymentID := ""
	providerResp := json.RawMessage(nil)

	if mockMode {
		paymentLog.Info().Str("order_id", orderID).Msg("mock mode enabled; skipping external payment gateway")
		providerPaymentID = strconv.FormatInt(time.Now().UTC().UnixNano(), 10)
		now := time.Now().UTC().Format(time.RFC3339Nano)
		mockResp := map[string]any{}
		if len(providerPayload) > 0 && json.Valid(providerPayload) {
			_ = json.Unmarshal(providerPayload, &mockResp)
		}
		mockResp["id"] = providerPaymentID
		mockResp["status"] = "approved"
		mockResp["status_detail"] = "accredited"
		mockResp["date_created"] = now
		mockResp["date_approved"] = now
		if _, ok := mockResp["external_reference"]; !ok {
			mockResp["external_reference"] = orderID
		}
		if _, ok := mockResp["transaction_amount"]; !ok {
			mockResp["transaction_amount"] = o.TotalAmount
		}
		b, mErr := json.Marshal(mockResp)
		if mErr != nil {
			return entities.Payment{}, mErr
		}
		providerResp = b
	} else {
		providerPaymentID, _, providerResp, err = u.gateway.CreatePayment(ctx, providerPayload)
		if err != nil {
			paymentLog.Error().Err(err).Str("order_id", orderID).Msg("payment gateway failed")
			switch {
			case isGatewayCustomerNotFound(err):
				return entities.Payment{}, ErrPaymentGatewayCustomerNotFound
			case isGatewayInvalidUsers(err):
				return entities.Payment{}, ErrPaymentGatewayInvalidUsers
			case isGatewayUnauthorized(err):
				return entities.Payment{}, ErrPaymentGatewayUnauthorized
			case isGatewayBadRequest(err):
				return entities.Payment{}, ErrPaymentGatewayBadRequest
			}
			return entities.Payment{}, err
		}
	}

	var parsed map[string]interface{}
	if err := json.Unmarshal(providerResp, &parsed); err != nil {
		paymentLog.Warn().Err(err).Str("order_id", orderID).Msg("provider response unmarshal failed")
	}

	p := entities.Payment{
		ID:                 providerPaymentID,
		OrderID:            orderID,
		Date:               time.Now().UTC(),
		Status:             entities.PaymentStatusApproved,
		Amount:             o.TotalAmount,
		ProviderPayloadRaw: providerResp,
		ProviderPayload:    parsed,
	}

	created, err := u.repo.Create(ctx, p)
	if err != nil {
		return entities.Payment{}, err
	}

	// Settlement advances the order; the transition triggers the invoice
	// watcher (tax invoice becomes due at paid).
	if _, err := u.orders.UpdateStatus(ctx, orderID, entities.StatusPaid, "Payment "+created.ID+" approved"); err != nil {
		paymentLog.Error().Err(err).Str("order_id", orderID).Str("payment_id", created.ID).Msg("order paid transition failed")
		return entities.Payment{}, err
	}

	paymentLog.Info().Str("order_id", orderID).Str("payment_id", created.ID).Msg("create-and-approve success")
	return created, nil
}

func (u *PaymentUseCase) GetByID(ctx context.Context, id string) (entities.Payment, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.Payment{}, errors.New("invalid payment id")
	}

	p, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return entities.Payment{}, err
	}
	if p.ID == "" {
		return entities.Payment{}, ErrPaymentNotFound
	}
	return p, nil
}

func (u *PaymentUseCase) ListByOrderID(ctx context.Context, orderID string) ([]entities.Payment, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return nil, ErrInvalidPaymentOrderID
	}
	return u.repo.ListByOrderID(ctx, orderID)
}

// orderPayable limits charging to the pre-settlement fulfillment statuses.
func orderPayable(s entities.OrderStatus) bool {
	idx := s.FulfillmentIndex()
	return idx >= 0 && idx < entities.StatusPaid.FulfillmentIndex()
}

func hasNonEmptyString(m map[string]any, key string) bool {
	v, ok := m[key]
	if !ok {
		return false
	}
	s, ok := v.(string)
	if !ok {
		return false
	}
	return strings.TrimSpace(s) != ""
}

func hasPayer(m map[string]any) bool {
	v, ok := m["payer"]
	if !ok {
		return false
	}
	payer, ok := v.(map[string]any)
	if !ok {
		return false
	}
	return hasNonEmptyString(payer, "email") || hasPayerID(payer)
}

func hasPayerID(payer map[string]any) bool {
	v, ok := payer["id"]
	if !ok || v == nil {
		return false
	}
	s := strings.TrimSpace(fmt.Sprintf("%v", v))
	return s != "" && s != "<nil>"
}

func ensurePayerDefaults(m map[string]any) {
	v, ok := m["payer"]
	if !ok || v == nil {
		v = map[string]any{}
		m["payer"] = v
	}
	payer, ok := v.(map[string]any)
	if !ok {
		return
	}

	if _, ok := payer["type"]; !ok {
		payer["type"] = "customer"
	}

	// In sandbox, either payer.id or payer.email may be used.
	// Fill email only when both are missing.
	if !hasPayerID(payer) && !hasNonEmptyString(payer, "email") {
		if email := strings.TrimSpace(os.Getenv("MERCADOPAGO_TEST_PAYER_EMAIL")); email != "" {
			payer["email"] = email
		} else if strings.HasPrefix(strings.TrimSpace(os.Getenv("MERCADOPAGO_ACCESS_TOKEN")), "TEST-") {
			// Sandbox-safe fallback recommended by Mercado Pago examples.
			payer["email"] = "test_user_br@testuser.com"
		}
	}
}

func normalizeSandboxPayerFromUserID(m map[string]any) {
	v, ok := m["payer"]
	if !ok || v == nil {
		return
	}
	payer, ok := v.(map[string]any)
	if !ok {
		return
	}

	if !hasPayerID(payer) || hasNonEmptyString(payer, "email") {
		return
	}

	accessToken := strings.TrimSpace(os.Getenv("MERCADOPAGO_ACCESS_TOKEN"))
	if !strings.HasPrefix(accessToken, "TEST-") {
		return
	}

	configuredUserID := strings.TrimSpace(os.Getenv("MERCADOPAGO_TEST_PAYER_USER_ID"))
	configuredEmail := strings.TrimSpace(os.Getenv("MERCADOPAGO_TEST_PAYER_EMAIL"))
	if configuredUserID == "" || configuredEmail == "" {
		return
	}

	rawID := strings.TrimSpace(fmt.Sprintf("%v", payer["id"]))
	if rawID == "" || rawID == "<nil>" || rawID != configuredUserID {
		return
	}

	payer["email"] = configuredEmail
	delete(payer, "id")
	paymentLog.Info().Msg("mapped sandbox payer user_id to payer.email")
}

func isPaymentGatewayMockEnabled() bool {
	for _, key := range []string{"PAYMENT_GATEWAY_MOCK", "MERCADOPAGO_MOCK"} {
		v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
		switch v {
		case "1", "true", "yes", "on", "mock":
			return true
		}
	}
	return false
}

func isGatewayBadRequest(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "\"error\":\"bad_request\"") || strings.Contains(msg, "\"status\":400")
}

func isGatewayUnauthorized(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "\"error\":\"unauthorized\"") || strings.Contains(msg, "\"status\":401")
}

func isGatewayInvalidUsers(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "invalid users involved") || strings.Contains(msg, "\"code\":2034")
}

func isGatewayCustomerNotFound(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "customer not found") || strings.Contains(msg, "\"code\":2002")
}
