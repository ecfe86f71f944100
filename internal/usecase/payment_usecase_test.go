package usecase_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"b2bdesk/internal/domain/entities"
	"b2bdesk/internal/usecase"
	mock_interfaces "b2bdesk/internal/usecase/interfaces/mocks"
	"b2bdesk/internal/usecase/mocks"

	"go.uber.org/mock/gomock"
)

type paymentDeps struct {
	repo    *mock_interfaces.MockIPaymentRepository
	orders  *mocks.MockIOrderUseCase
	gateway *mock_interfaces.MockIPaymentGateway
}

func newPaymentUseCaseForTest(t *testing.T) (*usecase.PaymentUseCase, paymentDeps) {
	t.Setenv("PAYMENT_GATEWAY_MOCK", "")
	t.Setenv("MERCADOPAGO_MOCK", "")
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	deps := paymentDeps{
		repo:    mock_interfaces.NewMockIPaymentRepository(ctrl),
		orders:  mocks.NewMockIOrderUseCase(ctrl),
		gateway: mock_interfaces.NewMockIPaymentGateway(ctrl),
	}
	return usecase.NewPaymentUseCase(deps.repo, deps.orders, deps.gateway), deps
}

func payableOrder() entities.Order {
	return entities.Order{
		ID:          "ord-1",
		OrderNumber: "ORD-AB12CD34",
		Status:      entities.StatusPaymentPending,
		TotalAmount: 1230,
	}
}

func validPayload() json.RawMessage {
	return json.RawMessage(`{"payment_method_id":"pix","payer":{"email":"buyer@example.com"}}`)
}

func TestPaymentUseCase_CreateAndApprove(t *testing.T) {
	t.Run("blank order id", func(t *testing.T) {
		uc, _ := newPaymentUseCaseForTest(t)
		_, err := uc.CreateAndApprove(context.Background(), "  ", validPayload())
		if !errors.Is(err, usecase.ErrInvalidPaymentOrderID) {
			t.Fatalf("expected ErrInvalidPaymentOrderID, got %v", err)
		}
	})

	t.Run("invalid payload json", func(t *testing.T) {
		uc, _ := newPaymentUseCaseForTest(t)
		_, err := uc.CreateAndApprove(context.Background(), "ord-1", json.RawMessage("{"))
		if !errors.Is(err, usecase.ErrInvalidProviderPayload) {
			t.Fatalf("expected ErrInvalidProviderPayload, got %v", err)
		}
	})

	t.Run("payload missing payment_method_id", func(t *testing.T) {
		uc, deps := newPaymentUseCaseForTest(t)
		deps.orders.EXPECT().GetByID(gomock.Any(), "ord-1").Return(payableOrder(), nil)

		_, err := uc.CreateAndApprove(context.Background(), "ord-1", json.RawMessage(`{"payer":{"email":"buyer@example.com"}}`))
		if !errors.Is(err, usecase.ErrInvalidProviderPayload) {
			t.Fatalf("expected ErrInvalidProviderPayload, got %v", err)
		}
	})

	t.Run("order already settled", func(t *testing.T) {
		uc, deps := newPaymentUseCaseForTest(t)
		o := payableOrder()
		o.Status = entities.StatusPaid
		deps.orders.EXPECT().GetByID(gomock.Any(), "ord-1").Return(o, nil)

		_, err := uc.CreateAndApprove(context.Background(), "ord-1", validPayload())
		if !errors.Is(err, usecase.ErrOrderNotPayable) {
			t.Fatalf("expected ErrOrderNotPayable, got %v", err)
		}
	})

	t.Run("quotation under negotiation not payable", func(t *testing.T) {
		uc, deps := newPaymentUseCaseForTest(t)
		o := payableOrder()
		o.Status = entities.StatusQuoteSent
		deps.orders.EXPECT().GetByID(gomock.Any(), "ord-1").Return(o, nil)

		_, err := uc.CreateAndApprove(context.Background(), "ord-1", validPayload())
		if !errors.Is(err, usecase.ErrOrderNotPayable) {
			t.Fatalf("expected ErrOrderNotPayable, got %v", err)
		}
	})

	t.Run("gateway bad request mapped", func(t *testing.T) {
		uc, deps := newPaymentUseCaseForTest(t)
		deps.orders.EXPECT().GetByID(gomock.Any(), "ord-1").Return(payableOrder(), nil)
		deps.gateway.EXPECT().CreatePayment(gomock.Any(), gomock.Any()).
			Return("", "", json.RawMessage(nil), errors.New(`mercadopago: {"error":"bad_request","status":400}`))

		_, err := uc.CreateAndApprove(context.Background(), "ord-1", validPayload())
		if !errors.Is(err, usecase.ErrPaymentGatewayBadRequest) {
			t.Fatalf("expected ErrPaymentGatewayBadRequest, got %v", err)
		}
	})

	t.Run("gateway unauthorized mapped", func(t *testing.T) {
		uc, deps := newPaymentUseCaseForTest(t)
		deps.orders.EXPECT().GetByID(gomock.Any(), "ord-1").Return(payableOrder(), nil)
		deps.gateway.EXPECT().CreatePayment(gomock.Any(), gomock.Any()).
			Return("", "", json.RawMessage(nil), errors.New(`mercadopago: {"error":"unauthorized","status":401}`))

		_, err := uc.CreateAndApprove(context.Background(), "ord-1", validPayload())
		if !errors.Is(err, usecase.ErrPaymentGatewayUnauthorized) {
			t.Fatalf("expected ErrPaymentGatewayUnauthorized, got %v", err)
		}
	})

	t.Run("approved payment advances the order to paid", func(t *testing.T) {
		uc, deps := newPaymentUseCaseForTest(t)
		deps.orders.EXPECT().GetByID(gomock.Any(), "ord-1").Return(payableOrder(), nil)
		deps.gateway.EXPECT().CreatePayment(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, payload json.RawMessage) (string, string, json.RawMessage, error) {
				var m map[string]any
				if err := json.Unmarshal(payload, &m); err != nil {
					t.Fatalf("gateway received invalid payload: %v", err)
				}
				// Amount is forced to the order's grand total regardless of input.
				if got := m["transaction_amount"].(float64); got != 1230 {
					t.Fatalf("expected transaction_amount 1230, got %v", got)
				}
				if m["external_reference"] != "ord-1" {
					t.Fatalf("expected external_reference ord-1, got %v", m["external_reference"])
				}
				return "mp-123", "approved", json.RawMessage(`{"id":"mp-123","status":"approved"}`), nil
			},
		)
		deps.repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, p entities.Payment) (entities.Payment, error) {
				if p.ID != "mp-123" || p.OrderID != "ord-1" {
					t.Fatalf("unexpected payment %+v", p)
				}
				if p.Status != entities.PaymentStatusApproved || p.Amount != 1230 {
					t.Fatalf("unexpected payment state %+v", p)
				}
				return p, nil
			},
		)
		deps.orders.EXPECT().UpdateStatus(gomock.Any(), "ord-1", entities.StatusPaid, "Payment mp-123 approved").
			Return(payableOrder(), nil)

		created, err := uc.CreateAndApprove(context.Background(), "ord-1", validPayload())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if created.ID != "mp-123" {
			t.Fatalf("unexpected payment id %s", created.ID)
		}
	})

	t.Run("mock mode skips the gateway", func(t *testing.T) {
		uc, deps := newPaymentUseCaseForTest(t)
		t.Setenv("PAYMENT_GATEWAY_MOCK", "true")
		deps.orders.EXPECT().GetByID(gomock.Any(), "ord-1").Return(payableOrder(), nil)
		deps.repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, p entities.Payment) (entities.Payment, error) {
				if p.Status != entities.PaymentStatusApproved {
					t.Fatalf("expected approved, got %s", p.Status)
				}
				return p, nil
			},
		)
		deps.orders.EXPECT().UpdateStatus(gomock.Any(), "ord-1", entities.StatusPaid, gomock.Any()).
			Return(payableOrder(), nil)

		created, err := uc.CreateAndApprove(context.Background(), "ord-1", nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if created.ID == "" {
			t.Fatalf("expected synthetic payment id")
		}
	})
}

func TestPaymentUseCase_GetByID(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		uc, deps := newPaymentUseCaseForTest(t)
		deps.repo.EXPECT().GetByID(gomock.Any(), "mp-404").Return(entities.Payment{}, nil)

		_, err := uc.GetByID(context.Background(), "mp-404")
		if !errors.Is(err, usecase.ErrPaymentNotFound) {
			t.Fatalf("expected ErrPaymentNotFound, got %v", err)
		}
	})

	t.Run("found", func(t *testing.T) {
		uc, deps := newPaymentUseCaseForTest(t)
		deps.repo.EXPECT().GetByID(gomock.Any(), "mp-123").Return(entities.Payment{ID: "mp-123"}, nil)

		p, err := uc.GetByID(context.Background(), "mp-123")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.ID != "mp-123" {
			t.Fatalf("unexpected payment %+v", p)
		}
	})
}

func TestPaymentUseCase_ListByOrderID(t *testing.T) {
	t.Run("blank order id", func(t *testing.T) {
		uc, _ := newPaymentUseCaseForTest(t)
		_, err := uc.ListByOrderID(context.Background(), " ")
		if !errors.Is(err, usecase.ErrInvalidPaymentOrderID) {
			t.Fatalf("expected ErrInvalidPaymentOrderID, got %v", err)
		}
	})

	t.Run("delegates to repository", func(t *testing.T) {
		uc, deps := newPaymentUseCaseForTest(t)
		deps.repo.EXPECT().ListByOrderID(gomock.Any(), "ord-1").
			Return([]entities.Payment{{ID: "mp-1"}, {ID: "mp-2"}}, nil)

		got, err := uc.ListByOrderID(context.Background(), "ord-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("expected 2 payments, got %d", len(got))
		}
	})
}
