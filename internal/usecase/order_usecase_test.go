package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"b2bdesk/internal/domain/entities"
	"b2bdesk/internal/usecase"
	mock_interfaces "b2bdesk/internal/usecase/interfaces/mocks"
	"b2bdesk/internal/usecase/mocks"

	"go.uber.org/mock/gomock"
)

func f64ptr(v float64) *float64 { return &v }

func storedQuotation(status entities.OrderStatus) entities.Order {
	return entities.Order{
		ID:          "ord-1",
		OrderNumber: "ORD-AB12CD34",
		IsQuotation: true,
		Status:      status,
		CustomerID:  "cust-1",
		Items: []entities.OrderItem{
			{ProductID: "prod-1", ProductName: "Widget", Quantity: 10, Price: 118, TaxRate: 18},
		},
		ShippingCost: 50,
	}
}

// passthroughUpdate makes the repo hand back whatever it was asked to store,
// mirroring the real repository's full-item write.
func passthroughUpdate(repo *mock_interfaces.MockIOrderRepository) {
	repo.EXPECT().Update(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, o entities.Order) (entities.Order, error) { return o, nil },
	).AnyTimes()
}

func TestOrderUseCase_Create(t *testing.T) {
	t.Run("requires at least one line", func(t *testing.T) {
		uc := usecase.NewOrderUseCase(nil, nil, nil)
		_, err := uc.Create(context.Background(), entities.Order{})
		if !errors.Is(err, usecase.ErrOrderHasNoLines) {
			t.Fatalf("expected ErrOrderHasNoLines, got %v", err)
		}
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		uc := usecase.NewOrderUseCase(nil, nil, nil)
		o := entities.Order{Items: []entities.OrderItem{{ProductID: "prod-1", Quantity: 0, Price: 10}}}
		_, err := uc.Create(context.Background(), o)
		if !errors.Is(err, usecase.ErrInvalidQuantity) {
			t.Fatalf("expected ErrInvalidQuantity, got %v", err)
		}
	})

	t.Run("quotation starts at quote_requested", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIOrderRepository(ctrl)
		repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, o entities.Order) (entities.Order, error) { return o, nil },
		)
		uc := usecase.NewOrderUseCase(repo, nil, nil)

		in := storedQuotation("")
		in.ID = ""
		created, err := uc.Create(context.Background(), in)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if created.Status != entities.StatusQuoteRequested {
			t.Fatalf("expected quote_requested, got %s", created.Status)
		}
		if created.ID == "" {
			t.Fatalf("expected generated id")
		}
		if !strings.HasPrefix(created.OrderNumber, "ORD-") || len(created.OrderNumber) != 12 {
			t.Fatalf("unexpected order number %q", created.OrderNumber)
		}
		// qty 10 x 118 inclusive + 50 shipping
		if created.TotalAmount != 1230 {
			t.Fatalf("expected total 1230, got %v", created.TotalAmount)
		}
	})

	t.Run("firm order books immediately and runs the watcher", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIOrderRepository(ctrl)
		invoices := mocks.NewMockIInvoiceUseCase(ctrl)
		repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, o entities.Order) (entities.Order, error) { return o, nil },
		)
		invoices.EXPECT().OnStatusChanged(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, o entities.Order) (entities.Order, error) {
				if o.Status != entities.StatusOrderBooked {
					t.Fatalf("watcher saw status %s", o.Status)
				}
				o.MarkInvoiceGenerated(entities.InvoiceTypeProforma)
				return o, nil
			},
		)
		uc := usecase.NewOrderUseCase(repo, invoices, nil)

		in := storedQuotation("")
		in.ID = ""
		in.IsQuotation = false
		created, err := uc.Create(context.Background(), in)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if created.Status != entities.StatusOrderBooked {
			t.Fatalf("expected order_booked, got %s", created.Status)
		}
		if !created.HasGeneratedInvoice(entities.InvoiceTypeProforma) {
			t.Fatalf("expected watcher result carried through")
		}
	})
}

func TestOrderUseCase_GetByID(t *testing.T) {
	t.Run("blank id", func(t *testing.T) {
		uc := usecase.NewOrderUseCase(nil, nil, nil)
		_, err := uc.GetByID(context.Background(), "  ")
		if !errors.Is(err, usecase.ErrInvalidOrderID) {
			t.Fatalf("expected ErrInvalidOrderID, got %v", err)
		}
	})

	t.Run("missing order", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIOrderRepository(ctrl)
		repo.EXPECT().GetByID(gomock.Any(), "ord-x").Return(entities.Order{}, nil)
		uc := usecase.NewOrderUseCase(repo, nil, nil)

		_, err := uc.GetByID(context.Background(), "ord-x")
		if !errors.Is(err, usecase.ErrOrderNotFound) {
			t.Fatalf("expected ErrOrderNotFound, got %v", err)
		}
	})
}

func TestOrderUseCase_Update(t *testing.T) {
	t.Run("recomputes total and appends note", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIOrderRepository(ctrl)
		repo.EXPECT().GetByID(gomock.Any(), "ord-1").Return(storedQuotation(entities.StatusQuoteRequested), nil)
		passthroughUpdate(repo)
		uc := usecase.NewOrderUseCase(repo, nil, nil)

		updated, err := uc.Update(context.Background(), "ord-1", usecase.OrderUpdate{
			Note:         "Shipping revised",
			ShippingCost: f64ptr(100),
			Discount:     f64ptr(30),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if updated.TotalAmount != 1250 {
			t.Fatalf("expected total 1250, got %v", updated.TotalAmount)
		}
		notes := entities.ParseNotes(updated.Notes)
		if len(notes) != 1 || notes[0].Text != "Shipping revised" {
			t.Fatalf("unexpected notes %+v", notes)
		}
		if notes[0].Status != "Quote Requested" {
			t.Fatalf("unexpected note status %q", notes[0].Status)
		}
	})
}

func TestOrderUseCase_QuotationWorkflow(t *testing.T) {
	newUC := func(t *testing.T, stored entities.Order) (*usecase.OrderUseCase, *mock_interfaces.MockIOrderRepository) {
		ctrl := gomock.NewController(t)
		t.Cleanup(ctrl.Finish)
		repo := mock_interfaces.NewMockIOrderRepository(ctrl)
		repo.EXPECT().GetByID(gomock.Any(), stored.ID).Return(stored, nil)
		return usecase.NewOrderUseCase(repo, nil, nil), repo
	}

	t.Run("accept copies target price into quoted price", func(t *testing.T) {
		stored := storedQuotation(entities.StatusQuoteRequested)
		stored.Items[0].TargetPrice = f64ptr(110)
		uc, repo := newUC(t, stored)
		passthroughUpdate(repo)

		got, err := uc.AcceptQuoteRequest(context.Background(), "ord-1", "Accepted at target")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Status != entities.StatusOrderBooked {
			t.Fatalf("expected order_booked, got %s", got.Status)
		}
		if got.Items[0].QuotedPrice == nil || *got.Items[0].QuotedPrice != 110 {
			t.Fatalf("expected quoted price 110, got %+v", got.Items[0].QuotedPrice)
		}
		// 10 x 110 inclusive + 50 shipping
		if got.TotalAmount != 1150 {
			t.Fatalf("expected total 1150, got %v", got.TotalAmount)
		}
	})

	t.Run("accept from wrong status", func(t *testing.T) {
		uc, _ := newUC(t, storedQuotation(entities.StatusQuoteSent))
		_, err := uc.AcceptQuoteRequest(context.Background(), "ord-1", "")
		if !errors.Is(err, usecase.ErrInvalidTransition) {
			t.Fatalf("expected ErrInvalidTransition, got %v", err)
		}
	})

	t.Run("workflow action on a firm order", func(t *testing.T) {
		stored := storedQuotation(entities.StatusOrderBooked)
		stored.IsQuotation = false
		uc, _ := newUC(t, stored)
		_, err := uc.AcceptQuoteRequest(context.Background(), "ord-1", "")
		if !errors.Is(err, usecase.ErrNotQuotation) {
			t.Fatalf("expected ErrNotQuotation, got %v", err)
		}
	})

	t.Run("send quote applies prices and moves to quote_sent", func(t *testing.T) {
		uc, repo := newUC(t, storedQuotation(entities.StatusQuoteRequested))
		passthroughUpdate(repo)

		got, err := uc.SendQuote(context.Background(), "ord-1", []usecase.ItemPrice{{ProductID: "prod-1", Price: 115}}, "Quote sent")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Status != entities.StatusQuoteSent {
			t.Fatalf("expected quote_sent, got %s", got.Status)
		}
		if got.Items[0].QuotedPrice == nil || *got.Items[0].QuotedPrice != 115 {
			t.Fatalf("expected quoted price 115, got %+v", got.Items[0].QuotedPrice)
		}
	})

	t.Run("send quote from negotiation is legal", func(t *testing.T) {
		uc, repo := newUC(t, storedQuotation(entities.StatusNegotiation))
		passthroughUpdate(repo)

		got, err := uc.SendQuote(context.Background(), "ord-1", nil, "Revised quote")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Status != entities.StatusQuoteSent {
			t.Fatalf("expected quote_sent, got %s", got.Status)
		}
	})

	t.Run("send quote rejects non-positive price", func(t *testing.T) {
		uc, _ := newUC(t, storedQuotation(entities.StatusQuoteRequested))
		_, err := uc.SendQuote(context.Background(), "ord-1", []usecase.ItemPrice{{ProductID: "prod-1", Price: 0}}, "")
		if !errors.Is(err, usecase.ErrInvalidQuotedPrice) {
			t.Fatalf("expected ErrInvalidQuotedPrice, got %v", err)
		}
	})

	t.Run("send quote rejects unknown product", func(t *testing.T) {
		uc, _ := newUC(t, storedQuotation(entities.StatusQuoteRequested))
		_, err := uc.SendQuote(context.Background(), "ord-1", []usecase.ItemPrice{{ProductID: "prod-9", Price: 99}}, "")
		if !errors.Is(err, usecase.ErrUnknownOrderProduct) {
			t.Fatalf("expected ErrUnknownOrderProduct, got %v", err)
		}
	})

	t.Run("counter offer opens negotiation with target prices", func(t *testing.T) {
		uc, repo := newUC(t, storedQuotation(entities.StatusQuoteSent))
		passthroughUpdate(repo)

		got, err := uc.SubmitCounter(context.Background(), "ord-1", []usecase.ItemPrice{{ProductID: "prod-1", Price: 100}}, "Customer counter")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Status != entities.StatusNegotiation {
			t.Fatalf("expected negotiation, got %s", got.Status)
		}
		if got.Items[0].TargetPrice == nil || *got.Items[0].TargetPrice != 100 {
			t.Fatalf("expected target price 100, got %+v", got.Items[0].TargetPrice)
		}
	})

	t.Run("counter offer only against a sent quote", func(t *testing.T) {
		uc, _ := newUC(t, storedQuotation(entities.StatusQuoteRequested))
		_, err := uc.SubmitCounter(context.Background(), "ord-1", nil, "")
		if !errors.Is(err, usecase.ErrInvalidTransition) {
			t.Fatalf("expected ErrInvalidTransition, got %v", err)
		}
	})

	t.Run("accept counter books at counter price", func(t *testing.T) {
		stored := storedQuotation(entities.StatusNegotiation)
		stored.Items[0].TargetPrice = f64ptr(100)
		stored.Items[0].QuotedPrice = f64ptr(115)
		uc, repo := newUC(t, stored)
		passthroughUpdate(repo)

		got, err := uc.AcceptCounter(context.Background(), "ord-1", "Counter accepted")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Status != entities.StatusOrderBooked {
			t.Fatalf("expected order_booked, got %s", got.Status)
		}
		if *got.Items[0].QuotedPrice != 100 {
			t.Fatalf("expected quoted price replaced by counter 100, got %v", *got.Items[0].QuotedPrice)
		}
	})

	t.Run("reject counter terminates the quotation", func(t *testing.T) {
		uc, repo := newUC(t, storedQuotation(entities.StatusNegotiation))
		passthroughUpdate(repo)

		got, err := uc.RejectCounter(context.Background(), "ord-1", "Margin too thin")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Status != entities.StatusRejected {
			t.Fatalf("expected rejected, got %s", got.Status)
		}
		notes := entities.ParseNotes(got.Notes)
		if len(notes) != 1 || notes[0].Text != "Margin too thin" {
			t.Fatalf("unexpected notes %+v", notes)
		}
	})
}

func TestOrderUseCase_UpdateStatus(t *testing.T) {
	newUC := func(t *testing.T, stored entities.Order) (*usecase.OrderUseCase, *mock_interfaces.MockIOrderRepository) {
		ctrl := gomock.NewController(t)
		t.Cleanup(ctrl.Finish)
		repo := mock_interfaces.NewMockIOrderRepository(ctrl)
		repo.EXPECT().GetByID(gomock.Any(), stored.ID).Return(stored, nil).AnyTimes()
		return usecase.NewOrderUseCase(repo, nil, nil), repo
	}

	t.Run("forward skip within fulfillment", func(t *testing.T) {
		uc, repo := newUC(t, storedQuotation(entities.StatusOrderBooked))
		passthroughUpdate(repo)

		got, err := uc.UpdateStatus(context.Background(), "ord-1", entities.StatusShipped, "Dispatched via road")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Status != entities.StatusShipped {
			t.Fatalf("expected shipped, got %s", got.Status)
		}
	})

	t.Run("backwards move refused", func(t *testing.T) {
		uc, _ := newUC(t, storedQuotation(entities.StatusShipped))
		_, err := uc.UpdateStatus(context.Background(), "ord-1", entities.StatusProcessing, "")
		if !errors.Is(err, usecase.ErrInvalidTransition) {
			t.Fatalf("expected ErrInvalidTransition, got %v", err)
		}
	})

	t.Run("unknown status value refused", func(t *testing.T) {
		uc := usecase.NewOrderUseCase(nil, nil, nil)
		_, err := uc.UpdateStatus(context.Background(), "ord-1", entities.OrderStatus("DISPATCHED"), "")
		if !errors.Is(err, usecase.ErrInvalidStatusValue) {
			t.Fatalf("expected ErrInvalidStatusValue, got %v", err)
		}
	})

	t.Run("hold and resume", func(t *testing.T) {
		uc, repo := newUC(t, storedQuotation(entities.StatusProcessing))
		passthroughUpdate(repo)

		got, err := uc.UpdateStatus(context.Background(), "ord-1", entities.StatusOnHold, "Stock check")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Status != entities.StatusOnHold {
			t.Fatalf("expected on_hold, got %s", got.Status)
		}
	})
}

func TestOrderUseCase_Cancel(t *testing.T) {
	t.Run("cancels a live order", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIOrderRepository(ctrl)
		repo.EXPECT().GetByID(gomock.Any(), "ord-1").Return(storedQuotation(entities.StatusProcessing), nil)
		passthroughUpdate(repo)
		uc := usecase.NewOrderUseCase(repo, nil, nil)

		got, err := uc.Cancel(context.Background(), "ord-1", "Customer withdrew")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Status != entities.StatusCancelled {
			t.Fatalf("expected cancelled, got %s", got.Status)
		}
	})

	t.Run("terminal orders stay terminal", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIOrderRepository(ctrl)
		repo.EXPECT().GetByID(gomock.Any(), "ord-1").Return(storedQuotation(entities.StatusRejected), nil)
		uc := usecase.NewOrderUseCase(repo, nil, nil)

		_, err := uc.Cancel(context.Background(), "ord-1", "")
		if !errors.Is(err, usecase.ErrInvalidTransition) {
			t.Fatalf("expected ErrInvalidTransition, got %v", err)
		}
	})
}

func TestOrderUseCase_TransitionSideEffects(t *testing.T) {
	t.Run("watcher failure does not undo the transition", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIOrderRepository(ctrl)
		invoices := mocks.NewMockIInvoiceUseCase(ctrl)
		repo.EXPECT().GetByID(gomock.Any(), "ord-1").Return(storedQuotation(entities.StatusOrderBooked), nil)
		passthroughUpdate(repo)
		invoices.EXPECT().OnStatusChanged(gomock.Any(), gomock.Any()).Return(entities.Order{}, errors.New("dynamo down"))
		uc := usecase.NewOrderUseCase(repo, invoices, nil)

		got, err := uc.UpdateStatus(context.Background(), "ord-1", entities.StatusShipped, "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Status != entities.StatusShipped {
			t.Fatalf("expected committed status shipped, got %s", got.Status)
		}
	})

	t.Run("publishes status changed event", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIOrderRepository(ctrl)
		publisher := mock_interfaces.NewMockIEventPublisher(ctrl)
		repo.EXPECT().GetByID(gomock.Any(), "ord-1").Return(storedQuotation(entities.StatusOrderBooked), nil)
		passthroughUpdate(repo)
		publisher.EXPECT().PublishStatusChanged(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, evt entities.StatusChangedEvent) error {
				if evt.From != entities.StatusOrderBooked || evt.To != entities.StatusConfirmed {
					t.Fatalf("unexpected event %+v", evt)
				}
				if evt.OrderID != "ord-1" {
					t.Fatalf("unexpected order id %s", evt.OrderID)
				}
				return nil
			},
		)
		uc := usecase.NewOrderUseCase(repo, nil, publisher)

		if _, err := uc.UpdateStatus(context.Background(), "ord-1", entities.StatusConfirmed, ""); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("publish failure is swallowed", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIOrderRepository(ctrl)
		publisher := mock_interfaces.NewMockIEventPublisher(ctrl)
		repo.EXPECT().GetByID(gomock.Any(), "ord-1").Return(storedQuotation(entities.StatusOrderBooked), nil)
		passthroughUpdate(repo)
		publisher.EXPECT().PublishStatusChanged(gomock.Any(), gomock.Any()).Return(errors.New("broker unreachable"))
		uc := usecase.NewOrderUseCase(repo, nil, publisher)

		if _, err := uc.UpdateStatus(context.Background(), "ord-1", entities.StatusConfirmed, ""); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}
