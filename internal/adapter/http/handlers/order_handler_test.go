package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"b2bdesk/internal/adapter/http/dto/response"
	"b2bdesk/internal/domain/entities"
	"b2bdesk/internal/usecase"
	"b2bdesk/internal/usecase/mocks"

	"github.com/gin-gonic/gin"
	"go.uber.org/mock/gomock"
)

func newOrderRouter(t *testing.T) (*gin.Engine, *mocks.MockIOrderUseCase) {
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	uc := mocks.NewMockIOrderUseCase(ctrl)
	h := NewOrderHandler(uc)

	r := gin.New()
	r.POST("/v1/orders", h.CreateOrder)
	r.GET("/v1/orders/:id", h.GetOrder)
	r.PATCH("/v1/orders/:id/status", h.UpdateStatus)
	r.POST("/v1/quotations/:id/accept", h.AcceptQuote)
	r.POST("/v1/quotations/:id/send-quote", h.SendQuote)
	r.POST("/v1/quotations/:id/counter", h.SubmitCounter)
	return r, uc
}

func TestOrderHandler_CreateOrder(t *testing.T) {
	t.Run("invalid json", func(t *testing.T) {
		r, _ := newOrderRouter(t)

		req := httptest.NewRequest(http.MethodPost, "/v1/orders", bytes.NewBufferString("{"))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("invalid quantity", func(t *testing.T) {
		r, _ := newOrderRouter(t)

		body := `{"items":[{"product_id":"prod-1","quantity":-1,"price":118}]}`
		req := httptest.NewRequest(http.MethodPost, "/v1/orders", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("created", func(t *testing.T) {
		r, uc := newOrderRouter(t)
		uc.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ any, o entities.Order) (entities.Order, error) {
				if !o.IsQuotation || o.Items[0].TaxRate != 18 {
					t.Fatalf("unexpected entity %+v", o)
				}
				o.ID = "ord-1"
				o.OrderNumber = "ORD-AB12CD34"
				o.Status = entities.StatusQuoteRequested
				return o, nil
			},
		)

		body := `{"is_quotation":true,"customer_id":"cust-1","items":[{"product_id":"prod-1","quantity":10,"price":118,"gstRate":18}]}`
		req := httptest.NewRequest(http.MethodPost, "/v1/orders", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
		}
		var res response.OrderResponse
		if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
			t.Fatalf("bad response: %v", err)
		}
		if res.Status != "quote_requested" || res.StatusLabel != "Quote Requested" {
			t.Fatalf("unexpected response %+v", res)
		}
	})
}

func TestOrderHandler_GetOrder(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		r, uc := newOrderRouter(t)
		uc.EXPECT().GetByID(gomock.Any(), "ord-404").Return(entities.Order{}, usecase.ErrOrderNotFound)

		req := httptest.NewRequest(http.MethodGet, "/v1/orders/ord-404", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", w.Code)
		}
	})
}

func TestOrderHandler_UpdateStatus(t *testing.T) {
	t.Run("legacy alias accepted", func(t *testing.T) {
		r, uc := newOrderRouter(t)
		uc.EXPECT().UpdateStatus(gomock.Any(), "ord-1", entities.StatusShipped, "On the truck").
			Return(entities.Order{ID: "ord-1", Status: entities.StatusShipped}, nil)

		body := `{"status":"DISPATCHED","note":"On the truck"}`
		req := httptest.NewRequest(http.MethodPatch, "/v1/orders/ord-1/status", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("unknown status value", func(t *testing.T) {
		r, _ := newOrderRouter(t)

		body := `{"status":"TELEPORTED"}`
		req := httptest.NewRequest(http.MethodPatch, "/v1/orders/ord-1/status", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("illegal transition maps to conflict", func(t *testing.T) {
		r, uc := newOrderRouter(t)
		uc.EXPECT().UpdateStatus(gomock.Any(), "ord-1", entities.StatusProcessing, "").
			Return(entities.Order{}, usecase.ErrInvalidTransition)

		body := `{"status":"processing"}`
		req := httptest.NewRequest(http.MethodPatch, "/v1/orders/ord-1/status", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", w.Code)
		}
	})
}

func TestOrderHandler_QuotationActions(t *testing.T) {
	t.Run("accept without body", func(t *testing.T) {
		r, uc := newOrderRouter(t)
		uc.EXPECT().AcceptQuoteRequest(gomock.Any(), "ord-1", "").
			Return(entities.Order{ID: "ord-1", Status: entities.StatusOrderBooked}, nil)

		req := httptest.NewRequest(http.MethodPost, "/v1/quotations/ord-1/accept", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("send quote passes prices through", func(t *testing.T) {
		r, uc := newOrderRouter(t)
		uc.EXPECT().SendQuote(gomock.Any(), "ord-1", []usecase.ItemPrice{{ProductID: "prod-1", Price: 115}}, "Quote sent").
			Return(entities.Order{ID: "ord-1", Status: entities.StatusQuoteSent}, nil)

		body := `{"prices":[{"product_id":"prod-1","price":115}],"note":"Quote sent"}`
		req := httptest.NewRequest(http.MethodPost, "/v1/quotations/ord-1/send-quote", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("counter on a firm order maps to conflict", func(t *testing.T) {
		r, uc := newOrderRouter(t)
		uc.EXPECT().SubmitCounter(gomock.Any(), "ord-1", gomock.Any(), "").
			Return(entities.Order{}, usecase.ErrNotQuotation)

		body := `{"prices":[{"product_id":"prod-1","price":100}]}`
		req := httptest.NewRequest(http.MethodPost, "/v1/quotations/ord-1/counter", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", w.Code)
		}
	})

	t.Run("internal error", func(t *testing.T) {
		r, uc := newOrderRouter(t)
		uc.EXPECT().AcceptQuoteRequest(gomock.Any(), "ord-1", "").
			Return(entities.Order{}, errors.New("dynamo down"))

		req := httptest.NewRequest(http.MethodPost, "/v1/quotations/ord-1/accept", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", w.Code)
		}
	})
}
