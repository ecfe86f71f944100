package handlers

import (
	"encoding/json"
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

func newInvoiceRouter(t *testing.T) (*gin.Engine, *mocks.MockIInvoiceUseCase) {
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	uc := mocks.NewMockIInvoiceUseCase(ctrl)
	h := NewInvoiceHandler(uc)

	r := gin.New()
	r.POST("/v1/orders/:id/invoices/:type", h.GenerateInvoice)
	r.GET("/v1/orders/:id/invoices", h.ListOrderInvoices)
	r.GET("/v1/invoices/:number", h.GetInvoice)
	return r, uc
}

func TestInvoiceHandler_GenerateInvoice(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		r, uc := newInvoiceRouter(t)
		uc.EXPECT().Generate(gomock.Any(), "ord-1", entities.InvoiceTypeProforma).
			Return(entities.Invoice{InvoiceNumber: "PI-ORD-AB12CD34", Type: entities.InvoiceTypeProforma}, nil)

		req := httptest.NewRequest(http.MethodPost, "/v1/orders/ord-1/invoices/proforma", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
		}
		var res response.InvoiceResponse
		if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
			t.Fatalf("bad response: %v", err)
		}
		if res.InvoiceNumber != "PI-ORD-AB12CD34" {
			t.Fatalf("unexpected response %+v", res)
		}
	})

	t.Run("invalid type", func(t *testing.T) {
		r, uc := newInvoiceRouter(t)
		uc.EXPECT().Generate(gomock.Any(), "ord-1", entities.InvoiceType("credit")).
			Return(entities.Invoice{}, usecase.ErrInvalidInvoiceType)

		req := httptest.NewRequest(http.MethodPost, "/v1/orders/ord-1/invoices/credit", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("not eligible maps to conflict", func(t *testing.T) {
		r, uc := newInvoiceRouter(t)
		uc.EXPECT().Generate(gomock.Any(), "ord-1", entities.InvoiceTypeTax).
			Return(entities.Invoice{}, usecase.ErrInvoiceNotEligible)

		req := httptest.NewRequest(http.MethodPost, "/v1/orders/ord-1/invoices/tax", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", w.Code)
		}
	})
}

func TestInvoiceHandler_GetInvoice(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		r, uc := newInvoiceRouter(t)
		uc.EXPECT().GetByNumber(gomock.Any(), "PI-X").Return(entities.Invoice{}, usecase.ErrInvoiceNotFound)

		req := httptest.NewRequest(http.MethodGet, "/v1/invoices/PI-X", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", w.Code)
		}
	})
}

func TestInvoiceHandler_ListOrderInvoices(t *testing.T) {
	r, uc := newInvoiceRouter(t)
	uc.EXPECT().ListByOrderID(gomock.Any(), "ord-1").Return([]entities.Invoice{
		{InvoiceNumber: "PI-ORD-AB12CD34"},
		{InvoiceNumber: "TI-ORD-AB12CD34"},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/orders/ord-1/invoices", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var res []response.InvoiceResponse
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("bad response: %v", err)
	}
	if len(res) != 2 {
		t.Fatalf("expected 2 invoices, got %d", len(res))
	}
}
