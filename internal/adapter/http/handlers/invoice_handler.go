package handlers

import (
	"errors"
	"net/http"

	response "b2bdesk/internal/adapter/http/dto/response"
	"b2bdesk/internal/domain/entities"
	"b2bdesk/internal/usecase"
	"b2bdesk/pkg"

	"github.com/gin-gonic/gin"
)

// InvoiceHandler handles HTTP requests for invoices. Invoices are derived
// from orders; the only write operation is an explicit (re)generate, used
// when the status watcher could not run.

type InvoiceHandler struct {
	usecase usecase.IInvoiceUseCase
}

func NewInvoiceHandler(uc usecase.IInvoiceUseCase) *InvoiceHandler {
	return &InvoiceHandler{usecase: uc}
}

// GenerateInvoice generates (idempotently) the invoice of the given type for
// an order. type is "proforma" or "tax".
func (h *InvoiceHandler) GenerateInvoice(c *gin.Context) {
	t := entities.InvoiceType(c.Param("type"))

	inv, err := h.usecase.Generate(c.Request.Context(), c.Param("id"), t)
	if err != nil {
		appErr := mapInvoiceError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusCreated, response.FromInvoice(inv))
}

func (h *InvoiceHandler) GetInvoice(c *gin.Context) {
	inv, err := h.usecase.GetByNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		appErr := mapInvoiceError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusOK, response.FromInvoice(inv))
}

func (h *InvoiceHandler) ListOrderInvoices(c *gin.Context) {
	invoices, err := h.usecase.ListByOrderID(c.Request.Context(), c.Param("id"))
	if err != nil {
		appErr := mapInvoiceError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusOK, response.FromInvoices(invoices))
}

func mapInvoiceError(err error) *pkg.AppError {
	switch {
	case errors.Is(err, usecase.ErrInvalidOrderID), errors.Is(err, usecase.ErrInvalidInvoiceType):
		return pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrOrderHasNoItems):
		return pkg.NewDomainErrorSimple("ORDER_HAS_NO_ITEMS", "Order has no line items to invoice", http.StatusUnprocessableEntity)
	case errors.Is(err, usecase.ErrInvoiceNotEligible):
		return pkg.NewDomainErrorSimple("INVOICE_NOT_ELIGIBLE", "Order status not eligible for this invoice type", http.StatusConflict)
	case errors.Is(err, usecase.ErrOrderNotFound):
		return pkg.NewDomainErrorSimple("ORDER_NOT_FOUND", "Order not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrInvoiceNotFound):
		return pkg.NewDomainErrorSimple("INVOICE_NOT_FOUND", "Invoice not found", http.StatusNotFound)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}
