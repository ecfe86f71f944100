package handlers

import (
	"context"
	"errors"
	"net/http"

	request "b2bdesk/internal/adapter/http/dto/request"
	response "b2bdesk/internal/adapter/http/dto/response"
	"b2bdesk/internal/domain/entities"
	"b2bdesk/internal/usecase"
	"b2bdesk/pkg"

	"github.com/gin-gonic/gin"
)

var (
	errInvalidOrderPayload = pkg.NewDomainErrorSimple("INVALID_ORDER_INPUT", "Invalid order payload", http.StatusBadRequest)
)

// OrderHandler handles HTTP requests for orders and the quotation workflow.

type OrderHandler struct {
	usecase usecase.IOrderUseCase
}

func NewOrderHandler(uc usecase.IOrderUseCase) *OrderHandler {
	return &OrderHandler{usecase: uc}
}

// CreateOrder creates an order, or a quotation when is_quotation is set.
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var payload request.OrderCreateRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidOrderPayload.HTTPStatus, errInvalidOrderPayload.ToHTTPError())
		return
	}

	o, err := payload.ToEntity()
	if err != nil {
		c.JSON(errInvalidOrderPayload.HTTPStatus, errInvalidOrderPayload.ToHTTPError())
		return
	}

	created, err := h.usecase.Create(c.Request.Context(), o)
	if err != nil {
		appErr := mapOrderError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusCreated, response.FromOrder(created))
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	o, err := h.usecase.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		appErr := mapOrderError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusOK, response.FromOrder(o))
}

func (h *OrderHandler) ListOrders(c *gin.Context) {
	orders, err := h.usecase.List(c.Request.Context())
	if err != nil {
		appErr := mapOrderError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusOK, response.FromOrders(orders))
}

// UpdateOrder edits shipping cost, discount and appends a note. Totals are
// recomputed server-side.
func (h *OrderHandler) UpdateOrder(c *gin.Context) {
	var payload request.OrderUpdateRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidOrderPayload.HTTPStatus, errInvalidOrderPayload.ToHTTPError())
		return
	}

	updated, err := h.usecase.Update(c.Request.Context(), c.Param("id"), usecase.OrderUpdate{
		Note:         payload.Note,
		ShippingCost: payload.ShippingCost,
		Discount:     payload.Discount,
	})
	if err != nil {
		appErr := mapOrderError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusOK, response.FromOrder(updated))
}

// UpdateStatus moves an order to a target status. Legacy uppercase aliases
// are accepted; unknown values are rejected rather than silently mapped.
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	var payload request.StatusUpdateRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidOrderPayload.HTTPStatus, errInvalidOrderPayload.ToHTTPError())
		return
	}

	target, ok := payload.ResolveStatus()
	if !ok {
		appErr := pkg.NewDomainErrorSimple("INVALID_STATUS", "Unknown status value", http.StatusBadRequest)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	updated, err := h.usecase.UpdateStatus(c.Request.Context(), c.Param("id"), target, payload.Note)
	if err != nil {
		appErr := mapOrderError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusOK, response.FromOrder(updated))
}

func (h *OrderHandler) CancelOrder(c *gin.Context) {
	var payload request.QuoteActionRequest
	_ = c.ShouldBindJSON(&payload) // body is optional for cancel

	updated, err := h.usecase.Cancel(c.Request.Context(), c.Param("id"), payload.Note)
	if err != nil {
		appErr := mapOrderError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusOK, response.FromOrder(updated))
}

// AcceptQuote books a fresh quotation at the customer's target prices.
func (h *OrderHandler) AcceptQuote(c *gin.Context) {
	h.quoteAction(c, h.usecase.AcceptQuoteRequest)
}

func (h *OrderHandler) RejectQuote(c *gin.Context) {
	h.quoteAction(c, h.usecase.RejectQuoteRequest)
}

func (h *OrderHandler) AcceptCounter(c *gin.Context) {
	h.quoteAction(c, h.usecase.AcceptCounter)
}

func (h *OrderHandler) RejectCounter(c *gin.Context) {
	h.quoteAction(c, h.usecase.RejectCounter)
}

// SendQuote applies staff-entered per-line quoted prices and moves the
// quotation to quote_sent.
func (h *OrderHandler) SendQuote(c *gin.Context) {
	h.quotePricesAction(c, h.usecase.SendQuote)
}

// SubmitCounter records the customer's counter prices and opens negotiation.
func (h *OrderHandler) SubmitCounter(c *gin.Context) {
	h.quotePricesAction(c, h.usecase.SubmitCounter)
}

func (h *OrderHandler) quoteAction(
	c *gin.Context,
	action func(ctx context.Context, id, note string) (entities.Order, error),
) {
	var payload request.QuoteActionRequest
	_ = c.ShouldBindJSON(&payload) // note is optional

	updated, err := action(c.Request.Context(), c.Param("id"), payload.Note)
	if err != nil {
		appErr := mapOrderError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusOK, response.FromOrder(updated))
}

func (h *OrderHandler) quotePricesAction(
	c *gin.Context,
	action func(ctx context.Context, id string, prices []usecase.ItemPrice, note string) (entities.Order, error),
) {
	var payload request.QuotePricesRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidOrderPayload.HTTPStatus, errInvalidOrderPayload.ToHTTPError())
		return
	}

	prices := make([]usecase.ItemPrice, 0, len(payload.Prices))
	for _, p := range payload.Prices {
		prices = append(prices, usecase.ItemPrice{ProductID: p.ProductID, Price: p.Price})
	}

	updated, err := action(c.Request.Context(), c.Param("id"), prices, payload.Note)
	if err != nil {
		appErr := mapOrderError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusOK, response.FromOrder(updated))
}

func mapOrderError(err error) *pkg.AppError {
	switch {
	case errors.Is(err, usecase.ErrInvalidOrderID),
		errors.Is(err, usecase.ErrOrderHasNoLines),
		errors.Is(err, usecase.ErrInvalidQuantity),
		errors.Is(err, usecase.ErrInvalidQuotedPrice),
		errors.Is(err, usecase.ErrUnknownOrderProduct),
		errors.Is(err, usecase.ErrInvalidStatusValue):
		return pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrOrderNotFound):
		return pkg.NewDomainErrorSimple("ORDER_NOT_FOUND", "Order not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrNotQuotation):
		return pkg.NewDomainErrorSimple("NOT_A_QUOTATION", "Order is not a quotation", http.StatusConflict)
	case errors.Is(err, usecase.ErrInvalidTransition):
		return pkg.NewDomainErrorSimple("INVALID_TRANSITION", "Status transition not allowed", http.StatusConflict)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}
