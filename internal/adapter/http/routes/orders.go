package routes

import (
	"b2bdesk/internal/adapter/http/handlers"

	"github.com/gin-gonic/gin"
)

const (
	PathOrders     = "/orders"
	PathQuotations = "/quotations"
	PathInvoices   = "/invoices"
	PathPayments   = "/payments"
)

func addOrderRoutes(rg *gin.RouterGroup, orderHandler *handlers.OrderHandler, invoiceHandler *handlers.InvoiceHandler, paymentHandler *handlers.PaymentHandler) {
	orders := rg.Group(PathOrders)
	{
		orders.POST("", orderHandler.CreateOrder)
		orders.GET("", orderHandler.ListOrders)
		orders.GET("/:id", orderHandler.GetOrder)
		orders.PATCH("/:id", orderHandler.UpdateOrder)
		orders.PATCH("/:id/status", orderHandler.UpdateStatus)
		orders.POST("/:id/cancel", orderHandler.CancelOrder)

		orders.POST("/:id/invoices/:type", invoiceHandler.GenerateInvoice)
		orders.GET("/:id/invoices", invoiceHandler.ListOrderInvoices)
	}

	// Quotation workflow actions operate on the same order records.
	quotations := rg.Group(PathQuotations)
	{
		quotations.POST("/:id/accept", orderHandler.AcceptQuote)
		quotations.POST("/:id/reject", orderHandler.RejectQuote)
		quotations.POST("/:id/send-quote", orderHandler.SendQuote)
		quotations.POST("/:id/counter", orderHandler.SubmitCounter)
		quotations.POST("/:id/accept-counter", orderHandler.AcceptCounter)
		quotations.POST("/:id/reject-counter", orderHandler.RejectCounter)
	}

	invoices := rg.Group(PathInvoices)
	{
		invoices.GET("/:number", invoiceHandler.GetInvoice)
	}

	payments := rg.Group(PathPayments)
	{
		payments.POST("/:order_id", paymentHandler.CreatePaymentByOrderID)
		payments.GET("/:order_id", paymentHandler.GetPaymentByOrderID)
	}
}
