package interfaces

import (
	"context"

	"b2bdesk/internal/domain/entities"
)

// IInvoiceRepository abstracts DynamoDB persistence for Invoice.
//
// Create is conditional on the invoice number not existing yet; when the
// invoice was already generated it returns a zero-value Invoice and no error,
// which callers treat as idempotent success.

type IInvoiceRepository interface {
	Create(ctx context.Context, inv entities.Invoice) (entities.Invoice, error)
	GetByNumber(ctx context.Context, invoiceNumber string) (entities.Invoice, error)
	ListByOrderID(ctx context.Context, orderID string) ([]entities.Invoice, error)
}
