package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"b2bdesk/internal/domain/entities"
	"b2bdesk/internal/domain/pricing"
	"b2bdesk/internal/infrastructure/logger"
	"b2bdesk/internal/usecase/interfaces"
)

var (
	ErrInvoiceNotFound    = errors.New("invoice not found")
	ErrInvalidInvoiceType = errors.New("invalid invoice type")
	ErrOrderHasNoItems    = errors.New("order has no line items")
	ErrInvoiceNotEligible = errors.New("order status not eligible for invoice type")
)

var invoiceLog = logger.WithComponent("invoice-usecase")

// IInvoiceUseCase exposes invoice derivation.
//
// Invoices are derived from orders, generated at most once per type per order:
//   - staff can ask for one explicitly => Generate()
//   - the status watcher produces them on eligibility transitions =>
//     OnStatusChanged(), invoked after every committed order transition

type IInvoiceUseCase interface {
	Generate(ctx context.Context, orderID string, t entities.InvoiceType) (entities.Invoice, error)
	OnStatusChanged(ctx context.Context, o entities.Order) (entities.Order, error)
	GetByNumber(ctx context.Context, invoiceNumber string) (entities.Invoice, error)
	ListByOrderID(ctx context.Context, orderID string) ([]entities.Invoice, error)
}

type InvoiceUseCase struct {
	invoices  interfaces.IInvoiceRepository
	orders    interfaces.IOrderRepository
	customers interfaces.ICustomerRepository

	// sellerState is the fixed GST state of the selling entity; buyer state
	// equality decides the CGST/SGST vs IGST split.
	sellerState string
}

var _ IInvoiceUseCase = (*InvoiceUseCase)(nil)

func NewInvoiceUseCase(
	invoices interfaces.IInvoiceRepository,
	orders interfaces.IOrderRepository,
	customers interfaces.ICustomerRepository,
	sellerState string,
) *InvoiceUseCase {
	return &InvoiceUseCase{
		invoices:    invoices,
		orders:      orders,
		customers:   customers,
		sellerState: sellerState,
	}
}

func (u *InvoiceUseCase) Generate(ctx context.Context, orderID string, t entities.InvoiceType) (entities.Invoice, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return entities.Invoice{}, ErrInvalidOrderID
	}
	if !t.Valid() {
		return entities.Invoice{}, ErrInvalidInvoiceType
	}

	o, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return entities.Invoice{}, err
	}
	if o.ID == "" {
		return entities.Invoice{}, ErrOrderNotFound
	}
	if len(o.Items) == 0 {
		return entities.Invoice{}, ErrOrderHasNoItems
	}
	if !t.Eligible(o.Status) {
		return entities.Invoice{}, ErrInvoiceNotEligible
	}

	// Ordering invariant: a tax invoice never exists without its proforma.
	if t == entities.InvoiceTypeTax && !o.HasGeneratedInvoice(entities.InvoiceTypeProforma) {
		if _, o, err = u.generateOnce(ctx, o, entities.InvoiceTypeProforma); err != nil {
			return entities.Invoice{}, err
		}
	}

	inv, o, err := u.generateOnce(ctx, o, t)
	if err != nil {
		return entities.Invoice{}, err
	}

	if _, err := u.orders.Update(ctx, o); err != nil {
		return entities.Invoice{}, err
	}
	return inv, nil
}

// OnStatusChanged is the status watcher. It inspects the order's canonical
// status and generates whichever invoices became due, proforma before tax,
// each at most once per order. Returns the order with its generated-kinds set
// updated and persisted.
func (u *InvoiceUseCase) OnStatusChanged(ctx context.Context, o entities.Order) (entities.Order, error) {
	if len(o.Items) == 0 {
		return o, nil
	}

	due := make([]entities.InvoiceType, 0, 2)
	if entities.InvoiceTypeProforma.Eligible(o.Status) && !o.HasGeneratedInvoice(entities.InvoiceTypeProforma) {
		due = append(due, entities.InvoiceTypeProforma)
	}
	if entities.InvoiceTypeTax.Eligible(o.Status) && !o.HasGeneratedInvoice(entities.InvoiceTypeTax) {
		due = append(due, entities.InvoiceTypeTax)
	}
	if len(due) == 0 {
		return o, nil
	}

	var err error
	for _, t := range due {
		if _, o, err = u.generateOnce(ctx, o, t); err != nil {
			return o, err
		}
		invoiceLog.Info().
			Str("order_id", o.ID).
			Str("invoice_type", string(t)).
			Str("status", string(o.Status)).
			Msg("invoice generated by status watcher")
	}

	return u.orders.Update(ctx, o)
}

// generateOnce builds and persists one invoice. The conditional put in the
// repository makes a concurrent duplicate collapse into idempotent success;
// either way the order's generated set gains the type.
func (u *InvoiceUseCase) generateOnce(ctx context.Context, o entities.Order, t entities.InvoiceType) (entities.Invoice, entities.Order, error) {
	inv, err := u.build(ctx, o, t)
	if err != nil {
		return entities.Invoice{}, o, err
	}

	created, err := u.invoices.Create(ctx, inv)
	if err != nil {
		return entities.Invoice{}, o, err
	}
	if created.InvoiceNumber == "" {
		// Already generated earlier (e.g. by a concurrent watcher pass).
		existing, err := u.invoices.GetByNumber(ctx, inv.InvoiceNumber)
		if err != nil {
			return entities.Invoice{}, o, err
		}
		created = existing
	}

	o.MarkInvoiceGenerated(t)
	return created, o, nil
}

func (u *InvoiceUseCase) build(ctx context.Context, o entities.Order, t entities.InvoiceType) (entities.Invoice, error) {
	interstate := false
	placeOfSupply := ""
	if o.CustomerID != "" {
		cust, err := u.customers.GetByID(ctx, o.CustomerID)
		if err != nil {
			return entities.Invoice{}, err
		}
		if cust.ID != "" {
			buyerState := cust.Billing.State
			if buyerState == "" {
				buyerState = cust.Shipping.State
			}
			placeOfSupply = buyerState
			interstate = !strings.EqualFold(strings.TrimSpace(buyerState), strings.TrimSpace(u.sellerState))
		}
	}

	lines := make([]pricing.Line, 0, len(o.Items))
	items := make([]entities.InvoiceItem, 0, len(o.Items))
	for _, it := range o.Items {
		l := pricing.Line{Qty: it.Quantity, UnitPrice: it.EffectiveUnitPrice(), TaxRatePercent: it.TaxRate}
		lines = append(lines, l)
		amounts := pricing.BreakdownLine(l)
		items = append(items, entities.InvoiceItem{
			ProductID:     it.ProductID,
			ProductName:   it.ProductName,
			HSNCode:       it.HSNCode,
			Unit:          it.Unit,
			Qty:           it.Quantity,
			Rate:          amounts.Rate,
			TaxableValue:  amounts.TaxableValue,
			TaxPercentage: it.TaxRate,
			TaxAmount:     amounts.TaxAmount,
		})
	}

	summary := pricing.Totals(lines, o.ShippingCost, o.Discount)
	cgst, sgst, igst := pricing.SplitGST(summary.TaxTotal, interstate)

	return entities.Invoice{
		InvoiceNumber: entities.InvoiceNumberFor(t, o.OrderNumber),
		Type:          t,
		OrderID:       o.ID,
		OrderNumber:   o.OrderNumber,
		CustomerID:    o.CustomerID,
		PlaceOfSupply: placeOfSupply,
		Interstate:    interstate,
		Items:         items,
		Subtotal:      summary.Subtotal,
		CGST:          cgst,
		SGST:          sgst,
		IGST:          igst,
		ShippingCost:  o.ShippingCost,
		Discount:      o.Discount,
		RoundOff:      summary.RoundOff,
		GrandTotal:    summary.GrandTotal,
		IssuedAt:      time.Now().UTC(),
	}, nil
}

func (u *InvoiceUseCase) GetByNumber(ctx context.Context, invoiceNumber string) (entities.Invoice, error) {
	invoiceNumber = strings.TrimSpace(invoiceNumber)
	if invoiceNumber == "" {
		return entities.Invoice{}, ErrInvoiceNotFound
	}

	inv, err := u.invoices.GetByNumber(ctx, invoiceNumber)
	if err != nil {
		return entities.Invoice{}, err
	}
	if inv.InvoiceNumber == "" {
		return entities.Invoice{}, ErrInvoiceNotFound
	}
	return inv, nil
}

func (u *InvoiceUseCase) ListByOrderID(ctx context.Context, orderID string) ([]entities.Invoice, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return nil, ErrInvalidOrderID
	}
	return u.invoices.ListByOrderID(ctx, orderID)
}
