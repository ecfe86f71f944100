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

	"github.com/google/uuid"
)

var (
	ErrOrderNotFound       = errors.New("order not found")
	ErrInvalidOrderID      = errors.New("invalid order id")
	ErrOrderHasNoLines     = errors.New("order requires at least one line item")
	ErrInvalidQuantity     = errors.New("line quantity must be positive")
	ErrNotQuotation        = errors.New("order is not a quotation")
	ErrInvalidTransition   = errors.New("status transition not allowed")
	ErrInvalidQuotedPrice  = errors.New("quoted price must be positive")
	ErrUnknownOrderProduct = errors.New("price refers to a product not on the order")
	ErrInvalidStatusValue  = errors.New("unknown status value")
)

var orderLog = logger.WithComponent("order-usecase")

// ItemPrice carries a per-line unit price for send-quote and counter-offer
// actions.
type ItemPrice struct {
	ProductID string
	Price     float64
}

// OrderUpdate is the set of staff-editable fields outside the workflow
// actions. Notes is appended to the journal, never overwritten.
type OrderUpdate struct {
	Note         string
	ShippingCost *float64
	Discount     *float64
}

// IOrderUseCase exposes order/quotation CRUD and the quotation workflow.
//
// Workflow summary:
//   - quotations start at quote_requested and move through quote_sent /
//     negotiation until accepted (order_booked) or rejected
//   - firm orders start at order_booked
//   - fulfillment advances forward-only (skips allowed) through the
//     order_booked..completed sequence
//   - cancel is legal from any non-terminal status
//
// Every committed transition re-reads authoritative state, runs the invoice
// status watcher and publishes a status-changed event.

type IOrderUseCase interface {
	Create(ctx context.Context, o entities.Order) (entities.Order, error)
	GetByID(ctx context.Context, id string) (entities.Order, error)
	List(ctx context.Context) ([]entities.Order, error)
	Update(ctx context.Context, id string, upd OrderUpdate) (entities.Order, error)

	AcceptQuoteRequest(ctx context.Context, id, note string) (entities.Order, error)
	RejectQuoteRequest(ctx context.Context, id, reason string) (entities.Order, error)
	SendQuote(ctx context.Context, id string, prices []ItemPrice, note string) (entities.Order, error)
	SubmitCounter(ctx context.Context, id string, prices []ItemPrice, note string) (entities.Order, error)
	AcceptCounter(ctx context.Context, id, note string) (entities.Order, error)
	RejectCounter(ctx context.Context, id, reason string) (entities.Order, error)

	UpdateStatus(ctx context.Context, id string, target entities.OrderStatus, note string) (entities.Order, error)
	Cancel(ctx context.Context, id, reason string) (entities.Order, error)
}

type OrderUseCase struct {
	repo      interfaces.IOrderRepository
	invoices  IInvoiceUseCase
	publisher interfaces.IEventPublisher
}

var _ IOrderUseCase = (*OrderUseCase)(nil)

func NewOrderUseCase(repo interfaces.IOrderRepository, invoices IInvoiceUseCase, publisher interfaces.IEventPublisher) *OrderUseCase {
	return &OrderUseCase{repo: repo, invoices: invoices, publisher: publisher}
}

func (u *OrderUseCase) Create(ctx context.Context, o entities.Order) (entities.Order, error) {
	if len(o.Items) == 0 {
		return entities.Order{}, ErrOrderHasNoLines
	}
	for _, it := range o.Items {
		if it.Quantity <= 0 {
			return entities.Order{}, ErrInvalidQuantity
		}
	}

	now := time.Now().UTC()
	o.ID = uuid.NewString()
	if o.OrderNumber == "" {
		o.OrderNumber = newOrderNumber(o.ID)
	}
	if o.IsQuotation {
		o.Status = entities.StatusQuoteRequested
	} else {
		o.Status = entities.StatusOrderBooked
	}
	o.TotalAmount = orderGrandTotal(o)
	o.GeneratedInvoiceKinds = nil
	o.CreatedAt = now
	o.UpdatedAt = now

	created, err := u.repo.Create(ctx, o)
	if err != nil {
		return entities.Order{}, err
	}

	// A firm order is booked on creation, which already makes the proforma due.
	created = u.runWatcher(ctx, created)
	return created, nil
}

func (u *OrderUseCase) GetByID(ctx context.Context, id string) (entities.Order, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.Order{}, ErrInvalidOrderID
	}

	o, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return entities.Order{}, err
	}
	if o.ID == "" {
		return entities.Order{}, ErrOrderNotFound
	}
	return o, nil
}

func (u *OrderUseCase) List(ctx context.Context) ([]entities.Order, error) {
	return u.repo.List(ctx)
}

func (u *OrderUseCase) Update(ctx context.Context, id string, upd OrderUpdate) (entities.Order, error) {
	o, err := u.GetByID(ctx, id)
	if err != nil {
		return entities.Order{}, err
	}

	if upd.ShippingCost != nil {
		o.ShippingCost = *upd.ShippingCost
	}
	if upd.Discount != nil {
		o.Discount = *upd.Discount
	}
	if upd.Note != "" {
		o.Notes = entities.AppendNote(o.Notes, upd.Note, o.Status.Label(), time.Now().UTC())
	}
	o.TotalAmount = orderGrandTotal(o)
	o.UpdatedAt = time.Now().UTC()

	updated, err := u.repo.Update(ctx, o)
	if err != nil {
		return entities.Order{}, err
	}
	if updated.ID == "" {
		return entities.Order{}, ErrOrderNotFound
	}
	return updated, nil
}

// AcceptQuoteRequest books a fresh quotation at the customer's target prices.
func (u *OrderUseCase) AcceptQuoteRequest(ctx context.Context, id, note string) (entities.Order, error) {
	return u.accept(ctx, id, note, entities.StatusQuoteRequested)
}

// AcceptCounter books a negotiated quotation at the latest counter prices.
func (u *OrderUseCase) AcceptCounter(ctx context.Context, id, note string) (entities.Order, error) {
	return u.accept(ctx, id, note, entities.StatusNegotiation)
}

func (u *OrderUseCase) accept(ctx context.Context, id, note string, expected entities.OrderStatus) (entities.Order, error) {
	o, err := u.quotationInStatus(ctx, id, expected)
	if err != nil {
		return entities.Order{}, err
	}

	// Acceptance locks the quoted price to the customer's target price.
	for i := range o.Items {
		if o.Items[i].TargetPrice != nil {
			v := *o.Items[i].TargetPrice
			o.Items[i].QuotedPrice = &v
		}
	}

	return u.transition(ctx, o, entities.StatusOrderBooked, note)
}

func (u *OrderUseCase) RejectQuoteRequest(ctx context.Context, id, reason string) (entities.Order, error) {
	return u.reject(ctx, id, reason, entities.StatusQuoteRequested)
}

func (u *OrderUseCase) RejectCounter(ctx context.Context, id, reason string) (entities.Order, error) {
	return u.reject(ctx, id, reason, entities.StatusNegotiation)
}

func (u *OrderUseCase) reject(ctx context.Context, id, reason string, expected entities.OrderStatus) (entities.Order, error) {
	o, err := u.quotationInStatus(ctx, id, expected)
	if err != nil {
		return entities.Order{}, err
	}
	return u.transition(ctx, o, entities.StatusRejected, reason)
}

// SendQuote applies staff-entered quoted prices and moves the quotation to
// quote_sent. Legal from quote_requested and from negotiation.
func (u *OrderUseCase) SendQuote(ctx context.Context, id string, prices []ItemPrice, note string) (entities.Order, error) {
	o, err := u.quotationInStatus(ctx, id, entities.StatusQuoteRequested, entities.StatusNegotiation)
	if err != nil {
		return entities.Order{}, err
	}

	if err := applyPrices(&o, prices, func(it *entities.OrderItem, v float64) {
		it.QuotedPrice = &v
	}); err != nil {
		return entities.Order{}, err
	}

	return u.transition(ctx, o, entities.StatusQuoteSent, note)
}

// SubmitCounter records the customer's counter prices against a sent quote
// and opens negotiation.
func (u *OrderUseCase) SubmitCounter(ctx context.Context, id string, prices []ItemPrice, note string) (entities.Order, error) {
	o, err := u.quotationInStatus(ctx, id, entities.StatusQuoteSent)
	if err != nil {
		return entities.Order{}, err
	}

	if err := applyPrices(&o, prices, func(it *entities.OrderItem, v float64) {
		it.TargetPrice = &v
	}); err != nil {
		return entities.Order{}, err
	}

	return u.transition(ctx, o, entities.StatusNegotiation, note)
}

// UpdateStatus performs a direct staff status update within the fulfillment
// regime (start processing, mark shipped, mark delivered, ...).
func (u *OrderUseCase) UpdateStatus(ctx context.Context, id string, target entities.OrderStatus, note string) (entities.Order, error) {
	if !isCanonicalTarget(target) {
		return entities.Order{}, ErrInvalidStatusValue
	}

	o, err := u.GetByID(ctx, id)
	if err != nil {
		return entities.Order{}, err
	}
	if !o.Status.CanAdvanceTo(target) {
		return entities.Order{}, ErrInvalidTransition
	}

	return u.transition(ctx, o, target, note)
}

// Cancel aborts an order from any non-terminal status. Quotations take a
// reject-style note; firm orders a direct status write.
func (u *OrderUseCase) Cancel(ctx context.Context, id, reason string) (entities.Order, error) {
	o, err := u.GetByID(ctx, id)
	if err != nil {
		return entities.Order{}, err
	}
	if o.Status.IsTerminal() {
		return entities.Order{}, ErrInvalidTransition
	}

	if reason == "" && o.IsQuotation {
		reason = "Quotation cancelled"
	}
	return u.transition(ctx, o, entities.StatusCancelled, reason)
}

// transition commits a status change: note appended, totals recomputed,
// record updated, then watcher and event publishing on the committed state.
func (u *OrderUseCase) transition(ctx context.Context, o entities.Order, target entities.OrderStatus, note string) (entities.Order, error) {
	from := o.Status
	now := time.Now().UTC()

	o.Status = target
	if note != "" {
		o.Notes = entities.AppendNote(o.Notes, note, target.Label(), now)
	}
	o.TotalAmount = orderGrandTotal(o)
	o.UpdatedAt = now

	updated, err := u.repo.Update(ctx, o)
	if err != nil {
		return entities.Order{}, err
	}
	if updated.ID == "" {
		return entities.Order{}, ErrOrderNotFound
	}

	orderLog.Info().
		Str("order_id", updated.ID).
		Str("from", string(from)).
		Str("to", string(target)).
		Msg("status transition committed")

	updated = u.runWatcher(ctx, updated)
	u.publish(ctx, updated, from, target, now)
	return updated, nil
}

// runWatcher lets the invoice watcher derive whatever became due. Watcher
// failures do not undo the committed transition; staff can regenerate through
// the explicit invoice endpoint.
func (u *OrderUseCase) runWatcher(ctx context.Context, o entities.Order) entities.Order {
	if u.invoices == nil {
		return o
	}
	updated, err := u.invoices.OnStatusChanged(ctx, o)
	if err != nil {
		orderLog.Error().Err(err).Str("order_id", o.ID).Msg("invoice watcher failed")
		return o
	}
	return updated
}

func (u *OrderUseCase) publish(ctx context.Context, o entities.Order, from, to entities.OrderStatus, at time.Time) {
	if u.publisher == nil {
		return
	}
	evt := entities.StatusChangedEvent{
		OrderID:     o.ID,
		OrderNumber: o.OrderNumber,
		From:        from,
		To:          to,
		At:          at,
	}
	if err := u.publisher.PublishStatusChanged(ctx, evt); err != nil {
		orderLog.Warn().Err(err).Str("order_id", o.ID).Msg("status event publish failed")
	}
}

// quotationInStatus loads a quotation and checks it sits in one of the
// expected negotiation statuses.
func (u *OrderUseCase) quotationInStatus(ctx context.Context, id string, expected ...entities.OrderStatus) (entities.Order, error) {
	o, err := u.GetByID(ctx, id)
	if err != nil {
		return entities.Order{}, err
	}
	if !o.IsQuotation {
		return entities.Order{}, ErrNotQuotation
	}
	for _, s := range expected {
		if o.Status == s {
			return o, nil
		}
	}
	return entities.Order{}, ErrInvalidTransition
}

func applyPrices(o *entities.Order, prices []ItemPrice, set func(*entities.OrderItem, float64)) error {
	for _, p := range prices {
		if p.Price <= 0 {
			return ErrInvalidQuotedPrice
		}
		found := false
		for i := range o.Items {
			if o.Items[i].ProductID == p.ProductID {
				set(&o.Items[i], p.Price)
				found = true
				break
			}
		}
		if !found {
			return ErrUnknownOrderProduct
		}
	}
	return nil
}

func orderGrandTotal(o entities.Order) float64 {
	lines := make([]pricing.Line, 0, len(o.Items))
	for _, it := range o.Items {
		lines = append(lines, pricing.Line{
			Qty:            it.Quantity,
			UnitPrice:      it.EffectiveUnitPrice(),
			TaxRatePercent: it.TaxRate,
		})
	}
	return pricing.Totals(lines, o.ShippingCost, o.Discount).GrandTotal
}

func isCanonicalTarget(s entities.OrderStatus) bool {
	mapped, ok := entities.MapStatusOK(string(s))
	return ok && mapped == s
}

// newOrderNumber derives a human order number from the uuid: "ORD-" plus the
// first eight hex characters, uppercased.
func newOrderNumber(id string) string {
	compact := strings.ReplaceAll(id, "-", "")
	if len(compact) > 8 {
		compact = compact[:8]
	}
	return "ORD-" + strings.ToUpper(compact)
}
