package interfaces

import (
	"context"

	"b2bdesk/internal/domain/entities"
)

// IOrderRepository abstracts DynamoDB persistence for Order.
//
// The workflow layer must be able to:
//   - create an order or quotation
//   - load authoritative state by id (transitions always re-read, never
//     mutate optimistically)
//   - commit a full updated record (status, items, notes, totals, generated
//     invoice kinds) conditioned on the record existing

type IOrderRepository interface {
	Create(ctx context.Context, o entities.Order) (entities.Order, error)
	GetByID(ctx context.Context, id string) (entities.Order, error)
	List(ctx context.Context) ([]entities.Order, error)
	Update(ctx context.Context, o entities.Order) (entities.Order, error)
}
