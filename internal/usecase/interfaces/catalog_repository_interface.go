package interfaces

import (
	"context"

	"b2bdesk/internal/domain/entities"
)

// IProductRepository abstracts persistence for the product catalog.
// Implementations may layer a cache in front of the DynamoDB table.

type IProductRepository interface {
	Create(ctx context.Context, p entities.Product) (entities.Product, error)
	GetByID(ctx context.Context, id string) (entities.Product, error)
	List(ctx context.Context) ([]entities.Product, error)
}

// ICustomerRepository abstracts persistence for customer projections.

type ICustomerRepository interface {
	Create(ctx context.Context, c entities.Customer) (entities.Customer, error)
	GetByID(ctx context.Context, id string) (entities.Customer, error)
	List(ctx context.Context) ([]entities.Customer, error)
}
