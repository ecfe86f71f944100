package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"b2bdesk/internal/domain/entities"
	"b2bdesk/internal/usecase/interfaces"

	"github.com/google/uuid"
)

var (
	ErrProductNotFound    = errors.New("product not found")
	ErrInvalidProductID   = errors.New("invalid product id")
	ErrInvalidProductName = errors.New("invalid product name")
	ErrCustomerNotFound   = errors.New("customer not found")
	ErrInvalidCustomerID  = errors.New("invalid customer id")
)

// ICatalogUseCase exposes the product and customer projections the order
// workflow looks up (tax rates, HSN codes, buyer state for the GST split).

type ICatalogUseCase interface {
	CreateProduct(ctx context.Context, p entities.Product) (entities.Product, error)
	GetProduct(ctx context.Context, id string) (entities.Product, error)
	ListProducts(ctx context.Context) ([]entities.Product, error)

	CreateCustomer(ctx context.Context, c entities.Customer) (entities.Customer, error)
	GetCustomer(ctx context.Context, id string) (entities.Customer, error)
	ListCustomers(ctx context.Context) ([]entities.Customer, error)
}

type CatalogUseCase struct {
	products  interfaces.IProductRepository
	customers interfaces.ICustomerRepository
}

var _ ICatalogUseCase = (*CatalogUseCase)(nil)

func NewCatalogUseCase(products interfaces.IProductRepository, customers interfaces.ICustomerRepository) *CatalogUseCase {
	return &CatalogUseCase{products: products, customers: customers}
}

func (u *CatalogUseCase) CreateProduct(ctx context.Context, p entities.Product) (entities.Product, error) {
	if strings.TrimSpace(p.Name) == "" {
		return entities.Product{}, ErrInvalidProductName
	}

	now := time.Now().UTC()
	p.ID = uuid.NewString()
	p.CreatedAt = now
	p.UpdatedAt = now
	return u.products.Create(ctx, p)
}

func (u *CatalogUseCase) GetProduct(ctx context.Context, id string) (entities.Product, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.Product{}, ErrInvalidProductID
	}

	p, err := u.products.GetByID(ctx, id)
	if err != nil {
		return entities.Product{}, err
	}
	if p.ID == "" {
		return entities.Product{}, ErrProductNotFound
	}
	return p, nil
}

func (u *CatalogUseCase) ListProducts(ctx context.Context) ([]entities.Product, error) {
	return u.products.List(ctx)
}

func (u *CatalogUseCase) CreateCustomer(ctx context.Context, c entities.Customer) (entities.Customer, error) {
	if strings.TrimSpace(c.Name) == "" {
		return entities.Customer{}, errors.New("invalid customer name")
	}

	now := time.Now().UTC()
	c.ID = uuid.NewString()
	c.CreatedAt = now
	c.UpdatedAt = now
	return u.customers.Create(ctx, c)
}

func (u *CatalogUseCase) GetCustomer(ctx context.Context, id string) (entities.Customer, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.Customer{}, ErrInvalidCustomerID
	}

	c, err := u.customers.GetByID(ctx, id)
	if err != nil {
		return entities.Customer{}, err
	}
	if c.ID == "" {
		return entities.Customer{}, ErrCustomerNotFound
	}
	return c, nil
}

func (u *CatalogUseCase) ListCustomers(ctx context.Context) ([]entities.Customer, error) {
	return u.customers.List(ctx)
}
