package service

import (
	"context"
	"strings"

	"github.com/Brunux-hub/Cafe-eria.hub/internal/domain"
	"github.com/Brunux-hub/Cafe-eria.hub/internal/events"
	"github.com/Brunux-hub/Cafe-eria.hub/internal/repository"
	apperrors "github.com/Brunux-hub/Cafe-eria.hub/pkg/util"
)

// ProductInput carries product create/update fields.
type ProductInput struct {
	Name        string
	Description string
	Price       float64
	Stock       int
	ImageURL    string
	CategoryID  *int64
}

// ProductService manages the catalog and stock adjustments.
type ProductService struct {
	products   repository.ProductRepository
	dispatcher events.Dispatcher
}

// NewProductService builds the service.
func NewProductService(products repository.ProductRepository, dispatcher events.Dispatcher) *ProductService {
	return &ProductService{products: products, dispatcher: dispatcher}
}

// CreateProduct validates and stores a new product.
func (s *ProductService) CreateProduct(ctx context.Context, input ProductInput) (*domain.Product, error) {
	if err := validateProductInput(input); err != nil {
		return nil, err
	}

	product := &domain.Product{
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		Price:       input.Price,
		Stock:       input.Stock,
		ImageURL:    input.ImageURL,
		CategoryID:  input.CategoryID,
		Active:      true,
	}
	if err := s.products.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// UpdateProduct applies changes to an existing product.
func (s *ProductService) UpdateProduct(ctx context.Context, id int64, input ProductInput) (*domain.Product, error) {
	if err := validateProductInput(input); err != nil {
		return nil, err
	}

	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	product.Name = strings.TrimSpace(input.Name)
	product.Description = input.Description
	product.Price = input.Price
	product.Stock = input.Stock
	product.ImageURL = input.ImageURL
	product.CategoryID = input.CategoryID

	if err := s.products.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// GetProduct loads a single product.
func (s *ProductService) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	return s.products.GetByID(ctx, id)
}

// ListProducts returns catalog entries matching the filter.
func (s *ProductService) ListProducts(ctx context.Context, filter repository.ProductFilter) ([]domain.Product, error) {
	return s.products.List(ctx, filter)
}

// AdjustStock replaces a product's stock level and announces the change.
// The stock write is the transactional outcome; the inventory notification
// is a side effect that cannot fail or roll it back.
func (s *ProductService) AdjustStock(ctx context.Context, id int64, newStock int) (*domain.Product, error) {
	if newStock < 0 {
		return nil, apperrors.NewValidationError("stock must not be negative", nil)
	}

	product, err := s.products.SetStock(ctx, id, newStock)
	if err != nil {
		return nil, err
	}

	s.dispatcher.Publish(ctx, events.New(events.EventStockAdjusted, "", events.StockAdjustedPayload{
		ProductID:   product.ID,
		ProductName: product.Name,
		NewStock:    product.Stock,
	}))
	return product, nil
}

// DeactivateProduct soft-deletes a product.
func (s *ProductService) DeactivateProduct(ctx context.Context, id int64) error {
	return s.products.Deactivate(ctx, id)
}

func validateProductInput(input ProductInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return apperrors.NewValidationError("name required", nil)
	}
	if input.Price <= 0 {
		return apperrors.NewValidationError("price must be positive", nil)
	}
	if input.Stock < 0 {
		return apperrors.NewValidationError("stock must not be negative", nil)
	}
	return nil
}
