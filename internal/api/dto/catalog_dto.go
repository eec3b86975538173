package dto

import (
	"time"

	"github.com/Brunux-hub/Cafe-eria.hub/internal/domain"
)

// ProductRequest payload for product create/update.
type ProductRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	ImageURL    string  `json:"image_url"`
	CategoryID  *int64  `json:"category_id"`
}

// StockUpdateRequest payload for stock adjustment.
type StockUpdateRequest struct {
	Stock *int `json:"stock"`
}

// ProductView is the public projection of a product.
type ProductView struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Stock       int       `json:"stock"`
	ImageURL    string    `json:"image_url,omitempty"`
	CategoryID  *int64    `json:"category_id,omitempty"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewProductView projects a domain product.
func NewProductView(product *domain.Product) ProductView {
	return ProductView{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		Stock:       product.Stock,
		ImageURL:    product.ImageURL,
		CategoryID:  product.CategoryID,
		Active:      product.Active,
		CreatedAt:   product.CreatedAt,
		UpdatedAt:   product.UpdatedAt,
	}
}

// CategoryRequest payload for category create/update.
type CategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CategoryView is the public projection of a category.
type CategoryView struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Active      bool   `json:"active"`
}

// NewCategoryView projects a domain category.
func NewCategoryView(category *domain.Category) CategoryView {
	return CategoryView{
		ID:          category.ID,
		Name:        category.Name,
		Description: category.Description,
		Active:      category.Active,
	}
}

// PromotionRequest payload for promotion create/update.
type PromotionRequest struct {
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	DiscountPercent float64   `json:"discount_percent"`
	StartsAt        time.Time `json:"starts_at"`
	EndsAt          time.Time `json:"ends_at"`
	ProductIDs      []int64   `json:"product_ids"`
}

// PromotionView is the public projection of a promotion.
type PromotionView struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	DiscountPercent float64   `json:"discount_percent"`
	StartsAt        time.Time `json:"starts_at"`
	EndsAt          time.Time `json:"ends_at"`
	Active          bool      `json:"active"`
	ProductIDs      []int64   `json:"product_ids"`
}

// NewPromotionView projects a domain promotion.
func NewPromotionView(promotion *domain.Promotion) PromotionView {
	return PromotionView{
		ID:              promotion.ID,
		Name:            promotion.Name,
		Description:     promotion.Description,
		DiscountPercent: promotion.DiscountPercent,
		StartsAt:        promotion.StartsAt,
		EndsAt:          promotion.EndsAt,
		Active:          promotion.Active,
		ProductIDs:      promotion.ProductIDs,
	}
}
