package dto

import (
	"time"

	"github.com/Brunux-hub/Cafe-eria.hub/internal/domain"
)

// SaleItemRequest is one requested line of a sale.
type SaleItemRequest struct {
	ProductID int64   `json:"product_id"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

// CreateSaleRequest payload for recording a sale.
type CreateSaleRequest struct {
	UserID        *int64            `json:"user_id"`
	PaymentMethod string            `json:"payment_method"`
	Items         []SaleItemRequest `json:"items"`
}

// SaleItemView is the public projection of a sale line.
type SaleItemView struct {
	ProductID int64   `json:"product_id"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Subtotal  float64 `json:"subtotal"`
}

// SaleView is the public projection of a sale.
type SaleView struct {
	ID            int64             `json:"id"`
	UserID        int64             `json:"user_id"`
	Username      string            `json:"username"`
	Total         float64           `json:"total"`
	PaymentMethod string            `json:"payment_method"`
	Status        domain.SaleStatus `json:"status"`
	SoldAt        time.Time         `json:"sold_at"`
	Items         []SaleItemView    `json:"items,omitempty"`
}

// NewSaleView projects a domain sale.
func NewSaleView(sale *domain.Sale) SaleView {
	view := SaleView{
		ID:            sale.ID,
		UserID:        sale.UserID,
		Username:      sale.UserEmail,
		Total:         sale.Total,
		PaymentMethod: sale.PaymentMethod,
		Status:        sale.Status,
		SoldAt:        sale.SoldAt,
	}
	for _, item := range sale.Items {
		view.Items = append(view.Items, SaleItemView{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Subtotal:  item.Subtotal,
		})
	}
	return view
}

// SaleStatsResponse aggregates sales for reporting endpoints.
type SaleStatsResponse struct {
	Count int        `json:"count"`
	Total float64    `json:"total"`
	Sales []SaleView `json:"sales"`
}
