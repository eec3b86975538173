package domain

import "time"

// SaleStatus tracks the lifecycle of a recorded sale.
type SaleStatus string

const (
	SaleStatusCompleted SaleStatus = "COMPLETADO"
	SaleStatusPending   SaleStatus = "PENDIENTE"
	SaleStatusCancelled SaleStatus = "CANCELADO"
)

// Sale records a purchase made by a user.
type Sale struct {
	ID            int64
	UserID        int64
	UserEmail     string
	Total         float64
	PaymentMethod string
	Status        SaleStatus
	VoucherURL    string
	Items         []SaleItem
	SoldAt        time.Time
}

// SaleItem is a single line of a sale.
type SaleItem struct {
	ID        int64
	SaleID    int64
	ProductID int64
	Quantity  int
	UnitPrice float64
	Subtotal  float64
}
