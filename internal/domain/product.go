package domain

import "time"

// Product is a sellable cafeteria item.
type Product struct {
	ID          int64
	Name        string
	Description string
	Price       float64
	Stock       int
	ImageURL    string
	CategoryID  *int64
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Category groups products in the catalog.
type Category struct {
	ID          int64
	Name        string
	Description string
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
