package domain

import "time"

// Promotion applies a percentage discount to a set of products during a window.
type Promotion struct {
	ID              int64
	Name            string
	Description     string
	DiscountPercent float64
	StartsAt        time.Time
	EndsAt          time.Time
	Active          bool
	ProductIDs      []int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Current reports whether the promotion window covers the given instant.
func (p *Promotion) Current(now time.Time) bool {
	return p.Active && !now.Before(p.StartsAt) && !now.After(p.EndsAt)
}
