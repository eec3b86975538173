package service

import (
	"context"
	"time"

	"github.com/Brunux-hub/Cafe-eria.hub/internal/domain"
	"github.com/Brunux-hub/Cafe-eria.hub/internal/events"
	"github.com/Brunux-hub/Cafe-eria.hub/internal/repository"
	apperrors "github.com/Brunux-hub/Cafe-eria.hub/pkg/util"
)

// SaleItemInput is one requested line of a sale.
type SaleItemInput struct {
	ProductID int64
	Quantity  int
	UnitPrice float64
}

// SaleInput carries sale creation fields.
type SaleInput struct {
	UserID        int64
	PaymentMethod string
	Items         []SaleItemInput
}

// SaleStats aggregates sales over a period.
type SaleStats struct {
	Count int
	Total float64
	Sales []domain.Sale
}

// SaleService records sales and exposes reporting queries.
type SaleService struct {
	sales      repository.SaleRepository
	users      repository.UserRepository
	dispatcher events.Dispatcher
}

// NewSaleService builds the service.
func NewSaleService(sales repository.SaleRepository, users repository.UserRepository, dispatcher events.Dispatcher) *SaleService {
	return &SaleService{sales: sales, users: users, dispatcher: dispatcher}
}

// CreateSale persists a sale with its line items and announces it on the
// sales topic. The announcement is fire-and-forget: a dropped notification
// never affects the recorded sale.
func (s *SaleService) CreateSale(ctx context.Context, input SaleInput) (*domain.Sale, error) {
	if len(input.Items) == 0 {
		return nil, apperrors.NewValidationError("at least one item required", nil)
	}

	user, err := s.users.GetByID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	sale := &domain.Sale{
		UserID:        user.ID,
		UserEmail:     user.Subject(),
		PaymentMethod: input.PaymentMethod,
		Status:        domain.SaleStatusCompleted,
	}
	for _, item := range input.Items {
		if item.Quantity <= 0 || item.UnitPrice <= 0 {
			return nil, apperrors.NewValidationError("item quantity and unit price must be positive", nil)
		}
		subtotal := float64(item.Quantity) * item.UnitPrice
		sale.Items = append(sale.Items, domain.SaleItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Subtotal:  subtotal,
		})
		sale.Total += subtotal
	}
	if sale.Total <= 0 {
		return nil, apperrors.NewValidationError("sale total must be positive", nil)
	}

	if err := s.sales.Create(ctx, sale); err != nil {
		return nil, err
	}

	s.dispatcher.Publish(ctx, events.New(events.EventSaleCreated, sale.UserEmail, events.SaleCreatedPayload{
		SaleID: sale.ID,
		Total:  sale.Total,
	}))
	return sale, nil
}

// GetSale loads one sale with its items.
func (s *SaleService) GetSale(ctx context.Context, id int64) (*domain.Sale, error) {
	return s.sales.GetByID(ctx, id)
}

// ListUserSales pages through a user's purchase history.
func (s *SaleService) ListUserSales(ctx context.Context, userID int64, limit, offset int) ([]domain.Sale, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.sales.ListByUser(ctx, userID, limit, offset)
}

// StatsByDateRange aggregates sales between two instants.
func (s *SaleService) StatsByDateRange(ctx context.Context, from, to time.Time) (*SaleStats, error) {
	if to.Before(from) {
		return nil, apperrors.NewValidationError("invalid date range", nil)
	}
	sales, err := s.sales.ListByDateRange(ctx, from, to)
	if err != nil {
		return nil, err
	}

	stats := &SaleStats{Count: len(sales), Sales: sales}
	for _, sale := range sales {
		stats.Total += sale.Total
	}
	return stats, nil
}

// TodayStats aggregates the current day's sales.
func (s *SaleService) TodayStats(ctx context.Context) (*SaleStats, error) {
	now := time.Now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return s.StatsByDateRange(ctx, start, now)
}
