package service

import (
	"context"
	"strings"
	"time"

	"github.com/Brunux-hub/Cafe-eria.hub/internal/domain"
	"github.com/Brunux-hub/Cafe-eria.hub/internal/repository"
	apperrors "github.com/Brunux-hub/Cafe-eria.hub/pkg/util"
)

// CategoryInput carries category create/update fields.
type CategoryInput struct {
	Name        string
	Description string
}

// PromotionInput carries promotion create/update fields.
type PromotionInput struct {
	Name            string
	Description     string
	DiscountPercent float64
	StartsAt        time.Time
	EndsAt          time.Time
	ProductIDs      []int64
}

// CatalogService manages categories and promotions.
type CatalogService struct {
	categories repository.CategoryRepository
	promotions repository.PromotionRepository
}

// NewCatalogService builds the service.
func NewCatalogService(categories repository.CategoryRepository, promotions repository.PromotionRepository) *CatalogService {
	return &CatalogService{categories: categories, promotions: promotions}
}

// CreateCategory validates and stores a category.
func (s *CatalogService) CreateCategory(ctx context.Context, input CategoryInput) (*domain.Category, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.NewValidationError("name required", nil)
	}
	category := &domain.Category{
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		Active:      true,
	}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// UpdateCategory applies changes to an existing category.
func (s *CatalogService) UpdateCategory(ctx context.Context, id int64, input CategoryInput) (*domain.Category, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.NewValidationError("name required", nil)
	}
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	category.Name = strings.TrimSpace(input.Name)
	category.Description = input.Description
	if err := s.categories.Update(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// ListCategories returns active categories.
func (s *CatalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.categories.ListActive(ctx)
}

// DeactivateCategory soft-deletes a category.
func (s *CatalogService) DeactivateCategory(ctx context.Context, id int64) error {
	return s.categories.Deactivate(ctx, id)
}

// CreatePromotion validates and stores a promotion.
func (s *CatalogService) CreatePromotion(ctx context.Context, input PromotionInput) (*domain.Promotion, error) {
	if err := validatePromotionInput(input); err != nil {
		return nil, err
	}
	promotion := &domain.Promotion{
		Name:            strings.TrimSpace(input.Name),
		Description:     input.Description,
		DiscountPercent: input.DiscountPercent,
		StartsAt:        input.StartsAt,
		EndsAt:          input.EndsAt,
		Active:          true,
		ProductIDs:      input.ProductIDs,
	}
	if err := s.promotions.Create(ctx, promotion); err != nil {
		return nil, err
	}
	return promotion, nil
}

// UpdatePromotion applies changes to an existing promotion.
func (s *CatalogService) UpdatePromotion(ctx context.Context, id int64, input PromotionInput) (*domain.Promotion, error) {
	if err := validatePromotionInput(input); err != nil {
		return nil, err
	}
	promotion, err := s.promotions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	promotion.Name = strings.TrimSpace(input.Name)
	promotion.Description = input.Description
	promotion.DiscountPercent = input.DiscountPercent
	promotion.StartsAt = input.StartsAt
	promotion.EndsAt = input.EndsAt
	promotion.ProductIDs = input.ProductIDs
	if err := s.promotions.Update(ctx, promotion); err != nil {
		return nil, err
	}
	return promotion, nil
}

// ListCurrentPromotions returns promotions whose window covers now.
func (s *CatalogService) ListCurrentPromotions(ctx context.Context) ([]domain.Promotion, error) {
	return s.promotions.ListCurrent(ctx, time.Now())
}

// DeactivatePromotion soft-deletes a promotion.
func (s *CatalogService) DeactivatePromotion(ctx context.Context, id int64) error {
	return s.promotions.Deactivate(ctx, id)
}

func validatePromotionInput(input PromotionInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return apperrors.NewValidationError("name required", nil)
	}
	if input.DiscountPercent <= 0 || input.DiscountPercent > 100 {
		return apperrors.NewValidationError("discount percent must be in (0,100]", nil)
	}
	if input.EndsAt.Before(input.StartsAt) {
		return apperrors.NewValidationError("promotion window end precedes start", nil)
	}
	return nil
}
