package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/Brunux-hub/Cafe-eria.hub/internal/api/dto"
	"github.com/Brunux-hub/Cafe-eria.hub/internal/service"
	apperrors "github.com/Brunux-hub/Cafe-eria.hub/pkg/util"
)

// CatalogHandler manages category and promotion endpoints.
type CatalogHandler struct {
	catalog *service.CatalogService
}

// NewCatalogHandler constructs the handler.
func NewCatalogHandler(catalog *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// ListCategories handles GET /api/categories.
func (h *CatalogHandler) ListCategories(c *fiber.Ctx) error {
	categories, err := h.catalog.ListCategories(c.Context())
	if err != nil {
		return apperrors.MapError(err)
	}
	views := make([]dto.CategoryView, 0, len(categories))
	for i := range categories {
		views = append(views, dto.NewCategoryView(&categories[i]))
	}
	return c.JSON(fiber.Map{"data": views})
}

// CreateCategory handles POST /api/categories.
func (h *CatalogHandler) CreateCategory(c *fiber.Ctx) error {
	var req dto.CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	category, err := h.catalog.CreateCategory(c.Context(), service.CategoryInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewCategoryView(category)})
}

// UpdateCategory handles PUT /api/categories/:id.
func (h *CatalogHandler) UpdateCategory(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req dto.CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	category, err := h.catalog.UpdateCategory(c.Context(), id, service.CategoryInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": dto.NewCategoryView(category)})
}

// DeleteCategory handles DELETE /api/categories/:id (soft delete).
func (h *CatalogHandler) DeleteCategory(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.catalog.DeactivateCategory(c.Context(), id); err != nil {
		return apperrors.MapError(err)
	}
	return c.SendStatus(http.StatusNoContent)
}

// ListPromotions handles GET /api/promotions (current window only).
func (h *CatalogHandler) ListPromotions(c *fiber.Ctx) error {
	promotions, err := h.catalog.ListCurrentPromotions(c.Context())
	if err != nil {
		return apperrors.MapError(err)
	}
	views := make([]dto.PromotionView, 0, len(promotions))
	for i := range promotions {
		views = append(views, dto.NewPromotionView(&promotions[i]))
	}
	return c.JSON(fiber.Map{"data": views})
}

// CreatePromotion handles POST /api/promotions.
func (h *CatalogHandler) CreatePromotion(c *fiber.Ctx) error {
	var req dto.PromotionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	promotion, err := h.catalog.CreatePromotion(c.Context(), promotionInput(req))
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewPromotionView(promotion)})
}

// UpdatePromotion handles PUT /api/promotions/:id.
func (h *CatalogHandler) UpdatePromotion(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req dto.PromotionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	promotion, err := h.catalog.UpdatePromotion(c.Context(), id, promotionInput(req))
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": dto.NewPromotionView(promotion)})
}

// DeletePromotion handles DELETE /api/promotions/:id (soft delete).
func (h *CatalogHandler) DeletePromotion(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.catalog.DeactivatePromotion(c.Context(), id); err != nil {
		return apperrors.MapError(err)
	}
	return c.SendStatus(http.StatusNoContent)
}

func promotionInput(req dto.PromotionRequest) service.PromotionInput {
	return service.PromotionInput{
		Name:            req.Name,
		Description:     req.Description,
		DiscountPercent: req.DiscountPercent,
		StartsAt:        req.StartsAt,
		EndsAt:          req.EndsAt,
		ProductIDs:      req.ProductIDs,
	}
}
