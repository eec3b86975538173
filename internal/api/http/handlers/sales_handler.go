package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/Brunux-hub/Cafe-eria.hub/internal/api/dto"
	"github.com/Brunux-hub/Cafe-eria.hub/internal/auth"
	"github.com/Brunux-hub/Cafe-eria.hub/internal/domain"
	"github.com/Brunux-hub/Cafe-eria.hub/internal/service"
	apperrors "github.com/Brunux-hub/Cafe-eria.hub/pkg/util"
)

// SalesHandler manages sale endpoints.
type SalesHandler struct {
	sales *service.SaleService
}

// NewSalesHandler constructs the handler.
func NewSalesHandler(sales *service.SaleService) *SalesHandler {
	return &SalesHandler{sales: sales}
}

// Create handles POST /api/sales. Clients record their own purchases;
// admins may record a sale on behalf of another user.
func (h *SalesHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateSaleRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	userID := principal.User.ID
	if req.UserID != nil && *req.UserID != userID {
		if principal.Role != domain.RoleAdmin {
			return apperrors.NewForbidden("cannot record sales for another user")
		}
		userID = *req.UserID
	}

	input := service.SaleInput{UserID: userID, PaymentMethod: req.PaymentMethod}
	for _, item := range req.Items {
		input.Items = append(input.Items, service.SaleItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}

	sale, err := h.sales.CreateSale(c.Context(), input)
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewSaleView(sale)})
}

// Get handles GET /api/sales/:id.
func (h *SalesHandler) Get(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	sale, err := h.sales.GetSale(c.Context(), id)
	if err != nil {
		return apperrors.MapError(err)
	}
	if principal.Role != domain.RoleAdmin && sale.UserID != principal.User.ID {
		return apperrors.NewForbidden("not your sale")
	}
	return c.JSON(fiber.Map{"data": dto.NewSaleView(sale)})
}

// ListMine handles GET /api/sales/mine.
func (h *SalesHandler) ListMine(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	sales, err := h.sales.ListUserSales(c.Context(), principal.User.ID, c.QueryInt("limit", 20), c.QueryInt("offset", 0))
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": saleViews(sales)})
}

// StatsRange handles GET /api/sales/stats (admin).
func (h *SalesHandler) StatsRange(c *fiber.Ctx) error {
	from, err := time.Parse(time.RFC3339, c.Query("from"))
	if err != nil {
		return apperrors.NewValidationError("invalid from timestamp", nil)
	}
	to, err := time.Parse(time.RFC3339, c.Query("to"))
	if err != nil {
		return apperrors.NewValidationError("invalid to timestamp", nil)
	}

	stats, err := h.sales.StatsByDateRange(c.Context(), from, to)
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": statsResponse(stats)})
}

// StatsToday handles GET /api/sales/stats/today (admin).
func (h *SalesHandler) StatsToday(c *fiber.Ctx) error {
	stats, err := h.sales.TodayStats(c.Context())
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": statsResponse(stats)})
}

func saleViews(sales []domain.Sale) []dto.SaleView {
	views := make([]dto.SaleView, 0, len(sales))
	for i := range sales {
		views = append(views, dto.NewSaleView(&sales[i]))
	}
	return views
}

func statsResponse(stats *service.SaleStats) dto.SaleStatsResponse {
	return dto.SaleStatsResponse{
		Count: stats.Count,
		Total: stats.Total,
		Sales: saleViews(stats.Sales),
	}
}
