package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/Brunux-hub/Cafe-eria.hub/internal/api/dto"
	"github.com/Brunux-hub/Cafe-eria.hub/internal/repository"
	"github.com/Brunux-hub/Cafe-eria.hub/internal/service"
	apperrors "github.com/Brunux-hub/Cafe-eria.hub/pkg/util"
)

// ProductsHandler manages catalog product endpoints.
type ProductsHandler struct {
	products *service.ProductService
}

// NewProductsHandler constructs the handler.
func NewProductsHandler(products *service.ProductService) *ProductsHandler {
	return &ProductsHandler{products: products}
}

// List handles GET /api/products.
func (h *ProductsHandler) List(c *fiber.Ctx) error {
	filter := repository.ProductFilter{
		OnlyActive: c.QueryBool("active", true),
		Limit:      c.QueryInt("limit", 50),
		Offset:     c.QueryInt("offset", 0),
	}
	if raw := c.Query("category_id"); raw != "" {
		categoryID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return apperrors.NewValidationError("invalid category_id", nil)
		}
		filter.CategoryID = &categoryID
	}

	products, err := h.products.ListProducts(c.Context(), filter)
	if err != nil {
		return apperrors.MapError(err)
	}
	views := make([]dto.ProductView, 0, len(products))
	for i := range products {
		views = append(views, dto.NewProductView(&products[i]))
	}
	return c.JSON(fiber.Map{"data": views})
}

// Get handles GET /api/products/:id.
func (h *ProductsHandler) Get(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	product, err := h.products.GetProduct(c.Context(), id)
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": dto.NewProductView(product)})
}

// Create handles POST /api/products.
func (h *ProductsHandler) Create(c *fiber.Ctx) error {
	var req dto.ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	product, err := h.products.CreateProduct(c.Context(), productInput(req))
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewProductView(product)})
}

// Update handles PUT /api/products/:id.
func (h *ProductsHandler) Update(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req dto.ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	product, err := h.products.UpdateProduct(c.Context(), id, productInput(req))
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": dto.NewProductView(product)})
}

// UpdateStock handles PATCH /api/products/:id/stock.
func (h *ProductsHandler) UpdateStock(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req dto.StockUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Stock == nil {
		return apperrors.NewValidationError("stock required", nil)
	}

	product, err := h.products.AdjustStock(c.Context(), id, *req.Stock)
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": dto.NewProductView(product)})
}

// Delete handles DELETE /api/products/:id (soft delete).
func (h *ProductsHandler) Delete(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.products.DeactivateProduct(c.Context(), id); err != nil {
		return apperrors.MapError(err)
	}
	return c.SendStatus(http.StatusNoContent)
}

func productInput(req dto.ProductRequest) service.ProductInput {
	return service.ProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		ImageURL:    req.ImageURL,
		CategoryID:  req.CategoryID,
	}
}

// pathID parses the :id route parameter shared by the CRUD handlers.
func pathID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("invalid id", nil)
	}
	return id, nil
}
