package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/Brunux-hub/Cafe-eria.hub/internal/api/dto"
	"github.com/Brunux-hub/Cafe-eria.hub/internal/repository"
	apperrors "github.com/Brunux-hub/Cafe-eria.hub/pkg/util"
)

// UsersHandler exposes admin account management.
type UsersHandler struct {
	users repository.UserRepository
}

// NewUsersHandler constructs the handler.
func NewUsersHandler(users repository.UserRepository) *UsersHandler {
	return &UsersHandler{users: users}
}

// List handles GET /api/users.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	users, err := h.users.List(c.Context(), limit, c.QueryInt("offset", 0))
	if err != nil {
		return apperrors.MapError(err)
	}
	views := make([]dto.UserView, 0, len(users))
	for i := range users {
		views = append(views, dto.NewUserView(&users[i]))
	}
	return c.JSON(fiber.Map{"data": views})
}

// Get handles GET /api/users/:id.
func (h *UsersHandler) Get(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	user, err := h.users.GetByID(c.Context(), id)
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": dto.NewUserView(user)})
}

// Deactivate handles DELETE /api/users/:id (soft delete).
func (h *UsersHandler) Deactivate(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.users.Deactivate(c.Context(), id); err != nil {
		return apperrors.MapError(err)
	}
	return c.SendStatus(http.StatusNoContent)
}
