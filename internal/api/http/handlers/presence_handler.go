package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Brunux-hub/Cafe-eria.hub/internal/api/dto"
	"github.com/Brunux-hub/Cafe-eria.hub/internal/session"
	apperrors "github.com/Brunux-hub/Cafe-eria.hub/pkg/util"
)

// PresenceHandler reads the active-user set. Counts are eventually
// consistent with natural session expiry.
type PresenceHandler struct {
	registry *session.Registry
}

// NewPresenceHandler constructs the handler.
func NewPresenceHandler(registry *session.Registry) *PresenceHandler {
	return &PresenceHandler{registry: registry}
}

// ActiveUsers handles GET /api/sessions/active.
func (h *PresenceHandler) ActiveUsers(c *fiber.Ctx) error {
	subjects, err := h.registry.ListActive(c.Context())
	if err != nil {
		return apperrors.MapError(err)
	}
	count, err := h.registry.CountActive(c.Context())
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": dto.PresenceResponse{ActiveUsers: subjects, Count: count}})
}
