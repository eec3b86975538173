package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/Brunux-hub/Cafe-eria.hub/internal/domain"
	"github.com/Brunux-hub/Cafe-eria.hub/internal/repository"
	"github.com/Brunux-hub/Cafe-eria.hub/internal/session"
	apperrors "github.com/Brunux-hub/Cafe-eria.hub/pkg/util"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller.
type Principal struct {
	Subject string
	Role    domain.Role
	User    *domain.User
}

// AuthMiddleware validates bearer tokens, re-checks them against the session
// registry, and loads principals.
type AuthMiddleware struct {
	tokens   *TokenManager
	registry *session.Registry
	users    repository.UserRepository
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, registry *session.Registry, users repository.UserRepository) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, registry: registry, users: users}
}

// Handle enforces authentication for protected routes. A structurally valid
// token is still rejected when the registry holds a newer one for the same
// subject; registry outages fail closed.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}
	tokenStr := parts[1]

	claims, err := m.tokens.ParseToken(tokenStr)
	if err != nil {
		if errors.Is(err, domain.ErrTokenExpired) {
			return apperrors.MapError(err)
		}
		return apperrors.NewUnauthorized("invalid token")
	}

	current, err := m.registry.IsValid(c.Context(), claims.Subject, tokenStr)
	if err != nil {
		return apperrors.MapError(err)
	}
	if !current {
		return apperrors.MapError(domain.ErrTokenSuperseded)
	}

	user, err := m.users.GetByEmail(c.Context(), claims.Subject)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewUnauthorized("user not found")
		}
		return apperrors.MapError(err)
	}
	if !user.Active {
		return apperrors.MapError(domain.ErrInactiveAccount)
	}

	c.Locals(principalKey, &Principal{Subject: claims.Subject, Role: claims.Role, User: user})
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
