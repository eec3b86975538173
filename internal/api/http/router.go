package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Brunux-hub/Cafe-eria.hub/internal/api/http/handlers"
	"github.com/Brunux-hub/Cafe-eria.hub/internal/auth"
	"github.com/Brunux-hub/Cafe-eria.hub/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Users          *handlers.UsersHandler
	Products       *handlers.ProductsHandler
	Catalog        *handlers.CatalogHandler
	Sales          *handlers.SalesHandler
	Presence       *handlers.PresenceHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)

	authProtected := authGroup.Group("", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	authProtected.Post("/logout", cfg.Auth.Logout)
	authProtected.Post("/renew", cfg.Auth.Renew)
	authProtected.Get("/me", cfg.Auth.Me)

	// Catalog reads are public; writes are admin-only.
	api.Get("/products", cfg.Products.List)
	api.Get("/products/:id", cfg.Products.Get)
	api.Get("/categories", cfg.Catalog.ListCategories)
	api.Get("/promotions", cfg.Catalog.ListPromotions)

	adminOnly := []fiber.Handler{cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleAdmin)}

	api.Post("/products", append(adminOnly, cfg.Products.Create)...)
	api.Put("/products/:id", append(adminOnly, cfg.Products.Update)...)
	api.Patch("/products/:id/stock", append(adminOnly, cfg.Products.UpdateStock)...)
	api.Delete("/products/:id", append(adminOnly, cfg.Products.Delete)...)

	api.Post("/categories", append(adminOnly, cfg.Catalog.CreateCategory)...)
	api.Put("/categories/:id", append(adminOnly, cfg.Catalog.UpdateCategory)...)
	api.Delete("/categories/:id", append(adminOnly, cfg.Catalog.DeleteCategory)...)

	api.Post("/promotions", append(adminOnly, cfg.Catalog.CreatePromotion)...)
	api.Put("/promotions/:id", append(adminOnly, cfg.Catalog.UpdatePromotion)...)
	api.Delete("/promotions/:id", append(adminOnly, cfg.Catalog.DeletePromotion)...)

	sales := api.Group("/sales", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	sales.Post("", cfg.Sales.Create)
	sales.Get("/mine", cfg.Sales.ListMine)
	sales.Get("/stats", auth.RequireRole(domain.RoleAdmin), cfg.Sales.StatsRange)
	sales.Get("/stats/today", auth.RequireRole(domain.RoleAdmin), cfg.Sales.StatsToday)
	sales.Get("/:id", cfg.Sales.Get)

	api.Get("/users", append(adminOnly, cfg.Users.List)...)
	api.Get("/users/:id", append(adminOnly, cfg.Users.Get)...)
	api.Delete("/users/:id", append(adminOnly, cfg.Users.Deactivate)...)

	api.Get("/sessions/active", append(adminOnly, cfg.Presence.ActiveUsers)...)
}
