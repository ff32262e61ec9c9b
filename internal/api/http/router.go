package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/catalog-service/internal/api/http/handlers"
	"github.com/spec-kit/catalog-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	APIPrefix  string
	Health     *handlers.HealthHandler
	Users      *handlers.UsersHandler
	Categories *handlers.CategoriesHandler
	Products   *handlers.ProductsHandler
	Orders     *handlers.OrdersHandler
	Gate       *auth.Gate
}

// RegisterRoutes wires HTTP routes. The access gate runs before every
// handler; per-route access comes from the policy table, not from
// route-local middleware.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Use(cfg.Gate.Handle)

	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group(cfg.APIPrefix)

	users := api.Group("/users")
	users.Post("/register", cfg.Users.Register)
	users.Post("/login", cfg.Users.Login)
	users.Get("/count", cfg.Users.Count)
	users.Get("/", cfg.Users.List)
	users.Post("/", cfg.Users.Create)
	users.Get("/:id", cfg.Users.Get)
	users.Delete("/:id", cfg.Users.Delete)

	categories := api.Group("/categories")
	categories.Get("/", cfg.Categories.List)
	categories.Post("/", cfg.Categories.Create)
	categories.Get("/:id", cfg.Categories.Get)
	categories.Put("/:id", cfg.Categories.Update)
	categories.Delete("/:id", cfg.Categories.Delete)

	products := api.Group("/products")
	products.Get("/count", cfg.Products.Count)
	products.Get("/featured/:count?", cfg.Products.Featured)
	products.Get("/", cfg.Products.List)
	products.Post("/", cfg.Products.Create)
	products.Get("/:id", cfg.Products.Get)
	products.Put("/:id/gallery", cfg.Products.UpdateGallery)
	products.Put("/:id", cfg.Products.Update)
	products.Delete("/:id", cfg.Products.Delete)

	orders := api.Group("/orders")
	orders.Get("/count", cfg.Orders.Count)
	orders.Get("/totalsales", cfg.Orders.TotalSales)
	orders.Get("/user/:userid", cfg.Orders.ListByUser)
	orders.Get("/", cfg.Orders.List)
	orders.Post("/", cfg.Orders.Create)
	orders.Get("/:id", cfg.Orders.Get)
	orders.Put("/:id/status", cfg.Orders.UpdateStatus)
	orders.Delete("/:id", cfg.Orders.Delete)
}
