package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/calzastore/internal/application/catalog"
	"github.com/tu-usuario/calzastore/internal/application/order"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	SyncUC    *catalog.SyncUseCase
	OrderUC   *order.UseCase
	JWTSecret string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Catálogo (público, como en la tienda)
	catalogHandler := NewCatalogHandler(deps.SyncUC)
	api.Get("/shoes", catalogHandler.List)
	api.Get("/sync-shoes", catalogHandler.Sync)
	api.Get("/proxy", catalogHandler.Proxy)

	// Pedidos (requieren Bearer Token del proveedor de identidad)
	ordersGroup := api.Group("/orders", AuthMiddleware(deps.JWTSecret))
	orderHandler := NewOrderHandler(deps.OrderUC)
	ordersGroup.Post("/", orderHandler.Create)
	ordersGroup.Get("/", orderHandler.List)
}
