package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/LeaGuevara01/node-sub001/internal/application/purchase"
	"github.com/LeaGuevara01/node-sub001/internal/application/usecase"
	"github.com/LeaGuevara01/node-sub001/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	PurchaseUC      *purchase.UseCase
	PurchaseQueryUC *purchase.QueryUseCase
	CatalogUC       *usecase.CatalogUseCase
	JWTSecret       string
	PrivilegedRoles []string
	Log             *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))
	privileged := RequireRole(deps.PrivilegedRoles...)

	purchaseHandler := NewPurchaseHandler(deps.PurchaseUC, deps.PurchaseQueryUC, deps.Log)
	purchases := api.Group("/purchases")
	// stats antes de /:id para que no se interprete como ID
	purchases.Get("/stats", purchaseHandler.Stats)
	purchases.Get("/", purchaseHandler.List)
	purchases.Get("/:id", purchaseHandler.GetByID)
	purchases.Post("/", privileged, purchaseHandler.Create)
	purchases.Put("/:id", privileged, purchaseHandler.Update)
	purchases.Delete("/:id", privileged, purchaseHandler.Delete)

	catalogHandler := NewCatalogHandler(deps.CatalogUC, deps.Log)
	api.Get("/parts/:id", catalogHandler.GetPart)
	api.Get("/suppliers/:id", catalogHandler.GetSupplier)
}
