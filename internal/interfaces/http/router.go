package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/nuplus/warehouses-api/internal/application/auth"
	"github.com/nuplus/warehouses-api/internal/application/tenant"
	"github.com/nuplus/warehouses-api/internal/infrastructure/cache"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Warehouse WarehouseService
	TenantUC  *tenant.UseCase
	AuthUC    *auth.UseCase
	JWTSecret string

	// Cache y límite por minuto para el rate limiter; Cache nil lo desactiva.
	Cache     cache.Client
	RateLimit int
}

// Router registra las rutas de la API bajo /v1.
func Router(app *fiber.App, deps RouterDeps) {
	v1 := app.Group("/v1")

	if deps.Cache != nil && deps.RateLimit > 0 {
		v1.Use(RateLimitMiddleware(deps.Cache, deps.RateLimit, time.Minute))
	}

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	v1.Post("/auth/login", authHandler.Login)

	// Tenants (público: alta y activación)
	tenantHandler := NewTenantHandler(deps.TenantUC)
	tenantGroup := v1.Group("/tenant")
	tenantGroup.Post("/signup", tenantHandler.Signup)
	tenantGroup.Post("/activate", tenantHandler.Activate)

	// Bodega: el tenant viaja en el token o en ?id= (contrato original).
	// Un token presente e inválido corta con 401.
	wh := v1.Group("/warehouse", OptionalAuthMiddleware(deps.JWTSecret))
	warehouseHandler := NewWarehouseHandler(deps.Warehouse)

	wh.Post("/location", warehouseHandler.CreateLocation)
	wh.Get("/location", warehouseHandler.ListLocations)
	wh.Put("/location", warehouseHandler.UpdateLocation)
	wh.Delete("/location", warehouseHandler.DeleteLocation)
	wh.Get("/location/:id", warehouseHandler.GetLocation)

	wh.Post("/stock", warehouseHandler.CreateStock)
	wh.Get("/stock", warehouseHandler.ListStock)
	wh.Put("/stock", warehouseHandler.UpdateStock)
	wh.Delete("/stock", warehouseHandler.DeleteStock)

	wh.Post("/stock/fusion", warehouseHandler.FusionStock)
	wh.Post("/stock/divide", warehouseHandler.DivideStock)
	wh.Post("/stock/group", warehouseHandler.GroupStock)
	wh.Post("/stock/ungroup", warehouseHandler.UngroupStock)
	wh.Post("/stock/change-location", warehouseHandler.ChangeLocationStock)
	wh.Get("/stock/count-location/:id", warehouseHandler.CountLocationStock)
	wh.Get("/stock/:id", warehouseHandler.GetStock)

	wh.Get("/register", warehouseHandler.ListRegisters)
}
