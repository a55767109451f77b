package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"golang.org/x/crypto/bcrypt"

	"github.com/nuplus/warehouses-api/internal/application/auth"
	"github.com/nuplus/warehouses-api/internal/application/tenant"
	"github.com/nuplus/warehouses-api/internal/application/warehouse"
	"github.com/nuplus/warehouses-api/internal/infrastructure/cache"
	"github.com/nuplus/warehouses-api/internal/infrastructure/postgres"
	httpRouter "github.com/nuplus/warehouses-api/internal/interfaces/http"
	"github.com/nuplus/warehouses-api/pkg/config"
	"github.com/nuplus/warehouses-api/pkg/crypto"
	"github.com/nuplus/warehouses-api/pkg/logger"
)

// Tenant fijo para pruebas de integración (no pasa por el catálogo maestro).
const testTenantID = 999

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()

	if err := postgres.RunMasterMigrations(cfg.DB.ConnectionString()); err != nil {
		log.Fatal().Err(err).Msg("migraciones de la base maestra")
	}
	masterPool, err := postgres.NewPool(ctx, cfg.DB.ConnectionString())
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a la base maestra")
	}
	defer masterPool.Close()

	box, err := crypto.NewSecretBox(cfg.Tenant.MasterKey)
	if err != nil {
		log.Fatal().Err(err).Msg("clave maestra de tenants")
	}

	tenantRepo := postgres.NewTenantRepository(masterPool)
	router := postgres.NewTenantRouter(tenantRepo, box, log)
	defer router.Close()

	// Tenant de pruebas 999: migra, siembra y registra su pool fuera del catálogo.
	if cfg.Tenant.EnableTestTenant && cfg.Tenant.TestDatabaseURL != "" {
		if err := postgres.RunMigrations(cfg.Tenant.TestDatabaseURL); err != nil {
			log.Fatal().Err(err).Msg("migraciones del tenant de pruebas")
		}
		testPool, err := postgres.NewPool(ctx, cfg.Tenant.TestDatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión al tenant de pruebas")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte("test-password"), 12)
		if err != nil {
			log.Fatal().Err(err).Msg("hash del usuario de pruebas")
		}
		if err := postgres.SeedTestTenant(ctx, testPool, string(hash)); err != nil {
			log.Fatal().Err(err).Msg("seed del tenant de pruebas")
		}
		router.RegisterStatic(testTenantID, testPool)
		log.Info().Int64("tenant_id", testTenantID).Msg("tenant de pruebas registrado")
	}

	warehouseUC := warehouse.NewUseCase(router)
	tenantUC := tenant.NewUseCase(tenantRepo, router, box)
	authUC := auth.NewUseCase(router, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	var cacheClient cache.Client
	if cfg.Redis.RateLimit > 0 {
		rc, err := cache.NewRedisClient(cfg.Redis.Addr)
		if err != nil {
			log.Warn().Err(err).Msg("redis no disponible, rate limiting desactivado")
		} else {
			cacheClient = rc
		}
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "nu+warehouses API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Warehouse: warehouseUC,
		TenantUC:  tenantUC,
		AuthUC:    authUC,
		JWTSecret: cfg.JWT.Secret,
		Cache:     cacheClient,
		RateLimit: cfg.Redis.RateLimit,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
