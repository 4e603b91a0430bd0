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
	"github.com/shopspring/decimal"

	"github.com/LeaGuevara01/node-sub001/internal/application/purchase"
	"github.com/LeaGuevara01/node-sub001/internal/application/usecase"
	domainpurchase "github.com/LeaGuevara01/node-sub001/internal/domain/purchase"
	"github.com/LeaGuevara01/node-sub001/internal/domain/repository"
	"github.com/LeaGuevara01/node-sub001/internal/infrastructure/cache"
	"github.com/LeaGuevara01/node-sub001/internal/infrastructure/memory"
	"github.com/LeaGuevara01/node-sub001/internal/infrastructure/postgres"
	httpRouter "github.com/LeaGuevara01/node-sub001/internal/interfaces/http"
	"github.com/LeaGuevara01/node-sub001/pkg/config"
	"github.com/LeaGuevara01/node-sub001/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.Inventory.StorageDriver).
		Str("stock_policy", cfg.Inventory.StockPolicy).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es requerido")
	}
	// Montos como número JSON (no string).
	decimal.MarshalJSONWithoutQuotes = true

	policy, err := domainpurchase.ParsePolicy(cfg.Inventory.StockPolicy)
	if err != nil {
		log.Fatal().Err(err).Msg("STOCK_POLICY inválida")
	}
	reconciler := domainpurchase.NewReconciler(policy)

	ctx := context.Background()
	checks := map[string]httpRouter.Pinger{}

	var (
		txRunner  purchase.TxRunner
		purchases repository.PurchaseRepository
		parts     repository.PartRepository
		suppliers repository.SupplierRepository
	)
	switch cfg.Inventory.StorageDriver {
	case "memory":
		store := memory.NewStore()
		store.SeedDemo()
		txRunner, purchases, parts, suppliers = store, store.Purchases(), store.Parts(), store.Suppliers()
		log.Warn().Msg("usando almacenamiento en memoria: los datos se pierden al reiniciar")
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		applied, err := postgres.Migrate(ctx, pool)
		if err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		for _, name := range applied {
			log.Info().Str("migration", name).Msg("migración aplicada")
		}
		txRunner = postgres.NewTxRunner(pool)
		purchases = postgres.NewPurchaseRepository(pool)
		parts = postgres.NewPartRepository(pool)
		suppliers = postgres.NewSupplierRepository(pool)
		checks["db"] = pool.Ping
	}

	var statsCache purchase.StatsCache
	if cfg.Redis.URL != "" {
		rdb, err := cache.NewRedis(ctx, cfg.Redis.URL)
		if err != nil {
			// La caché es opcional: sin Redis las estadísticas se calculan siempre.
			log.Warn().Err(err).Msg("Redis no disponible, estadísticas sin caché")
		} else {
			defer rdb.Close()
			statsCache = cache.NewStatsCache(rdb, cfg.Redis.StatsTTL)
			checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		}
	}

	purchaseUC := purchase.NewUseCase(txRunner, reconciler, statsCache, log)
	purchaseQueryUC := purchase.NewQueryUseCase(purchases, statsCache, log)
	catalogUC := usecase.NewCatalogUseCase(parts, suppliers)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(cfg.HTTP.SwaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.HTTP.SwaggerFile,
			Path:     "docs",
			Title:    "Agro Purchases API",
		}))
	} else {
		log.Warn().Str("file", cfg.HTTP.SwaggerFile).Msg("swagger deshabilitado: archivo no encontrado")
	}

	app.Get("/health", httpRouter.Health(cfg.App.Name, checks))

	httpRouter.Router(app, httpRouter.RouterDeps{
		PurchaseUC:      purchaseUC,
		PurchaseQueryUC: purchaseQueryUC,
		CatalogUC:       catalogUC,
		JWTSecret:       cfg.JWT.Secret,
		PrivilegedRoles: cfg.Auth.PrivilegedRoles,
		Log:             log,
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
