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

	"github.com/jdvergara/extractora-api/internal/application/analytics"
	"github.com/jdvergara/extractora-api/internal/application/auth"
	"github.com/jdvergara/extractora-api/internal/application/reconciliation"
	infrafeeds "github.com/jdvergara/extractora-api/internal/infrastructure/feeds"
	"github.com/jdvergara/extractora-api/internal/infrastructure/postgres"
	httpRouter "github.com/jdvergara/extractora-api/internal/interfaces/http"
	"github.com/jdvergara/extractora-api/internal/scheduler"
	"github.com/jdvergara/extractora-api/pkg/config"
	"github.com/jdvergara/extractora-api/pkg/logger"
)

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
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	recordRepo := postgres.NewStockRecordRepository(pool)
	unitRepo := postgres.NewStorageUnitRepository(pool)
	densityRepo := postgres.NewDensityRepository(pool)
	analyticsRepo := postgres.NewAnalyticsRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Feeds externos: tablas locales por defecto, ERP comercial vía REST si
	// FEEDS_MODE=http.
	var (
		salesFeed      reconciliation.SalesFeed
		productionFeed reconciliation.ProductionFeed
	)
	if cfg.Feeds.Mode == "http" {
		erp := infrafeeds.NewERPClient(cfg.Feeds, cfg.Engine)
		salesFeed, productionFeed = erp, erp
		log.Info().Str("base_url", cfg.Feeds.BaseURL).Msg("feeds externos vía ERP")
	} else {
		local := postgres.NewFeedsRepository(pool, cfg.Engine.CPOProductID, cfg.Engine.KernelProductID)
		salesFeed, productionFeed = local, local
	}

	engineLog := log.Component("engine")
	aggregateUC := reconciliation.NewAggregateDayUseCase(
		txRunner, unitRepo, densityRepo, cfg.Engine.DefaultDensity, engineLog,
	)
	carryForwardUC := reconciliation.NewCarryForwardUseCase(
		recordRepo, txRunner, unitRepo, densityRepo, salesFeed,
		cfg.Engine.DefaultDensity, engineLog,
	)
	dashboardUC := analytics.NewDashboardUseCase(recordRepo, analyticsRepo, salesFeed, productionFeed)
	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	// Arrastre automático nocturno para días sin envío manual.
	var sched *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		sched = scheduler.New(recordRepo, carryForwardUC, cfg.Scheduler.CronSpec, log.Component("scheduler"))
		if err := sched.Start(); err != nil {
			log.Fatal().Err(err).Msg("programar arrastre automático")
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
		Title:    "Extractora API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:       authUC,
		Aggregate:    aggregateUC,
		CarryForward: carryForwardUC,
		Records:      recordRepo,
		Units:        unitRepo,
		DashboardUC:  dashboardUC,
		JWTSecret:    cfg.JWT.Secret,
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

	if sched != nil {
		sched.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
