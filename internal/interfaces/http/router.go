package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jdvergara/extractora-api/internal/application/analytics"
	"github.com/jdvergara/extractora-api/internal/application/auth"
	"github.com/jdvergara/extractora-api/internal/application/reconciliation"
	"github.com/jdvergara/extractora-api/internal/domain/entity"
	"github.com/jdvergara/extractora-api/internal/domain/repository"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC       *auth.AuthUseCase
	Aggregate    *reconciliation.AggregateDayUseCase
	CarryForward *reconciliation.CarryForwardUseCase
	Records      repository.StockRecordRepository
	Units        repository.StorageUnitRepository
	DashboardUC  *analytics.DashboardUseCase
	JWTSecret    string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Registro diario de inventario (protegido)
	stock := protected.Group("/stock")
	stockHandler := NewStockHandler(deps.Aggregate, deps.CarryForward, deps.Records)
	// Solo laboratorio y admin envían el día; operaciones consulta.
	stock.Post("/:domain/days", RequireRole(entity.RoleAdmin, entity.RoleLaboratorio), stockHandler.SubmitDay)
	stock.Get("/:domain/days/:date", stockHandler.GetByDate)
	stock.Get("/:domain/latest", stockHandler.GetLatest)

	// Perfiles de tanques y silos (protegido, solo lectura)
	unitHandler := NewStorageUnitHandler(deps.Units)
	protected.Get("/storage-units", unitHandler.List)

	// Tablero de operaciones (protegido)
	dashboard := protected.Group("/dashboard")
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	dashboard.Get("/yield", dashboardHandler.GetYield)
	dashboard.Get("/trend", dashboardHandler.GetTrend)
}
