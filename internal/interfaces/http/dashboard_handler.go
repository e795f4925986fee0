package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jdvergara/extractora-api/internal/application/analytics"
	"github.com/jdvergara/extractora-api/internal/application/dto"
	"github.com/jdvergara/extractora-api/internal/domain"
	"github.com/jdvergara/extractora-api/internal/domain/entity"
)

// DashboardHandler cifras del tablero de operaciones (protegido).
type DashboardHandler struct {
	uc *analytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *analytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetYield godoc
// @Summary      Rendimiento del día con sus insumos
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Param        domain  query  string  true   "cpo | kernel"
// @Param        date    query  string  false  "YYYY-MM-DD (por defecto hoy)"
// @Success      200  {object}  dto.YieldDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/dashboard/yield [get]
func (h *DashboardHandler) GetYield(c *fiber.Ctx) error {
	d := entity.StorageDomain(c.Query("domain", string(entity.DomainCPO)))
	date := time.Now()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "date debe ser YYYY-MM-DD"})
		}
		date = parsed
	}

	result, err := h.uc.GetYield(c.Context(), d, date)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "dominio desconocido"})
		case errors.Is(err, domain.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "sin registro de inventario para la fecha"})
		case errors.Is(err, domain.ErrFeedUnavailable):
			return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "FEED_UNAVAILABLE", Message: "cifra externa no disponible, reintente"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
		}
	}
	return c.JSON(result)
}

// GetTrend godoc
// @Summary      Serie histórica de totales diarios
// @Description  Con el almacén vacío responde una serie ilustrativa marcada
//               con using_sample_data=true.
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Param        domain  query  string  true   "cpo | kernel"
// @Param        days    query  int     false  "días hacia atrás (por defecto 30)"
// @Success      200  {object}  dto.TrendResponse
// @Router       /api/dashboard/trend [get]
func (h *DashboardHandler) GetTrend(c *fiber.Ctx) error {
	d := entity.StorageDomain(c.Query("domain", string(entity.DomainCPO)))
	days := c.QueryInt("days", 0)

	result, err := h.uc.GetTrend(c.Context(), d, days)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "dominio desconocido"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(result)
}
