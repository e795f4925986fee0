package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jdvergara/extractora-api/internal/application/dto"
	"github.com/jdvergara/extractora-api/internal/application/reconciliation"
	"github.com/jdvergara/extractora-api/internal/domain"
	"github.com/jdvergara/extractora-api/internal/domain/entity"
	"github.com/jdvergara/extractora-api/internal/domain/repository"
)

// StockHandler maneja el envío y consulta del registro diario de inventario
// (protegido).
type StockHandler struct {
	aggregate    *reconciliation.AggregateDayUseCase
	carryForward *reconciliation.CarryForwardUseCase
	records      repository.StockRecordRepository
}

// NewStockHandler construye el handler.
func NewStockHandler(
	aggregate *reconciliation.AggregateDayUseCase,
	carryForward *reconciliation.CarryForwardUseCase,
	records repository.StockRecordRepository,
) *StockHandler {
	return &StockHandler{aggregate: aggregate, carryForward: carryForward, records: records}
}

// SubmitDay godoc
// @Summary      Enviar el inventario de un día
// @Description  mode=production convierte mediciones frescas; mode=no_production
//               deriva el inventario del día anterior menos despachos.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        domain  path  string  true  "cpo | kernel"
// @Param        body    body  dto.SubmitDayRequest  true  "date, mode, included_units, readings, corrections"
// @Success      200  {object}  dto.StockRecordResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/stock/{domain}/days [post]
func (h *StockHandler) SubmitDay(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	d := entity.StorageDomain(c.Params("domain"))
	if !d.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "dominio desconocido"})
	}
	var in dto.SubmitDayRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	date, err := time.Parse("2006-01-02", in.Date)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "date debe ser YYYY-MM-DD"})
	}
	corrections := entity.Corrections{
		Skim:     in.Corrections.Skim,
		Mix:      in.Corrections.Mix,
		LoopBack: in.Corrections.LoopBack,
	}

	var record *entity.DailyStockRecord
	switch in.Mode {
	case entity.ModeProduction:
		readings := make([]reconciliation.ReadingInput, 0, len(in.Readings))
		for _, r := range in.Readings {
			readings = append(readings, reconciliation.ReadingInput{
				UnitID:      r.UnitID,
				Level:       r.Level,
				Temperature: r.Temperature,
				Quality:     r.Quality,
			})
		}
		record, err = h.aggregate.Execute(c.Context(), reconciliation.DayInput{
			Domain:        d,
			Date:          date,
			IncludedUnits: in.IncludedUnits,
			Readings:      readings,
			Corrections:   corrections,
			UserID:        userID,
		})
	case entity.ModeNoProduction:
		record, err = h.carryForward.Execute(c.Context(), reconciliation.CarryForwardInput{
			Domain:      d,
			Date:        date,
			Corrections: corrections,
			UserID:      userID,
		})
	default:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "mode debe ser production o no_production"})
	}
	if err != nil {
		return stockError(c, err)
	}
	return c.JSON(toRecordResponse(record))
}

// GetByDate godoc
// @Summary      Consultar el registro de un día
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        domain  path  string  true  "cpo | kernel"
// @Param        date    path  string  true  "YYYY-MM-DD"
// @Success      200  {object}  dto.StockRecordResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/{domain}/days/{date} [get]
func (h *StockHandler) GetByDate(c *fiber.Ctx) error {
	d := entity.StorageDomain(c.Params("domain"))
	if !d.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "dominio desconocido"})
	}
	date, err := time.Parse("2006-01-02", c.Params("date"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "date debe ser YYYY-MM-DD"})
	}
	record, err := h.records.GetByDate(c.Context(), d, date)
	if err != nil {
		return stockError(c, err)
	}
	return c.JSON(toRecordResponse(record))
}

// GetLatest godoc
// @Summary      Consultar el registro más reciente del dominio
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        domain  path  string  true  "cpo | kernel"
// @Success      200  {object}  dto.StockRecordResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/{domain}/latest [get]
func (h *StockHandler) GetLatest(c *fiber.Ctx) error {
	d := entity.StorageDomain(c.Params("domain"))
	if !d.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "dominio desconocido"})
	}
	record, err := h.records.GetLatest(c.Context(), d)
	if err != nil {
		return stockError(c, err)
	}
	return c.JSON(toRecordResponse(record))
}

func stockError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "registro no encontrado"})
	case errors.Is(err, domain.ErrNoPreviousRecord):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "NO_PREVIOUS_RECORD", Message: "no existe registro del día anterior para arrastrar"})
	case errors.Is(err, domain.ErrFeedUnavailable):
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "FEED_UNAVAILABLE", Message: "cifra externa no disponible, reintente"})
	case errors.Is(err, domain.ErrInclusionViolation):
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "CONTRACT", Message: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}

func toRecordResponse(rec *entity.DailyStockRecord) dto.StockRecordResponse {
	readings := make([]dto.ReadingResponse, 0, len(rec.Readings))
	for _, r := range rec.Readings {
		readings = append(readings, dto.ReadingResponse{
			UnitID:           r.UnitID,
			Level:            r.Level,
			Temperature:      r.Temperature,
			Quantity:         r.Quantity,
			DensityDefaulted: r.DensityDefaulted,
			Quality:          r.Quality,
		})
	}
	return dto.StockRecordResponse{
		ID:            rec.ID,
		Domain:        string(rec.Domain),
		Date:          rec.Date.Format("2006-01-02"),
		Mode:          rec.Mode,
		IncludedUnits: rec.IncludedUnits,
		Readings:      readings,
		Corrections: dto.CorrectionsRequest{
			Skim:     rec.Corrections.Skim,
			Mix:      rec.Corrections.Mix,
			LoopBack: rec.Corrections.LoopBack,
		},
		TotalQuantity: rec.TotalQuantity,
	}
}
