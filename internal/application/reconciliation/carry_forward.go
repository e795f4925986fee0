package reconciliation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jdvergara/extractora-api/internal/domain"
	"github.com/jdvergara/extractora-api/internal/domain/conversion"
	"github.com/jdvergara/extractora-api/internal/domain/entity"
	"github.com/jdvergara/extractora-api/internal/domain/repository"
	"github.com/jdvergara/extractora-api/pkg/logger"
)

// CarryForwardInput entrada para un día sin producción: no hay mediciones
// frescas, solo la fecha y las correcciones del día.
type CarryForwardInput struct {
	Domain      entity.StorageDomain
	Date        time.Time
	Corrections entity.Corrections
	UserID      string
}

// CarryForwardUseCase deriva el inventario de un día sin medición a partir
// del registro del día anterior menos los despachos de venta del día.
//
// Los pasos tienen dependencia estricta de datos (registro anterior →
// despachos → cantidades derivadas → persistencia) y se ejecutan en
// secuencia; cualquier falla de un colaborador externo aborta el arrastre
// completo sin persistir nada parcial.
type CarryForwardUseCase struct {
	records        repository.StockRecordRepository
	txRunner       TxRunner
	unitRepo       repository.StorageUnitRepository
	densityRepo    repository.DensityRepository
	salesFeed      SalesFeed
	defaultDensity decimal.Decimal
	log            *logger.Logger
}

// NewCarryForwardUseCase construye el caso de uso.
func NewCarryForwardUseCase(
	records repository.StockRecordRepository,
	txRunner TxRunner,
	unitRepo repository.StorageUnitRepository,
	densityRepo repository.DensityRepository,
	salesFeed SalesFeed,
	defaultDensity decimal.Decimal,
	log *logger.Logger,
) *CarryForwardUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &CarryForwardUseCase{
		records:        records,
		txRunner:       txRunner,
		unitRepo:       unitRepo,
		densityRepo:    densityRepo,
		salesFeed:      salesFeed,
		defaultDensity: defaultDensity,
		log:            log,
	}
}

// Execute arrastra el inventario del día anterior al día indicado.
//
// Convención de resta heredada del libro de báscula: el escalar total de
// despachos del día se resta de la cantidad previa de CADA unidad medida,
// de forma independiente. Cuando hay más de una unidad arrastrada se deja
// constancia en el log (ver DESIGN.md, decisión de prorrateo).
func (uc *CarryForwardUseCase) Execute(ctx context.Context, in CarryForwardInput) (*entity.DailyStockRecord, error) {
	if !in.Domain.Valid() || in.Date.IsZero() {
		return nil, domain.ErrInvalidInput
	}
	date := entity.DateOnly(in.Date)

	// 1. Registro del día calendario anterior.
	prev, err := uc.records.GetByDate(ctx, in.Domain, date.AddDate(0, 0, -1))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%s %s: %w", in.Domain, date.Format("2006-01-02"), domain.ErrNoPreviousRecord)
		}
		return nil, fmt.Errorf("cargar registro anterior: %w", err)
	}

	// 2. Despachos de venta del día (escalar, en toneladas).
	sales, err := uc.salesFeed.SalesForDate(ctx, in.Domain, date)
	if err != nil {
		return nil, fmt.Errorf("despachos de %s: %w: %v", date.Format("2006-01-02"), domain.ErrFeedUnavailable, err)
	}

	units, err := uc.unitRepo.ListByDomain(ctx, in.Domain)
	if err != nil {
		return nil, fmt.Errorf("cargar unidades de %s: %w", in.Domain, err)
	}
	rows, err := uc.densityRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("cargar tabla de densidad: %w", err)
	}
	table := conversion.NewDensityTable(rows, uc.defaultDensity)

	unitByID := make(map[int]entity.StorageUnit, len(units))
	for _, u := range units {
		unitByID[u.ID] = u
	}

	measured := 0
	for _, r := range prev.Readings {
		if r.Measured() {
			measured++
		}
	}
	if measured > 1 && sales.GreaterThan(decimal.Zero) {
		uc.log.Warn().
			Str("domain", string(in.Domain)).
			Int("units", measured).
			Str("sales", sales.String()).
			Msg("arrastre con varias unidades: el total de despachos se resta de cada unidad por separado")
	}

	record := &entity.DailyStockRecord{
		ID:          uuid.New().String(),
		Domain:      in.Domain,
		Date:        date,
		Mode:        entity.ModeNoProduction,
		Corrections: in.Corrections,
		CreatedBy:   in.UserID,
	}

	// 3 y 4. Cantidad tras venta por unidad y nivel derivado por conversión
	// inversa a la temperatura del día anterior (solo tanques).
	total := decimal.Zero
	for _, unit := range units {
		reading := entity.DailyReading{UnitID: unit.ID}
		prevReading := prev.Reading(unit.ID)
		if prevReading != nil && prevReading.Measured() {
			after := prevReading.Quantity.Sub(sales)
			if after.IsNegative() {
				uc.log.Warn().
					Int("unit_id", unit.ID).
					Str("after_sale", after.String()).
					Msg("cantidad tras venta negativa, revisar despachos del día")
			}
			qty := after
			reading.Quantity = &qty
			reading.Temperature = prevReading.Temperature
			reading.Quality = prevReading.Quality
			if unit.Kind == entity.UnitKindTank && prevReading.Temperature != nil {
				level, defaulted, err := conversion.Reverse(unit, after, *prevReading.Temperature, table)
				if err != nil {
					return nil, fmt.Errorf("nivel derivado de unidad %d: %w", unit.ID, err)
				}
				reading.Level = &level
				reading.DensityDefaulted = defaulted
			}
			record.IncludedUnits = append(record.IncludedUnits, unit.ID)
			total = total.Add(after)
		}
		record.Readings = append(record.Readings, reading)
	}

	record.TotalQuantity = total.Add(in.Corrections.Skim)

	if err := ValidateInclusion(record); err != nil {
		return nil, err
	}

	// 5. Persistencia atómica del registro derivado.
	err = uc.txRunner.Run(ctx, func(records repository.StockRecordRepository) error {
		return records.Upsert(ctx, record)
	})
	if err != nil {
		return nil, fmt.Errorf("persistir arrastre: %w", err)
	}
	return record, nil
}
