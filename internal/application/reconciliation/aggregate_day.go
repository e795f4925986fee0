// Package reconciliation contiene el motor de conciliación diaria de
// inventario: agregación de mediciones, arrastre en días sin producción y
// cálculo de rendimiento.
package reconciliation

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jdvergara/extractora-api/internal/domain"
	"github.com/jdvergara/extractora-api/internal/domain/conversion"
	"github.com/jdvergara/extractora-api/internal/domain/entity"
	"github.com/jdvergara/extractora-api/internal/domain/repository"
	"github.com/jdvergara/extractora-api/pkg/logger"
)

// ReadingInput medición cruda de una unidad tal como llega del formulario
// de báscula/laboratorio. Level y Temperature pueden faltar por separado.
type ReadingInput struct {
	UnitID      int
	Level       *decimal.Decimal
	Temperature *decimal.Decimal
	Quality     map[string]string
}

// DayInput entrada para agregar un día con mediciones frescas.
type DayInput struct {
	Domain        entity.StorageDomain
	Date          time.Time
	IncludedUnits []int
	Readings      []ReadingInput
	Corrections   entity.Corrections
	UserID        string
}

// AggregateDayUseCase convierte las mediciones del día en cantidades,
// aplica la selección included_units y persiste el registro diario con su
// total derivado. Re-ejecutar con la misma entrada produce el mismo
// registro (idempotente por fecha).
type AggregateDayUseCase struct {
	txRunner       TxRunner
	unitRepo       repository.StorageUnitRepository
	densityRepo    repository.DensityRepository
	defaultDensity decimal.Decimal
	log            *logger.Logger
}

// NewAggregateDayUseCase construye el caso de uso.
func NewAggregateDayUseCase(
	txRunner TxRunner,
	unitRepo repository.StorageUnitRepository,
	densityRepo repository.DensityRepository,
	defaultDensity decimal.Decimal,
	log *logger.Logger,
) *AggregateDayUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &AggregateDayUseCase{
		txRunner:       txRunner,
		unitRepo:       unitRepo,
		densityRepo:    densityRepo,
		defaultDensity: defaultDensity,
		log:            log,
	}
}

// Execute calcula y persiste el registro del día en modo production.
//
// Para cada unidad incluida se deriva la cantidad con el conversor; las
// unidades NO incluidas quedan con todos los campos de lectura en nil antes
// de persistir. El total es siempre Σ(cantidades incluidas) + skim.
func (uc *AggregateDayUseCase) Execute(ctx context.Context, in DayInput) (*entity.DailyStockRecord, error) {
	if !in.Domain.Valid() || in.Date.IsZero() {
		return nil, domain.ErrInvalidInput
	}

	units, err := uc.unitRepo.ListByDomain(ctx, in.Domain)
	if err != nil {
		return nil, fmt.Errorf("cargar unidades de %s: %w", in.Domain, err)
	}
	if err := validateIncluded(in.IncludedUnits, units); err != nil {
		return nil, err
	}

	table, err := uc.loadDensityTable(ctx)
	if err != nil {
		return nil, err
	}

	byUnit := make(map[int]ReadingInput, len(in.Readings))
	for _, r := range in.Readings {
		byUnit[r.UnitID] = r
	}

	record := &entity.DailyStockRecord{
		ID:            uuid.New().String(),
		Domain:        in.Domain,
		Date:          entity.DateOnly(in.Date),
		Mode:          entity.ModeProduction,
		IncludedUnits: sortedCopy(in.IncludedUnits),
		Corrections:   in.Corrections,
		CreatedBy:     in.UserID,
	}

	total := decimal.Zero
	for _, unit := range units {
		reading := entity.DailyReading{UnitID: unit.ID}
		if record.IsIncluded(unit.ID) {
			raw := byUnit[unit.ID]
			reading.Level = raw.Level
			reading.Temperature = raw.Temperature
			reading.Quality = raw.Quality
			if res := conversion.Forward(unit, raw.Level, raw.Temperature, table); res != nil {
				qty := res.Quantity
				reading.Quantity = &qty
				reading.DensityDefaulted = res.DensityDefaulted
				total = total.Add(qty)
				if res.DensityDefaulted {
					uc.log.Warn().
						Int("unit_id", unit.ID).
						Str("density", table.Default().String()).
						Msg("temperatura sin entrada en la tabla, densidad por defecto aplicada")
				}
			}
		}
		record.Readings = append(record.Readings, reading)
	}

	record.TotalQuantity = total.Add(in.Corrections.Skim)

	if err := ValidateInclusion(record); err != nil {
		return nil, err
	}

	err = uc.txRunner.Run(ctx, func(records repository.StockRecordRepository) error {
		return records.Upsert(ctx, record)
	})
	if err != nil {
		return nil, fmt.Errorf("persistir registro del día: %w", err)
	}
	return record, nil
}

// ValidateInclusion verifica el contrato de inclusión antes de persistir:
// toda unidad fuera de included_units debe tener la lectura completamente
// nula. Una violación es un bug del programa, no un error de negocio.
func ValidateInclusion(record *entity.DailyStockRecord) error {
	for _, r := range record.Readings {
		if record.IsIncluded(r.UnitID) {
			continue
		}
		if r.Level != nil || r.Temperature != nil || r.Quantity != nil || len(r.Quality) > 0 {
			return fmt.Errorf("unidad %d: %w", r.UnitID, domain.ErrInclusionViolation)
		}
	}
	return nil
}

func (uc *AggregateDayUseCase) loadDensityTable(ctx context.Context) (conversion.DensityTable, error) {
	rows, err := uc.densityRepo.ListAll(ctx)
	if err != nil {
		return conversion.DensityTable{}, fmt.Errorf("cargar tabla de densidad: %w", err)
	}
	return conversion.NewDensityTable(rows, uc.defaultDensity), nil
}

func validateIncluded(included []int, units []entity.StorageUnit) error {
	known := make(map[int]bool, len(units))
	for _, u := range units {
		known[u.ID] = true
	}
	for _, id := range included {
		if !known[id] {
			return fmt.Errorf("unidad %d no configurada: %w", id, domain.ErrInvalidInput)
		}
	}
	return nil
}

func sortedCopy(ids []int) []int {
	out := make([]int, len(ids))
	copy(out, ids)
	sort.Ints(out)
	return out
}
