package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jdvergara/extractora-api/internal/domain"
	"github.com/jdvergara/extractora-api/internal/domain/entity"
	"github.com/jdvergara/extractora-api/internal/domain/repository"
)

var _ repository.StockRecordRepository = (*StockRecordRepo)(nil)

// StockRecordRepo implementación de StockRecordRepository sobre PostgreSQL
// (usable con pool o tx). Tablas: daily_stock_records + daily_stock_readings.
type StockRecordRepo struct {
	q Querier
}

// NewStockRecordRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockRecordRepository(q Querier) *StockRecordRepo {
	return &StockRecordRepo{q: q}
}

const recordColumns = `
	id, domain, record_date, mode, included_units,
	skim, mix, loop_back, total_quantity, created_by, created_at, updated_at`

// GetByDate obtiene el registro del día exacto para el dominio.
func (r *StockRecordRepo) GetByDate(ctx context.Context, d entity.StorageDomain, date time.Time) (*entity.DailyStockRecord, error) {
	query := `SELECT` + recordColumns + `
		FROM daily_stock_records WHERE domain = $1 AND record_date = $2`
	return r.getOne(ctx, query, string(d), entity.DateOnly(date))
}

// GetLatest obtiene el registro más reciente del dominio (fecha desc, id
// desc como desempate determinista).
func (r *StockRecordRepo) GetLatest(ctx context.Context, d entity.StorageDomain) (*entity.DailyStockRecord, error) {
	query := `SELECT` + recordColumns + `
		FROM daily_stock_records WHERE domain = $1
		ORDER BY record_date DESC, id DESC LIMIT 1`
	return r.getOne(ctx, query, string(d))
}

func (r *StockRecordRepo) getOne(ctx context.Context, query string, args ...any) (*entity.DailyStockRecord, error) {
	var (
		rec      entity.DailyStockRecord
		dom      string
		included []int32
	)
	err := r.q.QueryRow(ctx, query, args...).Scan(
		&rec.ID, &dom, &rec.Date, &rec.Mode, &included,
		&rec.Corrections.Skim, &rec.Corrections.Mix, &rec.Corrections.LoopBack,
		&rec.TotalQuantity, &rec.CreatedBy, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get stock record: %w", err)
	}
	rec.Domain = entity.StorageDomain(dom)
	rec.Date = entity.DateOnly(rec.Date)
	for _, id := range included {
		rec.IncludedUnits = append(rec.IncludedUnits, int(id))
	}
	if err := r.loadReadings(ctx, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *StockRecordRepo) loadReadings(ctx context.Context, rec *entity.DailyStockRecord) error {
	query := `
		SELECT unit_id, level, temperature, quantity, density_defaulted, quality
		FROM daily_stock_readings WHERE record_id = $1 ORDER BY unit_id`
	rows, err := r.q.Query(ctx, query, rec.ID)
	if err != nil {
		return fmt.Errorf("get readings: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			reading     entity.DailyReading
			level       decimal.NullDecimal
			temperature decimal.NullDecimal
			quantity    decimal.NullDecimal
			quality     []byte
		)
		if err := rows.Scan(
			&reading.UnitID, &level, &temperature, &quantity,
			&reading.DensityDefaulted, &quality,
		); err != nil {
			return fmt.Errorf("scan reading: %w", err)
		}
		reading.Level = fromNull(level)
		reading.Temperature = fromNull(temperature)
		reading.Quantity = fromNull(quantity)
		if len(quality) > 0 {
			if err := json.Unmarshal(quality, &reading.Quality); err != nil {
				return fmt.Errorf("quality de unidad %d: %w", reading.UnitID, err)
			}
		}
		rec.Readings = append(rec.Readings, reading)
	}
	return rows.Err()
}

// Upsert inserta o reemplaza el registro del día. La clave natural es
// (domain, record_date): reenviar un día conserva el id original, y las
// lecturas se reescriben completas dentro de la misma transacción para que
// nunca se mezclen campos de dos envíos.
func (r *StockRecordRepo) Upsert(ctx context.Context, rec *entity.DailyStockRecord) error {
	included := make([]int32, 0, len(rec.IncludedUnits))
	for _, id := range rec.IncludedUnits {
		included = append(included, int32(id))
	}

	query := `
		INSERT INTO daily_stock_records
			(id, domain, record_date, mode, included_units, skim, mix, loop_back, total_quantity, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now(), now())
		ON CONFLICT (domain, record_date) DO UPDATE SET
			mode            = EXCLUDED.mode,
			included_units  = EXCLUDED.included_units,
			skim            = EXCLUDED.skim,
			mix             = EXCLUDED.mix,
			loop_back       = EXCLUDED.loop_back,
			total_quantity  = EXCLUDED.total_quantity,
			updated_at      = now()
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		rec.ID, string(rec.Domain), entity.DateOnly(rec.Date), rec.Mode, included,
		rec.Corrections.Skim, rec.Corrections.Mix, rec.Corrections.LoopBack,
		rec.TotalQuantity, rec.CreatedBy,
	).Scan(&rec.ID)
	if err != nil {
		return fmt.Errorf("upsert stock record: %w", err)
	}

	if _, err := r.q.Exec(ctx, `DELETE FROM daily_stock_readings WHERE record_id = $1`, rec.ID); err != nil {
		return fmt.Errorf("limpiar lecturas previas: %w", err)
	}
	for _, reading := range rec.Readings {
		var quality []byte
		if len(reading.Quality) > 0 {
			b, err := json.Marshal(reading.Quality)
			if err != nil {
				return fmt.Errorf("quality de unidad %d: %w", reading.UnitID, err)
			}
			quality = b
		}
		_, err := r.q.Exec(ctx, `
			INSERT INTO daily_stock_readings
				(record_id, unit_id, level, temperature, quantity, density_defaulted, quality)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			rec.ID, reading.UnitID,
			toNull(reading.Level), toNull(reading.Temperature), toNull(reading.Quantity),
			reading.DensityDefaulted, quality,
		)
		if err != nil {
			return fmt.Errorf("insert reading unidad %d: %w", reading.UnitID, err)
		}
	}
	return nil
}

func fromNull(d decimal.NullDecimal) *decimal.Decimal {
	if !d.Valid {
		return nil
	}
	v := d.Decimal
	return &v
}

func toNull(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}
