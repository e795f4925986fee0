package repository

import (
	"context"
	"time"

	"github.com/jdvergara/extractora-api/internal/domain/entity"
)

// StockRecordRepository define el puerto de persistencia del registro diario
// de inventario. El motor solo consulta por fecha exacta o por "más
// reciente"; los barridos por rango pertenecen a AnalyticsRepository.
type StockRecordRepository interface {
	// GetByDate devuelve el registro de (domain, date) o domain.ErrNotFound.
	GetByDate(ctx context.Context, d entity.StorageDomain, date time.Time) (*entity.DailyStockRecord, error)
	// GetLatest devuelve el registro más reciente del dominio (desempate
	// determinista: fecha desc, id desc) o domain.ErrNotFound.
	GetLatest(ctx context.Context, d entity.StorageDomain) (*entity.DailyStockRecord, error)
	// Upsert inserta o reemplaza el registro del día de forma atómica:
	// dos envíos concurrentes del mismo día nunca entremezclan campos.
	Upsert(ctx context.Context, record *entity.DailyStockRecord) error
}
