package reconciliation

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jdvergara/extractora-api/internal/domain/entity"
	"github.com/jdvergara/extractora-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando un
// repositorio de registros atado a esa tx. Garantiza que el registro del día
// y sus lecturas se escriben como una unidad: nunca queda estado parcial.
type TxRunner interface {
	Run(ctx context.Context, fn func(records repository.StockRecordRepository) error) error
}

// SalesFeed es el colaborador externo con los despachos de venta del día.
// Devuelve la masa vendida en toneladas: la conversión de unidades (kg del
// ERP → ton del motor) ocurre una sola vez, en el adaptador.
type SalesFeed interface {
	SalesForDate(ctx context.Context, d entity.StorageDomain, date time.Time) (decimal.Decimal, error)
}

// ProductionFeed es el colaborador externo con la fruta procesada del día
// (masa de materia prima, en toneladas). La ausencia de registro para la
// fecha se trata como cero, no como error.
type ProductionFeed interface {
	IntakeForDate(ctx context.Context, date time.Time) (decimal.Decimal, error)
}
