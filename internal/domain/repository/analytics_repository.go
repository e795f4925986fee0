package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jdvergara/extractora-api/internal/domain/entity"
)

// TrendPoint es un total diario persistido, para la serie histórica.
type TrendPoint struct {
	Date          time.Time
	Mode          string
	TotalQuantity decimal.Decimal
}

// AnalyticsRepository consultas read-only fuera del núcleo del motor:
// la serie de totales para graficar tendencia.
type AnalyticsRepository interface {
	TotalsInRange(ctx context.Context, d entity.StorageDomain, from, to time.Time) ([]TrendPoint, error)
}
