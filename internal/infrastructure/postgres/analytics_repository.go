package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jdvergara/extractora-api/internal/domain/entity"
	"github.com/jdvergara/extractora-api/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas de solo lectura para la serie histórica del
// tablero. Fuera del núcleo del motor: nunca escribe.
type AnalyticsRepo struct {
	pool *pgxpool.Pool
}

// NewAnalyticsRepository construye el adaptador de analítica.
func NewAnalyticsRepository(pool *pgxpool.Pool) *AnalyticsRepo {
	return &AnalyticsRepo{pool: pool}
}

// TotalsInRange devuelve los totales diarios persistidos del dominio en el
// rango [from, to], ordenados por fecha ascendente.
func (r *AnalyticsRepo) TotalsInRange(
	ctx context.Context,
	d entity.StorageDomain,
	from, to time.Time,
) ([]repository.TrendPoint, error) {
	const query = `
	SELECT record_date, mode, total_quantity
	FROM daily_stock_records
	WHERE domain = $1
	  AND record_date BETWEEN $2 AND $3
	ORDER BY record_date`

	rows, err := r.pool.Query(ctx, query, string(d), entity.DateOnly(from), entity.DateOnly(to))
	if err != nil {
		return nil, fmt.Errorf("analytics.TotalsInRange: %w", err)
	}
	defer rows.Close()

	var points []repository.TrendPoint
	for rows.Next() {
		var p repository.TrendPoint
		if err := rows.Scan(&p.Date, &p.Mode, &p.TotalQuantity); err != nil {
			return nil, fmt.Errorf("analytics.TotalsInRange scan: %w", err)
		}
		p.Date = entity.DateOnly(p.Date)
		points = append(points, p)
	}
	return points, rows.Err()
}
