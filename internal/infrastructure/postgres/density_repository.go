package postgres

import (
	"context"
	"fmt"

	"github.com/jdvergara/extractora-api/internal/domain/entity"
	"github.com/jdvergara/extractora-api/internal/domain/repository"
)

var _ repository.DensityRepository = (*DensityRepo)(nil)

// DensityRepo lectura de la tabla de densidad de referencia
// (density_reference: una fila por grado entero de temperatura).
type DensityRepo struct {
	q Querier
}

// NewDensityRepository construye el adaptador.
func NewDensityRepository(q Querier) *DensityRepo {
	return &DensityRepo{q: q}
}

// ListAll devuelve todas las entradas de densidad.
func (r *DensityRepo) ListAll(ctx context.Context) ([]entity.DensityEntry, error) {
	rows, err := r.q.Query(ctx, `SELECT temperature_int, density FROM density_reference ORDER BY temperature_int`)
	if err != nil {
		return nil, fmt.Errorf("list density reference: %w", err)
	}
	defer rows.Close()

	var entries []entity.DensityEntry
	for rows.Next() {
		var e entity.DensityEntry
		if err := rows.Scan(&e.TemperatureInt, &e.Density); err != nil {
			return nil, fmt.Errorf("scan density entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
