package postgres

import (
	"context"
	"fmt"

	"github.com/jdvergara/extractora-api/internal/domain/entity"
	"github.com/jdvergara/extractora-api/internal/domain/repository"
)

var _ repository.StorageUnitRepository = (*StorageUnitRepo)(nil)

// StorageUnitRepo lectura de perfiles de tanques y silos (tabla de
// referencia storage_units, mantenida por configuración).
type StorageUnitRepo struct {
	q Querier
}

// NewStorageUnitRepository construye el adaptador.
func NewStorageUnitRepository(q Querier) *StorageUnitRepo {
	return &StorageUnitRepo{q: q}
}

// ListByDomain devuelve los perfiles del dominio ordenados por id.
func (r *StorageUnitRepo) ListByDomain(ctx context.Context, d entity.StorageDomain) ([]entity.StorageUnit, error) {
	query := `
		SELECT id, domain, kind, name, height, capacity, baseline_reference, multiplier, additive_offset
		FROM storage_units WHERE domain = $1 ORDER BY id`
	rows, err := r.q.Query(ctx, query, string(d))
	if err != nil {
		return nil, fmt.Errorf("list storage units: %w", err)
	}
	defer rows.Close()

	var units []entity.StorageUnit
	for rows.Next() {
		var (
			u   entity.StorageUnit
			dom string
		)
		if err := rows.Scan(
			&u.ID, &dom, &u.Kind, &u.Name,
			&u.Height, &u.Capacity, &u.BaselineReference, &u.Multiplier, &u.AdditiveOffset,
		); err != nil {
			return nil, fmt.Errorf("scan storage unit: %w", err)
		}
		u.Domain = entity.StorageDomain(dom)
		units = append(units, u)
	}
	return units, rows.Err()
}
