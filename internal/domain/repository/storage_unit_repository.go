package repository

import (
	"context"

	"github.com/jdvergara/extractora-api/internal/domain/entity"
)

// StorageUnitRepository acceso de solo lectura a los perfiles de tanques y
// silos. La mutación es una acción administrativa fuera del motor.
type StorageUnitRepository interface {
	ListByDomain(ctx context.Context, d entity.StorageDomain) ([]entity.StorageUnit, error)
}
