package repository

import (
	"context"

	"github.com/jdvergara/extractora-api/internal/domain/entity"
)

// DensityRepository carga la tabla de densidad de referencia (una fila por
// grado entero). Solo lectura.
type DensityRepository interface {
	ListAll(ctx context.Context) ([]entity.DensityEntry, error)
}
