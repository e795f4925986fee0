package conversion

import (
	"github.com/shopspring/decimal"

	"github.com/jdvergara/extractora-api/internal/domain/entity"
)

// DensityTable es la tabla de densidad relativa indexada por grado entero,
// con una densidad por defecto como política de respaldo. Inmutable después
// de construida; segura para lectura concurrente.
type DensityTable struct {
	entries map[int]decimal.Decimal
	def     decimal.Decimal
}

// NewDensityTable construye la tabla a partir de las filas de referencia.
// def es la densidad por defecto (política explícita, ver EngineConfig).
func NewDensityTable(rows []entity.DensityEntry, def decimal.Decimal) DensityTable {
	entries := make(map[int]decimal.Decimal, len(rows))
	for _, row := range rows {
		entries[row.TemperatureInt] = row.Density
	}
	return DensityTable{entries: entries, def: def}
}

// Lookup redondea la temperatura al grado entero más cercano y busca la
// densidad. Si no hay entrada devuelve la densidad por defecto con
// defaulted=true: la sustitución nunca es silenciosa, el caller debe
// marcarla o registrarla.
func (t DensityTable) Lookup(temperature decimal.Decimal) (density decimal.Decimal, defaulted bool) {
	key := int(temperature.Round(0).IntPart())
	if d, ok := t.entries[key]; ok {
		return d, false
	}
	return t.def, true
}

// Default expone la densidad de respaldo configurada.
func (t DensityTable) Default() decimal.Decimal {
	return t.def
}

// Len devuelve el número de entradas cargadas.
func (t DensityTable) Len() int {
	return len(t.entries)
}
