package entity

import "github.com/shopspring/decimal"

// DensityEntry es una fila de la tabla de densidad relativa del CPO:
// una entrada por grado entero de temperatura. La búsqueda es por
// coincidencia exacta después de redondear la temperatura medida.
type DensityEntry struct {
	TemperatureInt int
	Density        decimal.Decimal
}
